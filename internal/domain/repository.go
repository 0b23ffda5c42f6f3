package domain

// ConfigRepository is a secondary port that defines how to persist configuration.
// This interface is defined in the domain layer and implemented by adapters.
type ConfigRepository interface {
	Load() (Config, error)
	Save(config Config) error
}

// WallpaperController is a secondary port that defines how to read and apply
// the desktop background. Both operations are best-effort at the platform
// boundary; callers treat failures as soft.
type WallpaperController interface {
	Current() (string, error)
	Set(path string) error
}
