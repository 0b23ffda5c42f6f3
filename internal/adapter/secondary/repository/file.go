package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sou1ka/wallpaper-changer/internal/domain"
	"github.com/sou1ka/wallpaper-changer/internal/logging"
)

// FileRepository implements domain.ConfigRepository using a JSON file.
// This is a secondary adapter.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileRepository creates a new file-based config repository.
func NewFileRepository(path string) (*FileRepository, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	return &FileRepository{path: path}, nil
}

// persistedData represents the JSON structure on disk. Field names follow the
// historical config.json schema, so existing files keep working.
type persistedData struct {
	Interval             *int64   `json:"interval"`
	StartDt              string   `json:"startDt,omitempty"`
	EndDt                string   `json:"endDt,omitempty"`
	// No omitempty on weekly/monthly: nil (unrestricted) and empty (matches
	// no day, rotation never runs) must stay distinguishable at rest, so
	// nil persists as null and empty as [].
	Weekly               []string `json:"weekly"`
	Monthly              []int    `json:"monthly"`
	DefaultWallpaperPath string   `json:"defaultWallpaperPath,omitempty"`
	FileTargets          []string `json:"fileTargets"`
	Random               bool     `json:"random"`
	WindowWidth          int      `json:"windowWidth,omitempty"`
	WindowHeight         int      `json:"windowHeight,omitempty"`
	WindowMinimized      bool     `json:"windowMinimized,omitempty"`
}

// Load reads the configuration from disk. A missing, unreadable, or corrupt
// file yields the defaults; the rotation loop never sees a load failure.
func (f *FileRepository) Load() (domain.Config, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Warnf("read config %s: %v (using defaults)", f.path, err)
		}
		return domain.DefaultConfig(), nil
	}

	var persisted persistedData
	if err := json.Unmarshal(data, &persisted); err != nil {
		logging.Warnf("parse config %s: %v (using defaults)", f.path, err)
		return domain.DefaultConfig(), nil
	}

	config := domain.Config{
		StartTime:        persisted.StartDt,
		EndTime:          persisted.EndDt,
		Weekly:           persisted.Weekly,
		Monthly:          persisted.Monthly,
		DefaultWallpaper: persisted.DefaultWallpaperPath,
		FileTargets:      persisted.FileTargets,
		Random:           persisted.Random,
		WindowWidth:      persisted.WindowWidth,
		WindowHeight:     persisted.WindowHeight,
		WindowMinimized:  persisted.WindowMinimized,
	}

	// A missing interval key means the default. An explicit 0 is kept as-is;
	// the loop coerces it to the default on every cycle without rewriting
	// the stored value.
	if persisted.Interval == nil {
		config.Interval = domain.DefaultInterval
	} else {
		config.Interval = time.Duration(*persisted.Interval) * time.Second
	}

	return config, nil
}

// Save persists the configuration to disk atomically. Target paths are
// deduplicated here, at the point of modification.
func (f *FileRepository) Save(config domain.Config) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	seconds := int64(config.Interval / time.Second)
	persisted := persistedData{
		Interval:             &seconds,
		StartDt:              config.StartTime,
		EndDt:                config.EndTime,
		Weekly:               config.Weekly,
		Monthly:              config.Monthly,
		DefaultWallpaperPath: config.DefaultWallpaper,
		FileTargets:          domain.DedupeTargets(config.FileTargets),
		Random:               config.Random,
		WindowWidth:          config.WindowWidth,
		WindowHeight:         config.WindowHeight,
		WindowMinimized:      config.WindowMinimized,
	}
	if persisted.FileTargets == nil {
		persisted.FileTargets = []string{}
	}

	data, err := json.MarshalIndent(persisted, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	// Atomic write
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename tmp: %w", err)
	}

	return nil
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "wallpaper-changer", "config.json")
}
