package wallpaper

import "github.com/sou1ka/wallpaper-changer/internal/domain"

// NoopController implements domain.WallpaperController with no-op behavior.
// Useful for testing or platforms without a supported desktop.
type NoopController struct{}

// NewNoopController creates a new no-op wallpaper controller.
func NewNoopController() domain.WallpaperController {
	return &NoopController{}
}

// Current reports no wallpaper.
func (n *NoopController) Current() (string, error) {
	return "", nil
}

// Set does nothing and always succeeds.
func (n *NoopController) Set(path string) error {
	return nil
}
