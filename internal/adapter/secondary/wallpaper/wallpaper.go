// Package wallpaper provides platform-specific desktop background accessors.
package wallpaper

import (
	"runtime"

	"github.com/sou1ka/wallpaper-changer/internal/domain"
	"github.com/sou1ka/wallpaper-changer/internal/logging"
)

// New returns the wallpaper controller for the current platform. Unsupported
// platforms get a no-op controller so the rest of the app still runs.
func New() domain.WallpaperController {
	switch runtime.GOOS {
	case "darwin":
		return NewAppleScriptController()
	case "linux":
		return NewGSettingsController()
	default:
		logging.Warnf("no wallpaper controller for %s, using noop", runtime.GOOS)
		return NewNoopController()
	}
}
