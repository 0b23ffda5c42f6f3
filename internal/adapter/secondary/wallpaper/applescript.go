package wallpaper

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/sou1ka/wallpaper-changer/internal/domain"
)

// AppleScriptController implements domain.WallpaperController using macOS
// osascript. This is a secondary adapter.
type AppleScriptController struct{}

// NewAppleScriptController creates a new AppleScript wallpaper controller.
func NewAppleScriptController() domain.WallpaperController {
	return &AppleScriptController{}
}

// Current returns the path of the desktop picture via System Events.
func (a *AppleScriptController) Current() (string, error) {
	cmd := exec.Command("osascript", "-e",
		`tell application "System Events" to get picture of current desktop`)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("osascript failed: %w, output: %s", err, string(output))
	}
	return strings.TrimSpace(string(output)), nil
}

// Set applies path as the desktop picture via System Events.
func (a *AppleScriptController) Set(path string) error {
	script := fmt.Sprintf(
		`tell application "System Events" to set picture of current desktop to POSIX file %q`, path)
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("osascript failed: %w, output: %s", err, string(output))
	}
	return nil
}
