package wallpaper

import (
	"fmt"
	"net/url"
	"os/exec"
	"strings"

	"github.com/sou1ka/wallpaper-changer/internal/domain"
)

const backgroundSchema = "org.gnome.desktop.background"

// GSettingsController implements domain.WallpaperController for GNOME
// desktops through the gsettings command. This is a secondary adapter.
type GSettingsController struct{}

// NewGSettingsController creates a new gsettings wallpaper controller.
func NewGSettingsController() domain.WallpaperController {
	return &GSettingsController{}
}

// Current returns the path behind the picture-uri key.
func (g *GSettingsController) Current() (string, error) {
	cmd := exec.Command("gsettings", "get", backgroundSchema, "picture-uri")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("gsettings failed: %w, output: %s", err, string(output))
	}
	return uriToPath(string(output)), nil
}

// Set points both the light and dark picture-uri keys at path.
func (g *GSettingsController) Set(path string) error {
	uri := pathToURI(path)
	for _, key := range []string{"picture-uri", "picture-uri-dark"} {
		cmd := exec.Command("gsettings", "set", backgroundSchema, key, uri)
		output, err := cmd.CombinedOutput()
		if err != nil {
			return fmt.Errorf("gsettings failed: %w, output: %s", err, string(output))
		}
	}
	return nil
}

// uriToPath turns gsettings output like 'file:///home/a/b%20c.png' into a
// filesystem path. Non-file URIs come back as-is minus the quoting.
func uriToPath(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `'"`)
	if !strings.HasPrefix(s, "file://") {
		return s
	}
	s = strings.TrimPrefix(s, "file://")
	if unescaped, err := url.PathUnescape(s); err == nil {
		return unescaped
	}
	return s
}

func pathToURI(path string) string {
	u := url.URL{Scheme: "file", Path: path}
	return u.String()
}
