// Package targets collects image files for the rotation target list.
package targets

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/sou1ka/wallpaper-changer/internal/domain"
)

var imageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".bmp":  {},
	".gif":  {},
	".webp": {},
}

// IsImage reports whether path carries a recognized image extension,
// case-insensitively.
func IsImage(path string) bool {
	_, ok := imageExts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Collect expands each given path into the image files it denotes: a file is
// taken as-is when it is an image, a directory is walked recursively.
// Encounter order is preserved. A path or subtree that cannot be read
// contributes nothing; the rest of the collection proceeds.
func Collect(fsys afero.Fs, paths []string) []string {
	var out []string
	for _, p := range paths {
		collectInto(fsys, p, &out)
	}
	return out
}

func collectInto(fsys afero.Fs, path string, out *[]string) {
	info, err := fsys.Stat(path)
	if err != nil {
		return
	}
	if !info.IsDir() {
		if IsImage(path) {
			*out = append(*out, path)
		}
		return
	}
	entries, err := afero.ReadDir(fsys, path)
	if err != nil {
		return
	}
	for _, entry := range entries {
		child := filepath.Join(path, entry.Name())
		if entry.IsDir() {
			collectInto(fsys, child, out)
		} else if IsImage(child) {
			*out = append(*out, child)
		}
	}
}

// Merge appends found paths to existing, deduplicating by path equality.
// Neither input slice is modified.
func Merge(existing, found []string) []string {
	merged := make([]string, 0, len(existing)+len(found))
	merged = append(merged, existing...)
	merged = append(merged, found...)
	return domain.DedupeTargets(merged)
}

// Remove returns existing without path. The remaining order is unchanged.
func Remove(existing []string, path string) []string {
	out := make([]string, 0, len(existing))
	for _, p := range existing {
		if p != path {
			out = append(out, p)
		}
	}
	return out
}
