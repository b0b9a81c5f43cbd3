package tui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type fileEntry struct {
	Name string
	Kind string // "Dir", "File", "Symlink" or "Unknown"
	Path string
}

func (f *fileEntry) isDir() bool { return f.Kind == "Dir" }

// listFiles reads dir for the add-task file picker. "." and ".." are
// pinned first, then directories before files, case-insensitive within
// each group.
func listFiles(dir string) []fileEntry {
	items := []fileEntry{
		{Name: ".", Kind: "Dir", Path: dir},
		{Name: "..", Kind: "Dir", Path: filepath.Join(dir, "..")},
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return items
	}
	for _, entry := range entries {
		kind := "Unknown"
		switch {
		case entry.IsDir():
			kind = "Dir"
		case entry.Type().IsRegular():
			kind = "File"
		case entry.Type()&os.ModeSymlink != 0:
			kind = "Symlink"
		}
		items = append(items, fileEntry{
			Name: entry.Name(),
			Kind: kind,
			Path: filepath.Join(dir, entry.Name()),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		aDot := a.Name == "." || a.Name == ".."
		bDot := b.Name == "." || b.Name == ".."
		switch {
		case aDot && bDot:
			return a.Name < b.Name
		case aDot:
			return true
		case bDot:
			return false
		case a.Kind == b.Kind:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case a.Kind == "Dir":
			return true
		case b.Kind == "Dir":
			return false
		}
		return false
	})
	return items
}

// validateURL accepts the URI schemes the server knows how to download.
func validateURL(raw string) bool {
	for _, prefix := range []string{
		"http://", "https://", "ftp://", "ftps://", "sftp://",
		"magnet:", "thunder://", "flashget://", "qqdl://",
	} {
		if strings.HasPrefix(raw, prefix) {
			return true
		}
	}
	return false
}
