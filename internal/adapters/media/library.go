// Package media scans and serves the gallery's video directory.
package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/smashden/smashden/internal/domain/types"
)

// defaultExtensions are the video containers the gallery recognizes.
var defaultExtensions = []string{".mp4", ".webm", ".mov", ".m4v", ".mkv"}

// Library lists the video files of a single flat directory. Files are
// served exactly as stored; anything that is not a recognized video is
// invisible to the gallery.
type Library struct {
	dir        string
	urlPrefix  string
	extensions map[string]struct{}
}

// NewLibrary creates a library over dir. URLs in listings are rooted at
// the /media/ prefix unless overridden.
func NewLibrary(dir string, opts ...Option) *Library {
	l := &Library{
		dir:        dir,
		urlPrefix:  "/media/",
		extensions: make(map[string]struct{}, len(defaultExtensions)),
	}
	for _, ext := range defaultExtensions {
		l.extensions[ext] = struct{}{}
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// List returns the gallery's videos, newest first. A missing directory is
// an empty gallery, not an error.
func (l *Library) List(_ context.Context) ([]types.MediaFile, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []types.MediaFile{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrScanMedia, err)
	}

	files := make([]types.MediaFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !l.allowed(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// The file disappeared between the scan and the stat.
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrScanMedia, err)
		}
		files = append(files, types.MediaFile{
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			URL:     l.urlPrefix + url.PathEscape(entry.Name()),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if !files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].ModTime.After(files[j].ModTime)
		}
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// allowed reports whether name has a recognized video extension.
func (l *Library) allowed(name string) bool {
	_, ok := l.extensions[strings.ToLower(filepath.Ext(name))]
	return ok
}
