package tui

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-vgenform/pkg/model"
)

// LocalFile resolves a path on the local filesystem. The handle's Ref is a
// file:// URL of the absolute path.
func LocalFile(path string) (*model.FileHandle, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("tui: resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("tui: stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("tui: %s: %w", path, ErrNoFile)
	}
	return &model.FileHandle{
		Name:        filepath.Base(abs),
		ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(abs))),
		Size:        info.Size(),
		Ref:         "file://" + filepath.ToSlash(abs),
	}, nil
}
