// Package artifacts checks the presence of circuit and key files on disk.
package artifacts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ZKNoxHQ/ksig-bridge/domain/ports"
)

// ErrNotRegular is returned when an artifact path names a directory or other
// non-regular file.
var ErrNotRegular = errors.New("not a regular file")

type inspectorConfig struct {
	fsys fs.StatFS // nil means the host filesystem
}

// InspectorOption configures a FileInspector.
type InspectorOption func(*inspectorConfig)

// WithFS inspects paths inside fsys instead of the host filesystem.
// Paths must then be valid fs.FS paths (slash separated, unrooted).
func WithFS(fsys fs.StatFS) InspectorOption {
	return func(c *inspectorConfig) {
		c.fsys = fsys
	}
}

// FileInspector reports whether artifact files exist. It only stats paths and
// never opens them.
type FileInspector struct {
	config inspectorConfig
}

// NewFileInspector creates a FileInspector with the given options.
func NewFileInspector(opts ...InspectorOption) ports.ArtifactInspector {
	var cfg inspectorConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &FileInspector{config: cfg}
}

// Inspect returns nil when path names an existing regular file.
func (p *FileInspector) Inspect(path string) error {
	if path == "" {
		return fs.ErrInvalid
	}

	var (
		info fs.FileInfo
		err  error
	)
	if p.config.fsys != nil {
		info, err = p.config.fsys.Stat(path)
	} else {
		info, err = os.Stat(path)
	}
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	if !info.Mode().IsRegular() {
		return ErrNotRegular
	}
	return nil
}
