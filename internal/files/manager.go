package files

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"wbreport/internal/dataprocessing"
	"wbreport/internal/infrastructure"
)

// Manager opens discovered files for the loaders and prepares output
// directories.
type Manager struct {
	logger *slog.Logger
}

// NewManager creates a new file manager instance
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: infrastructure.WithComponent(logger, "file_manager")}
}

// OpenedSources holds open report files. Close releases all of them.
type OpenedSources struct {
	Sources []dataprocessing.Source
	files   []*os.File
}

// Close closes every opened file and returns the joined close errors.
func (o *OpenedSources) Close() error {
	var errs []error
	for _, f := range o.files {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	o.files = nil
	return errors.Join(errs...)
}

// OpenSources opens files in order as loader sources named by their base
// file name. On failure files opened so far are closed.
func (m *Manager) OpenSources(files []FileInfo) (*OpenedSources, error) {
	opened := &OpenedSources{
		Sources: make([]dataprocessing.Source, 0, len(files)),
		files:   make([]*os.File, 0, len(files)),
	}
	for _, fi := range files {
		f, err := os.Open(fi.Path)
		if err != nil {
			_ = opened.Close()
			return nil, fmt.Errorf("failed to open %s: %w", fi.Path, err)
		}
		opened.files = append(opened.files, f)
		opened.Sources = append(opened.Sources, dataprocessing.Source{Name: fi.Name, Reader: f})

		m.logger.Debug("report opened",
			slog.String("path", fi.Path),
			slog.Int64("size_bytes", fi.Size),
			slog.String("period", fi.Period),
			slog.String("market", string(fi.Market)))
	}
	return opened, nil
}

// OpenFile opens a single named file, returning its base name.
func (m *Manager) OpenFile(path string) (*os.File, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, filepath.Base(path), nil
}

// EnsureDirectory creates path and its parents when missing.
func (m *Manager) EnsureDirectory(path string) error {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return fmt.Errorf("%s exists and is not a directory", path)
	case !os.IsNotExist(err):
		return err
	}
	m.logger.Info("creating directory", slog.String("path", path))
	return os.MkdirAll(path, 0755)
}
