package validation

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "wbreport/internal/errors"
	"wbreport/internal/infrastructure"
)

// WorkbookExt is the only accepted input extension. Legacy .xls files are
// not readable by the loader.
const WorkbookExt = ".xlsx"

// lockFilePrefix marks the owner files Excel leaves next to open workbooks.
const lockFilePrefix = "~$"

// FileValidator checks local paths before a CLI run touches them. Failures
// are VALIDATION errors, or STORAGE errors when the file system refuses an
// otherwise valid path.
type FileValidator struct {
	logger *slog.Logger
}

func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: infrastructure.WithComponent(logger, "file_validator"),
	}
}

// ValidateInputDirectory requires dir to be an existing directory.
func (v *FileValidator) ValidateInputDirectory(dir string) error {
	info, err := v.stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return v.reject(dir, fmt.Sprintf("%s is not a directory", dir))
	}
	return nil
}

// ValidateOutputDirectory creates dir when needed and probes that it is
// writable.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return v.storage(dir, "failed to create output directory "+dir, err)
	}

	probe, err := os.CreateTemp(dir, ".wbreport-probe-*")
	if err != nil {
		return v.storage(dir, fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)

	v.logger.Debug("output directory ready", slog.String("dir", dir))
	return nil
}

// ValidateWorkbookFile requires path to name a non-empty, readable .xlsx file
// that is not an editor lock file.
func (v *FileValidator) ValidateWorkbookFile(path string) error {
	if err := ValidateWorkbookName(filepath.Base(path)); err != nil {
		return v.reject(path, err.Error())
	}

	info, err := v.stat(path)
	if err != nil {
		return err
	}
	switch {
	case info.IsDir():
		return v.reject(path, fmt.Sprintf("%s is a directory, not a file", path))
	case info.Size() == 0:
		return v.reject(path, fmt.Sprintf("file %s is empty", path))
	}

	f, err := os.Open(path)
	if err != nil {
		return v.storage(path, fmt.Sprintf("file %s is not readable", path), err)
	}
	f.Close()

	v.logger.Debug("workbook accepted",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateWorkbookName checks a file name, local or uploaded. Path
// separators are refused so that uploaded names never address other files.
func ValidateWorkbookName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("file name is empty")
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("file name %q must not contain path separators", name)
	case strings.HasPrefix(name, lockFilePrefix):
		return fmt.Errorf("file %s is a temporary Excel file", name)
	}
	if ext := strings.ToLower(filepath.Ext(name)); ext != WorkbookExt {
		return fmt.Errorf("file %s is not an %s workbook (extension: %q)", name, WorkbookExt, ext)
	}
	return nil
}

func (v *FileValidator) stat(path string) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		return info, nil
	case os.IsNotExist(err):
		return nil, v.reject(path, fmt.Sprintf("%s does not exist", path))
	default:
		return nil, v.storage(path, "failed to stat "+path, err)
	}
}

func (v *FileValidator) reject(path, msg string) error {
	v.logger.Error("path rejected", slog.String("path", path), slog.String("reason", msg))
	return apperrors.NewAppValidationError(msg)
}

func (v *FileValidator) storage(path, msg string, err error) error {
	v.logger.Error("path unusable", slog.String("path", path), slog.String("error", err.Error()))
	return apperrors.NewStorageError(msg, err)
}
