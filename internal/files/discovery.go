package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"wbreport/pkg/contracts/domain"
)

// ReportExtension is the only workbook format the loader reads.
const ReportExtension = ".xlsx"

// lockPrefix marks the owner files spreadsheet editors leave next to an open
// workbook.
const lockPrefix = "~$"

// FileInfo represents information about a discovered file. Period and
// Market are read from the file name.
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	Period  string
	Market  domain.Market
}

func newFileInfo(path string, info os.FileInfo) FileInfo {
	src := domain.ClassifySource(info.Name())
	return FileInfo{
		Path:    path,
		Name:    info.Name(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Period:  src.Period,
		Market:  src.Market,
	}
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
	// exclude holds lower-cased name suffixes that are never reports, such
	// as previously generated summary workbooks.
	exclude []string
}

// NewDiscovery creates a new file discovery instance. Relative directories are
// resolved against basePath. Files whose names end in one of excludeSuffixes
// (case-insensitive) are skipped.
func NewDiscovery(basePath string, excludeSuffixes ...string) *Discovery {
	exclude := make([]string, 0, len(excludeSuffixes))
	for _, s := range excludeSuffixes {
		exclude = append(exclude, strings.ToLower(s))
	}
	return &Discovery{basePath: basePath, exclude: exclude}
}

// FindReportFiles lists the report workbooks directly inside dir, sorted by
// name so that repeated runs concatenate in the same order.
func (d *Discovery) FindReportFiles(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !d.IsReportName(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, newFileInfo(filepath.Join(fullPath, entry.Name()), info))
	}

	sortByName(files)
	return files, nil
}

// FindFilesByPattern finds report workbooks matching a glob pattern inside dir.
func (d *Discovery) FindFilesByPattern(dir string, pattern string) ([]FileInfo, error) {
	searchPattern := filepath.Join(d.resolve(dir), pattern)

	matches, err := filepath.Glob(searchPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	var files []FileInfo
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() || !d.IsReportName(info.Name()) {
			continue
		}
		files = append(files, newFileInfo(match, info))
	}

	sortByName(files)
	return files, nil
}

// Resolve turns explicit file arguments into report files, keeping their
// order. A directory argument expands to its report files; an argument with
// glob metacharacters expands to its matches.
func (d *Discovery) Resolve(args []string) ([]FileInfo, error) {
	var out []FileInfo
	seen := make(map[string]bool)
	add := func(fs []FileInfo) {
		for _, f := range fs {
			if !seen[f.Path] {
				seen[f.Path] = true
				out = append(out, f)
			}
		}
	}

	for _, arg := range args {
		if strings.ContainsAny(arg, "*?[") {
			matches, err := d.FindFilesByPattern(filepath.Dir(arg), filepath.Base(arg))
			if err != nil {
				return nil, err
			}
			add(matches)
			continue
		}

		path := d.resolve(arg)
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if info.IsDir() {
			found, err := d.FindReportFiles(path)
			if err != nil {
				return nil, err
			}
			add(found)
			continue
		}
		if !strings.EqualFold(filepath.Ext(info.Name()), ReportExtension) {
			return nil, fmt.Errorf("%s is not an %s workbook", path, ReportExtension)
		}
		add([]FileInfo{newFileInfo(path, info)})
	}
	return out, nil
}

// IsReportName reports whether name looks like an input report workbook.
func (d *Discovery) IsReportName(name string) bool {
	lower := strings.ToLower(name)
	if strings.HasPrefix(name, lockPrefix) || !strings.HasSuffix(lower, ReportExtension) {
		return false
	}
	for _, s := range d.exclude {
		if strings.HasSuffix(lower, s) {
			return false
		}
	}
	return true
}

// TotalSize sums the sizes of files.
func TotalSize(files []FileInfo) int64 {
	var n int64
	for _, f := range files {
		n += f.Size
	}
	return n
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) || d.basePath == "" {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

func sortByName(files []FileInfo) {
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
}
