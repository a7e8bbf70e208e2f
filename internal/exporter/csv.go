package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "wbreport/internal/errors"
	"wbreport/internal/files"
	"wbreport/internal/infrastructure"
	"wbreport/pkg/contracts/domain"
)

// CSVDirSuffix is appended to the run label to form the CSV directory name.
const CSVDirSuffix = "_csv"

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
	dirs   *files.Manager
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{
		logger: infrastructure.WithComponent(logger, "csv_writer"),
		dirs:   files.NewManager(logger),
	}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	if err := w.dirs.EnsureDirectory(filepath.Dir(filePath)); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// Write BOM if requested (helps Excel recognize UTF-8)
	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteReport writes one CSV per sheet into dir/<label>_csv and returns the
// written paths in sheet order.
func (w *CSVWriter) WriteReport(ctx context.Context, dir, label string, report *domain.AnalysisReport) ([]string, error) {
	if report == nil {
		return nil, apperrors.NewInvariantError("nil analysis report")
	}
	outDir := filepath.Join(dir, label+CSVDirSuffix)

	sheets := BuildSheets(report)
	paths := make([]string, 0, len(sheets))
	for _, s := range sheets {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		records := make([][]string, len(s.Rows))
		for i, row := range s.Rows {
			rec := make([]string, len(row))
			for j, v := range row {
				rec[j] = formatCell(v)
			}
			records[i] = rec
		}

		path := filepath.Join(outDir, s.Name+".csv")
		if err := w.WriteCSV(path, WriteOptions{Headers: s.Header, Records: records, BOMPrefix: true}); err != nil {
			return paths, apperrors.NewStorageError(fmt.Sprintf("failed to write %s", path), err)
		}
		paths = append(paths, path)
	}

	w.logger.InfoContext(ctx, "csv tables written",
		slog.String("dir", outDir),
		slog.Int("files", len(paths)))
	return paths, nil
}
