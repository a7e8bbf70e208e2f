package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "wbreport/internal/errors"
	"wbreport/internal/files"
	"wbreport/internal/infrastructure"
	"wbreport/pkg/contracts/domain"
)

// SummarySuffix is appended to the run label to form the workbook name.
const SummarySuffix = "_summary.xlsx"

// SummaryFileName returns "<label>_summary.xlsx".
func SummaryFileName(label string) string {
	return label + SummarySuffix
}

// WorkbookWriter assembles the summary workbook of an analysis run.
type WorkbookWriter struct {
	logger *slog.Logger
	dirs   *files.Manager
}

// NewWorkbookWriter creates a workbook writer.
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{
		logger: infrastructure.WithComponent(logger, "workbook_writer"),
		dirs:   files.NewManager(logger),
	}
}

// Write streams the workbook for report to out.
func (w *WorkbookWriter) Write(ctx context.Context, out io.Writer, report *domain.AnalysisReport) error {
	f, err := w.build(ctx, report)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(out); err != nil {
		return apperrors.NewStorageError("failed to write summary workbook", err)
	}
	return nil
}

// WriteFile writes the workbook to dir/<label>_summary.xlsx and returns the
// path.
func (w *WorkbookWriter) WriteFile(ctx context.Context, dir, label string, report *domain.AnalysisReport) (string, error) {
	if err := w.dirs.EnsureDirectory(dir); err != nil {
		return "", apperrors.NewStorageError("failed to create output directory", err)
	}
	path := filepath.Join(dir, SummaryFileName(label))

	f, err := w.build(ctx, report)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return "", apperrors.NewStorageError(fmt.Sprintf("failed to save %s", path), err)
	}

	w.logger.InfoContext(ctx, "summary workbook written", slog.String("path", path))
	return path, nil
}

func (w *WorkbookWriter) build(ctx context.Context, report *domain.AnalysisReport) (*excelize.File, error) {
	if report == nil {
		return nil, apperrors.NewInvariantError("nil analysis report")
	}

	f := excelize.NewFile()
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, apperrors.NewStorageError("failed to create header style", err)
	}

	sheets := BuildSheets(report)
	for i, s := range sheets {
		if err := ctx.Err(); err != nil {
			f.Close()
			return nil, err
		}
		if i == 0 {
			err = f.SetSheetName(f.GetSheetName(0), s.Name)
		} else {
			_, err = f.NewSheet(s.Name)
		}
		if err != nil {
			f.Close()
			return nil, apperrors.NewStorageError(fmt.Sprintf("failed to create sheet %s", s.Name), err)
		}
		if err := writeSheet(f, s, headerStyle); err != nil {
			f.Close()
			return nil, apperrors.NewStorageError(fmt.Sprintf("failed to write sheet %s", s.Name), err)
		}
	}
	f.SetActiveSheet(0)

	w.logger.DebugContext(ctx, "summary workbook assembled", slog.Int("sheets", len(sheets)))
	return f, nil
}

func writeSheet(f *excelize.File, s Sheet, headerStyle int) error {
	sw, err := f.NewStreamWriter(s.Name)
	if err != nil {
		return err
	}
	if err := sw.SetPanes(&excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	header := make([]interface{}, len(s.Header))
	for i, h := range s.Header {
		header[i] = h
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return err
	}

	for i, row := range s.Rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = xlsxValue(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return err
		}
	}
	return sw.Flush()
}
