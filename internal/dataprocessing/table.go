package dataprocessing

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoHeader is returned when a worksheet contains no non-empty row.
var ErrNoHeader = errors.New("worksheet has no header row")

// Table is the first worksheet of a workbook read as strings.
type Table struct {
	Source string
	Sheet  string
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the position of the header equal to name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// FirstColumn returns the position of the first candidate present in the
// header, trying candidates in order, or -1.
func (t *Table) FirstColumn(candidates ...string) int {
	for _, c := range candidates {
		if i := t.ColumnIndex(c); i >= 0 {
			return i
		}
	}
	return -1
}

// Cell returns row[idx] trimmed, or "" when idx is out of range. excelize
// drops trailing empty cells, so rows may be shorter than the header.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// ReadTable parses the first worksheet of the xlsx workbook in r. The first
// non-empty row is the header; blank rows after it are skipped. Cells are
// read raw so numbers keep their stored precision instead of the display
// format.
func ReadTable(name string, r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s: %w", name, ErrNoHeader)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q of %s: %w", sheets[0], name, err)
	}

	headerRow := -1
	for i, row := range rows {
		if !isBlankRow(row) {
			headerRow = i
			break
		}
	}
	if headerRow < 0 {
		return nil, fmt.Errorf("sheet %q of %s: %w", sheets[0], name, ErrNoHeader)
	}

	header := make([]string, len(rows[headerRow]))
	for j, h := range rows[headerRow] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", j+1)
		}
		header[j] = h
	}

	table := &Table{
		Source: name,
		Sheet:  sheets[0],
		Header: header,
		Rows:   make([][]string, 0, len(rows)-headerRow-1),
	}
	for _, row := range rows[headerRow+1:] {
		if isBlankRow(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
