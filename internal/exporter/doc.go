// Package exporter writes analysis reports to disk or to a stream.
//
// WorkbookWriter assembles the twelve-sheet summary workbook with excelize:
// one sheet per table, bold frozen header row, decimals as numbers and an
// undefined discount rate as an empty cell.
//
// CSVWriter writes the same tables as UTF-8 CSV files with a BOM, one file
// per sheet, for spreadsheet tools that do not read xlsx.
//
// Example usage:
//
//	path, err := exporter.NewWorkbookWriter(logger).WriteFile(ctx, "output", "week45", report)
package exporter
