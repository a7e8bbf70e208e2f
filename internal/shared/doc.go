// Package shared holds code used across layers that belongs to no single
// domain package.
//
// The testutil subpackage provides:
//
//   - report and cost workbook fixtures built with excelize, using the
//     marketplace's own column headers
//   - a buffered slog handler for asserting on log records
//
// Example usage:
//
//	func TestLoad(t *testing.T) {
//	    data := testutil.ReportWorkbook(t,
//	        testutil.Sale("A1", 100, 90, 120),
//	        testutil.Return("A1", 40),
//	    )
//	    logger, handler := testutil.NewTestLogger(t)
//	    // ...
//	    testutil.AssertLogContains(t, handler, slog.LevelInfo, "records loaded")
//	}
package shared
