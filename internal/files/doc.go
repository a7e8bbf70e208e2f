// Package files locates and opens the report workbooks of an analysis run.
//
// Discovery lists .xlsx reports in a directory (skipping editor lock files
// such as "~$week.xlsx" and configured suffixes like previously generated
// summaries) and expands explicit file, directory and glob arguments.
//
// Manager opens the discovered files as loader sources and prepares output
// directories.
//
// Example usage:
//
//	discovery := files.NewDiscovery("", "_summary.xlsx")
//	reports, err := discovery.FindReportFiles("input")
//
//	opened, err := files.NewManager(logger).OpenSources(reports)
//	defer opened.Close()
package files
