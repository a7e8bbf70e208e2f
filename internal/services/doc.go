// Package services implements the business logic layer between the CLI or
// HTTP handlers and the analysis pipeline.
//
// AnalysisService runs one reconciliation: it loads the report workbooks,
// reads the optional purchase cost workbook, runs the analyzer and stamps the
// run id, label and generation time on the report. A cost workbook that
// cannot be used does not fail the run; the service substitutes an empty cost
// table, records a warning on the report, logs at WARN and counts the
// mismatch in the analysis metrics.
//
// HealthService answers the health, readiness and liveness probes.
//
// Example usage:
//
//	svc, err := services.NewAnalysisServiceFromConfig(cfg.Analysis, providers, logger)
//	report, err := svc.Analyze(ctx, services.AnalysisInput{
//	    Label:   "week45",
//	    Reports: sources,
//	    Options: services.OptionsFromConfig(cfg.Analysis),
//	})
package services
