// Package http implements the HTTP handlers of the wbreport API.
// Handlers parse and validate requests, delegate to the services package and
// render responses through go-chi/render. Failures are written as RFC 7807
// problem documents by the shared error handler.
//
// # Endpoints
//
//	POST /api/v1/analyses            multipart upload, JSON report
//	POST /api/v1/analyses/workbook   multipart upload, summary workbook attachment
//	GET  /api/v1/fee-categories      fee taxonomy
//	GET  /api/health                 health, readiness and liveness
//
// # Upload form
//
// The analysis endpoints accept multipart/form-data with these fields:
//
//	label           run label, used as the workbook file name prefix
//	payable_policy  platform_fees (default) or all_fees
//	reports         one or more weekly report workbooks (.xlsx)
//	cost            optional purchase cost workbook (.xlsx)
//
// Only the uploaded reports are analysed, so a client selects a subset of
// its files by sending just those.
package http
