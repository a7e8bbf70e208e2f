// Package api contains the JSON contracts of the wbreport HTTP API.
// Version v1 represents the current stable API version.
package api

import (
	"wbreport/pkg/contracts/domain"
)

// FeeCategoriesResponse lists the fee taxonomy in report order.
type FeeCategoriesResponse struct {
	Categories []domain.FeeCategory `json:"categories"`
	Count      int                  `json:"count"`
}

// AnalysisResponse wraps a finished run.
type AnalysisResponse struct {
	Report   *domain.AnalysisReport `json:"report"`
	Headline []domain.Metric        `json:"headline"`
}

// Multipart form field names accepted by the analysis endpoints.
const (
	FormFieldLabel         = "label"
	FormFieldPayablePolicy = "payable_policy"
	FormFieldReports       = "reports"
	FormFieldCost          = "cost"
)
