package http

import (
	"context"

	"wbreport/internal/analysis"
	"wbreport/internal/services"
	"wbreport/pkg/contracts/domain"
)

// AnalysisServiceInterface defines the analysis operations used by the handlers
type AnalysisServiceInterface interface {
	Analyze(ctx context.Context, in services.AnalysisInput) (*domain.AnalysisReport, error)
	Taxonomy() *analysis.Taxonomy
}

var _ AnalysisServiceInterface = (*services.AnalysisService)(nil)
