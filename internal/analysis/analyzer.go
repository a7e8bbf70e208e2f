package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "wbreport/internal/errors"
	"wbreport/internal/infrastructure"
	"wbreport/internal/regions"
	"wbreport/pkg/contracts/domain"
)

// TracerName is the instrumentation scope of analysis spans.
const TracerName = "wbreport.analysis"

// WarningNoAddress is recorded when regional tables cannot be built.
const WarningNoAddress = "no delivery office address column found; regional tables are empty"

// WarningEvent is the span event added for every report warning.
const WarningEvent = "analysis.warning"

// Options selects the optional stages and policies of a run.
type Options struct {
	EnableRegional bool
	PayablePolicy  domain.PayablePolicy
}

// DefaultOptions enables the regional stage and the platform-fees policy.
func DefaultOptions() Options {
	return Options{EnableRegional: true, PayablePolicy: domain.PayablePlatformFees}
}

// Analyzer runs the reconciliation pipeline over a loaded record set.
// It holds only read-only lookup tables and may be shared between runs.
type Analyzer struct {
	taxonomy *Taxonomy
	regions  regions.Classifier
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewAnalyzer wires the lookup services. Nil arguments fall back to the
// built-in tables and the default logger.
func NewAnalyzer(tax *Taxonomy, cls regions.Classifier, logger *slog.Logger) *Analyzer {
	if tax == nil {
		tax = DefaultTaxonomy()
	}
	if cls == nil {
		cls = regions.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		taxonomy: tax,
		regions:  cls,
		logger:   infrastructure.WithComponent(logger, "analyzer"),
		tracer:   otel.Tracer(TracerName),
	}
}

// Taxonomy returns the fee taxonomy used by the analyzer.
func (a *Analyzer) Taxonomy() *Taxonomy { return a.taxonomy }

// Run computes every derived table. The returned report carries no run
// metadata beyond sources and record count; callers stamp id and label.
func (a *Analyzer) Run(ctx context.Context, set *domain.RecordSet, costs domain.CostTable, opts Options) (*domain.AnalysisReport, error) {
	if set == nil {
		return nil, apperrors.NewMissingStructureError("no records to analyse", nil)
	}
	if opts.PayablePolicy == "" {
		opts.PayablePolicy = domain.PayablePlatformFees
	}
	if !opts.PayablePolicy.Valid() {
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("unknown payable policy %q", opts.PayablePolicy))
	}

	ctx, span := a.tracer.Start(ctx, "analysis.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int("analysis.records", set.Len()),
			attribute.Int("analysis.sources", len(set.Sources)),
			attribute.Int("analysis.cost_entries", costs.Len()),
			attribute.String("analysis.payable_policy", string(opts.PayablePolicy)),
			attribute.Bool("analysis.regional", opts.EnableRegional),
		),
	)
	defer span.End()

	records := set.Records
	report := &domain.AnalysisReport{
		Sources:     append([]string(nil), set.Sources...),
		SourceFiles: domain.ClassifySources(set.Sources),
		RecordCount: set.Len(),
	}

	a.stage(ctx, "sku", func() {
		report.SalesBySKU = SalesBySKU(records)
		report.ReturnsBySKU = ReturnsBySKU(records)
		report.NetSalesBySKU = NetSalesBySKU(report.SalesBySKU, report.ReturnsBySKU)
		report.SalesLogisticsBySKU = SalesLogisticsBySKU(records, a.taxonomy.Labels(CategorySalesLogistics))
		report.CancelLogisticsBySKU = CancelLogisticsBySKU(records,
			a.taxonomy.Labels(CategoryCancelLogisticsForward),
			a.taxonomy.Labels(CategoryCancelLogisticsBackward))
		report.CancellationRateBySKU = CancellationRateBySKU(report.SalesBySKU, report.CancelLogisticsBySKU)
	})

	regional := EmptyRegionalTables()
	switch {
	case !opts.EnableRegional:
		a.logger.DebugContext(ctx, "regional stage disabled")
	case !set.HasAddress:
		report.AddWarning(WarningNoAddress)
		infrastructure.AddSpanEvent(ctx, WarningEvent, attribute.String("analysis.warning", WarningNoAddress))
		a.logger.WarnContext(ctx, "regional tables skipped", slog.String("reason", WarningNoAddress))
	default:
		a.stage(ctx, "regional", func() {
			regional = ComposeRegional(records, a.regions)
		})
	}
	report.SalesByRegion = regional.Sales
	report.CancelByRegion = regional.Cancels
	report.DistrictSummary = regional.Districts

	a.stage(ctx, "profit", func() {
		report.ProfitBySKU = ProfitBySKU(report.NetSalesBySKU, report.SalesLogisticsBySKU, report.CancelLogisticsBySKU, costs)
	})

	var overviewErr error
	a.stage(ctx, "fees", func() {
		report.FeeSummary = FeeSummary(records, a.taxonomy, report.ProfitBySKU)
		report.Overview, overviewErr = ComputeOverview(records, report.FeeSummary, opts.PayablePolicy)
	})
	if overviewErr != nil {
		span.RecordError(overviewErr)
		span.SetStatus(codes.Error, overviewErr.Error())
		a.logger.ErrorContext(ctx, "overview failed", slog.String("error", overviewErr.Error()))
		return nil, overviewErr
	}

	span.SetStatus(codes.Ok, "")
	a.logger.InfoContext(ctx, "analysis complete",
		slog.Int("records", report.RecordCount),
		slog.Int("skus", len(report.NetSalesBySKU)),
		slog.Int("regions", len(report.SalesByRegion)),
		slog.Int("warnings", len(report.Warnings)),
	)
	return report, nil
}

// stage runs fn inside a child span.
func (a *Analyzer) stage(ctx context.Context, name string, fn func()) {
	_, span := a.tracer.Start(ctx, "analysis.stage."+name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("stage.name", name)),
	)
	defer span.End()
	fn()
}
