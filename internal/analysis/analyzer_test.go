package analysis

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	apperrors "wbreport/internal/errors"
	"wbreport/internal/shared/testutil"
	"wbreport/pkg/contracts/domain"
)

type AnalyzerSuite struct {
	suite.Suite
	handler  *testutil.BufferedSlogHandler
	analyzer *Analyzer
	set      *domain.RecordSet
}

func (s *AnalyzerSuite) SetupTest() {
	s.handler = testutil.NewBufferedSlogHandler(s.T())
	s.analyzer = NewAnalyzer(nil, nil, slog.New(s.handler))
	s.set = &domain.RecordSet{
		Records: []domain.Record{
			sale("A1", "100", "90", "120"),
			sale("A1", "150", "135", "180"),
			ret("A1", "50"),
			logistics("A1", domain.FeeTypeToCustomerOnSale, "20", "Московская область, г. Балашиха"),
			logistics("A1", domain.FeeTypeToCustomerOnCancel, "15", "Москва"),
			logistics("A1", domain.FeeTypeFromCustomerOnCancel, "5", "Москва"),
		},
		Sources:    []string{"week1.xlsx"},
		HasAddress: true,
	}
}

func (s *AnalyzerSuite) TestRun() {
	costs := domain.NewCostTable([]domain.CostEntry{{SKU: "A1", UnitCost: d("30")}})

	report, err := s.analyzer.Run(context.Background(), s.set, costs, DefaultOptions())
	s.Require().NoError(err)

	s.Equal(6, report.RecordCount)
	s.Equal([]string{"week1.xlsx"}, report.Sources)
	s.Equal([]domain.SourceFile{{Name: "week1.xlsx", Period: "week1", Market: domain.MarketUnknown}}, report.SourceFiles)
	s.Empty(report.Warnings)

	s.Require().Len(report.NetSalesBySKU, 1)
	net := report.NetSalesBySKU[0]
	s.EqualValues(1, net.NetQty)
	assertDec(s.T(), "200", net.NetAmountPayable)

	s.Require().Len(report.ProfitBySKU, 1)
	assertDec(s.T(), "30", report.ProfitBySKU[0].PurchaseTotal)
	assertDec(s.T(), "130", report.ProfitBySKU[0].Profit)

	s.Len(report.FeeSummary, DefaultTaxonomy().Len()+3)
	s.Len(report.Overview.Metrics, 10)
	final, _ := report.Overview.Value(domain.MetricFinalPayableAmount)
	assertDec(s.T(), "160", final)

	s.Require().Len(report.SalesByRegion, 1)
	s.Equal("Московская", report.SalesByRegion[0].Region)
	s.Require().Len(report.CancelByRegion, 1)
	s.Equal("Москва", report.CancelByRegion[0].Region)
	s.Require().Len(report.DistrictSummary, 1)
	s.EqualValues(2, report.DistrictSummary[0].TotalOrders)

	s.True(s.handler.ContainsMessage("analysis complete"))
}

func (s *AnalyzerSuite) TestRun_NoAddressColumn() {
	s.set.HasAddress = false

	report, err := s.analyzer.Run(context.Background(), s.set, domain.CostTable{}, DefaultOptions())
	s.Require().NoError(err)

	s.NotNil(report.SalesByRegion)
	s.Empty(report.SalesByRegion)
	s.Empty(report.CancelByRegion)
	s.Empty(report.DistrictSummary)
	s.Contains(report.Warnings, WarningNoAddress)
	s.NotEmpty(report.ProfitBySKU, "other stages still run")
}

func (s *AnalyzerSuite) TestRun_WarningsBecomeSpanEvents() {
	recorder := tracetest.NewSpanRecorder()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	defer otel.SetTracerProvider(previous)

	s.set.HasAddress = false
	_, err := NewAnalyzer(nil, nil, slog.New(s.handler)).Run(context.Background(), s.set, domain.CostTable{}, DefaultOptions())
	s.Require().NoError(err)

	var events []string
	for _, span := range recorder.Ended() {
		if span.Name() != "analysis.run" {
			continue
		}
		for _, ev := range span.Events() {
			events = append(events, ev.Name)
		}
	}
	s.Contains(events, WarningEvent)
}

func (s *AnalyzerSuite) TestRun_RegionalDisabled() {
	opts := Options{EnableRegional: false, PayablePolicy: domain.PayablePlatformFees}

	report, err := s.analyzer.Run(context.Background(), s.set, domain.CostTable{}, opts)
	s.Require().NoError(err)
	s.Empty(report.SalesByRegion)
	s.Empty(report.Warnings)
}

func (s *AnalyzerSuite) TestRun_AllFeesPolicy() {
	costs := domain.NewCostTable([]domain.CostEntry{{SKU: "A1", UnitCost: d("30")}})
	opts := Options{EnableRegional: true, PayablePolicy: domain.PayableAllFees}

	report, err := s.analyzer.Run(context.Background(), s.set, costs, opts)
	s.Require().NoError(err)

	final, _ := report.Overview.Value(domain.MetricFinalPayableAmount)
	profit, _ := report.Overview.Value(domain.MetricNetProfit)
	assertDec(s.T(), "130", final)
	s.True(final.Equal(profit))
}

func (s *AnalyzerSuite) TestRun_InvalidInput() {
	_, err := s.analyzer.Run(context.Background(), nil, domain.CostTable{}, DefaultOptions())
	s.True(apperrors.IsType(err, apperrors.ErrTypeMissingStructure))

	_, err = s.analyzer.Run(context.Background(), s.set, domain.CostTable{}, Options{PayablePolicy: "bogus"})
	s.True(apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestAnalyzerSuite(t *testing.T) {
	suite.Run(t, new(AnalyzerSuite))
}

func TestRun_EmptyPolicyDefaults(t *testing.T) {
	a := NewAnalyzer(nil, nil, nil)
	report, err := a.Run(context.Background(), &domain.RecordSet{}, domain.CostTable{}, Options{})
	require.NoError(t, err)
	assert.Empty(t, report.SalesBySKU)
	assert.Len(t, report.FeeSummary, DefaultTaxonomy().Len()+3)
	assert.Same(t, DefaultTaxonomy(), a.Taxonomy())
}
