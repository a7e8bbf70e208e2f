package exporter

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"wbreport/internal/analysis"
	apperrors "wbreport/internal/errors"
	"wbreport/pkg/contracts/domain"
)

func sampleReport(t *testing.T) *domain.AnalysisReport {
	t.Helper()
	dec := decimal.RequireFromString
	set := &domain.RecordSet{
		Records: []domain.Record{
			{PaymentReason: domain.PaymentReasonSale, SKU: "A1", AmountPayable: dec("100"), GMV: dec("90"), RetailPrice: dec("120")},
			{PaymentReason: domain.PaymentReasonSale, SKU: "B2", AmountPayable: dec("10")},
			{PaymentReason: domain.PaymentReasonReturn, SKU: "A1", AmountPayable: dec("40")},
			{LogisticsFeeType: domain.FeeTypeToCustomerOnSale, SKU: "A1", DeliveryFee: dec("12.5"), Address: "Москва, ул. Тверская"},
		},
		Sources:    []string{"week.xlsx"},
		HasAddress: true,
	}
	report, err := analysis.NewAnalyzer(nil, nil, nil).Run(context.Background(), set, domain.CostTable{}, analysis.DefaultOptions())
	require.NoError(t, err)
	return report
}

func TestWorkbookWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWorkbookWriter(nil).Write(context.Background(), &buf, sampleReport(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, SheetOrder, f.GetSheetList())

	rows, err := f.GetRows(SheetSalesBySKU)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"barcode", "sales_qty", "amount_payable_sum", "wb_gmv_sum", "retail_price_sum", "discount_rate"}, rows[0])
	assert.Equal(t, []string{"A1", "1", "100", "90", "120", "0.25"}, rows[1])
	assert.Equal(t, []string{"B2", "1", "10", "0", "0"}, rows[2], "undefined discount rate is an empty cell")

	panes, err := f.GetPanes(SheetSalesBySKU)
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)

	styleID, err := f.GetCellStyle(SheetSalesBySKU, "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)

	overview, err := f.GetRows(SheetFinalOverview)
	require.NoError(t, err)
	require.Len(t, overview, 11)
	assert.Equal(t, []string{"metric_zh", "metric", "value"}, overview[0])
	assert.Equal(t, "销售件数", overview[1][0])

	regions, err := f.GetRows(SheetSalesByRegion)
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, []string{"Москва", "1", "莫斯科", "Центральный", "中央联邦区"}, regions[1])
}

func TestWorkbookWriter_EmptyTablesKeepHeaders(t *testing.T) {
	report, err := analysis.NewAnalyzer(nil, nil, nil).Run(context.Background(), &domain.RecordSet{}, domain.CostTable{}, analysis.DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewWorkbookWriter(nil).Write(context.Background(), &buf, report))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetDistrictSummary)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "district", rows[0][0])
}

func TestWorkbookWriter_WriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := NewWorkbookWriter(nil).WriteFile(context.Background(), dir, "week45", sampleReport(t))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "week45_summary.xlsx"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWorkbookWriter_WriteFileOutputIsAFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := NewWorkbookWriter(nil).WriteFile(context.Background(), blocker, "week45", sampleReport(t))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}

func TestWorkbookWriter_Errors(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, NewWorkbookWriter(nil).Write(context.Background(), &buf, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewWorkbookWriter(nil).Write(ctx, &buf, sampleReport(t)), context.Canceled)
}
