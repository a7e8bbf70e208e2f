package dataprocessing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	apperrors "wbreport/internal/errors"
	"wbreport/pkg/contracts/domain"
)

// Accepted cost file headers, tried in order after normalization.
var (
	CostSKUHeaders  = []string{"sku", "barcode", "条码"}
	CostUnitHeaders = []string{"采购成本", "cost", "purchase_cost"}
)

// CostLoader reads the optional purchase cost workbook.
type CostLoader struct {
	logger *slog.Logger
}

// NewCostLoader creates a cost loader. A nil logger falls back to slog.Default.
func NewCostLoader(logger *slog.Logger) *CostLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &CostLoader{logger: logger.With(slog.String("component", "cost_loader"))}
}

// Load reads SKU and unit cost columns from the first worksheet and returns
// the arithmetic mean cost per SKU, sorted by SKU. Rows with an empty SKU are
// dropped and unparseable cost cells are left out of the mean; a SKU with no
// usable cost gets zero.
//
// Any failure is a SCHEMA_MISMATCH error: the cost file is auxiliary and
// callers continue with an empty table.
func (l *CostLoader) Load(ctx context.Context, name string, r io.Reader) (domain.CostTable, error) {
	table, err := ReadTable(name, r)
	if err != nil {
		return domain.CostTable{}, apperrors.NewAppError(apperrors.ErrTypeSchemaMismatch,
			fmt.Sprintf("cost file %s cannot be read as a workbook", name), err)
	}

	caser := cases.Lower(language.Und)
	keys := &Table{Source: name, Header: make([]string, len(table.Header))}
	for i, h := range table.Header {
		keys.Header[i] = NormalizeHeader(caser, h)
	}

	skuIdx := keys.FirstColumn(CostSKUHeaders...)
	if skuIdx < 0 {
		return domain.CostTable{}, apperrors.NewSchemaMismatchError(fmt.Sprintf(
			"cost file %s has no SKU column (expected one of %s)", name, strings.Join(CostSKUHeaders, ", ")))
	}
	costIdx := keys.FirstColumn(CostUnitHeaders...)
	if costIdx < 0 {
		return domain.CostTable{}, apperrors.NewSchemaMismatchError(fmt.Sprintf(
			"cost file %s has no cost column (expected one of %s)", name, strings.Join(CostUnitHeaders, ", ")))
	}

	type acc struct {
		sum   decimal.Decimal
		count int64
	}
	bySKU := make(map[string]*acc)
	skipped := 0
	for _, row := range table.Rows {
		sku := NormalizeKey(Cell(row, skuIdx))
		if sku == "" {
			skipped++
			continue
		}
		a, ok := bySKU[sku]
		if !ok {
			a = &acc{}
			bySKU[sku] = a
		}
		cost, ok := ParseDecimal(Cell(row, costIdx))
		if !ok {
			skipped++
			continue
		}
		a.sum = a.sum.Add(cost)
		a.count++
	}

	entries := make([]domain.CostEntry, 0, len(bySKU))
	for sku, a := range bySKU {
		unit := decimal.Zero
		if a.count > 0 {
			unit = a.sum.Div(decimal.NewFromInt(a.count))
		}
		entries = append(entries, domain.CostEntry{SKU: sku, UnitCost: unit})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].SKU < entries[j].SKU })

	l.logger.InfoContext(ctx, "cost table loaded",
		slog.String("source", name),
		slog.String("sku_column", table.Header[skuIdx]),
		slog.String("cost_column", table.Header[costIdx]),
		slog.Int("skus", len(entries)),
		slog.Int("skipped_rows", skipped))

	return domain.NewCostTable(entries), nil
}

// NormalizeHeader folds a header to its comparison form: NFC, trimmed and
// lower-cased.
func NormalizeHeader(caser cases.Caser, header string) string {
	return caser.String(strings.TrimSpace(norm.NFC.String(header)))
}
