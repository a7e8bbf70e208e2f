package dataprocessing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "wbreport/internal/errors"
	"wbreport/pkg/contracts/domain"
)

// Source is one named input workbook.
type Source struct {
	Name   string
	Reader io.Reader
}

// RecordLoader reads report workbooks into a unified record set.
type RecordLoader struct {
	logger *slog.Logger
}

// NewRecordLoader creates a loader. A nil logger falls back to slog.Default.
func NewRecordLoader(logger *slog.Logger) *RecordLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordLoader{logger: logger.With(slog.String("component", "record_loader"))}
}

// Load parses every source in order, renames headers to canonical names and
// concatenates the rows. Row order is preserved within and across sources.
func (l *RecordLoader) Load(ctx context.Context, sources []Source) (*domain.RecordSet, error) {
	if len(sources) == 0 {
		return nil, apperrors.NewMissingStructureError("no report files supplied", nil)
	}

	tables := make([]*Table, 0, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		table, err := ReadTable(src.Name, src.Reader)
		if err != nil {
			return nil, apperrors.NewMissingStructureError(
				fmt.Sprintf("report %s cannot be read as a workbook", src.Name), err,
			).WithContext("source", src.Name)
		}

		for i, h := range table.Header {
			table.Header[i] = CanonicalName(h)
		}

		l.logger.DebugContext(ctx, "report parsed",
			slog.String("source", src.Name),
			slog.String("sheet", table.Sheet),
			slog.Int("columns", len(table.Header)),
			slog.Int("rows", len(table.Rows)))

		tables = append(tables, table)
	}

	set := &domain.RecordSet{Columns: unionColumns(tables)}

	var missing []string
	for _, c := range MandatoryColumns {
		if !set.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewMissingStructureError(
			fmt.Sprintf("reports lack mandatory columns: %s", strings.Join(missing, ", ")), nil,
		).WithContext("missing", missing)
	}

	for _, c := range NumericColumns {
		if !set.HasColumn(c) {
			l.logger.DebugContext(ctx, "numeric column absent, using zero", slog.String("column", c))
			set.Columns = append(set.Columns, c)
		}
	}

	for _, table := range tables {
		set.Sources = append(set.Sources, table.Source)

		idx := make(map[string]int, len(table.Header))
		for i, h := range table.Header {
			if _, seen := idx[h]; !seen {
				idx[h] = i
			}
		}

		addr := findAddressColumn(table.Header)
		if addr >= 0 {
			set.HasAddress = true
		}

		for _, row := range table.Rows {
			set.Records = append(set.Records, buildRecord(row, idx, addr, table.Source))
		}
	}

	l.logger.InfoContext(ctx, "reports loaded",
		slog.Int("sources", len(set.Sources)),
		slog.Int("records", set.Len()),
		slog.Bool("has_address", set.HasAddress))

	return set, nil
}

func buildRecord(row []string, idx map[string]int, addr int, source string) domain.Record {
	text := func(col string) string {
		i, ok := idx[col]
		if !ok {
			return ""
		}
		return Cell(row, i)
	}
	num := func(col string) decimal.Decimal {
		return DecimalOrZero(text(col))
	}

	return domain.Record{
		PaymentReason:          domain.PaymentReason(text(ColReasonForPayment)),
		LogisticsFeeType:       text(ColLogisticsFeeType),
		SKU:                    NormalizeKey(text(ColBarcode)),
		SupplierSKU:            text(ColSupplierSKU),
		AmountPayable:          num(ColAmountPayable),
		GMV:                    num(ColGMV),
		RetailPrice:            num(ColRetailPrice),
		DeliveryFee:            num(ColDeliveryToCustomer),
		FineTotal:              num(ColFineTotal),
		LoyaltyDiscountComp:    num(ColLoyaltyDiscountComp),
		LoyaltyServiceFee:      num(ColLoyaltyServiceFee),
		LoyaltyPointsDeduction: num(ColLoyaltyPointsDeduction),
		Quantity:               num(ColQuantity),
		Warehouse:              text(ColWarehouse),
		Address:                Cell(row, addr),
		Source:                 source,
	}
}

// unionColumns returns every header of tables in first-appearance order.
func unionColumns(tables []*Table) []string {
	var columns []string
	seen := make(map[string]struct{})
	for _, t := range tables {
		for _, h := range t.Header {
			if _, ok := seen[h]; ok {
				continue
			}
			seen[h] = struct{}{}
			columns = append(columns, h)
		}
	}
	return columns
}
