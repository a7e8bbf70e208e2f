package analysis

import (
	"sort"

	"github.com/shopspring/decimal"

	"wbreport/pkg/contracts/domain"
)

// RatePlaces is the rounding precision of every rate and per-unit value.
const RatePlaces = 4

var two = decimal.NewFromInt(2)

// SalesBySKU aggregates sale lines per SKU.
func SalesBySKU(records []domain.Record) []domain.SalesAggregate {
	return aggregateReason(records, domain.Record.IsSale)
}

// ReturnsBySKU aggregates return lines per SKU. DiscountRate is computed the
// same way as for sales.
func ReturnsBySKU(records []domain.Record) []domain.SalesAggregate {
	return aggregateReason(records, domain.Record.IsReturn)
}

func aggregateReason(records []domain.Record, keep func(domain.Record) bool) []domain.SalesAggregate {
	groups := make(map[string]*domain.SalesAggregate)
	for _, r := range records {
		if !keep(r) {
			continue
		}
		g, ok := groups[r.SKU]
		if !ok {
			g = &domain.SalesAggregate{SKU: r.SKU}
			groups[r.SKU] = g
		}
		g.Qty++
		g.PayableSum = g.PayableSum.Add(r.AmountPayable)
		g.GMVSum = g.GMVSum.Add(r.GMV)
		g.RetailPriceSum = g.RetailPriceSum.Add(r.RetailPrice)
	}

	out := make([]domain.SalesAggregate, 0, len(groups))
	for _, g := range groups {
		g.DiscountRate = DiscountRate(g.GMVSum, g.RetailPriceSum)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}

// DiscountRate is 1 - gmv/retail rounded to RatePlaces. It is null when
// retail is zero.
func DiscountRate(gmv, retail decimal.Decimal) decimal.NullDecimal {
	if retail.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromInt(1).Sub(gmv.Div(retail)).Round(RatePlaces))
}

// NetSalesBySKU subtracts returns from sales over the union of SKUs.
func NetSalesBySKU(sales, returns []domain.SalesAggregate) []domain.NetSalesRow {
	rows := make(map[string]*domain.NetSalesRow, len(sales)+len(returns))
	get := func(sku string) *domain.NetSalesRow {
		r, ok := rows[sku]
		if !ok {
			r = &domain.NetSalesRow{SKU: sku}
			rows[sku] = r
		}
		return r
	}

	for _, s := range sales {
		r := get(s.SKU)
		r.NetQty += s.Qty
		r.NetAmountPayable = r.NetAmountPayable.Add(s.PayableSum)
		r.NetGMV = r.NetGMV.Add(s.GMVSum)
		r.NetRetailPrice = r.NetRetailPrice.Add(s.RetailPriceSum)
	}
	for _, s := range returns {
		r := get(s.SKU)
		r.NetQty -= s.Qty
		r.NetAmountPayable = r.NetAmountPayable.Sub(s.PayableSum)
		r.NetGMV = r.NetGMV.Sub(s.GMVSum)
		r.NetRetailPrice = r.NetRetailPrice.Sub(s.RetailPriceSum)
	}

	out := make([]domain.NetSalesRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}

// SalesLogisticsBySKU sums non-zero delivery fees of lines whose fee type is
// one of labels.
func SalesLogisticsBySKU(records []domain.Record, labels []string) []domain.SalesLogisticsRow {
	groups := make(map[string]*domain.SalesLogisticsRow)
	for _, r := range records {
		if r.DeliveryFee.IsZero() || !containsLabel(labels, r.LogisticsFeeType) {
			continue
		}
		g, ok := groups[r.SKU]
		if !ok {
			g = &domain.SalesLogisticsRow{SKU: r.SKU}
			groups[r.SKU] = g
		}
		g.Count++
		g.Sum = g.Sum.Add(r.DeliveryFee)
	}

	out := make([]domain.SalesLogisticsRow, 0, len(groups))
	for _, g := range groups {
		g.PerUnit = g.Sum.Div(decimal.NewFromInt(g.Count)).Round(RatePlaces)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}

// CancelLogisticsBySKU pairs forward and backward legs of cancelled orders.
// Every cancelled order produces one record per leg, so the order count is
// half the record count.
func CancelLogisticsBySKU(records []domain.Record, forward, backward []string) []domain.CancelLogisticsRow {
	groups := make(map[string]*domain.CancelLogisticsRow)
	get := func(sku string) *domain.CancelLogisticsRow {
		g, ok := groups[sku]
		if !ok {
			g = &domain.CancelLogisticsRow{SKU: sku}
			groups[sku] = g
		}
		return g
	}

	for _, r := range records {
		if containsLabel(forward, r.LogisticsFeeType) {
			g := get(r.SKU)
			g.ForwardCount++
			g.ForwardSum = g.ForwardSum.Add(r.DeliveryFee)
		}
		if containsLabel(backward, r.LogisticsFeeType) {
			g := get(r.SKU)
			g.BackwardCount++
			g.BackwardSum = g.BackwardSum.Add(r.DeliveryFee)
		}
	}

	out := make([]domain.CancelLogisticsRow, 0, len(groups))
	for _, g := range groups {
		g.TotalCancelRecords = g.ForwardCount + g.BackwardCount
		g.CancelQty = decimal.NewFromInt(g.TotalCancelRecords).Div(two)
		g.TotalCancelLogistics = g.ForwardSum.Add(g.BackwardSum)
		g.PerUnit = safeRatio(g.TotalCancelLogistics, g.CancelQty)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}

// CancellationRateBySKU relates cancelled orders to sales plus cancellations
// over the union of SKUs.
func CancellationRateBySKU(sales []domain.SalesAggregate, cancels []domain.CancelLogisticsRow) []domain.CancellationRateRow {
	rows := make(map[string]*domain.CancellationRateRow, len(sales)+len(cancels))
	get := func(sku string) *domain.CancellationRateRow {
		r, ok := rows[sku]
		if !ok {
			r = &domain.CancellationRateRow{SKU: sku}
			rows[sku] = r
		}
		return r
	}
	for _, s := range sales {
		get(s.SKU).SalesQty += s.Qty
	}
	for _, c := range cancels {
		r := get(c.SKU)
		r.CancelQty = r.CancelQty.Add(c.CancelQty)
	}

	out := make([]domain.CancellationRateRow, 0, len(rows))
	for _, r := range rows {
		r.TotalOrders = decimal.NewFromInt(r.SalesQty).Add(r.CancelQty)
		r.CancellationRate = safeRatio(r.CancelQty, r.TotalOrders)
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}

// safeRatio is num/den rounded to RatePlaces, or zero when den is zero.
func safeRatio(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den).Round(RatePlaces)
}

func containsLabel(labels []string, s string) bool {
	for _, l := range labels {
		if l == s {
			return true
		}
	}
	return false
}
