package analysis

import (
	"sort"

	"github.com/shopspring/decimal"

	"wbreport/pkg/contracts/domain"
)

// ProfitBySKU joins net sales with logistics sums and unit costs. Only SKUs
// present in net are returned; logistics or cost entries for other SKUs are
// ignored. A SKU without a cost entry has unit cost 0.
func ProfitBySKU(net []domain.NetSalesRow, salesLog []domain.SalesLogisticsRow, cancelLog []domain.CancelLogisticsRow, costs domain.CostTable) []domain.ProfitRow {
	salesSum := make(map[string]decimal.Decimal, len(salesLog))
	for _, s := range salesLog {
		salesSum[s.SKU] = salesSum[s.SKU].Add(s.Sum)
	}
	cancelSum := make(map[string]decimal.Decimal, len(cancelLog))
	for _, c := range cancelLog {
		cancelSum[c.SKU] = cancelSum[c.SKU].Add(c.TotalCancelLogistics)
	}

	out := make([]domain.ProfitRow, 0, len(net))
	for _, n := range net {
		unitCost, _ := costs.UnitCost(n.SKU)
		row := domain.ProfitRow{
			SKU:                n.SKU,
			SalesQty:           n.NetQty,
			AmountPayable:      n.NetAmountPayable,
			SalesLogisticsSum:  salesSum[n.SKU],
			CancelLogisticsSum: cancelSum[n.SKU],
			UnitCost:           unitCost,
		}
		row.LogisticsTotal = row.SalesLogisticsSum.Add(row.CancelLogisticsSum)
		row.PurchaseTotal = unitCost.Mul(decimal.NewFromInt(n.NetQty))
		row.Profit = row.AmountPayable.Sub(row.LogisticsTotal).Sub(row.PurchaseTotal)
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}
