package domain

import (
	"github.com/shopspring/decimal"
)

// CostEntry is the mean unit purchase cost supplied for one SKU.
type CostEntry struct {
	SKU      string          `json:"sku"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// CostTable is an immutable SKU -> unit cost lookup.
type CostTable struct {
	Entries []CostEntry `json:"entries"`
	index   map[string]decimal.Decimal
}

// NewCostTable builds a lookup over entries. Entries must already be unique
// per SKU; a later duplicate replaces an earlier one.
func NewCostTable(entries []CostEntry) CostTable {
	idx := make(map[string]decimal.Decimal, len(entries))
	for _, e := range entries {
		idx[e.SKU] = e.UnitCost
	}
	return CostTable{Entries: entries, index: idx}
}

// UnitCost returns the unit cost for sku and whether one was supplied.
func (t CostTable) UnitCost(sku string) (decimal.Decimal, bool) {
	c, ok := t.index[sku]
	return c, ok
}

// Len returns the number of SKUs with a cost.
func (t CostTable) Len() int {
	return len(t.Entries)
}

// ProfitRow is the profit and loss line of one SKU.
type ProfitRow struct {
	SKU                string          `json:"sku"`
	SalesQty           int64           `json:"sales_qty"`
	AmountPayable      decimal.Decimal `json:"amount_payable"`
	SalesLogisticsSum  decimal.Decimal `json:"sales_logistics_sum"`
	CancelLogisticsSum decimal.Decimal `json:"cancel_logistics_sum"`
	LogisticsTotal     decimal.Decimal `json:"logistics_total"`
	UnitCost           decimal.Decimal `json:"unit_cost"`
	PurchaseTotal      decimal.Decimal `json:"purchase_total"`
	Profit             decimal.Decimal `json:"profit"`
}
