package domain

import (
	"github.com/shopspring/decimal"
)

// SalesAggregate holds per-SKU totals of sale lines or of return lines.
type SalesAggregate struct {
	SKU            string          `json:"sku"`
	Qty            int64           `json:"qty"`
	PayableSum     decimal.Decimal `json:"amount_payable_sum"`
	GMVSum         decimal.Decimal `json:"wb_gmv_sum"`
	RetailPriceSum decimal.Decimal `json:"retail_price_sum"`
	// DiscountRate is 1 - GMVSum/RetailPriceSum rounded to 4 places.
	// It is invalid (null) when RetailPriceSum is zero.
	DiscountRate decimal.NullDecimal `json:"discount_rate"`
}

// NetSalesRow is sales minus returns for one SKU.
type NetSalesRow struct {
	SKU              string          `json:"sku"`
	NetQty           int64           `json:"net_qty"`
	NetAmountPayable decimal.Decimal `json:"net_amount_payable"`
	NetGMV           decimal.Decimal `json:"net_wb_gmv"`
	NetRetailPrice   decimal.Decimal `json:"net_retail_price"`
}

// SalesLogisticsRow holds forward delivery charges for successful sales.
type SalesLogisticsRow struct {
	SKU     string          `json:"sku"`
	Count   int64           `json:"sales_logistics_count"`
	Sum     decimal.Decimal `json:"sales_logistics_sum"`
	PerUnit decimal.Decimal `json:"sales_logistics_per_unit"`
}

// CancelLogisticsRow holds forward and backward delivery charges of cancelled
// orders. Each cancelled order yields one forward and one backward record.
type CancelLogisticsRow struct {
	SKU                  string          `json:"sku"`
	ForwardCount         int64           `json:"forward_count"`
	ForwardSum           decimal.Decimal `json:"forward_logistics_sum"`
	BackwardCount        int64           `json:"backward_count"`
	BackwardSum          decimal.Decimal `json:"backward_logistics_sum"`
	TotalCancelRecords   int64           `json:"total_cancel_records"`
	CancelQty            decimal.Decimal `json:"cancel_qty"`
	TotalCancelLogistics decimal.Decimal `json:"total_cancel_logistics"`
	PerUnit              decimal.Decimal `json:"cancel_logistics_per_unit"`
}

// CancellationRateRow relates cancelled orders to all orders of a SKU.
type CancellationRateRow struct {
	SKU              string          `json:"sku"`
	SalesQty         int64           `json:"sales_qty"`
	CancelQty        decimal.Decimal `json:"cancel_qty"`
	TotalOrders      decimal.Decimal `json:"total_orders"`
	CancellationRate decimal.Decimal `json:"cancellation_rate"`
}
