package domain

import (
	"github.com/shopspring/decimal"
)

// RegionSalesRow counts successful sale deliveries to one region.
type RegionSalesRow struct {
	Region          string `json:"region"`
	Sales           int64  `json:"sales"`
	RegionDisplay   string `json:"region_display"`
	District        string `json:"district"`
	DistrictDisplay string `json:"district_display"`
}

// RegionCancelRow counts cancelled orders returning from one region.
type RegionCancelRow struct {
	Region          string `json:"region"`
	CancelOrders    int64  `json:"cancel_orders"`
	RegionDisplay   string `json:"region_display"`
	District        string `json:"district"`
	DistrictDisplay string `json:"district_display"`
}

// DistrictSummaryRow is the federal district rollup of sales and cancels.
type DistrictSummaryRow struct {
	District        string          `json:"district"`
	DistrictDisplay string          `json:"district_display"`
	Sales           int64           `json:"sales"`
	CancelOrders    int64           `json:"cancel_orders"`
	TotalOrders     int64           `json:"total_orders"`
	CancelRate      decimal.Decimal `json:"cancel_rate"`
}
