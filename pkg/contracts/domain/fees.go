package domain

import (
	"github.com/shopspring/decimal"
)

// FeeCategory is one entry of the fixed fee taxonomy.
type FeeCategory struct {
	Key         string   `json:"key" yaml:"key"`
	Labels      []string `json:"labels" yaml:"labels"`
	Description string   `json:"description" yaml:"description"`
}

// Matches reports whether feeType is one of the category's source labels.
func (c FeeCategory) Matches(feeType string) bool {
	for _, l := range c.Labels {
		if l == feeType {
			return true
		}
	}
	return false
}

// FeeRowKind distinguishes taxonomy rows from the computed total rows.
type FeeRowKind string

const (
	FeeRowCategory      FeeRowKind = "category"
	FeeRowPurchaseCost  FeeRowKind = "purchase_cost"
	FeeRowPlatformTotal FeeRowKind = "platform_total"
	FeeRowGrandTotal    FeeRowKind = "grand_total"
)

// Keys of the rows appended after the taxonomy categories.
const (
	FeeKeyPurchaseCost  = "purchase_cost"
	FeeKeyPlatformTotal = "platform_fee_total"
	FeeKeyGrandTotal    = "grand_total"
)

// FeeSummaryRow is one line of the fee summary table.
type FeeSummaryRow struct {
	Key               string          `json:"key"`
	Kind              FeeRowKind      `json:"kind"`
	Description       string          `json:"description"`
	FineSum           decimal.Decimal `json:"fine_sum"`
	LoyaltyServiceSum decimal.Decimal `json:"loyalty_service_sum"`
	LoyaltyPointsSum  decimal.Decimal `json:"loyalty_points_sum"`
	LogisticsSum      decimal.Decimal `json:"logistics_sum"`
	TotalFee          decimal.Decimal `json:"total_fee"`
}

// Metric is one named scalar of the overview.
type Metric struct {
	Key   string          `json:"key"`
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// Overview metric keys, in output order.
const (
	MetricTotalSalesQty      = "total_sales_qty"
	MetricTotalReturnQty     = "total_return_qty"
	MetricTotalSalesAmount   = "total_sales_amount"
	MetricTotalReturnAmount  = "total_return_amount"
	MetricNetSalesAmount     = "net_sales_amount"
	MetricPlatformFeeAmount  = "platform_fee_amount"
	MetricPurchaseCostTotal  = "purchase_cost_total"
	MetricTotalFeeAmount     = "total_fee_amount"
	MetricFinalPayableAmount = "final_payable_amount"
	MetricNetProfit          = "net_profit"
)

// Overview is the singleton run summary.
type Overview struct {
	Metrics []Metric `json:"metrics"`
}

// Metric returns the metric with key, or false when absent.
func (o Overview) Metric(key string) (Metric, bool) {
	for _, m := range o.Metrics {
		if m.Key == key {
			return m, true
		}
	}
	return Metric{}, false
}

// Value returns the value of the metric with key, or false when absent.
func (o Overview) Value(key string) (decimal.Decimal, bool) {
	m, ok := o.Metric(key)
	if !ok {
		return decimal.Zero, false
	}
	return m.Value, true
}
