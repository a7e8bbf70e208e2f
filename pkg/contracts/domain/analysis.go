package domain

import (
	"time"
)

// PayablePolicy selects which fees are deducted from net sales when the
// seller's final payable amount is computed.
type PayablePolicy string

const (
	// PayablePlatformFees deducts platform fees only; purchase cost is borne
	// by the seller and only reduces net profit.
	PayablePlatformFees PayablePolicy = "platform_fees"
	// PayableAllFees deducts the grand total (platform fees + purchase cost).
	PayableAllFees PayablePolicy = "all_fees"
)

// Valid reports whether p is a known policy.
func (p PayablePolicy) Valid() bool {
	return p == PayablePlatformFees || p == PayableAllFees
}

// AnalysisReport bundles every derived table of one analysis run.
type AnalysisReport struct {
	RunID       string       `json:"run_id"`
	Label       string       `json:"label"`
	GeneratedAt time.Time    `json:"generated_at"`
	Sources     []string     `json:"sources"`
	SourceFiles []SourceFile `json:"source_files"`
	RecordCount int          `json:"record_count"`
	Warnings    []string     `json:"warnings,omitempty"`

	SalesBySKU            []SalesAggregate      `json:"sales_by_sku"`
	ReturnsBySKU          []SalesAggregate      `json:"returns_by_sku"`
	NetSalesBySKU         []NetSalesRow         `json:"net_sales_by_sku"`
	SalesLogisticsBySKU   []SalesLogisticsRow   `json:"sales_logistics_by_sku"`
	CancelLogisticsBySKU  []CancelLogisticsRow  `json:"cancel_logistics_by_sku"`
	CancellationRateBySKU []CancellationRateRow `json:"cancellation_rate_by_sku"`
	FeeSummary            []FeeSummaryRow       `json:"fee_summary"`
	Overview              Overview              `json:"overview"`
	ProfitBySKU           []ProfitRow           `json:"profit_by_sku"`
	SalesByRegion         []RegionSalesRow      `json:"sales_by_region"`
	CancelByRegion        []RegionCancelRow     `json:"cancel_by_region"`
	DistrictSummary       []DistrictSummaryRow  `json:"district_summary"`
}

// AddWarning records a non-fatal condition of the run.
func (r *AnalysisReport) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
