package exporter

import (
	"github.com/shopspring/decimal"

	"wbreport/pkg/contracts/domain"
)

// Sheet names in workbook order.
const (
	SheetSalesBySKU       = "Sales_by_SKU"
	SheetReturnsBySKU     = "Returns_by_SKU"
	SheetNetSalesBySKU    = "Net_Sales_by_SKU"
	SheetLogisticsSales   = "Logistics_Sales"
	SheetLogisticsCancel  = "Logistics_Cancellations"
	SheetCancellationRate = "Cancellation_Rate"
	SheetFeeSummary       = "Fee_Summary"
	SheetFinalOverview    = "Final_Overview"
	SheetProfitBySKU      = "Profit_by_SKU"
	SheetSalesByRegion    = "Sales_by_Region"
	SheetCancelByRegion   = "Cancel_by_Region"
	SheetDistrictSummary  = "District_Summary"
)

// SheetOrder lists every sheet of the summary workbook.
var SheetOrder = []string{
	SheetSalesBySKU,
	SheetReturnsBySKU,
	SheetNetSalesBySKU,
	SheetLogisticsSales,
	SheetLogisticsCancel,
	SheetCancellationRate,
	SheetFeeSummary,
	SheetFinalOverview,
	SheetProfitBySKU,
	SheetSalesByRegion,
	SheetCancelByRegion,
	SheetDistrictSummary,
}

// Sheet is one output table. Cells hold string, int64, decimal.Decimal or
// decimal.NullDecimal values.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]interface{}
}

// BuildSheets lays out every table of report in workbook order. Empty
// tables still carry their header.
func BuildSheets(report *domain.AnalysisReport) []Sheet {
	return []Sheet{
		salesSheet(SheetSalesBySKU, report.SalesBySKU),
		returnsSheet(report.ReturnsBySKU),
		netSalesSheet(report.NetSalesBySKU),
		salesLogisticsSheet(report.SalesLogisticsBySKU),
		cancelLogisticsSheet(report.CancelLogisticsBySKU),
		cancellationRateSheet(report.CancellationRateBySKU),
		feeSummarySheet(report.FeeSummary),
		overviewSheet(report.Overview),
		profitSheet(report.ProfitBySKU),
		regionSalesSheet(report.SalesByRegion),
		regionCancelSheet(report.CancelByRegion),
		districtSheet(report.DistrictSummary),
	}
}

func salesSheet(name string, rows []domain.SalesAggregate) Sheet {
	s := Sheet{
		Name:   name,
		Header: []string{"barcode", "sales_qty", "amount_payable_sum", "wb_gmv_sum", "retail_price_sum", "discount_rate"},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []interface{}{r.SKU, r.Qty, r.PayableSum, r.GMVSum, r.RetailPriceSum, r.DiscountRate})
	}
	return s
}

func returnsSheet(rows []domain.SalesAggregate) Sheet {
	s := Sheet{
		Name:   SheetReturnsBySKU,
		Header: []string{"barcode", "return_qty", "amount_return_sum", "wb_gmv_return_sum", "retail_price_return_sum"},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []interface{}{r.SKU, r.Qty, r.PayableSum, r.GMVSum, r.RetailPriceSum})
	}
	return s
}

func netSalesSheet(rows []domain.NetSalesRow) Sheet {
	s := Sheet{
		Name:   SheetNetSalesBySKU,
		Header: []string{"SKU", "件数", "商品应付金额", "前台销售额", "后台定价"},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []interface{}{r.SKU, r.NetQty, r.NetAmountPayable, r.NetGMV, r.NetRetailPrice})
	}
	return s
}

func salesLogisticsSheet(rows []domain.SalesLogisticsRow) Sheet {
	s := Sheet{
		Name:   SheetLogisticsSales,
		Header: []string{"barcode", "sales_logistics_count", "sales_logistics_sum", "sales_logistics_per_unit"},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []interface{}{r.SKU, r.Count, r.Sum, r.PerUnit})
	}
	return s
}

func cancelLogisticsSheet(rows []domain.CancelLogisticsRow) Sheet {
	s := Sheet{
		Name: SheetLogisticsCancel,
		Header: []string{
			"barcode", "forward_count", "forward_logistics_sum", "backward_count", "backward_logistics_sum",
			"total_cancel_records", "cancel_qty", "total_cancel_logistics", "cancel_logistics_per_unit",
		},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []interface{}{
			r.SKU, r.ForwardCount, r.ForwardSum, r.BackwardCount, r.BackwardSum,
			r.TotalCancelRecords, r.CancelQty, r.TotalCancelLogistics, r.PerUnit,
		})
	}
	return s
}

func cancellationRateSheet(rows []domain.CancellationRateRow) Sheet {
	s := Sheet{
		Name:   SheetCancellationRate,
		Header: []string{"barcode", "sales_qty", "cancel_qty", "total_orders", "cancellation_rate"},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []interface{}{r.SKU, r.SalesQty, r.CancelQty, r.TotalOrders, r.CancellationRate})
	}
	return s
}

func feeSummarySheet(rows []domain.FeeSummaryRow) Sheet {
	s := Sheet{
		Name: SheetFeeSummary,
		Header: []string{
			"key", "description", "fine_sum", "loyalty_service_sum", "loyalty_points_sum", "logistics_sum", "total_fee",
		},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []interface{}{
			r.Key, r.Description, r.FineSum, r.LoyaltyServiceSum, r.LoyaltyPointsSum, r.LogisticsSum, r.TotalFee,
		})
	}
	return s
}

func overviewSheet(ov domain.Overview) Sheet {
	s := Sheet{
		Name:   SheetFinalOverview,
		Header: []string{"metric_zh", "metric", "value"},
	}
	for _, m := range ov.Metrics {
		s.Rows = append(s.Rows, []interface{}{m.Label, m.Key, m.Value})
	}
	return s
}

func profitSheet(rows []domain.ProfitRow) Sheet {
	s := Sheet{
		Name:   SheetProfitBySKU,
		Header: []string{"SKU", "销售件数", "商品应付金额", "物流费用", "采购成本", "利润"},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []interface{}{r.SKU, r.SalesQty, r.AmountPayable, r.LogisticsTotal, r.PurchaseTotal, r.Profit})
	}
	return s
}

func regionSalesSheet(rows []domain.RegionSalesRow) Sheet {
	s := Sheet{
		Name:   SheetSalesByRegion,
		Header: []string{"region", "sales", "region_cn", "district", "district_cn"},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []interface{}{r.Region, r.Sales, r.RegionDisplay, r.District, r.DistrictDisplay})
	}
	return s
}

func regionCancelSheet(rows []domain.RegionCancelRow) Sheet {
	s := Sheet{
		Name:   SheetCancelByRegion,
		Header: []string{"region", "cancel_orders", "region_cn", "district", "district_cn"},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []interface{}{r.Region, r.CancelOrders, r.RegionDisplay, r.District, r.DistrictDisplay})
	}
	return s
}

func districtSheet(rows []domain.DistrictSummaryRow) Sheet {
	s := Sheet{
		Name:   SheetDistrictSummary,
		Header: []string{"district", "district_cn", "sales", "cancel_orders", "total_orders", "cancel_rate"},
	}
	for _, r := range rows {
		s.Rows = append(s.Rows, []interface{}{r.District, r.DistrictDisplay, r.Sales, r.CancelOrders, r.TotalOrders, r.CancelRate})
	}
	return s
}

// xlsxValue converts a cell for the workbook. Decimals become numbers and a
// null decimal an empty cell.
func xlsxValue(v interface{}) interface{} {
	switch v := v.(type) {
	case decimal.Decimal:
		return v.InexactFloat64()
	case decimal.NullDecimal:
		if !v.Valid {
			return nil
		}
		return v.Decimal.InexactFloat64()
	default:
		return v
	}
}
