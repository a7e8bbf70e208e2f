package analysis

import (
	"fmt"

	"github.com/shopspring/decimal"

	apperrors "wbreport/internal/errors"
	"wbreport/pkg/contracts/domain"
)

// MetricLabels are the display labels of the overview metrics.
var MetricLabels = map[string]string{
	domain.MetricTotalSalesQty:      "销售件数",
	domain.MetricTotalReturnQty:     "退货件数",
	domain.MetricTotalSalesAmount:   "销售结算金额（含退货前）",
	domain.MetricTotalReturnAmount:  "退货结算金额",
	domain.MetricNetSalesAmount:     "净销售结算金额",
	domain.MetricPlatformFeeAmount:  "平台费用（不含采购成本）",
	domain.MetricPurchaseCostTotal:  "采购成本总额",
	domain.MetricTotalFeeAmount:     "总费用（平台费用+采购成本）",
	domain.MetricFinalPayableAmount: "平台最终应付金额",
	domain.MetricNetProfit:          "净利润",
}

// FeeSummary sums fee components per taxonomy category and appends the
// purchase cost, platform total and grand total rows. Every category is
// present even when no record matches it.
func FeeSummary(records []domain.Record, tax *Taxonomy, profit []domain.ProfitRow) []domain.FeeSummaryRow {
	cats := tax.Categories()
	rows := make([]domain.FeeSummaryRow, 0, len(cats)+3)

	platformTotal := decimal.Zero
	for _, c := range cats {
		row := domain.FeeSummaryRow{
			Key:               c.Key,
			Kind:              domain.FeeRowCategory,
			Description:       c.Description,
			FineSum:           decimal.Zero,
			LoyaltyServiceSum: decimal.Zero,
			LoyaltyPointsSum:  decimal.Zero,
			LogisticsSum:      decimal.Zero,
		}
		for _, r := range records {
			if !c.Matches(r.LogisticsFeeType) {
				continue
			}
			row.FineSum = row.FineSum.Add(r.FineTotal)
			row.LoyaltyServiceSum = row.LoyaltyServiceSum.Add(r.LoyaltyServiceFee)
			row.LoyaltyPointsSum = row.LoyaltyPointsSum.Add(r.LoyaltyPointsDeduction)
			row.LogisticsSum = row.LogisticsSum.Add(r.DeliveryFee)
		}
		row.TotalFee = row.FineSum.Add(row.LoyaltyServiceSum).Add(row.LoyaltyPointsSum).Add(row.LogisticsSum)
		platformTotal = platformTotal.Add(row.TotalFee)
		rows = append(rows, row)
	}

	purchase := decimal.Zero
	for _, p := range profit {
		purchase = purchase.Add(p.PurchaseTotal)
	}

	rows = append(rows,
		totalRow(domain.FeeKeyPurchaseCost, domain.FeeRowPurchaseCost, DescriptionPurchaseCost, purchase),
		totalRow(domain.FeeKeyPlatformTotal, domain.FeeRowPlatformTotal, DescriptionPlatformTotal, platformTotal),
		totalRow(domain.FeeKeyGrandTotal, domain.FeeRowGrandTotal, DescriptionGrandTotal, platformTotal.Add(purchase)),
	)
	return rows
}

func totalRow(key string, kind domain.FeeRowKind, desc string, total decimal.Decimal) domain.FeeSummaryRow {
	return domain.FeeSummaryRow{
		Key:               key,
		Kind:              kind,
		Description:       desc,
		FineSum:           decimal.Zero,
		LoyaltyServiceSum: decimal.Zero,
		LoyaltyPointsSum:  decimal.Zero,
		LogisticsSum:      decimal.Zero,
		TotalFee:          total,
	}
}

// ComputeOverview derives the run summary. Fee totals are read back from the
// fee summary by key; a missing row is an invariant error.
func ComputeOverview(records []domain.Record, fees []domain.FeeSummaryRow, policy domain.PayablePolicy) (domain.Overview, error) {
	if !policy.Valid() {
		return domain.Overview{}, apperrors.NewAppValidationError(fmt.Sprintf("unknown payable policy %q", policy))
	}

	var salesQty, returnQty int64
	salesAmount, returnAmount := decimal.Zero, decimal.Zero
	for _, r := range records {
		switch {
		case r.IsSale():
			salesQty++
			salesAmount = salesAmount.Add(r.AmountPayable)
		case r.IsReturn():
			returnQty++
			returnAmount = returnAmount.Add(r.AmountPayable)
		}
	}
	netSales := salesAmount.Sub(returnAmount)

	platform, err := feeTotal(fees, domain.FeeKeyPlatformTotal)
	if err != nil {
		return domain.Overview{}, err
	}
	purchase, err := feeTotal(fees, domain.FeeKeyPurchaseCost)
	if err != nil {
		return domain.Overview{}, err
	}
	grand, err := feeTotal(fees, domain.FeeKeyGrandTotal)
	if err != nil {
		return domain.Overview{}, err
	}

	var finalPayable, netProfit decimal.Decimal
	switch policy {
	case domain.PayableAllFees:
		finalPayable = netSales.Sub(grand)
		netProfit = finalPayable
	default:
		finalPayable = netSales.Sub(platform)
		netProfit = finalPayable.Sub(purchase)
	}

	values := []struct {
		key   string
		value decimal.Decimal
	}{
		{domain.MetricTotalSalesQty, decimal.NewFromInt(salesQty)},
		{domain.MetricTotalReturnQty, decimal.NewFromInt(returnQty)},
		{domain.MetricTotalSalesAmount, salesAmount},
		{domain.MetricTotalReturnAmount, returnAmount},
		{domain.MetricNetSalesAmount, netSales},
		{domain.MetricPlatformFeeAmount, platform},
		{domain.MetricPurchaseCostTotal, purchase},
		{domain.MetricTotalFeeAmount, grand},
		{domain.MetricFinalPayableAmount, finalPayable},
		{domain.MetricNetProfit, netProfit},
	}

	ov := domain.Overview{Metrics: make([]domain.Metric, 0, len(values))}
	for _, v := range values {
		ov.Metrics = append(ov.Metrics, domain.Metric{Key: v.key, Label: MetricLabels[v.key], Value: v.value})
	}
	return ov, nil
}

func feeTotal(fees []domain.FeeSummaryRow, key string) (decimal.Decimal, error) {
	for _, f := range fees {
		if f.Key == key {
			return f.TotalFee, nil
		}
	}
	return decimal.Zero, apperrors.NewInvariantError(fmt.Sprintf("fee summary has no %q row", key))
}
