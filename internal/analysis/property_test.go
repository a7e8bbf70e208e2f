package analysis

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"wbreport/pkg/contracts/domain"
)

var propertyFeeTypes = []interface{}{
	"",
	domain.FeeTypeToCustomerOnSale,
	domain.FeeTypeToCustomerOnCancel,
	domain.FeeTypeFromCustomerOnCancel,
	domain.FeeTypeFromCustomerOnReturn,
	"Стоимость участия в программе лояльности",
	"Занижение фактических габаритов упаковки товара",
	"Хранение",
}

func genRecord() gopter.Gen {
	return gopter.CombineGens(
		gen.OneConstOf("A1", "B2", "C3", "D4", ""),
		gen.OneConstOf(domain.PaymentReasonSale, domain.PaymentReasonReturn, domain.PaymentReason("Логистика")),
		gen.OneConstOf(propertyFeeTypes...),
		gen.Int64Range(-50000, 500000),
		gen.Int64Range(0, 500000),
		gen.Int64Range(0, 600000),
		gen.Int64Range(0, 30000),
		gen.Int64Range(0, 5000),
	).Map(func(v []interface{}) domain.Record {
		return domain.Record{
			SKU:               v[0].(string),
			PaymentReason:     v[1].(domain.PaymentReason),
			LogisticsFeeType:  v[2].(string),
			AmountPayable:     decimal.New(v[3].(int64), -2),
			GMV:               decimal.New(v[4].(int64), -2),
			RetailPrice:       decimal.New(v[5].(int64), -2),
			DeliveryFee:       decimal.New(v[6].(int64), -2),
			FineTotal:         decimal.New(v[7].(int64), -2),
			LoyaltyServiceFee: decimal.New(v[7].(int64), -3),
		}
	})
}

func genRecords() gopter.Gen {
	return gen.SliceOf(genRecord())
}

func genCosts() gopter.Gen {
	return gen.MapOf(gen.OneConstOf("A1", "B2", "Z9"), gen.Int64Range(0, 100000)).
		Map(func(m map[string]int64) domain.CostTable {
			entries := make([]domain.CostEntry, 0, len(m))
			for sku, c := range m {
				entries = append(entries, domain.CostEntry{SKU: sku, UnitCost: decimal.New(c, -2)})
			}
			return domain.NewCostTable(entries)
		})
}

func newProperties() *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	return gopter.NewProperties(parameters)
}

func TestNetSalesProperties(t *testing.T) {
	props := newProperties()

	props.Property("net qty is sales minus returns over the union of SKUs", prop.ForAll(
		func(records []domain.Record) bool {
			sales := SalesBySKU(records)
			returns := ReturnsBySKU(records)
			net := NetSalesBySKU(sales, returns)

			want := make(map[string]int64)
			for _, s := range sales {
				if s.Qty <= 0 {
					return false
				}
				want[s.SKU] += s.Qty
			}
			for _, r := range returns {
				want[r.SKU] -= r.Qty
			}
			if len(net) != len(want) {
				return false
			}
			for _, n := range net {
				q, ok := want[n.SKU]
				if !ok || q != n.NetQty {
					return false
				}
			}
			return true
		},
		genRecords(),
	))

	props.Property("aggregate rows never exceed distinct filtered SKUs", prop.ForAll(
		func(records []domain.Record) bool {
			distinct := make(map[string]struct{})
			for _, r := range records {
				if r.IsSale() {
					distinct[r.SKU] = struct{}{}
				}
			}
			return len(SalesBySKU(records)) <= len(distinct)
		},
		genRecords(),
	))

	props.TestingRun(t)
}

func TestCancellationProperties(t *testing.T) {
	props := newProperties()
	tax := DefaultTaxonomy()
	forward := tax.Labels(CategoryCancelLogisticsForward)
	backward := tax.Labels(CategoryCancelLogisticsBackward)

	props.Property("cancel qty is half the cancel records and per-unit is guarded", prop.ForAll(
		func(records []domain.Record) bool {
			for _, c := range CancelLogisticsBySKU(records, forward, backward) {
				total := c.ForwardCount + c.BackwardCount
				if c.TotalCancelRecords != total {
					return false
				}
				if !c.CancelQty.Equal(decimal.NewFromInt(total).Div(two)) {
					return false
				}
				if c.ForwardCount == c.BackwardCount && !c.CancelQty.Equal(decimal.NewFromInt(c.ForwardCount)) {
					return false
				}
				if c.CancelQty.IsZero() && !c.PerUnit.IsZero() {
					return false
				}
			}
			return true
		},
		genRecords(),
	))

	props.Property("cancellation rate is zero without orders and within [0,1]", prop.ForAll(
		func(records []domain.Record) bool {
			sales := SalesBySKU(records)
			cancels := CancelLogisticsBySKU(records, forward, backward)
			for _, r := range CancellationRateBySKU(sales, cancels) {
				if r.TotalOrders.IsZero() && !r.CancellationRate.IsZero() {
					return false
				}
				if r.CancellationRate.IsNegative() || r.CancellationRate.GreaterThan(decimal.NewFromInt(1)) {
					return false
				}
			}
			return true
		},
		genRecords(),
	))

	props.TestingRun(t)
}

func TestProfitAndFeeProperties(t *testing.T) {
	props := newProperties()
	tax := DefaultTaxonomy()

	props.Property("profit, fee totals and overview identities hold", prop.ForAll(
		func(records []domain.Record, costs domain.CostTable) bool {
			sales := SalesBySKU(records)
			net := NetSalesBySKU(sales, ReturnsBySKU(records))
			salesLog := SalesLogisticsBySKU(records, tax.Labels(CategorySalesLogistics))
			cancelLog := CancelLogisticsBySKU(records,
				tax.Labels(CategoryCancelLogisticsForward), tax.Labels(CategoryCancelLogisticsBackward))
			profit := ProfitBySKU(net, salesLog, cancelLog, costs)
			if len(profit) != len(net) {
				return false
			}

			purchase := decimal.Zero
			for _, p := range profit {
				unit, ok := costs.UnitCost(p.SKU)
				if !ok {
					unit = decimal.Zero
				}
				if !p.PurchaseTotal.Equal(unit.Mul(decimal.NewFromInt(p.SalesQty))) {
					return false
				}
				if !p.Profit.Equal(p.AmountPayable.Sub(p.LogisticsTotal).Sub(p.PurchaseTotal)) {
					return false
				}
				purchase = purchase.Add(p.PurchaseTotal)
			}

			fees := FeeSummary(records, tax, profit)
			if len(fees) != tax.Len()+3 {
				return false
			}
			platform := decimal.Zero
			for _, f := range fees[:tax.Len()] {
				platform = platform.Add(f.TotalFee)
			}
			rowPurchase, _ := feeTotal(fees, domain.FeeKeyPurchaseCost)
			rowPlatform, _ := feeTotal(fees, domain.FeeKeyPlatformTotal)
			rowGrand, _ := feeTotal(fees, domain.FeeKeyGrandTotal)
			if !rowPlatform.Equal(platform) || !rowPurchase.Equal(purchase) || !rowGrand.Equal(platform.Add(purchase)) {
				return false
			}

			ov, err := ComputeOverview(records, fees, domain.PayablePlatformFees)
			if err != nil {
				return false
			}
			netSales, _ := ov.Value(domain.MetricNetSalesAmount)
			final, _ := ov.Value(domain.MetricFinalPayableAmount)
			netProfit, _ := ov.Value(domain.MetricNetProfit)
			return final.Equal(netSales.Sub(platform)) && netProfit.Equal(final.Sub(purchase))
		},
		genRecords(),
		genCosts(),
	))

	props.TestingRun(t)
}
