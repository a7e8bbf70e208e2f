package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wbreport/pkg/contracts/domain"
)

func TestSalesAndReturnsBySKU(t *testing.T) {
	records := []domain.Record{
		sale("A1", "100", "90", "120"),
		sale("A1", "150", "135", "180"),
		ret("A1", "50"),
		sale("B2", "10", "0", "0"),
		logistics("A1", domain.FeeTypeToCustomerOnSale, "30", ""),
	}

	sales := SalesBySKU(records)
	require.Len(t, sales, 2)
	assert.Equal(t, "A1", sales[0].SKU)
	assert.EqualValues(t, 2, sales[0].Qty)
	assertDec(t, "250", sales[0].PayableSum)
	assertDec(t, "225", sales[0].GMVSum)
	assertDec(t, "300", sales[0].RetailPriceSum)
	require.True(t, sales[0].DiscountRate.Valid)
	assertDec(t, "0.25", sales[0].DiscountRate.Decimal)

	assert.Equal(t, "B2", sales[1].SKU)
	assert.False(t, sales[1].DiscountRate.Valid, "zero retail sum leaves the discount rate undefined")

	returns := ReturnsBySKU(records)
	require.Len(t, returns, 1)
	assert.EqualValues(t, 1, returns[0].Qty)
	assertDec(t, "50", returns[0].PayableSum)
}

func TestSalesBySKU_EmptySKUIsAGroup(t *testing.T) {
	sales := SalesBySKU([]domain.Record{sale("", "5", "5", "10"), sale("", "5", "5", "10")})
	require.Len(t, sales, 1)
	assert.Equal(t, "", sales[0].SKU)
	assert.EqualValues(t, 2, sales[0].Qty)
}

func TestDiscountRate_Rounding(t *testing.T) {
	r := DiscountRate(d("2"), d("3"))
	require.True(t, r.Valid)
	assertDec(t, "0.3333", r.Decimal)
}

func TestNetSalesBySKU(t *testing.T) {
	records := []domain.Record{
		sale("A1", "100", "90", "120"),
		sale("A1", "150", "135", "180"),
		ret("A1", "50"),
		ret("C3", "20"),
		sale("B2", "10", "8", "12"),
	}
	net := NetSalesBySKU(SalesBySKU(records), ReturnsBySKU(records))
	require.Len(t, net, 3)

	assert.Equal(t, "A1", net[0].SKU)
	assert.EqualValues(t, 1, net[0].NetQty)
	assertDec(t, "200", net[0].NetAmountPayable)
	assertDec(t, "225", net[0].NetGMV)

	assert.Equal(t, "B2", net[1].SKU)
	assert.EqualValues(t, 1, net[1].NetQty)

	assert.Equal(t, "C3", net[2].SKU)
	assert.EqualValues(t, -1, net[2].NetQty)
	assertDec(t, "-20", net[2].NetAmountPayable)
}

func TestSalesLogisticsBySKU(t *testing.T) {
	labels := DefaultTaxonomy().Labels(CategorySalesLogistics)
	records := []domain.Record{
		logistics("A1", domain.FeeTypeToCustomerOnSale, "30", ""),
		logistics("A1", domain.FeeTypeToCustomerOnSale, "40", ""),
		logistics("A1", domain.FeeTypeToCustomerOnSale, "0", ""),
		logistics("A1", domain.FeeTypeToCustomerOnCancel, "99", ""),
		logistics("B2", domain.FeeTypeToCustomerOnSale, "10", ""),
		logistics("B2", domain.FeeTypeToCustomerOnSale, "10", ""),
		logistics("B2", domain.FeeTypeToCustomerOnSale, "0.01", ""),
	}
	rows := SalesLogisticsBySKU(records, labels)
	require.Len(t, rows, 2)

	assert.EqualValues(t, 2, rows[0].Count, "zero delivery fees are excluded")
	assertDec(t, "70", rows[0].Sum)
	assertDec(t, "35", rows[0].PerUnit)

	assert.EqualValues(t, 3, rows[1].Count)
	assertDec(t, "20.01", rows[1].Sum)
	assertDec(t, "6.67", rows[1].PerUnit)
}

func TestCancelLogisticsBySKU(t *testing.T) {
	tax := DefaultTaxonomy()
	records := []domain.Record{
		logistics("A1", domain.FeeTypeToCustomerOnCancel, "50", ""),
		logistics("A1", domain.FeeTypeFromCustomerOnCancel, "40", ""),
		logistics("A1", domain.FeeTypeToCustomerOnCancel, "50", ""),
		logistics("A1", domain.FeeTypeFromCustomerOnCancel, "40", ""),
		logistics("B2", domain.FeeTypeToCustomerOnCancel, "33", ""),
		logistics("C3", domain.FeeTypeFromCustomerOnCancel, "0", ""),
		logistics("D4", domain.FeeTypeToCustomerOnSale, "10", ""),
	}
	rows := CancelLogisticsBySKU(records,
		tax.Labels(CategoryCancelLogisticsForward),
		tax.Labels(CategoryCancelLogisticsBackward))
	require.Len(t, rows, 3)

	a1 := rows[0]
	assert.Equal(t, "A1", a1.SKU)
	assert.EqualValues(t, 2, a1.ForwardCount)
	assert.EqualValues(t, 2, a1.BackwardCount)
	assert.EqualValues(t, 4, a1.TotalCancelRecords)
	assertDec(t, "2", a1.CancelQty)
	assertDec(t, "180", a1.TotalCancelLogistics)
	assertDec(t, "90", a1.PerUnit)

	b2 := rows[1]
	assertDec(t, "0.5", b2.CancelQty)
	assertDec(t, "66", b2.PerUnit)

	c3 := rows[2]
	assertDec(t, "0.5", c3.CancelQty)
	assertDec(t, "0", c3.PerUnit)
}

func TestCancelLogisticsBySKU_NoRecords(t *testing.T) {
	rows := CancelLogisticsBySKU(nil, []string{"x"}, []string{"y"})
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestCancellationRateBySKU(t *testing.T) {
	sales := []domain.SalesAggregate{{SKU: "A1", Qty: 3}, {SKU: "B2", Qty: 0}}
	cancels := []domain.CancelLogisticsRow{{SKU: "A1", CancelQty: d("1")}, {SKU: "C3", CancelQty: d("2")}}

	rows := CancellationRateBySKU(sales, cancels)
	require.Len(t, rows, 3)

	assertDec(t, "4", rows[0].TotalOrders)
	assertDec(t, "0.25", rows[0].CancellationRate)

	assert.Equal(t, "B2", rows[1].SKU)
	assertDec(t, "0", rows[1].TotalOrders)
	assertDec(t, "0", rows[1].CancellationRate)

	assert.Equal(t, "C3", rows[2].SKU)
	assert.EqualValues(t, 0, rows[2].SalesQty)
	assertDec(t, "1", rows[2].CancellationRate)
}
