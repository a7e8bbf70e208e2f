package analysis

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"wbreport/pkg/contracts/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s", want, got.String())
}

func sale(sku, payable, gmv, retail string) domain.Record {
	return domain.Record{
		PaymentReason: domain.PaymentReasonSale,
		SKU:           sku,
		AmountPayable: d(payable),
		GMV:           d(gmv),
		RetailPrice:   d(retail),
		Quantity:      decimal.NewFromInt(1),
	}
}

func ret(sku, payable string) domain.Record {
	return domain.Record{
		PaymentReason: domain.PaymentReasonReturn,
		SKU:           sku,
		AmountPayable: d(payable),
		Quantity:      decimal.NewFromInt(1),
	}
}

func logistics(sku, feeType, delivery, address string) domain.Record {
	return domain.Record{
		PaymentReason:    "Логистика",
		LogisticsFeeType: feeType,
		SKU:              sku,
		DeliveryFee:      d(delivery),
		Address:          address,
	}
}
