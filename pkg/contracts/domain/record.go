package domain

import (
	"github.com/shopspring/decimal"
)

// PaymentReason is the "Обоснование для оплаты" value of a report line.
type PaymentReason string

const (
	PaymentReasonSale   PaymentReason = "Продажа"
	PaymentReasonReturn PaymentReason = "Возврат"
)

// Logistics fee type labels used by the regional and cancellation passes.
const (
	FeeTypeToCustomerOnSale     = "К клиенту при продаже"
	FeeTypeToCustomerOnCancel   = "К клиенту при отмене"
	FeeTypeFromCustomerOnCancel = "От клиента при отмене"
	FeeTypeFromCustomerOnReturn = "От клиента при возврате"
)

// Record is one line item of a marketplace financial export.
// Numeric fields absent from the source workbook are zero.
type Record struct {
	PaymentReason          PaymentReason   `json:"reason_for_payment"`
	LogisticsFeeType       string          `json:"logistics_fee_type"`
	SKU                    string          `json:"barcode"`
	SupplierSKU            string          `json:"supplier_sku,omitempty"`
	AmountPayable          decimal.Decimal `json:"amount_payable_goods"`
	GMV                    decimal.Decimal `json:"wb_gmv"`
	RetailPrice            decimal.Decimal `json:"retail_price_total"`
	DeliveryFee            decimal.Decimal `json:"delivery_to_customer"`
	FineTotal              decimal.Decimal `json:"fine_total"`
	LoyaltyDiscountComp    decimal.Decimal `json:"loyalty_discount_comp"`
	LoyaltyServiceFee      decimal.Decimal `json:"loyalty_service_fee"`
	LoyaltyPointsDeduction decimal.Decimal `json:"loyalty_points_deduction"`
	Quantity               decimal.Decimal `json:"quantity"`
	Warehouse              string          `json:"warehouse,omitempty"`
	Address                string          `json:"address,omitempty"`
	Source                 string          `json:"source,omitempty"`
}

// IsSale reports whether the record is a sale line.
func (r Record) IsSale() bool {
	return r.PaymentReason == PaymentReasonSale
}

// IsReturn reports whether the record is a return line.
func (r Record) IsReturn() bool {
	return r.PaymentReason == PaymentReasonReturn
}

// RecordSet is the unified, concatenated input of one analysis run.
type RecordSet struct {
	Records []Record `json:"records"`
	// Columns is the union of canonical and pass-through column names in
	// first-appearance order.
	Columns []string `json:"columns"`
	// HasAddress is true when a delivery office address column was found.
	HasAddress bool `json:"has_address"`
	// Sources lists the input names in the order they were concatenated.
	Sources []string `json:"sources"`
}

// Len returns the number of records in the set.
func (s RecordSet) Len() int {
	return len(s.Records)
}

// HasColumn reports whether the named column was present in any source.
func (s RecordSet) HasColumn(name string) bool {
	for _, c := range s.Columns {
		if c == name {
			return true
		}
	}
	return false
}
