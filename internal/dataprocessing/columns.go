package dataprocessing

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Canonical column names of a report line.
const (
	ColReasonForPayment       = "reason_for_payment"
	ColLogisticsFeeType       = "logistics_fee_type"
	ColBarcode                = "barcode"
	ColSupplierSKU            = "supplier_sku"
	ColAmountPayable          = "amount_payable_goods"
	ColGMV                    = "wb_gmv"
	ColRetailPrice            = "retail_price_total"
	ColDeliveryToCustomer     = "delivery_to_customer"
	ColFineTotal              = "fine_total"
	ColLoyaltyDiscountComp    = "loyalty_discount_comp"
	ColLoyaltyServiceFee      = "loyalty_service_fee"
	ColLoyaltyPointsDeduction = "loyalty_points_deduction"
	ColQuantity               = "quantity"
	ColWarehouse              = "warehouse"
)

// ColumnMap renames report headers to canonical names. Matching is exact.
var ColumnMap = map[string]string{
	"Обоснование для оплаты":                                     ColReasonForPayment,
	"Виды логистики, штрафов и корректировок ВВ":                 ColLogisticsFeeType,
	"Баркод":                                                     ColBarcode,
	"Артикул поставщика":                                         ColSupplierSKU,
	"К перечислению Продавцу за реализованный Товар":             ColAmountPayable,
	"Вайлдберриз реализовал Товар (Пр)":                          ColGMV,
	"Цена розничная":                                             ColRetailPrice,
	"Услуги по доставке товара покупателю":                       ColDeliveryToCustomer,
	"Общая сумма штрафов":                                        ColFineTotal,
	"Компенсация скидки по программе лояльности":                 ColLoyaltyDiscountComp,
	"Стоимость участия в программе лояльности":                   ColLoyaltyServiceFee,
	"Сумма удержанная за начисленные баллы программы лояльности": ColLoyaltyPointsDeduction,
	"Кол-во":                                                     ColQuantity,
	"Склад":                                                      ColWarehouse,
}

// NumericColumns are created as zero when no report carries them.
var NumericColumns = []string{
	ColAmountPayable,
	ColGMV,
	ColRetailPrice,
	ColDeliveryToCustomer,
	ColFineTotal,
	ColLoyaltyDiscountComp,
	ColLoyaltyServiceFee,
	ColLoyaltyPointsDeduction,
	ColQuantity,
}

// MandatoryColumns must be present in at least one report.
var MandatoryColumns = []string{
	ColReasonForPayment,
	ColLogisticsFeeType,
	ColBarcode,
}

var addressHeaders = []string{
	"Наименование офиса доставки",
	"Наименование офиса",
}

const addressHeaderFragment = "офиса доставки"

// CanonicalName returns the canonical name of a report header, or the
// header itself when it is not mapped.
func CanonicalName(header string) string {
	if c, ok := ColumnMap[header]; ok {
		return c
	}
	return header
}

// IsAddressHeader reports whether header names the delivery office address.
func IsAddressHeader(header string) bool {
	h := norm.NFC.String(strings.TrimSpace(header))
	for _, candidate := range addressHeaders {
		if h == candidate {
			return true
		}
	}
	return strings.Contains(h, addressHeaderFragment)
}

// findAddressColumn returns the index of the first address header, or -1.
func findAddressColumn(header []string) int {
	for i, h := range header {
		if IsAddressHeader(h) {
			return i
		}
	}
	return -1
}
