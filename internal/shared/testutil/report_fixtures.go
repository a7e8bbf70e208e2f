package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// ReportHeaders is the column layout of generated report workbooks, using
// the marketplace's own header texts.
var ReportHeaders = []string{
	"Обоснование для оплаты",
	"Виды логистики, штрафов и корректировок ВВ",
	"Баркод",
	"К перечислению Продавцу за реализованный Товар",
	"Вайлдберриз реализовал Товар (Пр)",
	"Цена розничная",
	"Услуги по доставке товара покупателю",
	"Общая сумма штрафов",
	"Стоимость участия в программе лояльности",
	"Сумма удержанная за начисленные баллы программы лояльности",
	"Кол-во",
	"Наименование офиса доставки",
}

// ReportLine is one generated report row.
type ReportLine struct {
	Reason         string
	FeeType        string
	Barcode        string
	Payable        float64
	GMV            float64
	Retail         float64
	Delivery       float64
	Fine           float64
	LoyaltyService float64
	LoyaltyPoints  float64
	Qty            int
	Address        string
}

func (l ReportLine) values() []interface{} {
	return []interface{}{
		l.Reason, l.FeeType, l.Barcode,
		l.Payable, l.GMV, l.Retail, l.Delivery, l.Fine,
		l.LoyaltyService, l.LoyaltyPoints, l.Qty, l.Address,
	}
}

// Sale returns a sale line.
func Sale(barcode string, payable, gmv, retail float64) ReportLine {
	return ReportLine{Reason: "Продажа", Barcode: barcode, Payable: payable, GMV: gmv, Retail: retail, Qty: 1}
}

// Return returns a return line.
func Return(barcode string, payable float64) ReportLine {
	return ReportLine{Reason: "Возврат", Barcode: barcode, Payable: payable, Qty: 1}
}

// Logistics returns a logistics line with the given fee type and delivery fee.
func Logistics(barcode, feeType string, delivery float64, address string) ReportLine {
	return ReportLine{Reason: "Логистика", FeeType: feeType, Barcode: barcode, Delivery: delivery, Address: address}
}

// ReportWorkbook renders lines under ReportHeaders as xlsx bytes.
func ReportWorkbook(t testing.TB, lines ...ReportLine) []byte {
	t.Helper()
	rows := make([][]interface{}, len(lines))
	for i, l := range lines {
		rows[i] = l.values()
	}
	return Workbook(t, ReportHeaders, rows...)
}

// Workbook renders a single-sheet xlsx with header and rows.
func Workbook(t testing.TB, header []string, rows ...[]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &headerRow))

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// WriteFile stores content under dir and returns the path.
func WriteFile(t testing.TB, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}
