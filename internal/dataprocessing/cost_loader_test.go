package dataprocessing

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "wbreport/internal/errors"
	"wbreport/internal/shared/testutil"
)

func TestCostLoader_MeanPerSKU(t *testing.T) {
	content := testutil.Workbook(t,
		[]string{" SKU ", "采购成本", "备注"},
		[]interface{}{"B2", 10, ""},
		[]interface{}{"A1", 30, "only entry"},
		[]interface{}{"B2", 20, "duplicate"},
		[]interface{}{"", 99, "no sku"},
		[]interface{}{"C3", "n/a", ""},
		[]interface{}{2041.0, 5, ""},
	)

	table, err := NewCostLoader(nil).Load(context.Background(), "cost.xlsx", bytes.NewReader(content))
	require.NoError(t, err)

	require.Equal(t, 4, table.Len())
	skus := make([]string, 0, table.Len())
	for _, e := range table.Entries {
		skus = append(skus, e.SKU)
	}
	assert.Equal(t, []string{"2041", "A1", "B2", "C3"}, skus)

	a1, ok := table.UnitCost("A1")
	require.True(t, ok)
	assert.Equal(t, "30", a1.String())

	b2, _ := table.UnitCost("B2")
	assert.Equal(t, "15", b2.String(), "duplicates are averaged")

	c3, ok := table.UnitCost("C3")
	require.True(t, ok)
	assert.True(t, c3.IsZero(), "no usable cost reads as zero")

	_, ok = table.UnitCost("Z9")
	assert.False(t, ok)
}

func TestCostLoader_HeaderAliases(t *testing.T) {
	tests := []struct {
		name   string
		header []string
	}{
		{"english", []string{"Barcode", "Purchase_Cost"}},
		{"chinese", []string{"条码", "采购成本"}},
		{"sku wins over barcode", []string{"barcode", "SKU", "COST"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := make([]interface{}, len(tt.header))
			for i := range row {
				row[i] = "7"
			}
			content := testutil.Workbook(t, tt.header, row)

			table, err := NewCostLoader(nil).Load(context.Background(), "cost.xlsx", bytes.NewReader(content))
			require.NoError(t, err)
			cost, ok := table.UnitCost("7")
			require.True(t, ok)
			assert.Equal(t, "7", cost.String())
		})
	}
}

func TestCostLoader_SchemaMismatch(t *testing.T) {
	tests := []struct {
		name    string
		content func(t *testing.T) []byte
	}{
		{"no sku column", func(t *testing.T) []byte {
			return testutil.Workbook(t, []string{"article", "cost"}, []interface{}{"A1", 1})
		}},
		{"no cost column", func(t *testing.T) []byte {
			return testutil.Workbook(t, []string{"sku", "price"}, []interface{}{"A1", 1})
		}},
		{"not a workbook", func(t *testing.T) []byte {
			return []byte("sku,cost\nA1,1\n")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewCostLoader(nil).Load(context.Background(), "cost.xlsx", bytes.NewReader(tt.content(t)))
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchemaMismatch))
			assert.Zero(t, table.Len())
		})
	}
}
