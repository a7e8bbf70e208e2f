package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySource(t *testing.T) {
	tests := []struct {
		name string
		want SourceFile
	}{
		{"20251103-1109境内.xlsx", SourceFile{Name: "20251103-1109境内.xlsx", Period: "20251103-1109", Market: MarketDomestic}},
		{"境外_20251103-1109.xlsx", SourceFile{Name: "境外_20251103-1109.xlsx", Period: "20251103-1109", Market: MarketCrossBorder}},
		{"week45.xlsx", SourceFile{Name: "week45.xlsx", Period: "week45", Market: MarketUnknown}},
		{"week45-final.XLSX", SourceFile{Name: "week45-final.XLSX", Period: "week45-final", Market: MarketUnknown}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifySource(tt.name))
		})
	}
}

func TestMarketDisplayName(t *testing.T) {
	assert.Equal(t, "境内", MarketDomestic.DisplayName())
	assert.Equal(t, "境外", MarketCrossBorder.DisplayName())
	assert.Equal(t, "未知", MarketUnknown.DisplayName())
	assert.Equal(t, "未知", Market("").DisplayName())
}

func TestClassifySourcesKeepsOrder(t *testing.T) {
	got := ClassifySources([]string{"b境外.xlsx", "a境内.xlsx"})
	assert.Equal(t, []Market{MarketCrossBorder, MarketDomestic}, []Market{got[0].Market, got[1].Market})
	assert.Equal(t, []string{"b", "a"}, []string{got[0].Period, got[1].Period})
}
