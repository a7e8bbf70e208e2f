package domain

import (
	"path/filepath"
	"strings"
)

// Market tells whether a report covers domestic or cross-border sales.
type Market string

const (
	MarketDomestic    Market = "domestic"
	MarketCrossBorder Market = "cross_border"
	MarketUnknown     Market = "unknown"
)

// File name markers sellers use to tag the two report kinds.
const (
	domesticMarker    = "境内"
	crossBorderMarker = "境外"
)

// DisplayName returns the label shown next to the file in run summaries.
func (m Market) DisplayName() string {
	switch m {
	case MarketDomestic:
		return domesticMarker
	case MarketCrossBorder:
		return crossBorderMarker
	default:
		return "未知"
	}
}

// SourceFile describes one input report as read from its file name.
type SourceFile struct {
	Name   string `json:"name"`
	Period string `json:"period"`
	Market Market `json:"market"`
}

// ClassifySource derives period and market from a report file name such as
// "20251103-1109境内.xlsx". The period is the file stem with the market
// marker removed; a name without a marker keeps its whole stem and an
// unknown market.
func ClassifySource(name string) SourceFile {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	src := SourceFile{Name: name, Period: stem, Market: MarketUnknown}

	switch {
	case strings.Contains(stem, domesticMarker):
		src.Market = MarketDomestic
		src.Period = strings.ReplaceAll(stem, domesticMarker, "")
	case strings.Contains(stem, crossBorderMarker):
		src.Market = MarketCrossBorder
		src.Period = strings.ReplaceAll(stem, crossBorderMarker, "")
	default:
		return src
	}
	src.Period = strings.Trim(src.Period, " _-")
	return src
}

// ClassifySources applies ClassifySource to names, keeping their order.
func ClassifySources(names []string) []SourceFile {
	out := make([]SourceFile, len(names))
	for i, n := range names {
		out[i] = ClassifySource(n)
	}
	return out
}
