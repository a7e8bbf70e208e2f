package analysis

import (
	"sort"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"wbreport/internal/regions"
	"wbreport/pkg/contracts/domain"
)

const republicMarker = "Республика"

// ExtractRegion takes the region token from a delivery office address: the
// first word, or the first two words when the first is "Республика".
// Trailing punctuation is stripped from words. An address with no words
// yields unknown.
func ExtractRegion(address, unknown string) string {
	words := make([]string, 0, 2)
	for _, f := range strings.Fields(address) {
		w := strings.TrimRightFunc(f, unicode.IsPunct)
		if w == "" {
			continue
		}
		words = append(words, w)
		if len(words) == 2 {
			break
		}
	}
	switch {
	case len(words) == 0:
		return unknown
	case len(words) == 2 && words[0] == republicMarker:
		return words[0] + " " + words[1]
	default:
		return words[0]
	}
}

// RegionalTables holds the three regional outputs.
type RegionalTables struct {
	Sales     []domain.RegionSalesRow
	Cancels   []domain.RegionCancelRow
	Districts []domain.DistrictSummaryRow
}

// EmptyRegionalTables is the result when no address data is available.
func EmptyRegionalTables() RegionalTables {
	return RegionalTables{
		Sales:     []domain.RegionSalesRow{},
		Cancels:   []domain.RegionCancelRow{},
		Districts: []domain.DistrictSummaryRow{},
	}
}

// ComposeRegional counts sale deliveries and cancellation returns per region
// and rolls them up to districts.
func ComposeRegional(records []domain.Record, cls regions.Classifier) RegionalTables {
	salesCount := countByRegion(records, domain.FeeTypeToCustomerOnSale, cls.UnknownRegion())
	cancelCount := countByRegion(records, domain.FeeTypeFromCustomerOnCancel, cls.UnknownRegion())

	out := EmptyRegionalTables()
	for _, rc := range sortedCounts(salesCount) {
		district := cls.District(rc.region)
		out.Sales = append(out.Sales, domain.RegionSalesRow{
			Region:          rc.region,
			Sales:           rc.count,
			RegionDisplay:   cls.RegionDisplay(rc.region),
			District:        district,
			DistrictDisplay: cls.DistrictDisplay(district),
		})
	}
	for _, rc := range sortedCounts(cancelCount) {
		district := cls.District(rc.region)
		out.Cancels = append(out.Cancels, domain.RegionCancelRow{
			Region:          rc.region,
			CancelOrders:    rc.count,
			RegionDisplay:   cls.RegionDisplay(rc.region),
			District:        district,
			DistrictDisplay: cls.DistrictDisplay(district),
		})
	}
	out.Districts = DistrictSummary(out.Sales, out.Cancels, cls)
	return out
}

// DistrictSummary outer-joins region tables at district level.
func DistrictSummary(sales []domain.RegionSalesRow, cancels []domain.RegionCancelRow, cls regions.Classifier) []domain.DistrictSummaryRow {
	rows := make(map[string]*domain.DistrictSummaryRow)
	get := func(district string) *domain.DistrictSummaryRow {
		r, ok := rows[district]
		if !ok {
			r = &domain.DistrictSummaryRow{District: district, DistrictDisplay: cls.DistrictDisplay(district)}
			rows[district] = r
		}
		return r
	}
	for _, s := range sales {
		get(s.District).Sales += s.Sales
	}
	for _, c := range cancels {
		get(c.District).CancelOrders += c.CancelOrders
	}

	out := make([]domain.DistrictSummaryRow, 0, len(rows))
	for _, r := range rows {
		r.TotalOrders = r.Sales + r.CancelOrders
		r.CancelRate = safeRatio(decimal.NewFromInt(r.CancelOrders), decimal.NewFromInt(r.TotalOrders))
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sales != out[j].Sales {
			return out[i].Sales > out[j].Sales
		}
		return out[i].District < out[j].District
	})
	return out
}

type regionCount struct {
	region string
	count  int64
}

func countByRegion(records []domain.Record, feeType, unknown string) map[string]int64 {
	counts := make(map[string]int64)
	for _, r := range records {
		if r.LogisticsFeeType != feeType {
			continue
		}
		counts[ExtractRegion(r.Address, unknown)]++
	}
	return counts
}

func sortedCounts(counts map[string]int64) []regionCount {
	out := make([]regionCount, 0, len(counts))
	for region, n := range counts {
		out = append(out, regionCount{region: region, count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].region < out[j].region
	})
	return out
}
