package analysis

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v2"

	apperrors "wbreport/internal/errors"
	"wbreport/pkg/contracts/domain"
)

// Taxonomy keys the pipeline depends on directly.
const (
	CategorySalesLogistics          = "sales_logistics"
	CategoryCancelLogisticsForward  = "cancel_logistics_forward"
	CategoryCancelLogisticsBackward = "cancel_logistics_backward"
)

// Descriptions of the rows appended after the taxonomy categories.
const (
	DescriptionPurchaseCost  = "采购成本"
	DescriptionPlatformTotal = "平台其他费用合计"
	DescriptionGrandTotal    = "总费用"
)

//go:embed taxonomy.yaml
var defaultTaxonomy []byte

// Taxonomy is the fixed, ordered set of fee categories. It is read-only
// after construction and safe for concurrent use.
type Taxonomy struct {
	categories []domain.FeeCategory
	byKey      map[string]int
}

var (
	taxonomyOnce sync.Once
	taxonomyDef  *Taxonomy
)

// DefaultTaxonomy returns the built-in fee taxonomy.
func DefaultTaxonomy() *Taxonomy {
	taxonomyOnce.Do(func() {
		t, err := ParseTaxonomy(defaultTaxonomy)
		if err != nil {
			panic(fmt.Sprintf("analysis: embedded taxonomy: %v", err))
		}
		taxonomyDef = t
	})
	return taxonomyDef
}

// ParseTaxonomy builds a taxonomy from a YAML list of categories. The
// sales and cancellation logistics categories are mandatory.
func ParseTaxonomy(data []byte) (*Taxonomy, error) {
	var cats []domain.FeeCategory
	if err := yaml.Unmarshal(data, &cats); err != nil {
		return nil, apperrors.NewParsingError("fee taxonomy is not valid YAML", err)
	}
	return NewTaxonomy(cats)
}

// NewTaxonomy validates categories and indexes them by key.
func NewTaxonomy(cats []domain.FeeCategory) (*Taxonomy, error) {
	t := &Taxonomy{
		categories: make([]domain.FeeCategory, 0, len(cats)),
		byKey:      make(map[string]int, len(cats)),
	}
	for _, c := range cats {
		if c.Key == "" {
			return nil, fmt.Errorf("fee category without key")
		}
		if len(c.Labels) == 0 {
			return nil, fmt.Errorf("fee category %q has no labels", c.Key)
		}
		if _, dup := t.byKey[c.Key]; dup {
			return nil, fmt.Errorf("duplicate fee category %q", c.Key)
		}
		t.byKey[c.Key] = len(t.categories)
		t.categories = append(t.categories, c)
	}
	for _, key := range []string{CategorySalesLogistics, CategoryCancelLogisticsForward, CategoryCancelLogisticsBackward} {
		if _, ok := t.byKey[key]; !ok {
			return nil, fmt.Errorf("fee category %q is required", key)
		}
	}
	return t, nil
}

// Categories returns a copy of the categories in output order.
func (t *Taxonomy) Categories() []domain.FeeCategory {
	out := make([]domain.FeeCategory, len(t.categories))
	copy(out, t.categories)
	return out
}

// Category looks a category up by key.
func (t *Taxonomy) Category(key string) (domain.FeeCategory, bool) {
	i, ok := t.byKey[key]
	if !ok {
		return domain.FeeCategory{}, false
	}
	return t.categories[i], true
}

// Labels returns the source labels of key, or nil for an unknown key.
func (t *Taxonomy) Labels(key string) []string {
	c, _ := t.Category(key)
	return c.Labels
}

// Len returns the number of categories.
func (t *Taxonomy) Len() int { return len(t.categories) }
