// Package regions maps region tokens taken from delivery office addresses
// onto federal districts and display names.
package regions

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	apperrors "wbreport/internal/errors"
)

//go:embed regions.yaml
var defaultTable []byte

// Classifier resolves region tokens. Lookups never fail: unknown regions
// fall back to the configured fallback district and to their own name for
// display.
type Classifier interface {
	UnknownRegion() string
	RegionDisplay(region string) string
	District(region string) string
	DistrictDisplay(district string) string
}

type regionEntry struct {
	Name    string `yaml:"name" validate:"required"`
	Display string `yaml:"display"`
}

type districtEntry struct {
	Name    string        `yaml:"name" validate:"required"`
	Display string        `yaml:"display"`
	Regions []regionEntry `yaml:"regions" validate:"dive"`
}

type tableFile struct {
	UnknownRegion           string          `yaml:"unknown_region" validate:"required"`
	UnknownRegionDisplay    string          `yaml:"unknown_region_display"`
	FallbackDistrict        string          `yaml:"fallback_district" validate:"required"`
	FallbackDistrictDisplay string          `yaml:"fallback_district_display"`
	Districts               []districtEntry `yaml:"districts" validate:"required,dive"`
}

// Table is a static Classifier built from a YAML lookup table.
type Table struct {
	unknownRegion    string
	fallbackDistrict string
	regionDistrict   map[string]string
	regionDisplay    map[string]string
	districtDisplay  map[string]string
}

var (
	defaultOnce sync.Once
	defaultTab  *Table
)

// Default returns the built-in table. It panics if the embedded data is
// malformed, which is a build defect.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Parse(defaultTable)
		if err != nil {
			panic(fmt.Sprintf("regions: embedded table: %v", err))
		}
		defaultTab = t
	})
	return defaultTab
}

// LoadFile reads a replacement table from disk.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read region table: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("region table %s: %w", path, err)
	}
	return t, nil
}

// Parse builds a Table from YAML. A region listed under two districts is
// rejected.
func Parse(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, apperrors.NewParsingError("region table is not valid YAML", err)
	}
	if err := validator.New().Struct(f); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	t := &Table{
		unknownRegion:    strings.TrimSpace(f.UnknownRegion),
		fallbackDistrict: strings.TrimSpace(f.FallbackDistrict),
		regionDistrict:   make(map[string]string),
		regionDisplay:    make(map[string]string),
		districtDisplay:  make(map[string]string),
	}
	if f.UnknownRegionDisplay != "" {
		t.regionDisplay[t.unknownRegion] = f.UnknownRegionDisplay
	}
	if f.FallbackDistrictDisplay != "" {
		t.districtDisplay[t.fallbackDistrict] = f.FallbackDistrictDisplay
	}

	for _, d := range f.Districts {
		district := strings.TrimSpace(d.Name)
		if d.Display != "" {
			t.districtDisplay[district] = d.Display
		}
		for _, r := range d.Regions {
			region := strings.TrimSpace(r.Name)
			if prev, ok := t.regionDistrict[region]; ok && prev != district {
				return nil, fmt.Errorf("region %q listed under %q and %q", region, prev, district)
			}
			t.regionDistrict[region] = district
			if r.Display != "" {
				t.regionDisplay[region] = r.Display
			}
		}
	}
	return t, nil
}

// UnknownRegion is the token used for records with no usable address.
func (t *Table) UnknownRegion() string { return t.unknownRegion }

func (t *Table) RegionDisplay(region string) string {
	if d, ok := t.regionDisplay[region]; ok {
		return d
	}
	return region
}

func (t *Table) District(region string) string {
	if d, ok := t.regionDistrict[region]; ok {
		return d
	}
	return t.fallbackDistrict
}

func (t *Table) DistrictDisplay(district string) string {
	if d, ok := t.districtDisplay[district]; ok {
		return d
	}
	return district
}

// Len reports the number of known regions.
func (t *Table) Len() int { return len(t.regionDistrict) }
