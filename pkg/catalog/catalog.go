// Package catalog holds the mattress recommendation table.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultTable []byte

// ErrNoRecommendation is returned when the table has no entry for a bracket and firmness.
var ErrNoRecommendation = errors.New("no recommendation")

// Bracket is a weight category.
type Bracket string

const (
	BracketLight  Bracket = "50"
	BracketMedium Bracket = "70"
	BracketHeavy  Bracket = "100"
)

// Brackets lists every weight category, lightest first.
var Brackets = []Bracket{BracketLight, BracketMedium, BracketHeavy}

// BracketFor maps a body weight in kilograms to its bracket.
func BracketFor(weight int) Bracket {
	switch {
	case weight >= 100:
		return BracketHeavy
	case weight >= 70:
		return BracketMedium
	default:
		return BracketLight
	}
}

// Firmness is a canonical softness preference.
type Firmness string

const (
	Soft       Firmness = "мягкий"
	MediumSoft Firmness = "средне-мягкий"
	Medium     Firmness = "средний"
	MediumFirm Firmness = "средне-жесткий"
	Firm       Firmness = "жесткий"
)

// Firmnesses lists every firmness level, softest first.
var Firmnesses = []Firmness{Soft, MediumSoft, Medium, MediumFirm, Firm}

// Product is a single mattress offer.
type Product struct {
	Name     string `yaml:"name"`
	Price    int    `yaml:"price"`
	PriceTwo int    `yaml:"price_two"`
	URL      string `yaml:"url"`
}

// Table maps bracket and firmness to an ordered list of products.
type Table map[Bracket]map[Firmness][]Product

type document struct {
	Products map[string]Product `yaml:"products"`
	Table    Table              `yaml:"table"`
}

// Load decodes a table from YAML. Shared products are expressed with anchors.
func Load(r io.Reader) (Table, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if err := doc.Table.Validate(); err != nil {
		return nil, err
	}
	return doc.Table, nil
}

// Validate checks that every bracket has products for every firmness.
func (t Table) Validate() error {
	var errs []error
	for _, b := range Brackets {
		row, ok := t[b]
		if !ok {
			errs = append(errs, fmt.Errorf("bracket %s is missing", b))
			continue
		}
		for _, f := range Firmnesses {
			if len(row[f]) == 0 {
				errs = append(errs, fmt.Errorf("bracket %s has no products for %q", b, f))
			}
		}
	}
	return errors.Join(errs...)
}

// Lookup returns the products for a bracket and firmness.
func (t Table) Lookup(b Bracket, f Firmness) ([]Product, error) {
	products := t[b][f]
	if len(products) == 0 {
		return nil, fmt.Errorf("bracket %s, firmness %q: %w", b, f, ErrNoRecommendation)
	}
	return products, nil
}

// Recommend resolves the bracket for a weight and returns its products.
func (t Table) Recommend(weight int, f Firmness) ([]Product, error) {
	return t.Lookup(BracketFor(weight), f)
}

var loadDefault = sync.OnceValues(func() (Table, error) {
	return Load(bytes.NewReader(defaultTable))
})

// Default returns the table shipped with the binary.
func Default() Table {
	t, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return t
}
