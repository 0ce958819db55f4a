// Package catalog holds the reference data of the estimator: project
// categories with their base price and optional features with their add-on
// cost. A Catalog is immutable once loaded and safe for concurrent use.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultDefinition []byte

var (
	ErrDuplicateID   = errors.New("duplicate id")
	ErrMissingID     = errors.New("missing id")
	ErrNegativePrice = errors.New("negative price")
)

type Category struct {
	ID          string          `json:"id"`
	Label       string          `json:"label"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Description string          `json:"description"`
	IconName    string          `json:"icon_name"`
}

type Feature struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BaseCost    decimal.Decimal `json:"base_cost"`
	IconName    string          `json:"icon_name"`
}

type Catalog struct {
	currency   string
	categories []Category
	features   []Feature
	categoryBy map[string]int
	featureBy  map[string]int
}

type definition struct {
	Currency   string `yaml:"currency"`
	Categories []struct {
		ID          string `yaml:"id"`
		Label       string `yaml:"label"`
		BasePrice   int64  `yaml:"base_price"`
		Description string `yaml:"description"`
		Icon        string `yaml:"icon"`
	} `yaml:"categories"`
	Features []struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		BaseCost    int64  `yaml:"base_cost"`
		Icon        string `yaml:"icon"`
	} `yaml:"features"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog compiled into the binary. It panics if the
// embedded definition is invalid, which is a build defect.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultDefinition)
		if err != nil {
			panic("catalog: invalid embedded definition: " + err.Error())
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Load reads a catalog definition from path, or returns Default when path is
// empty.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var def definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}

	c := &Catalog{
		currency:   strings.TrimSpace(def.Currency),
		categories: make([]Category, 0, len(def.Categories)),
		features:   make([]Feature, 0, len(def.Features)),
		categoryBy: make(map[string]int, len(def.Categories)),
		featureBy:  make(map[string]int, len(def.Features)),
	}
	if c.currency == "" {
		c.currency = "KRW"
	}

	for _, raw := range def.Categories {
		id := strings.TrimSpace(raw.ID)
		if id == "" {
			return nil, fmt.Errorf("catalog: category %q: %w", raw.Label, ErrMissingID)
		}
		if _, exists := c.categoryBy[id]; exists {
			return nil, fmt.Errorf("catalog: category %q: %w", id, ErrDuplicateID)
		}
		if raw.BasePrice < 0 {
			return nil, fmt.Errorf("catalog: category %q: %w", id, ErrNegativePrice)
		}
		label := strings.TrimSpace(raw.Label)
		if label == "" {
			label = id
		}
		c.categoryBy[id] = len(c.categories)
		c.categories = append(c.categories, Category{
			ID:          id,
			Label:       label,
			BasePrice:   decimal.NewFromInt(raw.BasePrice),
			Description: strings.TrimSpace(raw.Description),
			IconName:    strings.TrimSpace(raw.Icon),
		})
	}

	for _, raw := range def.Features {
		id := strings.TrimSpace(raw.ID)
		if id == "" {
			return nil, fmt.Errorf("catalog: feature %q: %w", raw.Name, ErrMissingID)
		}
		if _, exists := c.featureBy[id]; exists {
			return nil, fmt.Errorf("catalog: feature %q: %w", id, ErrDuplicateID)
		}
		if raw.BaseCost < 0 {
			return nil, fmt.Errorf("catalog: feature %q: %w", id, ErrNegativePrice)
		}
		name := strings.TrimSpace(raw.Name)
		if name == "" {
			name = id
		}
		c.featureBy[id] = len(c.features)
		c.features = append(c.features, Feature{
			ID:          id,
			Name:        name,
			Description: strings.TrimSpace(raw.Description),
			BaseCost:    decimal.NewFromInt(raw.BaseCost),
			IconName:    strings.TrimSpace(raw.Icon),
		})
	}

	return c, nil
}

func (c *Catalog) Currency() string {
	return c.currency
}

// Categories returns the categories in definition order. The slice is a copy.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Features returns the features in definition order. The slice is a copy.
func (c *Catalog) Features() []Feature {
	out := make([]Feature, len(c.features))
	copy(out, c.features)
	return out
}

func (c *Catalog) Category(id string) (Category, bool) {
	idx, ok := c.categoryBy[id]
	if !ok {
		return Category{}, false
	}
	return c.categories[idx], true
}

func (c *Catalog) Feature(id string) (Feature, bool) {
	idx, ok := c.featureBy[id]
	if !ok {
		return Feature{}, false
	}
	return c.features[idx], true
}

func (c *Catalog) HasCategory(id string) bool {
	_, ok := c.categoryBy[id]
	return ok
}

func (c *Catalog) HasFeature(id string) bool {
	_, ok := c.featureBy[id]
	return ok
}

// CategoryLabel returns the display label for id, falling back to the raw
// value for categories the catalog does not know.
func (c *Catalog) CategoryLabel(id string) string {
	if cat, ok := c.Category(id); ok {
		return cat.Label
	}
	return id
}
