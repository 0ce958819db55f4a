package pricing

import (
	"github.com/ranihwanifactory/mya/internal/catalog"
	"github.com/shopspring/decimal"
)

// BaseLineLabel labels the category line of a breakdown.
const BaseLineLabel = "기본 개발비"

type Line struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

type Estimate struct {
	Category      string          `json:"category,omitempty"`
	Features      []string        `json:"features"`
	BasePrice     decimal.Decimal `json:"base_price"`
	FeaturesPrice decimal.Decimal `json:"features_price"`
	Total         decimal.Decimal `json:"total"`
	Breakdown     []Line          `json:"breakdown"`
}

// Compute prices a category and a feature selection against c.
//
// An empty or unknown category contributes nothing and adds no base line.
// Feature ids are counted once each, in first-seen order; ids the catalog
// does not know are skipped.
func Compute(c *catalog.Catalog, categoryID string, featureIDs []string) Estimate {
	est := Estimate{
		Features:      make([]string, 0, len(featureIDs)),
		BasePrice:     decimal.Zero,
		FeaturesPrice: decimal.Zero,
		Breakdown:     make([]Line, 0, len(featureIDs)+1),
	}

	if cat, ok := c.Category(categoryID); ok {
		est.Category = cat.ID
		est.BasePrice = cat.BasePrice
		est.Breakdown = append(est.Breakdown, Line{Label: BaseLineLabel, Amount: cat.BasePrice})
	}

	seen := make(map[string]struct{}, len(featureIDs))
	for _, id := range featureIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		f, ok := c.Feature(id)
		if !ok {
			continue
		}
		est.Features = append(est.Features, f.ID)
		est.FeaturesPrice = est.FeaturesPrice.Add(f.BaseCost)
		est.Breakdown = append(est.Breakdown, Line{Label: f.Name, Amount: f.BaseCost})
	}

	est.Total = est.BasePrice.Add(est.FeaturesPrice)
	return est
}

// Ready reports whether a category was chosen, i.e. the estimate is final.
func (e Estimate) Ready() bool {
	return e.Category != ""
}

// TotalUnits returns the total in whole currency units.
func (e Estimate) TotalUnits() int64 {
	return e.Total.Round(0).IntPart()
}
