package portfolio

import "strings"

// AllCategories is the category filter value that matches every item.
const AllCategories = "ALL"

type Filter struct {
	SearchText string
	Category   string
}

func (f Filter) normalized() Filter {
	f.SearchText = strings.TrimSpace(f.SearchText)
	f.Category = strings.TrimSpace(f.Category)
	if f.Category == "" {
		f.Category = AllCategories
	}
	return f
}

// IsDefault reports whether f is plain browsing: no search text and all
// categories.
func (f Filter) IsDefault() bool {
	f = f.normalized()
	return f.SearchText == "" && f.Category == AllCategories
}

// Matches reports whether item passes f. The search text is matched
// case-insensitively against the title, the description and each tag.
func (f Filter) Matches(item Item) bool {
	f = f.normalized()
	if f.Category != AllCategories && item.Category != f.Category {
		return false
	}
	if f.SearchText == "" {
		return true
	}
	q := strings.ToLower(f.SearchText)
	if strings.Contains(strings.ToLower(item.Title), q) || strings.Contains(strings.ToLower(item.Description), q) {
		return true
	}
	for _, tag := range item.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

type Result struct {
	Featured *Item  `json:"featured"`
	Rest     []Item `json:"items"`
}

// Curate filters items, keeping their store order, and picks the featured
// item. Promotion only happens for default browsing; with an active filter
// every match is returned in Rest and Featured is nil.
func Curate(items []Item, filter Filter) Result {
	matched := make([]Item, 0, len(items))
	for _, item := range items {
		if filter.Matches(item) {
			matched = append(matched, item)
		}
	}

	if !filter.IsDefault() {
		return Result{Rest: matched}
	}
	featured, rest := SplitFeatured(matched)
	return Result{Featured: featured, Rest: rest}
}

// SplitFeatured removes the featured item from items: the first one flagged
// IsFeatured, or else the first one. It returns nil and an empty slice for
// empty input.
func SplitFeatured(items []Item) (*Item, []Item) {
	if len(items) == 0 {
		return nil, []Item{}
	}

	idx := 0
	for i, item := range items {
		if item.IsFeatured {
			idx = i
			break
		}
	}

	featured := items[idx]
	rest := make([]Item, 0, len(items)-1)
	rest = append(rest, items[:idx]...)
	rest = append(rest, items[idx+1:]...)
	return &featured, rest
}
