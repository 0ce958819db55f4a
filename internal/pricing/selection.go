package pricing

import "github.com/ranihwanifactory/mya/internal/catalog"

// Selection accumulates the estimator form state: one category and a set of
// feature ids kept in the order they were first selected. The zero value is
// ready to use. A Selection is not safe for concurrent use.
type Selection struct {
	category string
	order    []string
	selected map[string]struct{}
}

func NewSelection(categoryID string, featureIDs ...string) *Selection {
	s := &Selection{category: categoryID}
	for _, id := range featureIDs {
		s.Add(id)
	}
	return s
}

// SelectCategory switches the category. Selected features are kept so the
// add-on cost can be compared across categories.
func (s *Selection) SelectCategory(id string) {
	s.category = id
}

func (s *Selection) Category() string {
	return s.category
}

// Add selects id if it is not selected yet and reports whether it changed
// the selection.
func (s *Selection) Add(id string) bool {
	if s.Has(id) {
		return false
	}
	if s.selected == nil {
		s.selected = make(map[string]struct{})
	}
	s.selected[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// Remove deselects id and reports whether it was selected.
func (s *Selection) Remove(id string) bool {
	if !s.Has(id) {
		return false
	}
	delete(s.selected, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Toggle adds id when absent and removes it when present. It returns whether
// id is selected afterwards.
func (s *Selection) Toggle(id string) bool {
	if s.Remove(id) {
		return false
	}
	s.Add(id)
	return true
}

func (s *Selection) Has(id string) bool {
	_, ok := s.selected[id]
	return ok
}

// Features returns the selected ids in selection order.
func (s *Selection) Features() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Selection) Estimate(c *catalog.Catalog) Estimate {
	return Compute(c, s.category, s.order)
}
