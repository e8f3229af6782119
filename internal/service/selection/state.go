package selection

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zhouzirui/adeslas-assistant/backend/internal/model/catalog"
)

var ErrUnknownProduct = errors.New("unknown product")

// MinCompare is the smallest comparison set the comparison view accepts.
const MinCompare = 2

// Snapshot is a read-only view of the selection.
type Snapshot struct {
	Category   *catalog.Category `json:"category"`
	CompareIDs []string          `json:"compareIds"`
	CanCompare bool              `json:"canCompare"`
}

// State holds the category filter and the ordered comparison set.
type State struct {
	catalog catalog.Store

	mu       sync.Mutex
	filter   *catalog.Category
	compare  []string
	memoKey  string
	memoOK   bool
	memoList []catalog.Product
}

// New creates an empty selection over store.
func New(store catalog.Store) *State {
	return &State{catalog: store}
}

// SetCategoryFilter replaces the filter; nil shows every product.
func (s *State) SetCategoryFilter(category *catalog.Category) error {
	if category != nil && !category.Valid() {
		return fmt.Errorf("invalid category %q", *category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if category == nil {
		s.filter = nil
		return nil
	}
	c := *category
	s.filter = &c
	return nil
}

// CategoryFilter returns the active filter, or nil.
func (s *State) CategoryFilter() *catalog.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.filter == nil {
		return nil
	}
	c := *s.filter
	return &c
}

// Visible lists the products matching the filter in catalog order. The result
// is memoized per filter value.
func (s *State) Visible() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ""
	if s.filter != nil {
		key = string(*s.filter)
	}
	if !s.memoOK || s.memoKey != key {
		if s.filter == nil {
			s.memoList = s.catalog.List()
		} else {
			s.memoList = s.catalog.ByCategory(*s.filter)
		}
		s.memoKey = key
		s.memoOK = true
	}
	return append([]catalog.Product(nil), s.memoList...)
}

// ToggleCompare adds id to the comparison set, or removes it when present.
// It reports whether id is selected afterwards.
func (s *State) ToggleCompare(id string) (bool, error) {
	if _, ok := s.catalog.FindByID(id); !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownProduct, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.compare {
		if existing == id {
			s.compare = append(s.compare[:i:i], s.compare[i+1:]...)
			return false, nil
		}
	}
	s.compare = append(s.compare, id)
	return true, nil
}

// ClearCompare empties the comparison set.
func (s *State) ClearCompare() {
	s.mu.Lock()
	s.compare = nil
	s.mu.Unlock()
}

// CompareIDs returns the comparison set in insertion order.
func (s *State) CompareIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.compare...)
}

// CanCompare reports whether the comparison view may be opened.
func (s *State) CanCompare() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.compare) >= MinCompare
}

// Snapshot returns the current selection.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Category:   s.CategoryFilter(),
		CompareIDs: s.CompareIDs(),
		CanCompare: s.CanCompare(),
	}
}
