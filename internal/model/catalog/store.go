package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	ErrDuplicateID    = errors.New("duplicate product id")
	ErrInvalidProduct = errors.New("invalid product")
)

// Store exposes read-only catalog access to the rest of the service.
type Store interface {
	List() []Product
	FindByID(id string) (Product, bool)
	ByCategory(category Category) []Product
}

// MemoryStore implements Store over a slice loaded once at startup.
type MemoryStore struct {
	items []Product
	index map[string]int
}

// NewMemoryStore validates items and returns a store preserving their order.
func NewMemoryStore(items []Product) (*MemoryStore, error) {
	store := &MemoryStore{
		items: append([]Product(nil), items...),
		index: make(map[string]int, len(items)),
	}

	v := productValidator()
	for i, item := range store.items {
		if err := v.Struct(item); err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidProduct, item.ID, err)
		}
		if _, exists := store.index[item.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, item.ID)
		}
		store.index[item.ID] = i
	}

	return store, nil
}

// List returns every product in catalog order.
func (s *MemoryStore) List() []Product {
	return append([]Product(nil), s.items...)
}

// FindByID looks up a product by identifier.
func (s *MemoryStore) FindByID(id string) (Product, bool) {
	i, ok := s.index[id]
	if !ok {
		return Product{}, false
	}
	return s.items[i], true
}

// ByCategory returns the products of one category in catalog order.
func (s *MemoryStore) ByCategory(category Category) []Product {
	out := make([]Product, 0, len(s.items))
	for _, item := range s.items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

// LoadFile reads a JSON array of products, as produced by the catalog export.
func LoadFile(path string) ([]Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var items []Product
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode catalog file: %w", err)
	}
	return items, nil
}

var (
	validatorOnce sync.Once
	validate      *validator.Validate
)

func productValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return Category(fl.Field().String()).Valid()
		})
	})
	return validate
}
