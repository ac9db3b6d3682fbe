package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/layer-3/catalog/core"
	"github.com/shopspring/decimal"
)

// DefaultProducts is the catalog every fresh instance starts with
var DefaultProducts = []core.Product{
	{Name: "Notebook", Description: "Notebook Dell Inspiron", Price: decimal.RequireFromString("3500.00"), Quantity: 10},
	{Name: "Mouse", Description: "Mouse Logitech sem fio", Price: decimal.RequireFromString("350.00"), Quantity: 50},
	{Name: "Teclado", Description: "Teclado mecânico", Price: decimal.RequireFromString("250.00"), Quantity: 30},
}

// ProductMemoryStore is an in-memory implementation of ports.ProductRepository
type ProductMemoryStore struct {
	mu       sync.RWMutex
	products map[int64]core.Product
	nextID   int64
}

// NewProductMemoryStore creates a store holding the given products, numbered from 1
func NewProductMemoryStore(seed []core.Product) *ProductMemoryStore {
	s := &ProductMemoryStore{
		products: make(map[int64]core.Product, len(seed)),
		nextID:   1,
	}
	for _, p := range seed {
		p.ID = s.nextID
		s.products[p.ID] = p
		s.nextID++
	}
	return s
}

// List returns products ordered by id. A non-empty search matches name or
// description, ignoring case.
func (s *ProductMemoryStore) List(ctx context.Context, search string) ([]core.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(search))
	result := make([]core.Product, 0, len(s.products))
	for _, p := range s.products {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		result = append(result, p)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Get returns the product with id
func (s *ProductMemoryStore) Get(ctx context.Context, id int64) (core.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return core.Product{}, core.ErrProductNotFound
	}
	return p, nil
}

// Create assigns the next id and stores the product
func (s *ProductMemoryStore) Create(ctx context.Context, product core.Product) (core.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product.ID = s.nextID
	s.nextID++
	s.products[product.ID] = product
	return product, nil
}

// Update replaces the stored product with the same id
func (s *ProductMemoryStore) Update(ctx context.Context, product core.Product) (core.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; !ok {
		return core.Product{}, core.ErrProductNotFound
	}
	s.products[product.ID] = product
	return product, nil
}

// Delete removes the product with id
func (s *ProductMemoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return core.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}
