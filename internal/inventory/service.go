package inventory

import (
	"sort"

	"github.com/stockpilot/stockpilot/internal/ledger"
)

// StockFilter selects products by stock state.
type StockFilter string

const (
	// FilterAll keeps every product.
	FilterAll StockFilter = "all"
	// FilterInStock keeps products with positive stock.
	FilterInStock StockFilter = "in"
	// FilterOutOfStock keeps products with zero or negative stock.
	FilterOutOfStock StockFilter = "out"
)

// ListFilter narrows the inventory listing.
type ListFilter struct {
	Query string
	Stock StockFilter
}

// Entry pairs a product with its position in the ledger, which is the index
// edit and delete operations address. Display order and ledger order can
// diverge once a filter is applied.
type Entry struct {
	Index int
	ledger.Product
}

// Service provides the read side of the inventory ledger and forwards
// mutations to the store.
type Service struct {
	store *ledger.Store
}

// NewService builds a Service.
func NewService(store *ledger.Store) *Service {
	return &Service{store: store}
}

// List returns products matching the filter, newest first.
func (s *Service) List(filter ListFilter) []Entry {
	products := s.store.Products()
	entries := make([]Entry, 0, len(products))
	for i, p := range products {
		if !p.Matches(filter.Query) {
			continue
		}
		switch filter.Stock {
		case FilterInStock:
			if p.Stock <= 0 {
				continue
			}
		case FilterOutOfStock:
			if p.Stock > 0 {
				continue
			}
		}
		entries = append(entries, Entry{Index: i, Product: p})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt > entries[j].CreatedAt
	})
	return entries
}

// All returns every product in ledger order, for export.
func (s *Service) All() []ledger.Product {
	return s.store.Products()
}

// Add creates a product.
func (s *Service) Add(in ledger.ProductInput) (ledger.Product, error) {
	return s.store.AddProduct(in)
}

// Update replaces the product at the given ledger index.
func (s *Service) Update(index int, in ledger.ProductInput) (ledger.Product, error) {
	return s.store.UpdateProduct(index, in)
}

// Remove deletes the product at the given ledger index.
func (s *Service) Remove(index int) (ledger.Product, error) {
	return s.store.RemoveProduct(index)
}

// LowStockCount counts products at or below the low-stock threshold,
// including zero and negative stock.
func (s *Service) LowStockCount() int {
	count := 0
	for _, p := range s.store.Products() {
		if p.Stock <= ledger.LowStockThreshold {
			count++
		}
	}
	return count
}
