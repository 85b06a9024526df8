package ledger

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Change describes a committed mutation. It carries full copies of the
// collections that changed so subscribers never observe a half-applied state.
type Change struct {
	Inventory bool
	Sales     bool
	Snapshot  Snapshot
}

// Snapshot is a point-in-time copy of both ledgers.
type Snapshot struct {
	Products []Product
	Sales    []Sale
}

// Store owns the inventory and sales ledgers. Every mutation runs to
// completion under one mutex and either commits fully or leaves both
// collections untouched. Subscribers are notified inside the critical
// section so persisted snapshots always land in mutation order.
type Store struct {
	mu       sync.Mutex
	products []Product
	sales    []Sale
	subs     []func(Change)

	now   func() time.Time
	newID func() string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{now: time.Now, newID: uuid.NewString}
}

// Restore installs previously persisted snapshots. Subscribers are not
// notified; the data is already durable.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append([]Product(nil), snap.Products...)
	s.sales = append([]Sale(nil), snap.Sales...)
}

// Subscribe registers fn to be called after every committed mutation.
func (s *Store) Subscribe(fn func(Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Products returns a copy of the inventory ledger in insertion order
// (newest product first; AddProduct prepends).
func (s *Store) Products() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Product(nil), s.products...)
}

// Sales returns a copy of the sales ledger in recording order.
func (s *Store) Sales() []Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Sale(nil), s.sales...)
}

// AddProduct validates the input and prepends a new product to the ledger.
func (s *Store) AddProduct(in ProductInput) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := in.validate(); err != nil {
		return Product{}, err
	}
	sku := strings.TrimSpace(in.SKU)
	if s.indexBySKU(sku) >= 0 {
		return Product{}, ErrDuplicateSKU
	}

	p := Product{
		ID:        s.newID(),
		Item:      strings.TrimSpace(in.Item),
		SKU:       sku,
		CostPrice: in.CostPrice,
		Stock:     in.Stock,
		CreatedAt: s.now().UnixMilli(),
	}
	s.products = append([]Product{p}, s.products...)
	s.notify(Change{Inventory: true})
	return p, nil
}

// UpdateProduct replaces the editable fields of the product at index.
// Identity and creation time are preserved. A direct stock edit here
// bypasses sale history; callers own that trade-off.
func (s *Store) UpdateProduct(index int, in ProductInput) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.products) {
		return Product{}, ErrProductNotFound
	}
	if err := in.validate(); err != nil {
		return Product{}, err
	}
	sku := strings.TrimSpace(in.SKU)
	if i := s.indexBySKU(sku); i >= 0 && i != index {
		return Product{}, ErrDuplicateSKU
	}

	p := s.products[index]
	p.Item = strings.TrimSpace(in.Item)
	p.SKU = sku
	p.CostPrice = in.CostPrice
	p.Stock = in.Stock
	s.products[index] = p
	s.notify(Change{Inventory: true})
	return p, nil
}

// RemoveProduct deletes the product at index. Sales referencing it are kept
// as-is; they become orphans whose stock is never restored (see DeleteSale).
func (s *Store) RemoveProduct(index int) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.products) {
		return Product{}, ErrProductNotFound
	}
	p := s.products[index]
	s.products = append(s.products[:index], s.products[index+1:]...)
	s.notify(Change{Inventory: true})
	return p, nil
}

// RecordSale books a sale against the product with the given SKU, freezing
// item name and cost price, and decrements the product's stock.
func (s *Store) RecordSale(sku string, sellPrice decimal.Decimal, quantity int) (Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return Sale{}, ErrValidation
	}
	i := s.indexBySKU(sku)
	if i < 0 {
		return Sale{}, ErrProductNotFound
	}
	p := s.products[i]
	if p.Stock < quantity {
		return Sale{}, ErrInsufficientStock
	}

	qty := decimal.NewFromInt(int64(quantity))
	sale := Sale{
		ID:        s.newID(),
		ProductID: p.ID,
		Item:      p.Item,
		SKU:       p.SKU,
		SellPrice: sellPrice,
		CostPrice: p.CostPrice,
		Quantity:  quantity,
		Profit:    sellPrice.Sub(p.CostPrice).Mul(qty),
		Date:      NewTime(s.now()),
	}
	s.products[i].Stock -= quantity
	s.sales = append(s.sales, sale)
	s.notify(Change{Inventory: true, Sales: true})
	return sale, nil
}

// EditSale replaces the sell price and quantity of the sale at index,
// adjusting the originating product's stock by the quantity delta. Profit is
// recomputed against the frozen cost price. Nothing is committed on error.
func (s *Store) EditSale(index int, sellPrice decimal.Decimal, quantity int) (Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.sales) {
		return Sale{}, ErrSaleNotFound
	}
	if quantity <= 0 {
		return Sale{}, ErrValidation
	}
	sale := s.sales[index]
	i := s.indexByProductID(sale.ProductID)
	if i < 0 {
		return Sale{}, ErrProductNotFound
	}
	stockChange := quantity - sale.Quantity
	if s.products[i].Stock-stockChange < 0 {
		return Sale{}, ErrInsufficientStock
	}

	s.products[i].Stock -= stockChange
	sale.SellPrice = sellPrice
	sale.Quantity = quantity
	sale.Profit = sellPrice.Sub(sale.CostPrice).Mul(decimal.NewFromInt(int64(quantity)))
	s.sales[index] = sale
	s.notify(Change{Inventory: true, Sales: true})
	return sale, nil
}

// DeleteSale removes the sale at index and restores its quantity to the
// originating product. If that product no longer exists the sale is removed
// without touching stock.
func (s *Store) DeleteSale(index int) (Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.sales) {
		return Sale{}, ErrSaleNotFound
	}
	sale := s.sales[index]
	if i := s.indexByProductID(sale.ProductID); i >= 0 {
		s.products[i].Stock += sale.Quantity
	}
	s.sales = append(s.sales[:index], s.sales[index+1:]...)
	s.notify(Change{Inventory: true, Sales: true})
	return sale, nil
}

func (s *Store) indexBySKU(sku string) int {
	for i, p := range s.products {
		if p.SKU == sku {
			return i
		}
	}
	return -1
}

func (s *Store) indexByProductID(id string) int {
	if id == "" {
		return -1
	}
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) notify(change Change) {
	if len(s.subs) == 0 {
		return
	}
	change.Snapshot = Snapshot{
		Products: append([]Product(nil), s.products...),
		Sales:    append([]Sale(nil), s.sales...),
	}
	for _, fn := range s.subs {
		fn(change)
	}
}
