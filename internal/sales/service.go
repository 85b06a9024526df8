package sales

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockpilot/stockpilot/internal/ledger"
)

// DateRange narrows the sales listing to an inclusive calendar-day window.
// Either bound may be zero, which leaves that side open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether ts falls inside the range. Bounds are compared at
// calendar-day granularity, so a sale struck at 23:59 on the From day counts.
func (r DateRange) Contains(ts ledger.Time) bool {
	if !r.From.IsZero() {
		from := time.Date(r.From.Year(), r.From.Month(), r.From.Day(), 0, 0, 0, 0, time.UTC)
		if ts.UTC().Before(from) {
			return false
		}
	}
	if !r.To.IsZero() {
		to := time.Date(r.To.Year(), r.To.Month(), r.To.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
		if !ts.UTC().Before(to) {
			return false
		}
	}
	return true
}

// Entry pairs a sale with its position in the ledger, which is the index edit
// and delete operations address.
type Entry struct {
	Index int
	ledger.Sale
}

// Totals summarises the listed sales.
type Totals struct {
	Count   int
	Revenue decimal.Decimal
	Profit  decimal.Decimal
	Average decimal.Decimal
}

// Service provides the read side of the sales ledger and forwards mutations
// to the store.
type Service struct {
	store *ledger.Store
}

// NewService builds a Service.
func NewService(store *ledger.Store) *Service {
	return &Service{store: store}
}

// List returns sales inside the range, most recent first.
func (s *Service) List(r DateRange) []Entry {
	all := s.store.Sales()
	entries := make([]Entry, 0, len(all))
	for i, sale := range all {
		if !r.Contains(sale.Date) {
			continue
		}
		entries = append(entries, Entry{Index: i, Sale: sale})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date.Time)
	})
	return entries
}

// All returns every sale in recording order, for export.
func (s *Service) All() []ledger.Sale {
	return s.store.Sales()
}

// TotalsFor summarises the given entries. Average is revenue per sale record,
// not per unit, and is zero when there are no entries.
func (s *Service) TotalsFor(entries []Entry) Totals {
	t := Totals{Count: len(entries)}
	for _, e := range entries {
		t.Revenue = t.Revenue.Add(e.Revenue())
		t.Profit = t.Profit.Add(e.Profit)
	}
	if t.Count > 0 {
		t.Average = t.Revenue.DivRound(decimal.NewFromInt(int64(t.Count)), 2)
	}
	return t
}

// SellableProducts returns products with positive stock, for the sale form
// picker.
func (s *Service) SellableProducts() []ledger.Product {
	products := s.store.Products()
	sellable := make([]ledger.Product, 0, len(products))
	for _, p := range products {
		if p.Stock > 0 {
			sellable = append(sellable, p)
		}
	}
	return sellable
}

// Record books a sale against the product with the given SKU.
func (s *Service) Record(sku string, sellPrice decimal.Decimal, quantity int) (ledger.Sale, error) {
	return s.store.RecordSale(sku, sellPrice, quantity)
}

// Edit replaces sell price and quantity of the sale at the given ledger index.
func (s *Service) Edit(index int, sellPrice decimal.Decimal, quantity int) (ledger.Sale, error) {
	return s.store.EditSale(index, sellPrice, quantity)
}

// Delete removes the sale at the given ledger index.
func (s *Service) Delete(index int) (ledger.Sale, error) {
	return s.store.DeleteSale(index)
}
