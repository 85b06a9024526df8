// Package analytics aggregates the two ledgers into the dashboard figures:
// today's trading summary, the profit-by-period chart series and the
// top-selling products breakdown.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockpilot/stockpilot/internal/ledger"
)

// ChartRange selects the bucket granularity of the profit chart.
type ChartRange string

const (
	RangeWeek  ChartRange = "week"
	RangeMonth ChartRange = "month"
	RangeYear  ChartRange = "year"
)

// ParseChartRange coerces a raw query value to a valid range, defaulting to
// week.
func ParseChartRange(raw string) ChartRange {
	switch ChartRange(raw) {
	case RangeMonth, RangeYear:
		return ChartRange(raw)
	default:
		return RangeWeek
	}
}

// TodaySummary carries the dashboard headline cards.
type TodaySummary struct {
	Revenue  decimal.Decimal
	Profit   decimal.Decimal
	LowStock int
}

// ProfitBucket is one bar of the profit chart.
type ProfitBucket struct {
	Label  string
	Profit decimal.Decimal
}

// ProductShare is one segment of the top-products breakdown.
type ProductShare struct {
	Item     string
	Quantity int
}

// Service computes dashboard aggregates from the store.
type Service struct {
	store *ledger.Store
	now   func() time.Time
}

// NewService builds a Service.
func NewService(store *ledger.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Today sums revenue and profit over sales struck on the current calendar
// day and counts products at or below the low-stock threshold.
func (s *Service) Today() TodaySummary {
	now := s.now()
	summary := TodaySummary{}
	for _, sale := range s.store.Sales() {
		if !sale.Date.SameDay(now) {
			continue
		}
		summary.Revenue = summary.Revenue.Add(sale.Revenue())
		summary.Profit = summary.Profit.Add(sale.Profit)
	}
	for _, p := range s.store.Products() {
		if p.Stock <= ledger.LowStockThreshold {
			summary.LowStock++
		}
	}
	return summary
}

// ProfitBuckets groups every sale's profit by the label the range dictates:
// weekday name for week, day and month for month, month name for year.
// Buckets appear in first-encountered order over the sales ledger.
func (s *Service) ProfitBuckets(r ChartRange) []ProfitBucket {
	layout := "Mon"
	switch r {
	case RangeMonth:
		layout = "02 Jan"
	case RangeYear:
		layout = "Jan"
	}

	var order []string
	sums := make(map[string]decimal.Decimal)
	for _, sale := range s.store.Sales() {
		label := sale.Date.Format(layout)
		if _, ok := sums[label]; !ok {
			order = append(order, label)
		}
		sums[label] = sums[label].Add(sale.Profit)
	}

	buckets := make([]ProfitBucket, len(order))
	for i, label := range order {
		buckets[i] = ProfitBucket{Label: label, Profit: sums[label]}
	}
	return buckets
}

// TopProducts returns the best sellers by cumulative quantity sold, keyed by
// item name. Ties keep first-encountered order.
func (s *Service) TopProducts(limit int) []ProductShare {
	var order []string
	totals := make(map[string]int)
	for _, sale := range s.store.Sales() {
		if _, ok := totals[sale.Item]; !ok {
			order = append(order, sale.Item)
		}
		totals[sale.Item] += sale.Quantity
	}

	shares := make([]ProductShare, len(order))
	for i, item := range order {
		shares[i] = ProductShare{Item: item, Quantity: totals[item]}
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Quantity > shares[j].Quantity
	})
	if limit > 0 && len(shares) > limit {
		shares = shares[:limit]
	}
	return shares
}
