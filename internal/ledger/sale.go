package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a record of the sales ledger. Item, SKU and CostPrice are frozen
// copies taken from the product at sale time; later product edits do not
// touch them. ProductID pins the exact product identity the sale was struck
// against, so stock restores never cross onto a re-created SKU.
type Sale struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Item      string          `json:"item"`
	SKU       string          `json:"sku"`
	SellPrice decimal.Decimal `json:"sellPrice"`
	CostPrice decimal.Decimal `json:"costPrice"`
	Quantity  int             `json:"quantity"`
	Profit    decimal.Decimal `json:"profit"`
	Date      Time            `json:"date"`
}

// Revenue returns sellPrice * quantity for the sale.
func (s Sale) Revenue() decimal.Decimal {
	return s.SellPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Time is the sale timestamp. It serialises as an ISO-8601 string with
// millisecond precision in UTC so encode/decode round-trips are stable.
type Time struct {
	time.Time
}

// NewTime wraps a time.Time as a ledger timestamp.
func NewTime(t time.Time) Time {
	return Time{t.UTC().Truncate(time.Millisecond)}
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(timeLayout) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler. It accepts any RFC 3339
// timestamp, with or without fractional seconds.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid timestamp %s", s)
	}
	parsed, err := time.Parse(time.RFC3339, s[1:len(s)-1])
	if err != nil {
		return err
	}
	*t = NewTime(parsed)
	return nil
}

// SameDay reports whether the sale timestamp falls on the same calendar day
// as ref, in ref's location.
func (t Time) SameDay(ref time.Time) bool {
	y1, m1, d1 := t.In(ref.Location()).Date()
	y2, m2, d2 := ref.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
