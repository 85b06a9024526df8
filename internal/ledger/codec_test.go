package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "Pen", "PEN-1", "2.00", 10)
	_, err := s.RecordSale("PEN-1", decimal.RequireFromString("5.00"), 3)
	require.NoError(t, err)

	inventory, err := EncodeProducts(s.Products())
	require.NoError(t, err)
	sales, err := EncodeSales(s.Sales())
	require.NoError(t, err)

	snap, err := DecodeSnapshot(inventory, sales)
	require.NoError(t, err)
	require.Len(t, snap.Products, 1)
	require.Len(t, snap.Sales, 1)
	require.Equal(t, s.Products()[0].ID, snap.Products[0].ID)
	require.True(t, snap.Products[0].CostPrice.Equal(decimal.RequireFromString("2.00")))
	require.Equal(t, s.Sales()[0].ProductID, snap.Sales[0].ProductID)
	require.True(t, snap.Sales[0].Profit.Equal(decimal.RequireFromString("9.00")))
	require.True(t, snap.Sales[0].Date.Equal(s.Sales()[0].Date.Time))

	// A second encode of the decoded state yields identical bytes.
	inventory2, err := EncodeProducts(snap.Products)
	require.NoError(t, err)
	sales2, err := EncodeSales(snap.Sales)
	require.NoError(t, err)
	require.Equal(t, inventory, inventory2)
	require.Equal(t, sales, sales2)
}

func TestEncodeNilCollectionsAsEmptyArrays(t *testing.T) {
	inventory, err := EncodeProducts(nil)
	require.NoError(t, err)
	require.Equal(t, "[]", string(inventory))

	sales, err := EncodeSales(nil)
	require.NoError(t, err)
	require.Equal(t, "[]", string(sales))
}

func TestDecodeSnapshotEmptyKeys(t *testing.T) {
	snap, err := DecodeSnapshot(nil, nil)
	require.NoError(t, err)
	require.Empty(t, snap.Products)
	require.Empty(t, snap.Sales)
}

func TestDecodeSnapshotRejectsCorruptPayloads(t *testing.T) {
	cases := map[string]struct {
		inventory string
		sales     string
	}{
		"malformed inventory json": {inventory: `{"not":"an array"`, sales: `[]`},
		"malformed sales json":     {inventory: `[]`, sales: `nope`},
		"product missing item": {
			inventory: `[{"id":"a","item":"","sku":"S","costPrice":"1","stock":1,"createdAt":1}]`,
			sales:     `[]`,
		},
		"product negative cost": {
			inventory: `[{"id":"a","item":"Pen","sku":"S","costPrice":"-1","stock":1,"createdAt":1}]`,
			sales:     `[]`,
		},
		"sale without quantity": {
			inventory: `[]`,
			sales:     `[{"id":"s","sku":"S","sellPrice":"2","costPrice":"1","quantity":0,"profit":"1","date":"2026-01-05T00:00:00.000Z"}]`,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeSnapshot([]byte(tc.inventory), []byte(tc.sales))
			require.ErrorIs(t, err, ErrCorruptState)
		})
	}
}

func TestDecodeSnapshotBackfillsLegacyRecords(t *testing.T) {
	inventory := []byte(`[{"item":"Pen","sku":"PEN-1","costPrice":"2","stock":4}]`)
	sales := []byte(`[{"item":"Pen","sku":"PEN-1","sellPrice":"5","costPrice":"2","quantity":1,"profit":"3","date":"2026-01-05T09:00:00.000Z"}]`)

	before := time.Now().UnixMilli()
	snap, err := DecodeSnapshot(inventory, sales)
	require.NoError(t, err)

	require.Len(t, snap.Products, 1)
	require.NotEmpty(t, snap.Products[0].ID)
	require.GreaterOrEqual(t, snap.Products[0].CreatedAt, before)

	require.Len(t, snap.Sales, 1)
	require.NotEmpty(t, snap.Sales[0].ID)
	require.Equal(t, snap.Products[0].ID, snap.Sales[0].ProductID)
}

func TestTimeRoundTripAndSameDay(t *testing.T) {
	ts := NewTime(time.Date(2026, 1, 5, 9, 30, 15, 123_456_789, time.UTC))

	data, err := ts.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `"2026-01-05T09:30:15.123Z"`, string(data))

	var parsed Time
	require.NoError(t, parsed.UnmarshalJSON(data))
	require.True(t, parsed.Equal(ts.Time))

	require.True(t, ts.SameDay(time.Date(2026, 1, 5, 23, 0, 0, 0, time.UTC)))
	require.False(t, ts.SameDay(time.Date(2026, 1, 6, 0, 0, 1, 0, time.UTC)))

	var bad Time
	require.Error(t, bad.UnmarshalJSON([]byte(`12345`)))
}
