package export

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/stockpilot/stockpilot/internal/ledger"
)

func TestWriteCSVProducts(t *testing.T) {
	products := []ledger.Product{
		{ID: "a", Item: "Pen", SKU: "PEN-1", CostPrice: decimal.RequireFromString("1.50"), Stock: 10, CreatedAt: 1700000000000},
		{ID: "b", Item: "Notebook, ruled", SKU: "NB-1", CostPrice: decimal.RequireFromString("4.00"), Stock: 0, CreatedAt: 1700000001000},
	}

	var buf strings.Builder
	require.NoError(t, WriteCSV(&buf, products))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "ID,ITEM,SKU,COSTPRICE,STOCK,CREATEDAT", lines[0])
	require.Equal(t, "a,Pen,PEN-1,1.5,10,1700000000000", lines[1])
	// The embedded comma forces quoting.
	require.Equal(t, `b,"Notebook, ruled",NB-1,4,0,1700000001000`, lines[2])
}

func TestWriteCSVSalesFormatsDates(t *testing.T) {
	sales := []ledger.Sale{{
		ID:        "s1",
		ProductID: "a",
		Item:      "Pen",
		SKU:       "PEN-1",
		SellPrice: decimal.RequireFromString("5.00"),
		CostPrice: decimal.RequireFromString("1.50"),
		Quantity:  2,
		Profit:    decimal.RequireFromString("7.00"),
		Date:      ledger.NewTime(time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)),
	}}

	var buf strings.Builder
	require.NoError(t, WriteCSV(&buf, sales))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "ID,PRODUCTID,ITEM,SKU,SELLPRICE,COSTPRICE,QUANTITY,PROFIT,DATE", lines[0])
	require.Contains(t, lines[1], "2026-01-05T09:30:00Z")
}

func TestWriteCSVEmptySliceWritesNothing(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, WriteCSV(&buf, []ledger.Product{}))
	require.Empty(t, buf.String())
}

func TestWriteCSVRejectsNonSlices(t *testing.T) {
	var buf strings.Builder
	require.Error(t, WriteCSV(&buf, "nope"))
	require.Error(t, WriteCSV(&buf, []int{1, 2}))
}
