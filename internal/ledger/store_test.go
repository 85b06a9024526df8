package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	id := 0
	s.newID = func() string {
		id++
		return "id-" + string(rune('a'+id-1))
	}
	s.now = func() time.Time {
		return time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	}
	return s
}

func mustAdd(t *testing.T, s *Store, item, sku string, cost string, stock int) Product {
	t.Helper()
	p, err := s.AddProduct(ProductInput{
		Item:      item,
		SKU:       sku,
		CostPrice: decimal.RequireFromString(cost),
		Stock:     stock,
	})
	require.NoError(t, err)
	return p
}

func TestAddProductPrependsAndStamps(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "Pen", "PEN-1", "1.00", 10)
	mustAdd(t, s, "Notebook", "NB-1", "4.50", 3)

	products := s.Products()
	require.Len(t, products, 2)
	require.Equal(t, "Notebook", products[0].Item)
	require.Equal(t, "Pen", products[1].Item)
	require.NotEmpty(t, products[0].ID)
	require.Equal(t, int64(1773484200000), products[0].CreatedAt)
}

func TestAddProductValidation(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddProduct(ProductInput{Item: "", SKU: "X"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = s.AddProduct(ProductInput{Item: "X", SKU: "  "})
	require.ErrorIs(t, err, ErrValidation)

	_, err = s.AddProduct(ProductInput{Item: "X", SKU: "S", CostPrice: decimal.RequireFromString("-1")})
	require.ErrorIs(t, err, ErrValidation)
}

func TestAddProductRejectsDuplicateSKU(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "Pen", "PEN-1", "1.00", 10)

	_, err := s.AddProduct(ProductInput{Item: "Other", SKU: " PEN-1 ", CostPrice: decimal.Zero, Stock: 1})
	require.ErrorIs(t, err, ErrDuplicateSKU)
}

func TestUpdateProductPreservesIdentity(t *testing.T) {
	s := newTestStore(t)
	original := mustAdd(t, s, "Pen", "PEN-1", "1.00", 10)

	updated, err := s.UpdateProduct(0, ProductInput{
		Item:      "Blue Pen",
		SKU:       "PEN-2",
		CostPrice: decimal.RequireFromString("1.25"),
		Stock:     8,
	})
	require.NoError(t, err)
	require.Equal(t, original.ID, updated.ID)
	require.Equal(t, original.CreatedAt, updated.CreatedAt)
	require.Equal(t, "Blue Pen", updated.Item)
	require.Equal(t, 8, updated.Stock)

	_, err = s.UpdateProduct(5, ProductInput{Item: "x", SKU: "y"})
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestRecordSaleFreezesProductAndDecrementsStock(t *testing.T) {
	s := newTestStore(t)
	p := mustAdd(t, s, "Pen", "PEN-1", "2.00", 10)

	sale, err := s.RecordSale("PEN-1", decimal.RequireFromString("5.00"), 3)
	require.NoError(t, err)
	require.Equal(t, p.ID, sale.ProductID)
	require.Equal(t, "Pen", sale.Item)
	require.Equal(t, "PEN-1", sale.SKU)
	require.True(t, sale.Profit.Equal(decimal.RequireFromString("9.00")))
	require.True(t, sale.Revenue().Equal(decimal.RequireFromString("15.00")))
	require.Equal(t, 7, s.Products()[0].Stock)

	// Later cost edits must not touch recorded profit.
	_, err = s.UpdateProduct(0, ProductInput{Item: "Pen", SKU: "PEN-1", CostPrice: decimal.RequireFromString("4.00"), Stock: 7})
	require.NoError(t, err)
	require.True(t, s.Sales()[0].Profit.Equal(decimal.RequireFromString("9.00")))
}

func TestRecordSaleRejectsBadInput(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "Pen", "PEN-1", "2.00", 2)
	before := Snapshot{Products: s.Products(), Sales: s.Sales()}

	_, err := s.RecordSale("PEN-1", decimal.Zero, 0)
	require.ErrorIs(t, err, ErrValidation)

	_, err = s.RecordSale("NOPE", decimal.Zero, 1)
	require.ErrorIs(t, err, ErrProductNotFound)

	_, err = s.RecordSale("PEN-1", decimal.Zero, 3)
	require.ErrorIs(t, err, ErrInsufficientStock)

	require.Equal(t, before.Products, s.Products())
	require.Equal(t, before.Sales, s.Sales())
}

func TestEditSaleAdjustsStockByDelta(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "Pen", "PEN-1", "2.00", 10)
	_, err := s.RecordSale("PEN-1", decimal.RequireFromString("5.00"), 3)
	require.NoError(t, err)

	// 3 -> 5 units: stock drops by two more.
	sale, err := s.EditSale(0, decimal.RequireFromString("6.00"), 5)
	require.NoError(t, err)
	require.Equal(t, 5, s.Products()[0].Stock)
	require.True(t, sale.Profit.Equal(decimal.RequireFromString("20.00")))

	// 5 -> 1 units: stock comes back.
	_, err = s.EditSale(0, decimal.RequireFromString("6.00"), 1)
	require.NoError(t, err)
	require.Equal(t, 9, s.Products()[0].Stock)

	_, err = s.EditSale(0, decimal.Zero, 100)
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Equal(t, 9, s.Products()[0].Stock)
	require.Equal(t, 1, s.Sales()[0].Quantity)
}

func TestEditSaleMissingProduct(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "Pen", "PEN-1", "2.00", 10)
	_, err := s.RecordSale("PEN-1", decimal.RequireFromString("5.00"), 3)
	require.NoError(t, err)
	_, err = s.RemoveProduct(0)
	require.NoError(t, err)

	_, err = s.EditSale(0, decimal.RequireFromString("6.00"), 1)
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteSaleRestoresStock(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "Pen", "PEN-1", "2.00", 10)
	_, err := s.RecordSale("PEN-1", decimal.RequireFromString("5.00"), 4)
	require.NoError(t, err)
	require.Equal(t, 6, s.Products()[0].Stock)

	_, err = s.DeleteSale(0)
	require.NoError(t, err)
	require.Equal(t, 10, s.Products()[0].Stock)
	require.Empty(t, s.Sales())
}

func TestDeleteSaleOrphanLeavesStockAlone(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "Pen", "PEN-1", "2.00", 10)
	_, err := s.RecordSale("PEN-1", decimal.RequireFromString("5.00"), 4)
	require.NoError(t, err)

	_, err = s.RemoveProduct(0)
	require.NoError(t, err)

	// Re-created SKU is a different product; the orphan must not restore onto it.
	mustAdd(t, s, "Pen v2", "PEN-1", "2.00", 3)

	_, err = s.DeleteSale(0)
	require.NoError(t, err)
	require.Equal(t, 3, s.Products()[0].Stock)
}

func TestSubscriberSeesConsistentSnapshots(t *testing.T) {
	s := newTestStore(t)
	var changes []Change
	s.Subscribe(func(c Change) { changes = append(changes, c) })

	mustAdd(t, s, "Pen", "PEN-1", "2.00", 10)
	_, err := s.RecordSale("PEN-1", decimal.RequireFromString("5.00"), 3)
	require.NoError(t, err)

	require.Len(t, changes, 2)
	require.True(t, changes[0].Inventory)
	require.False(t, changes[0].Sales)
	require.True(t, changes[1].Inventory)
	require.True(t, changes[1].Sales)
	require.Equal(t, 7, changes[1].Snapshot.Products[0].Stock)
	require.Len(t, changes[1].Snapshot.Sales, 1)
}

func TestStockStatus(t *testing.T) {
	require.Equal(t, StatusInStock, Product{Stock: 6}.Status())
	require.Equal(t, StatusLowStock, Product{Stock: 5}.Status())
	require.Equal(t, StatusLowStock, Product{Stock: 1}.Status())
	require.Equal(t, StatusOutOfStock, Product{Stock: 0}.Status())
	require.Equal(t, StatusOutOfStock, Product{Stock: -1}.Status())
}
