package sales_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/stockpilot/stockpilot/internal/ledger"
	"github.com/stockpilot/stockpilot/internal/sales"
	"github.com/stockpilot/stockpilot/internal/shared"
	"github.com/stockpilot/stockpilot/internal/view"
	_ "github.com/stockpilot/stockpilot/testing"
)

func newSalesRouter(t *testing.T) (http.Handler, *ledger.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", time.Hour, false)
	csrfManager := shared.NewCSRFManager("csrfsecret")
	templates, err := view.NewEngine()
	require.NoError(t, err)

	store := ledger.NewStore()
	_, err = store.AddProduct(ledger.ProductInput{
		Item:      "Pen",
		SKU:       "PEN-1",
		CostPrice: decimal.RequireFromString("2.00"),
		Stock:     10,
	})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := sales.NewHandler(logger, sales.NewService(store), templates, csrfManager)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess, err := sessionManager.Load(req.Context(), req)
			require.NoError(t, err)
			ctx := shared.ContextWithSession(req.Context(), sess)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Route("/sales", handler.MountRoutes)
	return r, store
}

func postForm(router http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestSalesPageShowsPicker(t *testing.T) {
	router, _ := newSalesRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/sales", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	require.Contains(t, body, "Record Sale")
	require.Contains(t, body, "PEN-1")
}

func TestRecordSale(t *testing.T) {
	router, store := newSalesRouter(t)

	res := postForm(router, "/sales", url.Values{
		"sku":        {"PEN-1"},
		"sell_price": {"5.00"},
		"quantity":   {"3"},
	})

	require.Equal(t, http.StatusSeeOther, res.Code)
	require.Equal(t, "/sales", res.Header().Get("Location"))
	require.Len(t, store.Sales(), 1)
	require.Equal(t, 7, store.Products()[0].Stock)
	require.True(t, store.Sales()[0].Profit.Equal(decimal.RequireFromString("9.00")))
}

func TestRecordSaleInsufficientStock(t *testing.T) {
	router, store := newSalesRouter(t)

	res := postForm(router, "/sales", url.Values{
		"sku":        {"PEN-1"},
		"sell_price": {"5.00"},
		"quantity":   {"11"},
	})

	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Contains(t, res.Body.String(), "Insufficient stock")
	require.Empty(t, store.Sales())
	require.Equal(t, 10, store.Products()[0].Stock)
}

func TestRecordSaleValidation(t *testing.T) {
	router, _ := newSalesRouter(t)

	res := postForm(router, "/sales", url.Values{
		"sku":        {"PEN-1"},
		"sell_price": {"abc"},
		"quantity":   {"0"},
	})

	require.Equal(t, http.StatusBadRequest, res.Code)
	body := res.Body.String()
	require.Contains(t, body, "Sell price must be a non-negative number")
	require.Contains(t, body, "Quantity must be a positive whole number")
}

func TestEditSaleAdjustsStock(t *testing.T) {
	router, store := newSalesRouter(t)
	_, err := store.RecordSale("PEN-1", decimal.RequireFromString("5.00"), 3)
	require.NoError(t, err)

	res := postForm(router, "/sales/0/edit", url.Values{
		"sell_price": {"6.00"},
		"quantity":   {"5"},
	})

	require.Equal(t, http.StatusSeeOther, res.Code)
	require.Equal(t, 5, store.Products()[0].Stock)
	require.Equal(t, 5, store.Sales()[0].Quantity)
}

func TestDeleteSaleRestoresStock(t *testing.T) {
	router, store := newSalesRouter(t)
	_, err := store.RecordSale("PEN-1", decimal.RequireFromString("5.00"), 3)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/sales/0/delete", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusSeeOther, res.Code)
	require.Empty(t, store.Sales())
	require.Equal(t, 10, store.Products()[0].Stock)
}

func TestExportSalesEmptyRedirectsWithFlash(t *testing.T) {
	router, _ := newSalesRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/sales/export", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusSeeOther, res.Code)
	require.Equal(t, "/sales", res.Header().Get("Location"))
}
