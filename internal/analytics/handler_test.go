package analytics_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/stockpilot/stockpilot/internal/analytics"
	"github.com/stockpilot/stockpilot/internal/ledger"
	"github.com/stockpilot/stockpilot/internal/shared"
	"github.com/stockpilot/stockpilot/internal/view"
	_ "github.com/stockpilot/stockpilot/testing"
)

func newDashboardRouter(t *testing.T, store *ledger.Store) http.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", time.Hour, false)
	csrfManager := shared.NewCSRFManager("csrfsecret")
	templates, err := view.NewEngine()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := analytics.NewHandler(logger, analytics.NewService(store), templates, csrfManager)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess, err := sessionManager.Load(req.Context(), req)
			require.NoError(t, err)
			ctx := shared.ContextWithSession(req.Context(), sess)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	handler.MountRoutes(r)
	return r
}

func TestDashboardEmptyState(t *testing.T) {
	router := newDashboardRouter(t, ledger.NewStore())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	require.Contains(t, body, "No sales recorded yet")
	require.Contains(t, body, "Record a sale to see your best sellers")
}

func TestDashboardRendersChartsAndBanner(t *testing.T) {
	store := ledger.NewStore()
	_, err := store.AddProduct(ledger.ProductInput{
		Item:      "Pen",
		SKU:       "PEN-1",
		CostPrice: decimal.RequireFromString("2.00"),
		Stock:     6,
	})
	require.NoError(t, err)
	_, err = store.RecordSale("PEN-1", decimal.RequireFromString("5.00"), 2)
	require.NoError(t, err)

	router := newDashboardRouter(t, store)

	req := httptest.NewRequest(http.MethodGet, "/?range=month", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	require.Contains(t, body, "<svg")
	// Stock fell to 4 after the sale, so the low-stock banner shows.
	require.Contains(t, body, "running low on stock")
	require.Contains(t, body, "Today's Revenue")
}

func TestDismissBannerRedirects(t *testing.T) {
	router := newDashboardRouter(t, ledger.NewStore())

	req := httptest.NewRequest(http.MethodPost, "/dismiss-banner", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusSeeOther, res.Code)
	require.Equal(t, "/", res.Header().Get("Location"))
}
