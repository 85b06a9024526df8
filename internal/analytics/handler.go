package analytics

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/stockpilot/stockpilot/internal/analytics/svg"
	"github.com/stockpilot/stockpilot/internal/shared"
	"github.com/stockpilot/stockpilot/internal/view"
)

const topProductLimit = 5

const bannerDismissedKey = "low_stock_banner_dismissed"

// Handler serves the dashboard page.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler constructs the dashboard handler.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		templates: templates,
		csrf:      csrf,
	}
}

// MountRoutes registers dashboard routes at the router root.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showDashboard)
	r.Post("/dismiss-banner", h.handleDismissBanner)
}

type dashboardPageData struct {
	Summary      TodaySummary
	Range        ChartRange
	Buckets      []ProfitBucket
	TopProducts  []ProductShare
	ProfitSVG    template.HTML
	TopSVG       template.HTML
	ShowBanner   bool
	HasSales     bool
	HasBreakdown bool
}

func (h *Handler) showDashboard(w http.ResponseWriter, r *http.Request) {
	chartRange := ParseChartRange(r.URL.Query().Get("range"))

	var (
		summary TodaySummary
		buckets []ProfitBucket
		top     []ProductShare
	)
	g, _ := errgroup.WithContext(r.Context())
	g.Go(func() error {
		summary = h.service.Today()
		return nil
	})
	g.Go(func() error {
		buckets = h.service.ProfitBuckets(chartRange)
		return nil
	})
	g.Go(func() error {
		top = h.service.TopProducts(topProductLimit)
		return nil
	})
	if err := g.Wait(); err != nil {
		h.logger.Error("load dashboard", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	data := dashboardPageData{
		Summary:      summary,
		Range:        chartRange,
		Buckets:      buckets,
		TopProducts:  top,
		HasSales:     len(buckets) > 0,
		HasBreakdown: len(top) > 0,
	}

	if data.HasSales {
		labels := make([]string, len(buckets))
		series := make([]float64, len(buckets))
		for i, bucket := range buckets {
			labels[i] = bucket.Label
			series[i], _ = bucket.Profit.Float64()
		}
		chart, err := svg.Bars(svg.DefaultWidth, svg.DefaultHeight, series, labels, svg.BarOpts{
			Title:       "Profit",
			Description: "Profit per period bucket",
		})
		if err != nil {
			h.logger.Error("render profit chart", slog.Any("error", err))
		} else {
			data.ProfitSVG = chart
		}
	}

	if data.HasBreakdown {
		labels := make([]string, len(top))
		values := make([]float64, len(top))
		for i, share := range top {
			labels[i] = share.Item
			values[i] = float64(share.Quantity)
		}
		chart, err := svg.Donut(svg.DefaultDonut, values, labels, svg.DonutOpts{
			Title:       "Top Products",
			Description: "Units sold per product",
		})
		if err != nil {
			h.logger.Error("render top products chart", slog.Any("error", err))
		} else {
			data.TopSVG = chart
		}
	}

	sess := shared.SessionFromContext(r.Context())
	if summary.LowStock > 0 {
		dismissed := sess != nil && sess.Get(bannerDismissedKey) != ""
		data.ShowBanner = !dismissed
	}

	csrfToken, _ := h.csrf.EnsureToken(sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Dashboard",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Theme:       shared.ThemeFromContext(r.Context()),
		Data:        data,
	}
	if err := h.templates.Render(w, "pages/dashboard.html", viewData); err != nil {
		h.logger.Error("render dashboard", slog.Any("error", err))
	}
}

func (h *Handler) handleDismissBanner(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.Set(bannerDismissedKey, "1")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
