package sales

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/stockpilot/stockpilot/internal/export"
	"github.com/stockpilot/stockpilot/internal/ledger"
	"github.com/stockpilot/stockpilot/internal/shared"
	"github.com/stockpilot/stockpilot/internal/view"
)

// Handler wires HTTP endpoints for the sales view.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	validator *validator.Validate
}

// NewHandler constructs a sales handler.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		templates: templates,
		csrf:      csrf,
		validator: validator.New(),
	}
}

// MountRoutes registers sales routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showSales)
	r.Post("/", h.handleRecord)
	r.Post("/{index}/edit", h.handleEdit)
	r.Post("/{index}/delete", h.handleDelete)
	r.Get("/export", h.handleExport)
}

type saleForm struct {
	SKU       string `validate:"required"`
	SellPrice string `validate:"required"`
	Quantity  string `validate:"required"`
}

type salesPageData struct {
	Entries   []Entry
	Totals    Totals
	Products  []ledger.Product
	From      string
	To        string
	Form      saleForm
	EditIndex int
	Errors    map[string]string
	ShowAdd   bool
}

func (h *Handler) showSales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := salesPageData{
		From:      q.Get("from"),
		To:        q.Get("to"),
		EditIndex: -1,
		Errors:    map[string]string{},
	}
	data.Entries = h.service.List(dateRange(data.From, data.To))
	data.Totals = h.service.TotalsFor(data.Entries)
	data.Products = h.service.SellableProducts()
	h.render(w, r, data, http.StatusOK)
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form, price, qty, errs := h.parseSaleForm(r)
	if len(errs) == 0 {
		if _, err := h.service.Record(form.SKU, price, qty); err != nil {
			h.logger.Error("record sale failed", slog.String("sku", form.SKU), slog.Any("error", err))
			errs["general"] = shared.UserSafeMessage(err)
		} else {
			h.flashAndRedirect(w, r, "success", "Sale recorded", "/sales")
			return
		}
	}
	entries := h.service.List(DateRange{})
	data := salesPageData{
		Entries:   entries,
		Totals:    h.service.TotalsFor(entries),
		Products:  h.service.SellableProducts(),
		Form:      form,
		EditIndex: -1,
		Errors:    errs,
		ShowAdd:   true,
	}
	h.render(w, r, data, http.StatusBadRequest)
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := saleForm{
		SKU:       "-", // identity is fixed on edit; only price and quantity move
		SellPrice: r.PostFormValue("sell_price"),
		Quantity:  r.PostFormValue("quantity"),
	}
	errs := make(map[string]string)
	price, qty := h.parsePriceQuantity(form, errs)
	if len(errs) == 0 {
		if _, err := h.service.Edit(index, price, qty); err != nil {
			h.logger.Error("edit sale failed", slog.Int("index", index), slog.Any("error", err))
			errs["general"] = shared.UserSafeMessage(err)
		} else {
			h.flashAndRedirect(w, r, "success", "Sale updated", "/sales")
			return
		}
	}
	entries := h.service.List(DateRange{})
	data := salesPageData{
		Entries:   entries,
		Totals:    h.service.TotalsFor(entries),
		Products:  h.service.SellableProducts(),
		Form:      form,
		EditIndex: index,
		Errors:    errs,
	}
	h.render(w, r, data, http.StatusBadRequest)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if _, err := h.service.Delete(index); err != nil {
		h.logger.Error("delete sale failed", slog.Int("index", index), slog.Any("error", err))
		h.flashAndRedirect(w, r, "error", shared.UserSafeMessage(err), "/sales")
		return
	}
	h.flashAndRedirect(w, r, "success", "Sale deleted", "/sales")
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	records := h.service.All()
	if len(records) == 0 {
		h.flashAndRedirect(w, r, "error", "No sales to export", "/sales")
		return
	}
	name := fmt.Sprintf("sales-export-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := export.WriteCSV(w, records); err != nil {
		h.logger.Error("export sales", slog.Any("error", err))
	}
}

func (h *Handler) parseSaleForm(r *http.Request) (saleForm, decimal.Decimal, int, map[string]string) {
	form := saleForm{
		SKU:       r.PostFormValue("sku"),
		SellPrice: r.PostFormValue("sell_price"),
		Quantity:  r.PostFormValue("quantity"),
	}
	errs := make(map[string]string)
	if err := h.validator.Struct(form); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			for _, fe := range fieldErrors {
				errs[fe.Field()] = "This field is required"
			}
		} else {
			errs["general"] = "Invalid form submission"
		}
		return form, decimal.Decimal{}, 0, errs
	}
	price, qty := h.parsePriceQuantity(form, errs)
	return form, price, qty, errs
}

func (h *Handler) parsePriceQuantity(form saleForm, errs map[string]string) (decimal.Decimal, int) {
	price, err := decimal.NewFromString(form.SellPrice)
	if err != nil || price.IsNegative() {
		errs["SellPrice"] = "Sell price must be a non-negative number"
	}
	qty, err := strconv.Atoi(form.Quantity)
	if err != nil || qty <= 0 {
		errs["Quantity"] = "Quantity must be a positive whole number"
	}
	return price, qty
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data salesPageData, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Sales",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Theme:       shared.ThemeFromContext(r.Context()),
		Data:        data,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.Render(w, "pages/sales.html", viewData); err != nil {
		h.logger.Error("render sales", slog.Any("error", err))
	}
}

func (h *Handler) flashAndRedirect(w http.ResponseWriter, r *http.Request, kind, message, target string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func dateRange(from, to string) DateRange {
	var r DateRange
	if t, err := time.Parse("2006-01-02", from); err == nil {
		r.From = t
	}
	if t, err := time.Parse("2006-01-02", to); err == nil {
		r.To = t
	}
	return r
}
