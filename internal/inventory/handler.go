package inventory

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

// Handler wires HTTP endpoints for the inventory view.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	validator *validator.Validate
}

// NewHandler constructs an inventory handler.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		templates: templates,
		csrf:      csrf,
		validator: validator.New(),
	}
}

// MountRoutes registers inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showInventory)
	r.Post("/", h.handleAdd)
	r.Post("/{index}/edit", h.handleEdit)
	r.Post("/{index}/delete", h.handleDelete)
	r.Get("/export", h.handleExport)
}

type productForm struct {
	Item      string `validate:"required"`
	SKU       string `validate:"required"`
	CostPrice string `validate:"required"`
	Stock     string `validate:"required"`
}

type inventoryPageData struct {
	Entries   []Entry
	Query     string
	Stock     StockFilter
	Form      productForm
	EditIndex int
	Errors    map[string]string
	ShowAdd   bool
}

func (h *Handler) showInventory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := inventoryPageData{
		Query:     q.Get("q"),
		Stock:     stockFilter(q.Get("stock")),
		EditIndex: -1,
		Errors:    map[string]string{},
	}
	data.Entries = h.service.List(ListFilter{Query: data.Query, Stock: data.Stock})
	h.render(w, r, data, http.StatusOK)
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form, input, errs := h.parseProductForm(r)
	if len(errs) == 0 {
		if _, err := h.service.Add(input); err != nil {
			h.logger.Error("add product failed", slog.Any("error", err))
			errs["general"] = shared.UserSafeMessage(err)
		} else {
			h.flashAndRedirect(w, r, "success", "Product added", "/inventory")
			return
		}
	}
	data := inventoryPageData{
		Entries:   h.service.List(ListFilter{Stock: FilterAll}),
		Stock:     FilterAll,
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
	form, input, errs := h.parseProductForm(r)
	if len(errs) == 0 {
		if _, err := h.service.Update(index, input); err != nil {
			h.logger.Error("update product failed", slog.Int("index", index), slog.Any("error", err))
			errs["general"] = shared.UserSafeMessage(err)
		} else {
			h.flashAndRedirect(w, r, "success", "Product updated", "/inventory")
			return
		}
	}
	data := inventoryPageData{
		Entries:   h.service.List(ListFilter{Stock: FilterAll}),
		Stock:     FilterAll,
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
	if _, err := h.service.Remove(index); err != nil {
		h.logger.Error("delete product failed", slog.Int("index", index), slog.Any("error", err))
		h.flashAndRedirect(w, r, "error", shared.UserSafeMessage(err), "/inventory")
		return
	}
	h.flashAndRedirect(w, r, "success", "Product deleted", "/inventory")
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	products := h.service.All()
	if len(products) == 0 {
		h.flashAndRedirect(w, r, "error", "No products to export", "/inventory")
		return
	}
	name := fmt.Sprintf("inventory-export-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := export.WriteCSV(w, products); err != nil {
		h.logger.Error("export inventory", slog.Any("error", err))
	}
}

func (h *Handler) parseProductForm(r *http.Request) (productForm, ledger.ProductInput, map[string]string) {
	form := productForm{
		Item:      r.PostFormValue("item"),
		SKU:       r.PostFormValue("sku"),
		CostPrice: r.PostFormValue("cost_price"),
		Stock:     r.PostFormValue("stock"),
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
		return form, ledger.ProductInput{}, errs
	}

	input := ledger.ProductInput{Item: form.Item, SKU: form.SKU}
	cost, err := decimal.NewFromString(form.CostPrice)
	if err != nil || cost.IsNegative() {
		errs["CostPrice"] = "Cost price must be a non-negative number"
	} else {
		input.CostPrice = cost
	}
	stock, err := strconv.Atoi(form.Stock)
	if err != nil {
		errs["Stock"] = "Stock must be a whole number"
	} else {
		input.Stock = stock
	}
	return form, input, errs
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data inventoryPageData, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Inventory",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Theme:       shared.ThemeFromContext(r.Context()),
		Data:        data,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.Render(w, "pages/inventory.html", viewData); err != nil {
		h.logger.Error("render inventory", slog.Any("error", err))
	}
}

func (h *Handler) flashAndRedirect(w http.ResponseWriter, r *http.Request, kind, message, target string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func stockFilter(raw string) StockFilter {
	switch StockFilter(raw) {
	case FilterInStock, FilterOutOfStock:
		return StockFilter(raw)
	default:
		return FilterAll
	}
}
