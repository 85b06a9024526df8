package settings

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stockpilot/stockpilot/internal/shared"
	"github.com/stockpilot/stockpilot/internal/view"
)

// Handler wires HTTP endpoints for the settings view.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler constructs a settings handler.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		templates: templates,
		csrf:      csrf,
	}
}

// MountRoutes registers settings routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showSettings)
	r.Post("/theme", h.handleToggleTheme)
}

type settingsPageData struct {
	Theme string
}

func (h *Handler) showSettings(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	theme := h.service.Theme(r.Context())
	viewData := view.TemplateData{
		Title:       "Settings",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Theme:       theme,
		Data:        settingsPageData{Theme: theme},
	}
	if err := h.templates.Render(w, "pages/settings.html", viewData); err != nil {
		h.logger.Error("render settings", slog.Any("error", err))
	}
}

func (h *Handler) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	next, err := h.service.Toggle(r.Context())
	if err != nil {
		h.logger.Error("toggle theme", slog.Any("error", err))
		h.flashAndRedirect(w, r, "error", "Could not save theme preference", "/settings")
		return
	}
	h.flashAndRedirect(w, r, "success", "Theme set to "+next, "/settings")
}

func (h *Handler) flashAndRedirect(w http.ResponseWriter, r *http.Request, kind, message, target string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
