package web

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/a-h/templ"

	"github.com/omarshaarawi/ffdash/internal/models"
	"github.com/omarshaarawi/ffdash/internal/present"
	"github.com/omarshaarawi/ffdash/internal/service"
)

type Handler struct {
	svc *service.DashboardService
}

func NewHandler(svc *service.DashboardService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"totalWeeks": h.svc.TotalWeeks(),
	})
}

// Dashboard renders the page for the selection in the query string.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess := h.svc.Session(sessionID(w, r))

	d, sess, unmatched, err := h.build(r.Context(), r, sess)
	if err != nil {
		status := statusFor(err)
		slog.Error("Failed to render dashboard", "status", status, "error", err)
		templ.Handler(ErrorPage(status, messageFor(status), err.Error()), templ.WithStatus(status)).ServeHTTP(w, r)
		return
	}

	page, err := NewPageData(d, sess, h.svc.TotalWeeks(), unmatched, r.URL.RawQuery)
	if err != nil {
		slog.Error("Failed to build dashboard page", "error", err)
		templ.Handler(ErrorPage(http.StatusInternalServerError, "Failed to render dashboard", err.Error()),
			templ.WithStatus(http.StatusInternalServerError)).ServeHTTP(w, r)
		return
	}
	templ.Handler(DashboardPage(page)).ServeHTTP(w, r)
}

// Refresh invalidates the cached tables and sends the browser back to the
// dashboard with its filters intact. The filters arrive either as the request
// query or as the form's query field.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)
	if _, err := h.svc.Refresh(r.Context(), id); err != nil {
		slog.Error("Failed to refresh", "session", id, "error", err)
		templ.Handler(ErrorPage(http.StatusInternalServerError, "Failed to refresh data", err.Error()),
			templ.WithStatus(http.StatusInternalServerError)).ServeHTTP(w, r)
		return
	}

	raw := r.URL.RawQuery
	if raw == "" {
		raw = r.PostFormValue("query")
	}
	http.Redirect(w, r, dashboardURL(raw), http.StatusSeeOther)
}

// dashboardURL rebuilds the dashboard link from an untrusted query string so
// the redirect can only ever point at "/".
func dashboardURL(rawQuery string) string {
	q, err := url.ParseQuery(rawQuery)
	if err != nil || len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	tables, err := h.svc.Tables(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to load league data", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"epoch":    tables.Epoch,
		"loadedAt": tables.LoadedAt,
		"count":    len(tables.Teams),
		"rows":     tables.Teams,
	})
}

func (h *Handler) GetPlayers(w http.ResponseWriter, r *http.Request) {
	tables, err := h.svc.Tables(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to load league data", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"epoch":    tables.Epoch,
		"loadedAt": tables.LoadedAt,
		"count":    len(tables.Players),
		"rows":     tables.Players,
	})
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	sess := h.svc.Session(sessionID(w, r))

	d, sess, unmatched, err := h.build(r.Context(), r, sess)
	if err != nil {
		status := statusFor(err)
		respondError(w, status, messageFor(status), err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"session":        sess,
		"unmatchedTeams": unmatched,
		"dashboard":      d,
	})
}

func (h *Handler) PostRefresh(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Refresh(r.Context(), sessionID(w, r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to refresh data", err)
		return
	}
	respondJSON(w, http.StatusOK, sess)
}

func (h *Handler) build(ctx context.Context, r *http.Request, sess models.Session) (present.Dashboard, models.Session, []string, error) {
	defaults, err := h.svc.DefaultSelection(ctx)
	if err != nil {
		return present.Dashboard{}, sess, nil, err
	}
	sel, unmatched, err := parseSelection(r.URL.Query(), defaults)
	if err != nil {
		return present.Dashboard{}, sess, nil, err
	}
	d, sess, err := h.svc.Dashboard(ctx, sess, sel)
	return d, sess, unmatched, err
}
