package reports

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bizhub-erp/bizhub/internal/shared"
	"github.com/bizhub-erp/bizhub/internal/tenant"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.Generate)
}

// MountDashboard exposes the dashboard summary as its own endpoint.
func (h *Handler) MountDashboard(r chi.Router) {
	r.Get("/", h.Dashboard)
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	key, ok := tenant.RequireKey(w, r)
	if !ok {
		return
	}
	reportType := r.URL.Query().Get("type")
	if reportType == "" {
		shared.RespondError(w, http.StatusBadRequest, "type query parameter is required")
		return
	}
	if !Known(reportType) {
		shared.RespondError(w, http.StatusBadRequest, "unknown report type: "+reportType)
		return
	}
	from, to, err := parseBounds(r)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := h.service.Generate(r.Context(), key, reportType, from, to)
	if err != nil {
		if errors.Is(err, shared.ErrValidation) {
			shared.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("report generation failed", "type", reportType, "error", err)
		shared.RespondError(w, http.StatusInternalServerError, "failed to generate report")
		return
	}
	shared.RespondJSON(w, http.StatusOK, report)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	key, ok := tenant.RequireKey(w, r)
	if !ok {
		return
	}
	report, err := h.service.Generate(r.Context(), key, TypeDashboard, "", "")
	if err != nil {
		h.logger.Error("dashboard generation failed", "error", err)
		shared.RespondError(w, http.StatusInternalServerError, "failed to generate dashboard")
		return
	}
	shared.RespondJSON(w, http.StatusOK, report)
}

// parseBounds validates the optional inclusive date bounds.
func parseBounds(r *http.Request) (string, string, error) {
	from := r.URL.Query().Get("startDate")
	to := r.URL.Query().Get("endDate")
	if from != "" {
		if _, err := shared.ParseDate(from); err != nil {
			return "", "", errors.New("startDate must be an ISO date (YYYY-MM-DD)")
		}
	}
	if to != "" {
		if _, err := shared.ParseDate(to); err != nil {
			return "", "", errors.New("endDate must be an ISO date (YYYY-MM-DD)")
		}
	}
	return from, to, nil
}
