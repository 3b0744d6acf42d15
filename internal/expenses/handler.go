package expenses

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

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
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	key, ok := tenant.RequireKey(w, r)
	if !ok {
		return
	}
	filters := shared.ParseListFilters(r)
	list, total, err := h.service.List(r.Context(), key, filters)
	if err != nil {
		h.logger.Error("list expenses failed", "error", err)
		shared.RespondError(w, http.StatusInternalServerError, "failed to load expenses")
		return
	}
	if list == nil {
		list = []Expense{}
	}
	if filters.Paginated() {
		shared.RespondJSON(w, http.StatusOK, shared.ListEnvelope{
			Data:       list,
			Pagination: shared.NewPagination(filters.Page, filters.Limit, total),
		})
		return
	}
	shared.RespondJSON(w, http.StatusOK, list)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	key, ok := tenant.RequireKey(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, shared.ErrInvalidID.Error())
		return
	}
	expense, err := h.service.Get(r.Context(), key, id)
	if err != nil {
		h.respondError(w, "get expense", err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, expense)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	key, ok := tenant.RequireKey(w, r)
	if !ok {
		return
	}
	var input ExpenseInput
	if err := shared.DecodeJSON(r, &input); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	expense, err := h.service.Create(r.Context(), key, input)
	if err != nil {
		h.respondError(w, "create expense", err)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, expense)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	key, ok := tenant.RequireKey(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, shared.ErrInvalidID.Error())
		return
	}
	var input ExpenseInput
	if err := shared.DecodeJSON(r, &input); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	expense, err := h.service.Update(r.Context(), key, id, input)
	if err != nil {
		h.respondError(w, "update expense", err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, expense)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	key, ok := tenant.RequireKey(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, shared.ErrInvalidID.Error())
		return
	}
	if err := h.service.Delete(r.Context(), key, id); err != nil {
		h.respondError(w, "delete expense", err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		shared.RespondError(w, http.StatusNotFound, "expense not found")
	case errors.Is(err, shared.ErrInvalidID), errors.Is(err, shared.ErrValidation):
		shared.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(op+" failed", "error", err)
		shared.RespondError(w, http.StatusInternalServerError, "unexpected failure")
	}
}
