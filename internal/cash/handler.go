package cash

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

// MountTransactionRoutes mounts the cash transaction endpoints.
func (h *Handler) MountTransactionRoutes(r chi.Router) {
	r.Get("/", h.ListTransactions)
	r.Post("/", h.CreateTransaction)
	r.Get("/{id}", h.ShowTransaction)
	r.Delete("/{id}", h.DeleteTransaction)
}

// MountAccountRoutes mounts the bank account endpoints.
func (h *Handler) MountAccountRoutes(r chi.Router) {
	r.Get("/", h.ListAccounts)
	r.Post("/", h.CreateAccount)
	r.Get("/{id}", h.ShowAccount)
	r.Put("/{id}", h.UpdateAccount)
	r.Delete("/{id}", h.DeleteAccount)
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	key, ok := tenant.RequireKey(w, r)
	if !ok {
		return
	}
	filters := shared.ParseListFilters(r)
	list, total, err := h.service.ListTransactions(r.Context(), key, filters)
	if err != nil {
		h.logger.Error("list cash transactions failed", "error", err)
		shared.RespondError(w, http.StatusInternalServerError, "failed to load cash transactions")
		return
	}
	if list == nil {
		list = []Transaction{}
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

func (h *Handler) ShowTransaction(w http.ResponseWriter, r *http.Request) {
	key, ok := tenant.RequireKey(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, shared.ErrInvalidID.Error())
		return
	}
	txn, err := h.service.GetTransaction(r.Context(), key, id)
	if err != nil {
		h.respondError(w, "get cash transaction", err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, txn)
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	key, ok := tenant.RequireKey(w, r)
	if !ok {
		return
	}
	var input TransactionInput
	if err := shared.DecodeJSON(r, &input); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	txn, err := h.service.CreateTransaction(r.Context(), key, input)
	if err != nil {
		h.respondError(w, "create cash transaction", err)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, txn)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	key, ok := tenant.RequireKey(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, shared.ErrInvalidID.Error())
		return
	}
	if err := h.service.DeleteTransaction(r.Context(), key, id); err != nil {
		h.respondError(w, "delete cash transaction", err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	key, ok := tenant.RequireKey(w, r)
	if !ok {
		return
	}
	accounts, err := h.service.ListAccounts(r.Context(), key)
	if err != nil {
		h.logger.Error("list bank accounts failed", "error", err)
		shared.RespondError(w, http.StatusInternalServerError, "failed to load bank accounts")
		return
	}
	if accounts == nil {
		accounts = []BankAccount{}
	}
	shared.RespondJSON(w, http.StatusOK, accounts)
}

func (h *Handler) ShowAccount(w http.ResponseWriter, r *http.Request) {
	key, ok := tenant.RequireKey(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, shared.ErrInvalidID.Error())
		return
	}
	account, err := h.service.GetAccount(r.Context(), key, id)
	if err != nil {
		h.respondError(w, "get bank account", err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, account)
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	key, ok := tenant.RequireKey(w, r)
	if !ok {
		return
	}
	var input BankAccountInput
	if err := shared.DecodeJSON(r, &input); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	account, err := h.service.CreateAccount(r.Context(), key, input)
	if err != nil {
		h.respondError(w, "create bank account", err)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, account)
}

func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	key, ok := tenant.RequireKey(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, shared.ErrInvalidID.Error())
		return
	}
	var input BankAccountInput
	if err := shared.DecodeJSON(r, &input); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	account, err := h.service.UpdateAccount(r.Context(), key, id, input)
	if err != nil {
		h.respondError(w, "update bank account", err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, account)
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	key, ok := tenant.RequireKey(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, shared.ErrInvalidID.Error())
		return
	}
	if err := h.service.DeleteAccount(r.Context(), key, id); err != nil {
		h.respondError(w, "delete bank account", err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		shared.RespondError(w, http.StatusNotFound, "record not found")
	case errors.Is(err, shared.ErrInvalidID), errors.Is(err, shared.ErrValidation):
		shared.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shared.ErrDuplicate):
		shared.RespondError(w, http.StatusConflict, "bank account already exists")
	default:
		h.logger.Error(op+" failed", "error", err)
		shared.RespondError(w, http.StatusInternalServerError, "unexpected failure")
	}
}
