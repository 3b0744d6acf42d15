package sales

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bizhub-erp/bizhub/internal/pdf"
	"github.com/bizhub-erp/bizhub/internal/shared"
	"github.com/bizhub-erp/bizhub/internal/tenant"
	"github.com/bizhub-erp/bizhub/internal/view"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	pdf       *pdf.Client
}

// NewHandler builds the sales handler. The PDF client may be nil, in which
// case the invoice endpoint serves HTML only.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, pdfClient *pdf.Client) *Handler {
	return &Handler{logger: logger, service: service, templates: templates, pdf: pdfClient}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/invoice", h.Invoice)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	key, ok := tenant.RequireKey(w, r)
	if !ok {
		return
	}
	filters := shared.ParseListFilters(r)
	list, total, err := h.service.List(r.Context(), key, filters)
	if err != nil {
		h.logger.Error("list sales failed", "error", err)
		shared.RespondError(w, http.StatusInternalServerError, "failed to load sales")
		return
	}
	if list == nil {
		list = []Sale{}
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
	sale, err := h.service.Get(r.Context(), key, id)
	if err != nil {
		h.respondError(w, "get sale", err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, sale)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	key, ok := tenant.RequireKey(w, r)
	if !ok {
		return
	}
	var input SaleInput
	if err := shared.DecodeJSON(r, &input); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	sale, err := h.service.Create(r.Context(), key, input)
	if err != nil {
		h.respondError(w, "create sale", err)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, sale)
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
	var input SaleInput
	if err := shared.DecodeJSON(r, &input); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	sale, err := h.service.Update(r.Context(), key, id, input)
	if err != nil {
		h.respondError(w, "update sale", err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, sale)
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
		h.respondError(w, "delete sale", err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// Invoice renders the printable document for a sale, as HTML or as a PDF
// when ?format=pdf is requested.
func (h *Handler) Invoice(w http.ResponseWriter, r *http.Request) {
	key, ok := tenant.RequireKey(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, shared.ErrInvalidID.Error())
		return
	}
	sale, err := h.service.Get(r.Context(), key, id)
	if err != nil {
		h.respondError(w, "get sale", err)
		return
	}
	doc := view.InvoiceData{
		Title:     "Tax Invoice",
		Number:    sale.InvoiceNumber,
		Date:      sale.InvoiceDate.ISO(),
		PartyName: sale.PartyName,
		Lines:     sale.Items,
		Subtotal:  sale.Subtotal,
		TaxAmount: sale.TaxAmount,
		Discount:  sale.Discount,
		Total:     sale.TotalAmount,
		Paid:      sale.PaidAmount,
		Balance:   sale.TotalAmount - sale.PaidAmount,
		Notes:     sale.Notes,
	}
	if r.URL.Query().Get("format") == "pdf" {
		h.servePDF(w, r, doc)
		return
	}
	if err := h.templates.RenderInvoice(w, doc); err != nil {
		h.logger.Error("render invoice", "error", err, "id", id)
		shared.RespondError(w, http.StatusInternalServerError, "failed to render invoice")
	}
}

func (h *Handler) servePDF(w http.ResponseWriter, r *http.Request, doc view.InvoiceData) {
	if h.pdf == nil {
		shared.RespondError(w, http.StatusServiceUnavailable, "PDF rendering is not configured")
		return
	}
	html, err := h.templates.InvoiceHTML(doc)
	if err != nil {
		h.logger.Error("render invoice", "error", err, "invoice", doc.Number)
		shared.RespondError(w, http.StatusInternalServerError, "failed to render invoice")
		return
	}
	out, err := h.pdf.FromHTML(r.Context(), html)
	if err != nil {
		h.logger.Error("convert invoice to pdf", "error", err, "invoice", doc.Number)
		shared.RespondError(w, http.StatusBadGateway, "PDF conversion failed")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+doc.Number+`.pdf"`)
	_, _ = w.Write(out)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		shared.RespondError(w, http.StatusNotFound, "sale not found")
	case errors.Is(err, shared.ErrInvalidID), errors.Is(err, shared.ErrValidation):
		shared.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(op+" failed", "error", err)
		shared.RespondError(w, http.StatusInternalServerError, "unexpected failure")
	}
}
