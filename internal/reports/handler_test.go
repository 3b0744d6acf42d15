package reports

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/bizhub-erp/bizhub/internal/shared"
	"github.com/bizhub-erp/bizhub/internal/tenant"
)

type stubRepo struct {
	sales     []SaleRow
	purchases []PurchaseRow
	expenses  []ExpenseRow
	cash      []CashRow
	parties   []PartyRow
	items     []ItemRow
	err       error
}

func (s *stubRepo) SalesBetween(context.Context, tenant.Key, string, string) ([]SaleRow, error) {
	return s.sales, s.err
}

func (s *stubRepo) PurchasesBetween(context.Context, tenant.Key, string, string) ([]PurchaseRow, error) {
	return s.purchases, s.err
}

func (s *stubRepo) ExpensesBetween(context.Context, tenant.Key, string, string) ([]ExpenseRow, error) {
	return s.expenses, s.err
}

func (s *stubRepo) CashBetween(context.Context, tenant.Key, string, string) ([]CashRow, error) {
	return s.cash, s.err
}

func (s *stubRepo) Parties(context.Context, tenant.Key) ([]PartyRow, error) {
	return s.parties, s.err
}

func (s *stubRepo) Items(context.Context, tenant.Key) ([]ItemRow, error) {
	return s.items, s.err
}

func newTestRouter(repo *stubRepo) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewService(logger, repo, NewCache(nil, 0))
	handler := NewHandler(logger, service)
	r := chi.NewRouter()
	r.Route("/api/business-hub/reports", func(r chi.Router) {
		r.Use(tenant.Middleware(logger))
		handler.MountRoutes(r)
	})
	return r
}

func TestMissingPhoneYields400WithErrorField(t *testing.T) {
	router := newTestRouter(&stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/business-hub/reports?type=sales", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Error)
}

func TestUnknownReportTypeYields400(t *testing.T) {
	router := newTestRouter(&stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/business-hub/reports?phone=9876543210&type=stock-summary-v2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body.Error, "stock-summary-v2")
}

func TestGenerateReturnsEnvelopeWithData(t *testing.T) {
	repo := &stubRepo{
		sales: []SaleRow{
			{ID: 1, Date: "2026-01-10", Total: 100},
			{ID: 2, Date: "2026-01-20", Total: 50},
		},
		purchases: []PurchaseRow{{ID: 1, Date: "2026-01-12", Total: 40}},
	}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet,
		"/api/business-hub/reports?phone=9876543210&type=transaction-summary&startDate=2026-01-01&endDate=2026-01-31", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Type      string             `json:"type"`
		Data      TransactionSummary `json:"data"`
		DateRange DateRange          `json:"dateRange"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, TypeTransactionSummary, envelope.Type)
	require.Equal(t, 150.0, envelope.Data.TotalSales)
	require.Equal(t, 110.0, envelope.Data.NetProfit)
	require.Equal(t, 3, envelope.Data.TransactionCount)
	require.Equal(t, "2026-01-01", envelope.DateRange.From)
}

func TestStorageFailurePropagatesAs500(t *testing.T) {
	repo := &stubRepo{err: context.DeadlineExceeded}
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/business-hub/reports?phone=9876543210&type=cashflow", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMalformedDateBoundYields400(t *testing.T) {
	router := newTestRouter(&stubRepo{})

	req := httptest.NewRequest(http.MethodGet,
		"/api/business-hub/reports?phone=9876543210&type=sales&startDate=01-02-2026", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
