package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bizhub-erp/bizhub/internal/shared"
	"github.com/bizhub-erp/bizhub/internal/tenant"
)

// Service is the single computation path for every report. Handlers, the
// warmup job, and the dashboard all go through Generate, so the same
// numbers come out no matter who asks.
type Service struct {
	logger *slog.Logger
	repo   Repository
	cache  *Cache
}

func NewService(logger *slog.Logger, repo Repository, cache *Cache) *Service {
	return &Service{logger: logger, repo: repo, cache: cache}
}

// Bump invalidates the tenant's cached reports. Posting services call this
// after every write.
func (s *Service) Bump(ctx context.Context, key tenant.Key) error {
	return s.cache.Bump(ctx, key)
}

// Generate computes the report named by reportType over the inclusive
// [from, to] window. Any storage failure propagates; a failed sub-query is
// never presented as an empty result.
func (s *Service) Generate(ctx context.Context, key tenant.Key, reportType, from, to string) (Report, error) {
	if !Known(reportType) {
		return Report{}, fmt.Errorf("%w: unknown report type %q", shared.ErrValidation, reportType)
	}

	dateRange := DateRange{From: from, To: to}
	if reportType == TypeDashboard {
		today := shared.Today().ISO()
		dateRange = DateRange{From: monthStart(today), To: today}
	}

	cacheKey, err := s.cache.BuildKey(ctx, key, reportType, orOpen(dateRange.From), orOpen(dateRange.To))
	if err != nil {
		return Report{}, fmt.Errorf("build cache key: %w", err)
	}

	var payload json.RawMessage
	loader := func(ctx context.Context) (interface{}, error) {
		return s.compute(ctx, key, reportType, dateRange.From, dateRange.To)
	}
	if err := s.cache.FetchJSON(ctx, cacheKey, &payload, loader); err != nil {
		return Report{}, err
	}
	return Report{
		Type:        reportType,
		Data:        payload,
		GeneratedAt: time.Now().UTC(),
		DateRange:   dateRange,
	}, nil
}

func (s *Service) compute(ctx context.Context, key tenant.Key, reportType, from, to string) (interface{}, error) {
	switch reportType {
	case TypeTransactionSummary, TypeTax:
		var sales []SaleRow
		var purchases []PurchaseRow
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) { sales, err = s.repo.SalesBetween(ctx, key, from, to); return })
		g.Go(func() (err error) { purchases, err = s.repo.PurchasesBetween(ctx, key, from, to); return })
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if reportType == TypeTax {
			return computeTax(sales, purchases, from, to), nil
		}
		return computeTransactionSummary(sales, purchases, from, to), nil

	case TypeSales:
		sales, err := s.repo.SalesBetween(ctx, key, from, to)
		if err != nil {
			return nil, err
		}
		return computeSalesReport(sales, from, to), nil

	case TypePurchases:
		purchases, err := s.repo.PurchasesBetween(ctx, key, from, to)
		if err != nil {
			return nil, err
		}
		return computePurchasesReport(purchases, from, to), nil

	case TypePartyStatement, TypeParty:
		var parties []PartyRow
		var sales []SaleRow
		var purchases []PurchaseRow
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) { parties, err = s.repo.Parties(ctx, key); return })
		g.Go(func() (err error) { sales, err = s.repo.SalesBetween(ctx, key, from, to); return })
		g.Go(func() (err error) { purchases, err = s.repo.PurchasesBetween(ctx, key, from, to); return })
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if reportType == TypePartyStatement {
			return computePartyStatement(parties, sales, purchases, from, to), nil
		}
		return computePartyReport(parties, sales, purchases, from, to), nil

	case TypeCashFlow:
		var sales []SaleRow
		var purchases []PurchaseRow
		var expenses []ExpenseRow
		var cash []CashRow
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) { sales, err = s.repo.SalesBetween(ctx, key, from, to); return })
		g.Go(func() (err error) { purchases, err = s.repo.PurchasesBetween(ctx, key, from, to); return })
		g.Go(func() (err error) { expenses, err = s.repo.ExpensesBetween(ctx, key, from, to); return })
		g.Go(func() (err error) { cash, err = s.repo.CashBetween(ctx, key, from, to); return })
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return computeCashFlow(sales, purchases, expenses, cash, from, to), nil

	case TypeProfitLoss:
		var sales []SaleRow
		var expenses []ExpenseRow
		var items []ItemRow
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) { sales, err = s.repo.SalesBetween(ctx, key, from, to); return })
		g.Go(func() (err error) { expenses, err = s.repo.ExpensesBetween(ctx, key, from, to); return })
		g.Go(func() (err error) { items, err = s.repo.Items(ctx, key); return })
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return computeProfitLoss(sales, expenses, items, from, to), nil

	case TypeItemStock:
		var items []ItemRow
		var sales []SaleRow
		var purchases []PurchaseRow
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) { items, err = s.repo.Items(ctx, key); return })
		g.Go(func() (err error) { sales, err = s.repo.SalesBetween(ctx, key, from, to); return })
		g.Go(func() (err error) { purchases, err = s.repo.PurchasesBetween(ctx, key, from, to); return })
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return computeItemStock(items, sales, purchases, from, to, shared.Today().ISO()), nil

	case TypeExpenses:
		expenses, err := s.repo.ExpensesBetween(ctx, key, from, to)
		if err != nil {
			return nil, err
		}
		return computeExpenseReport(expenses, from, to), nil

	case TypeDashboard:
		var sales []SaleRow
		var purchases []PurchaseRow
		var expenses []ExpenseRow
		var parties []PartyRow
		var items []ItemRow
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) { sales, err = s.repo.SalesBetween(ctx, key, from, to); return })
		g.Go(func() (err error) { purchases, err = s.repo.PurchasesBetween(ctx, key, from, to); return })
		g.Go(func() (err error) { expenses, err = s.repo.ExpensesBetween(ctx, key, from, to); return })
		g.Go(func() (err error) { parties, err = s.repo.Parties(ctx, key); return })
		g.Go(func() (err error) { items, err = s.repo.Items(ctx, key); return })
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return computeDashboard(sales, purchases, expenses, parties, items, to, from), nil
	}
	return nil, fmt.Errorf("%w: unknown report type %q", shared.ErrValidation, reportType)
}

func orOpen(bound string) string {
	if bound == "" {
		return "-"
	}
	return bound
}

// monthStart truncates an ISO date to the first of its month.
func monthStart(iso string) string {
	if len(iso) != 10 {
		return iso
	}
	return iso[:8] + "01"
}
