package sales

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/bizhub-erp/bizhub/internal/parties"
	"github.com/bizhub-erp/bizhub/internal/shared"
	"github.com/bizhub-erp/bizhub/internal/tenant"
)

// Invalidator bumps the tenant's report cache version after a write.
type Invalidator interface {
	Bump(ctx context.Context, key tenant.Key) error
}

type Service struct {
	logger      *slog.Logger
	repo        Repository
	parties     parties.Repository
	invalidator Invalidator
}

func NewService(logger *slog.Logger, repo Repository, partyRepo parties.Repository, invalidator Invalidator) *Service {
	return &Service{logger: logger, repo: repo, parties: partyRepo, invalidator: invalidator}
}

func (s *Service) List(ctx context.Context, key tenant.Key, filters shared.ListFilters) ([]Sale, int, error) {
	return s.repo.List(ctx, key, filters)
}

func (s *Service) Get(ctx context.Context, key tenant.Key, id int64) (Sale, error) {
	if id <= 0 {
		return Sale{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, key, id)
}

func (s *Service) Create(ctx context.Context, key tenant.Key, input SaleInput) (Sale, error) {
	sale, err := input.Sale()
	if err != nil {
		return Sale{}, fmt.Errorf("%w: %s", shared.ErrValidation, err)
	}
	if err := s.validate(sale); err != nil {
		return Sale{}, err
	}
	if sale.InvoiceNumber == "" {
		sale.InvoiceNumber = newDocNumber("INV")
	}

	warning := false
	if sale.Posted() && sale.PartyID != nil {
		party, err := s.parties.Get(ctx, key, *sale.PartyID)
		if err != nil {
			return Sale{}, fmt.Errorf("%w: party %d", shared.ErrValidation, *sale.PartyID)
		}
		if sale.PartyName == "" {
			sale.PartyName = party.Name
		}
		// Exceeding the limit flags the response but does not block the sale.
		if party.CreditLimit > 0 && party.Balance+sale.TotalAmount > party.CreditLimit {
			warning = true
		}
	}

	created, err := s.repo.Create(ctx, key, sale)
	if err != nil {
		return Sale{}, err
	}
	created.CreditLimitWarning = warning
	s.bump(ctx, key)
	return created, nil
}

func (s *Service) Update(ctx context.Context, key tenant.Key, id int64, input SaleInput) (Sale, error) {
	if id <= 0 {
		return Sale{}, shared.ErrInvalidID
	}
	sale, err := input.Sale()
	if err != nil {
		return Sale{}, fmt.Errorf("%w: %s", shared.ErrValidation, err)
	}
	if err := s.validate(sale); err != nil {
		return Sale{}, err
	}
	updated, err := s.repo.Update(ctx, key, id, sale)
	if err != nil {
		return Sale{}, err
	}
	s.bump(ctx, key)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, key tenant.Key, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, key, id); err != nil {
		return err
	}
	s.bump(ctx, key)
	return nil
}

func (s *Service) validate(sale Sale) error {
	if sale.TotalAmount < 0 {
		return fmt.Errorf("%w: total amount cannot be negative", shared.ErrValidation)
	}
	if sale.PaidAmount < 0 {
		return fmt.Errorf("%w: paid amount cannot be negative", shared.ErrValidation)
	}
	switch sale.Status {
	case StatusDraft, StatusCompleted, StatusCancelled:
	default:
		return fmt.Errorf("%w: unknown status %q", shared.ErrValidation, sale.Status)
	}
	for _, line := range sale.Items {
		if line.Quantity < 0 {
			return fmt.Errorf("%w: line quantity cannot be negative", shared.ErrValidation)
		}
	}
	return nil
}

func (s *Service) bump(ctx context.Context, key tenant.Key) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Bump(ctx, key); err != nil {
		s.logger.Warn("report cache bump failed", "error", err)
	}
}

func newDocNumber(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.NewString()[:8])
}
