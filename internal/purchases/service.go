package purchases

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

func (s *Service) List(ctx context.Context, key tenant.Key, filters shared.ListFilters) ([]Purchase, int, error) {
	return s.repo.List(ctx, key, filters)
}

func (s *Service) Get(ctx context.Context, key tenant.Key, id int64) (Purchase, error) {
	if id <= 0 {
		return Purchase{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, key, id)
}

func (s *Service) Create(ctx context.Context, key tenant.Key, input PurchaseInput) (Purchase, error) {
	purchase, err := input.Purchase()
	if err != nil {
		return Purchase{}, fmt.Errorf("%w: %s", shared.ErrValidation, err)
	}
	if err := s.validate(purchase); err != nil {
		return Purchase{}, err
	}
	if purchase.BillNumber == "" {
		purchase.BillNumber = newDocNumber("PUR")
	}
	if purchase.Posted() && purchase.PartyID != nil {
		party, err := s.parties.Get(ctx, key, *purchase.PartyID)
		if err != nil {
			return Purchase{}, fmt.Errorf("%w: party %d", shared.ErrValidation, *purchase.PartyID)
		}
		if purchase.PartyName == "" {
			purchase.PartyName = party.Name
		}
	}
	created, err := s.repo.Create(ctx, key, purchase)
	if err != nil {
		return Purchase{}, err
	}
	s.bump(ctx, key)
	return created, nil
}

func (s *Service) Update(ctx context.Context, key tenant.Key, id int64, input PurchaseInput) (Purchase, error) {
	if id <= 0 {
		return Purchase{}, shared.ErrInvalidID
	}
	purchase, err := input.Purchase()
	if err != nil {
		return Purchase{}, fmt.Errorf("%w: %s", shared.ErrValidation, err)
	}
	if err := s.validate(purchase); err != nil {
		return Purchase{}, err
	}
	updated, err := s.repo.Update(ctx, key, id, purchase)
	if err != nil {
		return Purchase{}, err
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

func (s *Service) validate(purchase Purchase) error {
	if purchase.TotalAmount < 0 {
		return fmt.Errorf("%w: total amount cannot be negative", shared.ErrValidation)
	}
	if purchase.PaidAmount < 0 {
		return fmt.Errorf("%w: paid amount cannot be negative", shared.ErrValidation)
	}
	switch purchase.Status {
	case StatusDraft, StatusCompleted, StatusCancelled:
	default:
		return fmt.Errorf("%w: unknown status %q", shared.ErrValidation, purchase.Status)
	}
	for _, line := range purchase.Items {
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
