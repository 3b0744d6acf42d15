package expenses

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bizhub-erp/bizhub/internal/shared"
	"github.com/bizhub-erp/bizhub/internal/tenant"
)

// Invalidator bumps the cached report version for a tenant after a write.
type Invalidator interface {
	Bump(ctx context.Context, key tenant.Key) error
}

type Service struct {
	logger      *slog.Logger
	repo        Repository
	invalidator Invalidator
}

func NewService(logger *slog.Logger, repo Repository, invalidator Invalidator) *Service {
	return &Service{logger: logger, repo: repo, invalidator: invalidator}
}

func (s *Service) List(ctx context.Context, key tenant.Key, filters shared.ListFilters) ([]Expense, int, error) {
	return s.repo.List(ctx, key, filters)
}

func (s *Service) Get(ctx context.Context, key tenant.Key, id int64) (Expense, error) {
	if id <= 0 {
		return Expense{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, key, id)
}

func (s *Service) Create(ctx context.Context, key tenant.Key, input ExpenseInput) (Expense, error) {
	expense, err := input.Expense()
	if err != nil {
		return Expense{}, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	if err := validate(expense); err != nil {
		return Expense{}, err
	}
	created, err := s.repo.Create(ctx, key, expense)
	if err != nil {
		return Expense{}, err
	}
	s.bump(ctx, key)
	return created, nil
}

func (s *Service) Update(ctx context.Context, key tenant.Key, id int64, input ExpenseInput) (Expense, error) {
	if id <= 0 {
		return Expense{}, shared.ErrInvalidID
	}
	expense, err := input.Expense()
	if err != nil {
		return Expense{}, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	expense.ID = id
	if err := validate(expense); err != nil {
		return Expense{}, err
	}
	updated, err := s.repo.Update(ctx, key, expense)
	if err != nil {
		return Expense{}, err
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

func validate(e Expense) error {
	if e.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", shared.ErrValidation)
	}
	if e.Category == "" {
		return fmt.Errorf("%w: category is required", shared.ErrValidation)
	}
	return nil
}

func (s *Service) bump(ctx context.Context, key tenant.Key) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Bump(ctx, key); err != nil {
		s.logger.Warn("report cache invalidation failed", "tenant", string(key), "error", err)
	}
}
