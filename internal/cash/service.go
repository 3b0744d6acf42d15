package cash

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

func (s *Service) ListTransactions(ctx context.Context, key tenant.Key, filters shared.ListFilters) ([]Transaction, int, error) {
	return s.repo.ListTransactions(ctx, key, filters)
}

func (s *Service) GetTransaction(ctx context.Context, key tenant.Key, id int64) (Transaction, error) {
	if id <= 0 {
		return Transaction{}, shared.ErrInvalidID
	}
	return s.repo.GetTransaction(ctx, key, id)
}

func (s *Service) CreateTransaction(ctx context.Context, key tenant.Key, input TransactionInput) (Transaction, error) {
	txn, err := input.Transaction()
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	if txn.Type != TypeIn && txn.Type != TypeOut {
		return Transaction{}, fmt.Errorf("%w: type must be in or out", shared.ErrValidation)
	}
	if txn.Amount <= 0 {
		return Transaction{}, fmt.Errorf("%w: amount must be positive", shared.ErrValidation)
	}
	created, err := s.repo.CreateTransaction(ctx, key, txn)
	if err != nil {
		return Transaction{}, err
	}
	s.bump(ctx, key)
	return created, nil
}

func (s *Service) DeleteTransaction(ctx context.Context, key tenant.Key, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	if err := s.repo.DeleteTransaction(ctx, key, id); err != nil {
		return err
	}
	s.bump(ctx, key)
	return nil
}

func (s *Service) ListAccounts(ctx context.Context, key tenant.Key) ([]BankAccount, error) {
	return s.repo.ListAccounts(ctx, key)
}

func (s *Service) GetAccount(ctx context.Context, key tenant.Key, id int64) (BankAccount, error) {
	if id <= 0 {
		return BankAccount{}, shared.ErrInvalidID
	}
	return s.repo.GetAccount(ctx, key, id)
}

func (s *Service) CreateAccount(ctx context.Context, key tenant.Key, input BankAccountInput) (BankAccount, error) {
	account := input.Account()
	if account.Name == "" {
		return BankAccount{}, fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	return s.repo.CreateAccount(ctx, key, account)
}

func (s *Service) UpdateAccount(ctx context.Context, key tenant.Key, id int64, input BankAccountInput) (BankAccount, error) {
	if id <= 0 {
		return BankAccount{}, shared.ErrInvalidID
	}
	account := input.Account()
	account.ID = id
	if account.Name == "" {
		return BankAccount{}, fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	// Balance is maintained by linked transactions; updates never touch it.
	return s.repo.UpdateAccount(ctx, key, account)
}

func (s *Service) DeleteAccount(ctx context.Context, key tenant.Key, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.DeleteAccount(ctx, key, id)
}

func (s *Service) bump(ctx context.Context, key tenant.Key) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Bump(ctx, key); err != nil {
		s.logger.Warn("report cache invalidation failed", "tenant", string(key), "error", err)
	}
}
