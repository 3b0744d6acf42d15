package parties

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/bizhub-erp/bizhub/internal/shared"
	"github.com/bizhub-erp/bizhub/internal/tenant"
)

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) List(ctx context.Context, key tenant.Key, filters shared.ListFilters) ([]Party, int, error) {
	return s.repo.List(ctx, key, filters)
}

func (s *Service) Get(ctx context.Context, key tenant.Key, id int64) (Party, error) {
	if id <= 0 {
		return Party{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, key, id)
}

func (s *Service) Create(ctx context.Context, key tenant.Key, input PartyInput) (Party, error) {
	party := input.Party()
	if err := s.validate.Struct(party); err != nil {
		return Party{}, fmt.Errorf("%w: %s", shared.ErrValidation, validationMessage(err))
	}
	return s.repo.Create(ctx, key, party)
}

func (s *Service) Update(ctx context.Context, key tenant.Key, id int64, input PartyInput) (Party, error) {
	if id <= 0 {
		return Party{}, shared.ErrInvalidID
	}
	current, err := s.repo.Get(ctx, key, id)
	if err != nil {
		return Party{}, err
	}
	party := input.Party()
	if err := s.validate.Struct(party); err != nil {
		return Party{}, fmt.Errorf("%w: %s", shared.ErrValidation, validationMessage(err))
	}
	if err := s.repo.Update(ctx, key, id, party); err != nil {
		return Party{}, err
	}
	// Balance is ledger-maintained; updates never touch it.
	party.ID = id
	party.Balance = current.Balance
	party.TotalTransactions = current.TotalTransactions
	party.LastTransaction = current.LastTransaction
	party.CreatedAt = current.CreatedAt
	return party, nil
}

func (s *Service) Delete(ctx context.Context, key tenant.Key, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.Delete(ctx, key, id)
}

func validationMessage(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		first := errs[0]
		return fmt.Sprintf("field %s failed on %s", first.Field(), first.Tag())
	}
	return err.Error()
}
