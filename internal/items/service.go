package items

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

func (s *Service) List(ctx context.Context, key tenant.Key, filters shared.ListFilters) ([]Item, int, error) {
	return s.repo.List(ctx, key, filters)
}

func (s *Service) Get(ctx context.Context, key tenant.Key, id int64) (Item, error) {
	if id <= 0 {
		return Item{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, key, id)
}

func (s *Service) Create(ctx context.Context, key tenant.Key, input ItemInput) (Item, error) {
	item := input.Item()
	if err := s.validate.Struct(item); err != nil {
		return Item{}, fmt.Errorf("%w: %s", shared.ErrValidation, firstValidationError(err))
	}
	return s.repo.Create(ctx, key, item)
}

func (s *Service) Update(ctx context.Context, key tenant.Key, id int64, input ItemInput) (Item, error) {
	if id <= 0 {
		return Item{}, shared.ErrInvalidID
	}
	current, err := s.repo.Get(ctx, key, id)
	if err != nil {
		return Item{}, err
	}
	item := input.Item()
	if err := s.validate.Struct(item); err != nil {
		return Item{}, fmt.Errorf("%w: %s", shared.ErrValidation, firstValidationError(err))
	}
	if err := s.repo.Update(ctx, key, id, item); err != nil {
		return Item{}, err
	}
	// Stock is maintained by document postings, not by edits.
	item.ID = id
	item.Stock = current.Stock
	item.CreatedAt = current.CreatedAt
	return item, nil
}

func (s *Service) Delete(ctx context.Context, key tenant.Key, id int64) error {
	if id <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.Delete(ctx, key, id)
}

func firstValidationError(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return fmt.Sprintf("field %s failed on %s", errs[0].Field(), errs[0].Tag())
	}
	return err.Error()
}
