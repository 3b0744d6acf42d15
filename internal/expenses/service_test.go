package expenses

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bizhub-erp/bizhub/internal/shared"
	"github.com/bizhub-erp/bizhub/internal/tenant"
)

const testKey = tenant.Key("9876543210")

type memoryRepo struct {
	nextID   int64
	expenses map[int64]Expense
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, expenses: map[int64]Expense{}}
}

func (m *memoryRepo) List(_ context.Context, _ tenant.Key, _ shared.ListFilters) ([]Expense, int, error) {
	out := make([]Expense, 0, len(m.expenses))
	for _, e := range m.expenses {
		out = append(out, e)
	}
	return out, len(out), nil
}

func (m *memoryRepo) Get(_ context.Context, _ tenant.Key, id int64) (Expense, error) {
	e, ok := m.expenses[id]
	if !ok {
		return Expense{}, shared.ErrNotFound
	}
	return e, nil
}

func (m *memoryRepo) Create(_ context.Context, _ tenant.Key, e Expense) (Expense, error) {
	e.ID = m.nextID
	m.nextID++
	m.expenses[e.ID] = e
	return e, nil
}

func (m *memoryRepo) Update(_ context.Context, _ tenant.Key, e Expense) (Expense, error) {
	if _, ok := m.expenses[e.ID]; !ok {
		return Expense{}, shared.ErrNotFound
	}
	m.expenses[e.ID] = e
	return e, nil
}

func (m *memoryRepo) Delete(_ context.Context, _ tenant.Key, id int64) error {
	if _, ok := m.expenses[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.expenses, id)
	return nil
}

type countingInvalidator struct {
	bumps int
}

func (c *countingInvalidator) Bump(context.Context, tenant.Key) error {
	c.bumps++
	return nil
}

func newTestService() (*Service, *memoryRepo, *countingInvalidator) {
	repo := newMemoryRepo()
	inv := &countingInvalidator{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, repo, inv), repo, inv
}

func TestCreateResolvesLegacyDateAlias(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.Create(context.Background(), testKey, ExpenseInput{
		Category:    "rent",
		Amount:      1200,
		ExpenseDate: "2026-03-01",
	})
	require.NoError(t, err)
	require.Equal(t, "2026-03-01", created.Date.ISO())
}

func TestCreateRejectsNonPositiveAmount(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), testKey, ExpenseInput{Category: "rent", Amount: 0})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateDefaultsCategoryAndDate(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.Create(context.Background(), testKey, ExpenseInput{Amount: 50})
	require.NoError(t, err)
	require.Equal(t, "general", created.Category)
	require.Equal(t, shared.Today().ISO(), created.Date.ISO())
}

func TestWritesBumpReportCache(t *testing.T) {
	svc, _, inv := newTestService()

	created, err := svc.Create(context.Background(), testKey, ExpenseInput{Category: "fuel", Amount: 30, Date: "2026-02-10"})
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), testKey, created.ID, ExpenseInput{Category: "fuel", Amount: 35, Date: "2026-02-10"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), testKey, created.ID))
	require.Equal(t, 3, inv.bumps)
}
