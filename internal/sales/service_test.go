package sales

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bizhub-erp/bizhub/internal/lineitem"
	"github.com/bizhub-erp/bizhub/internal/parties"
	"github.com/bizhub-erp/bizhub/internal/shared"
	"github.com/bizhub-erp/bizhub/internal/tenant"
)

const testKey = tenant.Key("9876543210")

type memoryRepo struct {
	nextID int64
	sales  map[int64]Sale
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, sales: map[int64]Sale{}}
}

func (m *memoryRepo) List(_ context.Context, _ tenant.Key, _ shared.ListFilters) ([]Sale, int, error) {
	out := make([]Sale, 0, len(m.sales))
	for _, s := range m.sales {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (m *memoryRepo) Get(_ context.Context, _ tenant.Key, id int64) (Sale, error) {
	s, ok := m.sales[id]
	if !ok {
		return Sale{}, shared.ErrNotFound
	}
	return s, nil
}

func (m *memoryRepo) Create(_ context.Context, _ tenant.Key, s Sale) (Sale, error) {
	s.ID = m.nextID
	m.nextID++
	m.sales[s.ID] = s
	return s, nil
}

func (m *memoryRepo) Update(_ context.Context, _ tenant.Key, id int64, s Sale) (Sale, error) {
	if _, ok := m.sales[id]; !ok {
		return Sale{}, shared.ErrNotFound
	}
	s.ID = id
	m.sales[id] = s
	return s, nil
}

func (m *memoryRepo) Delete(_ context.Context, _ tenant.Key, id int64) error {
	if _, ok := m.sales[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.sales, id)
	return nil
}

type memoryParties struct {
	parties map[int64]parties.Party
}

func (m *memoryParties) List(_ context.Context, _ tenant.Key, _ shared.ListFilters) ([]parties.Party, int, error) {
	return nil, 0, nil
}

func (m *memoryParties) Get(_ context.Context, _ tenant.Key, id int64) (parties.Party, error) {
	p, ok := m.parties[id]
	if !ok {
		return parties.Party{}, shared.ErrNotFound
	}
	return p, nil
}

func (m *memoryParties) Create(_ context.Context, _ tenant.Key, p parties.Party) (parties.Party, error) {
	return p, nil
}

func (m *memoryParties) Update(_ context.Context, _ tenant.Key, _ int64, _ parties.Party) error {
	return nil
}

func (m *memoryParties) Delete(_ context.Context, _ tenant.Key, _ int64) error {
	return nil
}

type countingInvalidator struct {
	bumps int
}

func (c *countingInvalidator) Bump(context.Context, tenant.Key) error {
	c.bumps++
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(repo Repository, partyRepo parties.Repository, inv Invalidator) *Service {
	return NewService(testLogger(), repo, partyRepo, inv)
}

func TestCreateDerivesTotalsFromLines(t *testing.T) {
	svc := newTestService(newMemoryRepo(), &memoryParties{}, nil)

	created, err := svc.Create(context.Background(), testKey, SaleInput{
		Items: lineitem.Lines{
			{ItemID: 1, Name: "Rice", Quantity: 2, Price: 100, Total: 200},
			{ItemID: 2, Name: "Oil", Quantity: 1, Price: 150, Total: 150},
		},
		TaxAmount: 17.5,
		Discount:  7.5,
	})
	require.NoError(t, err)
	require.Equal(t, 350.0, created.Subtotal)
	require.Equal(t, 360.0, created.TotalAmount)
	require.Equal(t, PaymentUnpaid, created.PaymentStatus)
	require.True(t, strings.HasPrefix(created.InvoiceNumber, "INV-"))
}

func TestCreateAcceptsLegacyAliases(t *testing.T) {
	partyID := int64(7)
	repo := newMemoryRepo()
	partyRepo := &memoryParties{parties: map[int64]parties.Party{
		7: {ID: 7, Name: "Sharma Traders"},
	}}
	svc := newTestService(repo, partyRepo, nil)

	total := 500.0
	paid := 500.0
	created, err := svc.Create(context.Background(), testKey, SaleInput{
		CustomerID: &partyID,
		Date:       "2026-03-15",
		GrandTotal: &total,
		Paid:       &paid,
	})
	require.NoError(t, err)
	require.Equal(t, &partyID, created.PartyID)
	require.Equal(t, "Sharma Traders", created.PartyName)
	require.Equal(t, "2026-03-15", created.InvoiceDate.ISO())
	require.Equal(t, PaymentPaid, created.PaymentStatus)
}

func TestCreateFlagsCreditLimitWithoutBlocking(t *testing.T) {
	partyID := int64(3)
	partyRepo := &memoryParties{parties: map[int64]parties.Party{
		3: {ID: 3, Name: "Verma Stores", Balance: 9000, CreditLimit: 10000},
	}}
	svc := newTestService(newMemoryRepo(), partyRepo, nil)

	total := 2500.0
	created, err := svc.Create(context.Background(), testKey, SaleInput{
		PartyID:     &partyID,
		TotalAmount: &total,
	})
	require.NoError(t, err)
	require.True(t, created.CreditLimitWarning)

	// A sale that stays inside the limit carries no warning.
	small := 500.0
	created, err = svc.Create(context.Background(), testKey, SaleInput{
		PartyID:     &partyID,
		TotalAmount: &small,
	})
	require.NoError(t, err)
	require.False(t, created.CreditLimitWarning)
}

func TestCreateRejectsUnknownParty(t *testing.T) {
	partyID := int64(42)
	svc := newTestService(newMemoryRepo(), &memoryParties{}, nil)

	total := 100.0
	_, err := svc.Create(context.Background(), testKey, SaleInput{
		PartyID:     &partyID,
		TotalAmount: &total,
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(newMemoryRepo(), &memoryParties{}, nil)

	_, err := svc.Create(context.Background(), testKey, SaleInput{Status: "pending"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestWritesBumpReportCache(t *testing.T) {
	repo := newMemoryRepo()
	inv := &countingInvalidator{}
	svc := newTestService(repo, &memoryParties{}, inv)

	created, err := svc.Create(context.Background(), testKey, SaleInput{})
	require.NoError(t, err)
	require.Equal(t, 1, inv.bumps)

	_, err = svc.Update(context.Background(), testKey, created.ID, SaleInput{Notes: "amended"})
	require.NoError(t, err)
	require.Equal(t, 2, inv.bumps)

	require.NoError(t, svc.Delete(context.Background(), testKey, created.ID))
	require.Equal(t, 3, inv.bumps)
}

func TestDraftSkipsPartyLookup(t *testing.T) {
	partyID := int64(42)
	svc := newTestService(newMemoryRepo(), &memoryParties{}, nil)

	total := 100.0
	created, err := svc.Create(context.Background(), testKey, SaleInput{
		PartyID:     &partyID,
		TotalAmount: &total,
		Status:      StatusDraft,
	})
	require.NoError(t, err)
	require.False(t, created.Posted())
}
