package parties

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bizhub-erp/bizhub/internal/shared"
	"github.com/bizhub-erp/bizhub/internal/tenant"
)

type memoryRepo struct {
	parties map[int64]Party
	nextID  int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{parties: make(map[int64]Party)}
}

func (r *memoryRepo) List(ctx context.Context, key tenant.Key, filters shared.ListFilters) ([]Party, int, error) {
	var out []Party
	for _, p := range r.parties {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (r *memoryRepo) Get(ctx context.Context, key tenant.Key, id int64) (Party, error) {
	p, ok := r.parties[id]
	if !ok {
		return Party{}, shared.ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) Create(ctx context.Context, key tenant.Key, party Party) (Party, error) {
	r.nextID++
	party.ID = r.nextID
	r.parties[party.ID] = party
	return party, nil
}

func (r *memoryRepo) Update(ctx context.Context, key tenant.Key, id int64, party Party) error {
	current, ok := r.parties[id]
	if !ok {
		return shared.ErrNotFound
	}
	party.ID = id
	party.Balance = current.Balance
	r.parties[id] = party
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, key tenant.Key, id int64) error {
	if _, ok := r.parties[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.parties, id)
	return nil
}

const testKey = tenant.Key("9876543210")

func TestCreateResolvesLegacyAliases(t *testing.T) {
	svc := NewService(newMemoryRepo())
	opening := 150.0
	party, err := svc.Create(context.Background(), testKey, PartyInput{
		PartyName:      "Acme Traders",
		PhoneNo:        "044-1234567",
		OpeningBalance: &opening,
	})
	require.NoError(t, err)
	require.Equal(t, "Acme Traders", party.Name)
	require.Equal(t, "044-1234567", party.Phone)
	require.Equal(t, 150.0, party.Balance)
	require.Equal(t, TypeCustomer, party.Type)
	require.Equal(t, StatusActive, party.Status)
}

func TestCreateCanonicalFieldsWinOverAliases(t *testing.T) {
	svc := NewService(newMemoryRepo())
	party, err := svc.Create(context.Background(), testKey, PartyInput{
		Name:      "Canonical",
		PartyName: "Legacy",
		Type:      TypeSupplier,
	})
	require.NoError(t, err)
	require.Equal(t, "Canonical", party.Name)
	require.Equal(t, TypeSupplier, party.Type)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), testKey, PartyInput{})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(context.Background(), testKey, PartyInput{Name: "X", Type: "wholesaler"})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(context.Background(), testKey, PartyInput{Name: "X", Email: "not-an-email"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdatePreservesLedgerFields(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	created, err := svc.Create(context.Background(), testKey, PartyInput{Name: "Acme"})
	require.NoError(t, err)

	stored := repo.parties[created.ID]
	stored.Balance = 420
	stored.TotalTransactions = 7
	repo.parties[created.ID] = stored

	updated, err := svc.Update(context.Background(), testKey, created.ID, PartyInput{Name: "Acme Ltd", Type: TypeBoth})
	require.NoError(t, err)
	require.Equal(t, "Acme Ltd", updated.Name)
	require.Equal(t, 420.0, updated.Balance, "balance must not be writable through update")
	require.Equal(t, int64(7), updated.TotalTransactions)
}

func TestGetInvalidID(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.Get(context.Background(), testKey, 0)
	require.ErrorIs(t, err, shared.ErrInvalidID)
}
