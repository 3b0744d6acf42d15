package cash

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
	txns     map[int64]Transaction
	accounts map[int64]BankAccount
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, txns: map[int64]Transaction{}, accounts: map[int64]BankAccount{}}
}

func (m *memoryRepo) ListTransactions(_ context.Context, _ tenant.Key, _ shared.ListFilters) ([]Transaction, int, error) {
	out := make([]Transaction, 0, len(m.txns))
	for _, t := range m.txns {
		out = append(out, t)
	}
	return out, len(out), nil
}

func (m *memoryRepo) GetTransaction(_ context.Context, _ tenant.Key, id int64) (Transaction, error) {
	t, ok := m.txns[id]
	if !ok {
		return Transaction{}, shared.ErrNotFound
	}
	return t, nil
}

func (m *memoryRepo) CreateTransaction(_ context.Context, _ tenant.Key, txn Transaction) (Transaction, error) {
	if txn.BankAccountID != nil {
		account, ok := m.accounts[*txn.BankAccountID]
		if !ok {
			return Transaction{}, shared.ErrNotFound
		}
		account.Balance += txn.Signed()
		m.accounts[account.ID] = account
	}
	txn.ID = m.nextID
	m.nextID++
	m.txns[txn.ID] = txn
	return txn, nil
}

func (m *memoryRepo) DeleteTransaction(_ context.Context, _ tenant.Key, id int64) error {
	txn, ok := m.txns[id]
	if !ok {
		return shared.ErrNotFound
	}
	if txn.BankAccountID != nil {
		account := m.accounts[*txn.BankAccountID]
		account.Balance -= txn.Signed()
		m.accounts[account.ID] = account
	}
	delete(m.txns, id)
	return nil
}

func (m *memoryRepo) ListAccounts(_ context.Context, _ tenant.Key) ([]BankAccount, error) {
	out := make([]BankAccount, 0, len(m.accounts))
	for _, a := range m.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (m *memoryRepo) GetAccount(_ context.Context, _ tenant.Key, id int64) (BankAccount, error) {
	a, ok := m.accounts[id]
	if !ok {
		return BankAccount{}, shared.ErrNotFound
	}
	return a, nil
}

func (m *memoryRepo) CreateAccount(_ context.Context, _ tenant.Key, account BankAccount) (BankAccount, error) {
	account.ID = m.nextID
	m.nextID++
	m.accounts[account.ID] = account
	return account, nil
}

func (m *memoryRepo) UpdateAccount(_ context.Context, _ tenant.Key, account BankAccount) (BankAccount, error) {
	prev, ok := m.accounts[account.ID]
	if !ok {
		return BankAccount{}, shared.ErrNotFound
	}
	account.Balance = prev.Balance
	m.accounts[account.ID] = account
	return account, nil
}

func (m *memoryRepo) DeleteAccount(_ context.Context, _ tenant.Key, id int64) error {
	if _, ok := m.accounts[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.accounts, id)
	return nil
}

func newTestService() (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, repo, nil), repo
}

func TestCreateTransactionRejectsUnknownType(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateTransaction(context.Background(), testKey, TransactionInput{Type: "transfer", Amount: 100})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateTransactionResolvesLegacyTypeAlias(t *testing.T) {
	svc, _ := newTestService()

	txn, err := svc.CreateTransaction(context.Background(), testKey, TransactionInput{
		TransactionType: "out",
		Amount:          75,
		Date:            "2026-04-02",
	})
	require.NoError(t, err)
	require.Equal(t, TypeOut, txn.Type)
	require.Equal(t, -75.0, txn.Signed())
}

func TestLinkedTransactionsMoveBankBalance(t *testing.T) {
	svc, repo := newTestService()

	account, err := svc.CreateAccount(context.Background(), testKey, BankAccountInput{
		Name:           "current",
		OpeningBalance: 500,
	})
	require.NoError(t, err)

	in, err := svc.CreateTransaction(context.Background(), testKey, TransactionInput{
		Type: "in", Amount: 200, BankAccountID: &account.ID,
	})
	require.NoError(t, err)
	require.Equal(t, 700.0, repo.accounts[account.ID].Balance)

	_, err = svc.CreateTransaction(context.Background(), testKey, TransactionInput{
		Type: "out", Amount: 50, BankAccountID: &account.ID,
	})
	require.NoError(t, err)
	require.Equal(t, 650.0, repo.accounts[account.ID].Balance)

	require.NoError(t, svc.DeleteTransaction(context.Background(), testKey, in.ID))
	require.Equal(t, 450.0, repo.accounts[account.ID].Balance)
}

func TestUpdateAccountPreservesBalance(t *testing.T) {
	svc, repo := newTestService()

	account, err := svc.CreateAccount(context.Background(), testKey, BankAccountInput{
		Name:           "savings",
		OpeningBalance: 1000,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateAccount(context.Background(), testKey, account.ID, BankAccountInput{
		Name:           "savings renamed",
		OpeningBalance: 9999,
	})
	require.NoError(t, err)
	require.Equal(t, 1000.0, updated.Balance)
	require.Equal(t, 1000.0, repo.accounts[account.ID].Balance)
}
