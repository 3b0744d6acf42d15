package cash

import (
	"time"

	"github.com/bizhub-erp/bizhub/internal/shared"
)

const (
	TypeIn  = "in"
	TypeOut = "out"
)

// Transaction is a single cash movement, optionally tied to a bank account.
type Transaction struct {
	ID            int64       `json:"id"`
	Type          string      `json:"type"`
	Amount        float64     `json:"amount"`
	Category      string      `json:"category"`
	Description   string      `json:"description"`
	Date          shared.Date `json:"date"`
	BankAccountID *int64      `json:"bank_account_id,omitempty"`
	PaymentMethod string      `json:"payment_method"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Signed returns the amount with direction applied: inflows positive,
// outflows negative.
func (t Transaction) Signed() float64 {
	if t.Type == TypeOut {
		return -t.Amount
	}
	return t.Amount
}

// TransactionInput accepts both canonical and legacy field names.
type TransactionInput struct {
	Type            string  `json:"type"`
	TransactionType string  `json:"transaction_type"`
	Amount          float64 `json:"amount"`
	Category        string  `json:"category"`
	Description     string  `json:"description"`
	Date            string  `json:"date"`
	TransactionDate string  `json:"transaction_date"`
	BankAccountID   *int64  `json:"bank_account_id"`
	PaymentMethod   string  `json:"payment_method"`
}

func (in TransactionInput) Transaction() (Transaction, error) {
	kind := in.Type
	if kind == "" {
		kind = in.TransactionType
	}
	rawDate := in.Date
	if rawDate == "" {
		rawDate = in.TransactionDate
	}
	var date shared.Date
	if rawDate == "" {
		date = shared.Today()
	} else {
		parsed, err := shared.ParseDate(rawDate)
		if err != nil {
			return Transaction{}, err
		}
		date = parsed
	}
	method := in.PaymentMethod
	if method == "" {
		method = "cash"
	}
	return Transaction{
		Type:          kind,
		Amount:        in.Amount,
		Category:      in.Category,
		Description:   in.Description,
		Date:          date,
		BankAccountID: in.BankAccountID,
		PaymentMethod: method,
	}, nil
}

// BankAccount tracks a balance maintained by linked cash transactions.
type BankAccount struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	AccountNumber string    `json:"account_number"`
	BankName      string    `json:"bank_name"`
	Balance       float64   `json:"balance"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BankAccountInput carries the opening balance only on create; later edits
// never touch the balance directly.
type BankAccountInput struct {
	Name           string  `json:"name"`
	AccountName    string  `json:"account_name"`
	AccountNumber  string  `json:"account_number"`
	BankName       string  `json:"bank_name"`
	OpeningBalance float64 `json:"opening_balance"`
}

func (in BankAccountInput) Account() BankAccount {
	name := in.Name
	if name == "" {
		name = in.AccountName
	}
	return BankAccount{
		Name:          name,
		AccountNumber: in.AccountNumber,
		BankName:      in.BankName,
		Balance:       in.OpeningBalance,
	}
}
