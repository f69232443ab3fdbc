package domain

import (
	"fmt"
	"time"
)

// ============================================================
// Transactions & Dataset
// ============================================================

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction is a single ledger entry. Amounts are integer currency units
// (IDR has no fractional subunits) and dates are ISO YYYY-MM-DD strings, which
// compare correctly as plain strings.
type Transaction struct {
	ID              int64           `json:"id"`
	WalletID        string          `json:"wallet_id"`
	Type            TransactionType `json:"type"`
	Category        string          `json:"category"`
	Amount          int64           `json:"amount"`
	Currency        string          `json:"currency"`
	TransactionDate string          `json:"transaction_date"`
	CreatedAt       string          `json:"created_at"`
}

// DateLayout is the only date format accepted on the wire and in storage.
const DateLayout = "2006-01-02"

// ValidDate reports whether s is a real calendar date in YYYY-MM-DD form.
func ValidDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Validate checks the invariants every stored transaction must satisfy.
func (t Transaction) Validate() error {
	switch {
	case t.WalletID == "":
		return &ErrValidation{Field: "wallet_id", Message: fmt.Sprintf("transaction %d: wallet_id is required", t.ID)}
	case !t.Type.Valid():
		return &ErrValidation{Field: "type", Message: fmt.Sprintf("transaction %d: type must be INCOME or EXPENSE", t.ID)}
	case t.Category == "":
		return &ErrValidation{Field: "category", Message: fmt.Sprintf("transaction %d: category is required", t.ID)}
	case t.Amount <= 0:
		return &ErrValidation{Field: "amount", Message: fmt.Sprintf("transaction %d: amount must be positive", t.ID)}
	case !ValidDate(t.TransactionDate):
		return &ErrValidation{Field: "transaction_date", Message: fmt.Sprintf("transaction %d: invalid transaction_date %q", t.ID, t.TransactionDate)}
	}
	return nil
}

// Period is an inclusive date window.
type Period struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// DatasetMeta describes the seeded dataset.
type DatasetMeta struct {
	Description       string `json:"description"`
	WalletID          string `json:"wallet_id"`
	Currency          string `json:"currency"`
	TotalTransactions int    `json:"total_transactions"`
	Period            Period `json:"period"`
}

// Dataset is the JSON document consumed by the seeder.
type Dataset struct {
	Meta         DatasetMeta   `json:"meta"`
	Transactions []Transaction `json:"transactions"`
}

// DatasetStats is reported by the health endpoint.
type DatasetStats struct {
	TotalTransactions int      `json:"total_transactions"`
	WalletIDs         []string `json:"wallet_ids"`
	Period            Period   `json:"period"`
	Currency          string   `json:"currency"`
}
