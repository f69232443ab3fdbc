package domain_test

import (
	"errors"
	"testing"

	"github.com/boddenberg/pocket-insights-go/internal/domain"
)

func TestValidDate(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2024-01-15", true},
		{"2024-02-29", true},
		{"2023-02-29", false},
		{"2024-02-30", false},
		{"2024-13-01", false},
		{"2024-1-15", false},
		{"15-01-2024", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := domain.ValidDate(tt.in); got != tt.want {
			t.Errorf("ValidDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTransaction_Validate(t *testing.T) {
	valid := domain.Transaction{
		ID:              1,
		WalletID:        "pocket-1",
		Type:            domain.TransactionExpense,
		Category:        "food",
		Amount:          50_000,
		Currency:        "IDR",
		TransactionDate: "2024-01-15",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid transaction, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*domain.Transaction)
		field  string
	}{
		{"missing wallet", func(tx *domain.Transaction) { tx.WalletID = "" }, "wallet_id"},
		{"unknown type", func(tx *domain.Transaction) { tx.Type = "TRANSFER" }, "type"},
		{"missing category", func(tx *domain.Transaction) { tx.Category = "" }, "category"},
		{"zero amount", func(tx *domain.Transaction) { tx.Amount = 0 }, "amount"},
		{"negative amount", func(tx *domain.Transaction) { tx.Amount = -10 }, "amount"},
		{"bad date", func(tx *domain.Transaction) { tx.TransactionDate = "2024/01/15" }, "transaction_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)

			err := tx.Validate()
			var verr *domain.ErrValidation
			if !errors.As(err, &verr) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}
}

func TestErrUnavailable_Message(t *testing.T) {
	err := &domain.ErrUnavailable{Feature: "Chat service", Hint: "Set OPENROUTER_API_KEY."}
	if err.Error() != "Chat service is not available. Set OPENROUTER_API_KEY." {
		t.Errorf("unexpected message %q", err.Error())
	}
	bare := &domain.ErrUnavailable{Feature: "Chat service"}
	if bare.Error() != "Chat service is not available" {
		t.Errorf("unexpected message %q", bare.Error())
	}
}
