package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccount_ValidateWithdrawal(t *testing.T) {
	tests := []struct {
		name        string
		available   decimal.Decimal
		amount      decimal.Decimal
		expectError bool
	}{
		{
			name:        "withdraw more than available",
			available:   decimal.NewFromInt(10),
			amount:      decimal.NewFromInt(15),
			expectError: true,
		},
		{
			name:        "withdraw exact available",
			available:   decimal.NewFromInt(10),
			amount:      decimal.NewFromInt(10),
			expectError: false,
		},
		{
			name:        "withdraw fractional amount",
			available:   decimal.RequireFromString("1.0001"),
			amount:      decimal.RequireFromString("1.0002"),
			expectError: true,
		},
		{
			name:        "withdraw from negative available",
			available:   decimal.NewFromInt(-5),
			amount:      decimal.Zero,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{Available: tt.available}

			err := acc.ValidateWithdrawal(tt.amount)

			if tt.expectError && !errors.Is(err, ErrInsufficientFunds) {
				t.Errorf("expected ErrInsufficientFunds, got %v", err)
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAccount_WithdrawRejectedLeavesBalance(t *testing.T) {
	acc := NewAccount(1)
	acc.Deposit(decimal.NewFromInt(10))

	if err := acc.Withdraw(decimal.NewFromInt(15)); err == nil {
		t.Fatal("expected error, got nil")
	}

	if !acc.Available.Equal(decimal.NewFromInt(10)) {
		t.Errorf("expected available 10, got %s", acc.Available)
	}
}

func TestAccount_HoldAndRelease(t *testing.T) {
	acc := NewAccount(1)
	acc.Deposit(decimal.NewFromInt(10))
	acc.Hold(decimal.NewFromInt(10))

	if !acc.Available.IsZero() || !acc.Held.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected balances after hold: available=%s held=%s", acc.Available, acc.Held)
	}

	if err := acc.Release(decimal.NewFromInt(10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !acc.Available.Equal(decimal.NewFromInt(10)) || !acc.Held.IsZero() {
		t.Errorf("unexpected balances after release: available=%s held=%s", acc.Available, acc.Held)
	}
}

func TestAccount_HoldMayDriveAvailableNegative(t *testing.T) {
	acc := NewAccount(1)
	acc.Hold(decimal.NewFromInt(3))

	if !acc.Available.Equal(decimal.NewFromInt(-3)) {
		t.Errorf("expected available -3, got %s", acc.Available)
	}

	if !acc.Total().IsZero() {
		t.Errorf("expected total 0, got %s", acc.Total())
	}
}

func TestAccount_ChargeBack(t *testing.T) {
	acc := NewAccount(1)
	acc.Deposit(decimal.NewFromInt(10))
	acc.Hold(decimal.NewFromInt(4))

	if err := acc.ChargeBack(decimal.NewFromInt(5)); !errors.Is(err, ErrInsufficientHeldFunds) {
		t.Fatalf("expected ErrInsufficientHeldFunds, got %v", err)
	}
	if acc.Locked {
		t.Fatal("rejected chargeback must not lock the account")
	}

	if err := acc.ChargeBack(decimal.NewFromInt(4)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !acc.Locked {
		t.Error("expected account to be locked")
	}

	snap := acc.Snapshot()
	if !snap.Available.Equal(decimal.NewFromInt(6)) || !snap.Held.IsZero() || !snap.Total.Equal(decimal.NewFromInt(6)) {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}
