package domain

import (
	"github.com/shopspring/decimal"
)

// Account holds a client's balances.
type Account struct {
	Client    ClientID
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
}

// NewAccount creates an empty, unlocked account.
func NewAccount(client ClientID) *Account {
	return &Account{
		Client:    client,
		Available: decimal.Zero,
		Held:      decimal.Zero,
	}
}

// Total returns available plus held.
func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// Deposit credits available funds.
func (a *Account) Deposit(amount decimal.Decimal) {
	a.Available = a.Available.Add(amount)
}

// ValidateWithdrawal checks that a withdrawal would not drive available
// funds negative.
func (a *Account) ValidateWithdrawal(amount decimal.Decimal) error {
	if a.Available.Sub(amount).IsNegative() {
		return ErrInsufficientFunds
	}
	return nil
}

// Withdraw debits available funds after validation.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if err := a.ValidateWithdrawal(amount); err != nil {
		return err
	}
	a.Available = a.Available.Sub(amount)
	return nil
}

// Hold moves amount from available to held. Available may go negative.
func (a *Account) Hold(amount decimal.Decimal) {
	a.Available = a.Available.Sub(amount)
	a.Held = a.Held.Add(amount)
}

// ValidateRelease checks that held funds cover amount.
func (a *Account) ValidateRelease(amount decimal.Decimal) error {
	if a.Held.LessThan(amount) {
		return ErrInsufficientHeldFunds
	}
	return nil
}

// Release moves amount from held back to available.
func (a *Account) Release(amount decimal.Decimal) error {
	if err := a.ValidateRelease(amount); err != nil {
		return err
	}
	a.Held = a.Held.Sub(amount)
	a.Available = a.Available.Add(amount)
	return nil
}

// ChargeBack removes amount from held and locks the account.
func (a *Account) ChargeBack(amount decimal.Decimal) error {
	if err := a.ValidateRelease(amount); err != nil {
		return err
	}
	a.Held = a.Held.Sub(amount)
	a.Locked = true
	return nil
}

// AccountSnapshot is a read-only view of an account for output.
type AccountSnapshot struct {
	Client    ClientID
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}

// Snapshot copies the current account state.
func (a *Account) Snapshot() AccountSnapshot {
	return AccountSnapshot{
		Client:    a.Client,
		Available: a.Available,
		Held:      a.Held,
		Total:     a.Total(),
		Locked:    a.Locked,
	}
}
