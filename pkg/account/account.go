// Package account holds types whose state is only reachable through their methods: a bank
// account whose balance cannot be set directly and a user whose password is never stored in
// clear.
package account

import (
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrInvalidAmount     = errors.New("amount must be greater than 0")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNegativeBalance   = errors.New("opening balance must not be negative")
)

// BankAccount holds a balance in minor units. It is safe for concurrent use.
type BankAccount struct {
	mu      sync.Mutex
	balance int64
}

// NewBankAccount opens an account with an opening balance.
func NewBankAccount(balance int64) (*BankAccount, error) {
	if balance < 0 {
		return nil, ErrNegativeBalance
	}

	return &BankAccount{balance: balance}, nil
}

// Deposit adds amount to the balance.
func (a *BankAccount) Deposit(amount int64) error {
	if amount <= 0 {
		return errors.Wrapf(ErrInvalidAmount, "deposit of %d", amount)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.balance += amount

	return nil
}

// Withdraw removes amount from the balance. The balance never goes below zero.
func (a *BankAccount) Withdraw(amount int64) error {
	if amount <= 0 {
		return errors.Wrapf(ErrInvalidAmount, "withdrawal of %d", amount)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if amount > a.balance {
		return errors.Wrapf(ErrInsufficientFunds, "withdrawal of %d with a balance of %d", amount, a.balance)
	}
	a.balance -= amount

	return nil
}

// Balance returns the current balance.
func (a *BankAccount) Balance() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.balance
}
