package repository

import (
	"context"
	"fmt"
	"sync"

	"minibank.dev/internal/domain/entity"
	"minibank.dev/internal/domain/port"
	"minibank.dev/internal/infrastructure/logger"
)

// InMemoryLedger implements the Ledger port over a map of live account
// records. A single mutex serializes every read-validate-write sequence, so
// no two operations interleave on one account or on a pair of accounts and
// each operation either fully applies or fully fails. Resulting balances are
// captured before the lock is released, giving callers a consistent view
// without touching the live record.
type InMemoryLedger struct {
	mu       sync.Mutex
	accounts map[string]*entity.Account
	logger   logger.Logger
}

// NewInMemoryLedger creates a ledger seeded with the given accounts. Accounts
// only come into existence here; the operations never create or delete them.
func NewInMemoryLedger(log logger.Logger, seeds ...entity.Account) port.Ledger {
	accounts := make(map[string]*entity.Account, len(seeds))
	for _, seed := range seeds {
		acct := seed
		accounts[acct.Number] = &acct
	}
	return &InMemoryLedger{
		accounts: accounts,
		logger:   log,
	}
}

// Lookup returns the live record for an account number. Repeated lookups of
// the same number return the same instance, so mutations are visible to every
// holder of the record.
func (l *InMemoryLedger) Lookup(ctx context.Context, number string) (*entity.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	acct, ok := l.accounts[number]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", number, entity.ErrInvalidAccount)
	}
	return acct, nil
}

// Balances returns the account's current cash and mobile credit balances.
func (l *InMemoryLedger) Balances(ctx context.Context, acct *entity.Account) (float64, float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return acct.Balance, acct.MobileBalance
}

// Deposit adds amount to the account's cash balance and returns the new
// balance.
func (l *InMemoryLedger) Deposit(ctx context.Context, acct *entity.Account, amount float64) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := acct.Deposit(amount); err != nil {
		return 0, err
	}

	l.logger.LogInfo(ctx, "Deposit applied",
		"account", acct.Number,
		"amount", amount,
		"balance", acct.Balance)
	return acct.Balance, nil
}

// Withdraw removes amount from the account's cash balance and returns the
// new balance.
func (l *InMemoryLedger) Withdraw(ctx context.Context, acct *entity.Account, amount float64) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := acct.Withdraw(amount); err != nil {
		return 0, err
	}

	l.logger.LogInfo(ctx, "Withdrawal applied",
		"account", acct.Number,
		"amount", amount,
		"balance", acct.Balance)
	return acct.Balance, nil
}

// Transfer moves amount from source to target inside one critical section
// and returns the source's new balance.
func (l *InMemoryLedger) Transfer(ctx context.Context, source, target *entity.Account, amount float64) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := source.Transfer(target, amount); err != nil {
		return 0, err
	}

	l.logger.LogInfo(ctx, "Transfer applied",
		"source", source.Number,
		"target", target.Number,
		"amount", amount,
		"source_balance", source.Balance,
		"target_balance", target.Balance)
	return source.Balance, nil
}

// TopUpMobile moves amount from the cash balance to the mobile credit balance
// and returns both new balances.
func (l *InMemoryLedger) TopUpMobile(ctx context.Context, acct *entity.Account, amount float64) (float64, float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := acct.TopUpMobile(amount); err != nil {
		return 0, 0, err
	}

	l.logger.LogInfo(ctx, "Mobile top-up applied",
		"account", acct.Number,
		"amount", amount,
		"balance", acct.Balance,
		"mobile_balance", acct.MobileBalance)
	return acct.Balance, acct.MobileBalance, nil
}
