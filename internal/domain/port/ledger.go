package port

import (
	"context"

	"minibank.dev/internal/domain/entity"
)

// Ledger is the port for account lookup and validated balance mutations.
// Lookup hands out the live account record; mutation methods take records
// previously resolved through Lookup, so an invalid reference can only occur
// at lookup time. Operations return the resulting balances captured inside
// the ledger's critical section; callers must not read the live record's
// balance fields directly, since other callers may be mutating them.
type Ledger interface {
	Lookup(ctx context.Context, number string) (*entity.Account, error)
	Balances(ctx context.Context, acct *entity.Account) (balance, mobile float64)
	Deposit(ctx context.Context, acct *entity.Account, amount float64) (float64, error)
	Withdraw(ctx context.Context, acct *entity.Account, amount float64) (float64, error)
	Transfer(ctx context.Context, source, target *entity.Account, amount float64) (float64, error)
	TopUpMobile(ctx context.Context, acct *entity.Account, amount float64) (balance, mobile float64, err error)
}
