package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"minibank.dev/internal/domain/entity"
	"minibank.dev/internal/domain/port"
)

// Operation names accepted by Execute.
const (
	OpBalance  = "balance"
	OpDeposit  = "deposit"
	OpWithdraw = "withdraw"
	OpTransfer = "transfer"
	OpTopUp    = "top_up"
)

// Parameter keys recognized in DispatchRequest.Params.
const (
	ParamAmount        = "amount"
	ParamTargetAccount = "target_account"
)

// DispatchUseCase translates a named operation into ledger calls
type DispatchUseCase struct {
	ledger port.Ledger
}

// NewDispatchUseCase creates a new DispatchUseCase
func NewDispatchUseCase(ledger port.Ledger) *DispatchUseCase {
	return &DispatchUseCase{
		ledger: ledger,
	}
}

// DispatchRequest carries one operation request: the operation name, the
// source account number, and raw string parameters collected by the front end.
type DispatchRequest struct {
	Operation     string            `json:"operation"`
	AccountNumber string            `json:"account"`
	Params        map[string]string `json:"params"`
}

// Execute resolves the source account, runs the requested operation and
// returns a human-readable result. Ledger errors propagate unchanged; a
// missing or non-numeric amount fails with the strconv parse error, which is
// an input fault rather than a domain one. Each call is stateless: nothing is
// remembered between dispatches beyond the ledger itself. Result strings are
// built from the balances the ledger reports out of its critical section,
// never from the live record, so concurrent dispatches stay consistent.
func (uc *DispatchUseCase) Execute(ctx context.Context, req DispatchRequest) (string, error) {
	acct, err := uc.ledger.Lookup(ctx, req.AccountNumber)
	if err != nil {
		return "", err
	}

	switch req.Operation {
	case OpBalance:
		balance, mobile := uc.ledger.Balances(ctx, acct)
		return fmt.Sprintf("Account Balance: $%s\nMobile Credit: $%s",
			money(balance), money(mobile)), nil

	case OpDeposit:
		amount, err := parseAmount(req.Params)
		if err != nil {
			return "", err
		}
		balance, err := uc.ledger.Deposit(ctx, acct, amount)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Deposited $%s. New balance: $%s",
			money(amount), money(balance)), nil

	case OpWithdraw:
		amount, err := parseAmount(req.Params)
		if err != nil {
			return "", err
		}
		balance, err := uc.ledger.Withdraw(ctx, acct, amount)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Withdrew $%s. New balance: $%s",
			money(amount), money(balance)), nil

	case OpTransfer:
		amount, err := parseAmount(req.Params)
		if err != nil {
			return "", err
		}
		target, err := uc.ledger.Lookup(ctx, req.Params[ParamTargetAccount])
		if err != nil {
			return "", err
		}
		balance, err := uc.ledger.Transfer(ctx, acct, target, amount)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Transferred $%s to account %s\nNew balance: $%s",
			money(amount), target.Number, money(balance)), nil

	case OpTopUp:
		amount, err := parseAmount(req.Params)
		if err != nil {
			return "", err
		}
		balance, mobile, err := uc.ledger.TopUpMobile(ctx, acct, amount)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Topped up mobile with $%s\nAccount Balance: $%s\nMobile Credit: $%s",
			money(amount), money(balance), money(mobile)), nil

	default:
		return "", entity.ErrInvalidChoice
	}
}

// parseAmount reads the raw amount parameter as a decimal number.
func parseAmount(params map[string]string) (float64, error) {
	amount, err := strconv.ParseFloat(params[ParamAmount], 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount: %w", err)
	}
	return amount, nil
}

// money renders an amount with exactly two decimals for result strings.
func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
