package entity

// DomainError is the single category for business-rule failures. Callers can
// match any of them at once with errors.As and treat everything else as an
// input or infrastructure fault.
type DomainError string

func (e DomainError) Error() string { return string(e) }

const (
	ErrInvalidAccount    = DomainError("account not found")
	ErrInvalidAmount     = DomainError("amount must be positive")
	ErrInsufficientFunds = DomainError("insufficient funds")
	ErrInvalidChoice     = DomainError("invalid operation choice")
)
