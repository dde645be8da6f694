package entity

// Account is a single bank account record. Balances are plain float64 values
// and every guard compares them directly, so amounts close to a boundary
// inherit ordinary floating-point behavior.
type Account struct {
	Number        string  `json:"number"`
	Holder        string  `json:"holder"`
	Balance       float64 `json:"balance"`
	MobileBalance float64 `json:"mobile_balance"`
}

// Deposit adds amount to the cash balance.
func (a *Account) Deposit(amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	a.Balance += amount
	return nil
}

// Withdraw removes amount from the cash balance.
func (a *Account) Withdraw(amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > a.Balance {
		return ErrInsufficientFunds
	}
	a.Balance -= amount
	return nil
}

// Transfer moves amount from this account to target. All guards run before
// either balance changes, so a failed transfer leaves both accounts untouched.
func (a *Account) Transfer(target *Account, amount float64) error {
	if target == nil {
		return ErrInvalidAccount
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > a.Balance {
		return ErrInsufficientFunds
	}
	a.Balance -= amount
	target.Balance += amount
	return nil
}

// TopUpMobile moves amount from the cash balance to the mobile credit balance.
func (a *Account) TopUpMobile(amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > a.Balance {
		return ErrInsufficientFunds
	}
	a.Balance -= amount
	a.MobileBalance += amount
	return nil
}
