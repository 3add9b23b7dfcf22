package domain

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/valutrade/valutrade-hub/internal/apperrors"
)

// Wallet holds one currency balance inside a portfolio. The balance never goes
// negative: any operation that would violate that fails without mutating state.
type Wallet struct {
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
}

// Deposit adds amount to the balance. Negative amounts are rejected.
func (w *Wallet) Deposit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return apperrors.NewValidationError("deposit amount cannot be negative")
	}
	w.Balance = w.Balance.Add(amount)
	return nil
}

// Withdraw removes amount from the balance. Negative amounts are rejected and
// overdrawing fails with InsufficientFundsError, leaving the balance untouched.
func (w *Wallet) Withdraw(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return apperrors.NewValidationError("withdrawal amount cannot be negative")
	}
	if amount.GreaterThan(w.Balance) {
		return apperrors.NewInsufficientFunds(w.Balance, amount, w.CurrencyCode)
	}
	w.Balance = w.Balance.Sub(amount)
	return nil
}

// Portfolio is the per-user collection of wallets, keyed by currency code.
// It exclusively owns its wallets; there is one portfolio per user.
type Portfolio struct {
	UserID  int64             `json:"userID"`
	Wallets map[string]Wallet `json:"wallets"`
}

// NewPortfolio creates an empty portfolio for a user.
func NewPortfolio(userID int64) Portfolio {
	return Portfolio{UserID: userID, Wallets: make(map[string]Wallet)}
}

// EnsureWallet creates a zero-balance wallet for the currency if absent.
// Idempotent: an existing wallet is left as-is.
func (p *Portfolio) EnsureWallet(currencyCode string) {
	code := strings.ToUpper(currencyCode)
	if p.Wallets == nil {
		p.Wallets = make(map[string]Wallet)
	}
	if _, ok := p.Wallets[code]; !ok {
		p.Wallets[code] = Wallet{CurrencyCode: code, Balance: decimal.Zero}
	}
}

// Wallet returns the wallet for a currency, if the portfolio holds one.
func (p Portfolio) Wallet(currencyCode string) (Wallet, bool) {
	w, ok := p.Wallets[strings.ToUpper(currencyCode)]
	return w, ok
}

// SetWallet stores the wallet back under its currency code.
func (p *Portfolio) SetWallet(w Wallet) {
	if p.Wallets == nil {
		p.Wallets = make(map[string]Wallet)
	}
	p.Wallets[w.CurrencyCode] = w
}
