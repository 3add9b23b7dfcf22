package apperrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// NewValidationError wraps ErrValidation with a human-readable reason.
func NewValidationError(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}

// ErrNotLoggedIn indicates that the operation requires an authenticated session.
var ErrNotLoggedIn = errors.New("not logged in")

// ErrAlreadyLoggedIn indicates that a session already exists where none was expected.
var ErrAlreadyLoggedIn = errors.New("already logged in")

// ErrInvalidCredentials indicates a failed login. The message deliberately does
// not reveal whether the username or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrUsernameTaken indicates a registration attempt with an existing username.
var ErrUsernameTaken = fmt.Errorf("%w: username already exists", ErrDuplicate)

// CurrencyNotFoundError indicates that a currency code is not part of the
// configured currency registry.
type CurrencyNotFoundError struct {
	Code string
}

func (e *CurrencyNotFoundError) Error() string {
	return fmt.Sprintf("unknown currency '%s'", e.Code)
}

func (e *CurrencyNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewCurrencyNotFound creates a CurrencyNotFoundError for the given code.
func NewCurrencyNotFound(code string) *CurrencyNotFoundError {
	return &CurrencyNotFoundError{Code: strings.ToUpper(code)}
}

// RateNotFoundError indicates that no rate is cached for a currency pair.
type RateNotFoundError struct {
	From string
	To   string
}

func (e *RateNotFoundError) Error() string {
	return fmt.Sprintf("no cached rate for pair %s_%s", e.From, e.To)
}

func (e *RateNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewRateNotFound creates a RateNotFoundError for the given pair.
func NewRateNotFound(from, to string) *RateNotFoundError {
	return &RateNotFoundError{From: strings.ToUpper(from), To: strings.ToUpper(to)}
}

// InsufficientFundsError indicates a withdrawal larger than the wallet balance.
// It carries the figures needed for a useful user-facing message.
type InsufficientFundsError struct {
	Available decimal.Decimal
	Required  decimal.Decimal
	Code      string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %s %s, required %s %s",
		e.Available, e.Code, e.Required, e.Code)
}

// NewInsufficientFunds creates an InsufficientFundsError.
func NewInsufficientFunds(available, required decimal.Decimal, code string) *InsufficientFundsError {
	return &InsufficientFundsError{Available: available, Required: required, Code: code}
}

// ProviderError indicates a failed fetch from one external rate provider:
// transport failure, non-success status or a response missing an expected key.
type ProviderError struct {
	Source string
	Cause  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Source, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError wraps a provider failure with its source id.
func NewProviderError(source string, cause error) *ProviderError {
	return &ProviderError{Source: source, Cause: cause}
}

// RefreshFailedError indicates that every requested provider failed, so the
// refresh produced nothing to merge.
type RefreshFailedError struct {
	Errors []error
}

func (e *RefreshFailedError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return "rate refresh failed for all providers: " + strings.Join(msgs, "; ")
}

func (e *RefreshFailedError) Unwrap() []error {
	return e.Errors
}

// PersistenceError indicates a failure in the record store that could not be
// interpreted as "missing data".
type PersistenceError struct {
	Op    string
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

// NewPersistenceError wraps a record-store failure with the operation name.
func NewPersistenceError(op string, cause error) *PersistenceError {
	return &PersistenceError{Op: op, Cause: cause}
}
