package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound        = errors.New("ledger: user not found")
	ErrQuotaExceeded       = errors.New("ledger: daily quota exceeded")
	ErrInsufficientCredits = errors.New("ledger: insufficient credits")

	// ErrConcurrentUpdate means the account row changed between the read
	// and the conditional write.
	ErrConcurrentUpdate = errors.New("ledger: account modified concurrently")
)

// QuotaError carries the counters behind an ErrQuotaExceeded rejection.
type QuotaError struct {
	Uses  int
	Limit int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s (%d/%d)", ErrQuotaExceeded, e.Uses, e.Limit)
}

func (e *QuotaError) Unwrap() error { return ErrQuotaExceeded }

// CreditError carries the balance behind an ErrInsufficientCredits rejection.
type CreditError struct {
	Credits int
	Cost    int
}

func (e *CreditError) Error() string {
	return fmt.Sprintf("%s (%d/%d)", ErrInsufficientCredits, e.Credits, e.Cost)
}

func (e *CreditError) Unwrap() error { return ErrInsufficientCredits }
