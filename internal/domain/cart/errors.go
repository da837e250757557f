package cart

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCheckoutInProgress is returned when a checkout is already pending for the cart
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	// ErrEmptyCart is returned when checking out a cart without items
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidItem is returned when an item has no variant id
	ErrInvalidItem = errors.New("cart item requires a variant id")
	// ErrCurrencyMismatch is returned when an item is priced in another currency than the cart
	ErrCurrencyMismatch = errors.New("item currency differs from cart currency")
	// ErrCheckoutUnavailable is the cause when the commerce API returns no checkout URL
	ErrCheckoutUnavailable = errors.New("checkout unavailable")
)

// ValidationError means the commerce API rejected one or more lines
type ValidationError struct {
	Errors []UserError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("checkout rejected: %s", strings.Join(e.Messages(), "; "))
}

// Messages returns the user-facing rejection messages
func (e *ValidationError) Messages() []string {
	out := make([]string, 0, len(e.Errors))
	for _, ue := range e.Errors {
		out = append(out, ue.Message)
	}
	return out
}

// TransportError means the commerce API could not be reached or refused the
// request (network, auth, rate limit, timeout)
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("checkout transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
