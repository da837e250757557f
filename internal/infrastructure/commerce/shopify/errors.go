package shopify

import (
	"errors"
	"fmt"
)

// Sentinel errors for Storefront API failures. Use errors.Is() to check.
var (
	ErrUnauthorized    = errors.New("storefront API access denied")
	ErrPaymentRequired = errors.New("storefront API requires an active billing plan")
	ErrRateLimited     = errors.New("storefront API rate limited")
	ErrUpstream        = errors.New("storefront API request failed")
)

// APIError describes a failed Storefront API call
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("shopify: %v (status %d)", e.Err, e.StatusCode)
	}
	return fmt.Sprintf("shopify: %v (status %d): %s", e.Err, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func statusError(status int, body string) *APIError {
	var err error
	switch status {
	case 401:
		err = ErrUnauthorized
	case 402:
		err = ErrPaymentRequired
	case 429:
		err = ErrRateLimited
	default:
		err = ErrUpstream
	}
	return &APIError{StatusCode: status, Message: truncate(body, 200), Err: err}
}

func graphQLError(status int, errs []gqlError) *APIError {
	sentinel := ErrUpstream
	for _, e := range errs {
		if e.Extensions.Code == "UNAUTHORIZED" {
			sentinel = ErrUnauthorized
			break
		}
	}

	message := ""
	if len(errs) > 0 {
		message = errs[0].Message
	}
	return &APIError{StatusCode: status, Message: message, Err: sentinel}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
