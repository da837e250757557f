package catalog

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxPageSize bounds how many products or collections one request may fetch
	MaxPageSize = 100

	maxHandleLength = 255
	maxQueryLength  = 500
)

var (
	ErrInvalidHandle = errors.New("invalid product handle")
	ErrInvalidQuery  = errors.New("invalid search query")
	ErrNotFound      = errors.New("product not found")
	ErrNoBundle      = errors.New("no bundle for category")
)

var (
	// Handles may carry Arabic letters as well as the usual slug characters
	handlePattern = regexp.MustCompile(`^[\x{0600}-\x{06FF}a-z0-9-]+$`)
	queryPattern  = regexp.MustCompile(`^[\x{0600}-\x{06FF}a-zA-Z0-9\s:*_-]+$`)
)

// ClampFirst bounds a page size to [1, MaxPageSize]
func ClampFirst(first int) int {
	if first < 1 {
		return 1
	}
	if first > MaxPageSize {
		return MaxPageSize
	}
	return first
}

// NormalizeHandle decodes and lower-cases a product handle and checks it
// against the allowed character set
func NormalizeHandle(handle string) (string, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return "", ErrInvalidHandle
	}

	decoded, err := url.PathUnescape(handle)
	if err != nil {
		return "", ErrInvalidHandle
	}
	decoded = strings.ToLower(decoded)

	if !handlePattern.MatchString(decoded) || utf8.RuneCountInString(decoded) > maxHandleLength {
		return "", ErrInvalidHandle
	}
	return decoded, nil
}

// SanitizeQuery trims a search query and checks it against the allowed
// character set. An empty query is valid and means no filter.
func SanitizeQuery(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}
	if !queryPattern.MatchString(query) || utf8.RuneCountInString(query) > maxQueryLength {
		return "", ErrInvalidQuery
	}
	return query, nil
}
