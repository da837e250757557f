package cart

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bv-cosmetics/storefront/internal/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CheckoutClient opens a remote cart on the commerce platform
type CheckoutClient interface {
	CreateCart(ctx context.Context, lines []CheckoutLine) (*RemoteCart, error)
}

// Options tunes checkout behaviour
type Options struct {
	// CheckoutTimeout bounds the remote call; 0 waits indefinitely
	CheckoutTimeout time.Duration
	// Channel is set as the "channel" query parameter of the checkout URL
	Channel string
}

// Store is the authoritative cart of one shopper. Every mutation is written
// through to the repository before it becomes visible.
type Store struct {
	mu       sync.Mutex
	items    []LineItem
	loading  bool
	version  uint64 // bumped on every change of items
	repo     Repository
	checkout CheckoutClient
	opts     Options
	log      *logrus.Entry
}

// NewStore creates an empty store; call Hydrate to restore persisted state
func NewStore(repo Repository, checkout CheckoutClient, opts Options, log *logrus.Entry) *Store {
	return &Store{
		items:    []LineItem{},
		repo:     repo,
		checkout: checkout,
		opts:     opts,
		log:      log,
	}
}

// Hydrate replaces in-memory items with the persisted cart. A load that
// overlaps a mutation or another hydrate is discarded, so it can never
// roll back a committed write.
func (s *Store) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	version := s.version
	s.mu.Unlock()

	state, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version != version {
		return nil
	}
	s.items = state.Items
	s.version++
	return nil
}

// AddItem merges item into the cart. An existing line for the same variant
// only has its quantity increased; its price and labels are kept. A cart
// holds a single currency.
func (s *Store) AddItem(ctx context.Context, item LineItem) error {
	item.VariantID = strings.TrimSpace(item.VariantID)
	if item.VariantID == "" {
		return ErrInvalidItem
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) > 0 && s.items[0].UnitPrice.Currency() != item.UnitPrice.Currency() {
		return fmt.Errorf("%w: cart is in %s, item is in %s",
			ErrCurrencyMismatch, s.items[0].UnitPrice.Currency(), item.UnitPrice.Currency())
	}

	next := cloneItems(s.items)
	merged := false
	for i := range next {
		if next[i].VariantID == item.VariantID {
			next[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		item = item.clone()
		next = append(next, item)
	}

	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"variant_id": item.VariantID,
		"quantity":   item.Quantity,
		"merged":     merged,
	}).Debug("Cart item added")
	return nil
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, variantID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, variantID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(variantID)
	if i < 0 || s.items[i].Quantity == quantity {
		return nil
	}

	next := cloneItems(s.items)
	next[i].Quantity = quantity
	return s.commit(ctx, next)
}

// RemoveItem deletes a line if present
func (s *Store) RemoveItem(ctx context.Context, variantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(variantID)
	if i < 0 {
		return nil
	}

	next := make([]LineItem, 0, len(s.items)-1)
	next = append(next, cloneItems(s.items[:i])...)
	next = append(next, cloneItems(s.items[i+1:])...)
	return s.commit(ctx, next)
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, []LineItem{})
}

// Items returns a copy of the lines in display order
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// IsLoading reports whether a checkout is pending
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// TotalItems returns the sum of quantities
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalItems(s.items)
}

// TotalPrice returns the exact sum of unit price times quantity. AddItem
// keeps every line in one currency.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalPrice(s.items)
}

// Summary returns the items with their derived totals
func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	currency := money.DefaultCurrency
	if len(s.items) > 0 {
		currency = s.items[0].UnitPrice.Currency()
	}

	return Summary{
		Items:      cloneItems(s.items),
		TotalItems: totalItems(s.items),
		TotalPrice: money.New(totalPrice(s.items), currency),
		IsLoading:  s.loading,
	}
}

// CreateCheckout opens a remote cart with the current lines and returns the
// URL the shopper should be sent to. The cart itself is left untouched.
func (s *Store) CreateCheckout(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return "", ErrCheckoutInProgress
	}
	if len(s.items) == 0 {
		s.mu.Unlock()
		return "", ErrEmptyCart
	}
	lines := make([]CheckoutLine, len(s.items))
	for i, item := range s.items {
		lines[i] = CheckoutLine{VariantID: item.VariantID, Quantity: clampQuantity(item.Quantity)}
	}
	s.loading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	log := s.log.WithField("lines", len(lines))
	log.Info("Creating checkout")

	remote, err := s.createRemoteCart(ctx, lines)
	if err != nil {
		log.WithError(err).Warn("Checkout transport failure")
		return "", &TransportError{Err: err}
	}

	if len(remote.UserErrors) > 0 {
		verr := &ValidationError{Errors: remote.UserErrors}
		log.WithField("user_errors", verr.Messages()).Warn("Checkout rejected by commerce API")
		return "", verr
	}

	if remote.CheckoutURL == "" {
		return "", &TransportError{Err: ErrCheckoutUnavailable}
	}

	checkoutURL, err := withChannel(remote.CheckoutURL, s.opts.Channel)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	log.WithField("remote_cart_id", remote.ID).Info("Checkout created")
	return checkoutURL, nil
}

// createRemoteCart runs the remote call and gives up when ctx or the
// configured timeout expires, even if the client ignores cancellation.
func (s *Store) createRemoteCart(ctx context.Context, lines []CheckoutLine) (*RemoteCart, error) {
	if s.checkout == nil {
		return nil, fmt.Errorf("no commerce client configured")
	}

	if s.opts.CheckoutTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.CheckoutTimeout)
		defer cancel()
	}

	type result struct {
		cart *RemoteCart
		err  error
	}
	done := make(chan result, 1)
	go func() {
		remote, err := s.checkout.CreateCart(ctx, lines)
		done <- result{cart: remote, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		if r.cart == nil {
			return nil, fmt.Errorf("empty response from commerce API")
		}
		return r.cart, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for commerce API: %w", ctx.Err())
	}
}

// commit persists next and only then makes it the current state.
// Callers must hold s.mu.
func (s *Store) commit(ctx context.Context, next []LineItem) error {
	if err := s.repo.Save(ctx, State{Items: next}); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	s.items = next
	s.version++
	return nil
}

func (s *Store) indexOf(variantID string) int {
	for i := range s.items {
		if s.items[i].VariantID == variantID {
			return i
		}
	}
	return -1
}

func totalItems(items []LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

func totalPrice(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal().Amount)
	}
	return total
}

func withChannel(raw, channel string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid checkout url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid checkout url %q", raw)
	}
	if channel != "" {
		q := u.Query()
		q.Set("channel", channel)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
