package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/bv-cosmetics/storefront/internal/infrastructure/storage"
	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"
)

// ErrInvalidItem is returned when an item has no product id
var ErrInvalidItem = errors.New("wishlist item requires a product id")

// Store is one shopper's wishlist with write-through persistence
type Store struct {
	mu      sync.Mutex
	items   []Item
	version uint64
	kv      storage.KV
	key     string
	log     *logrus.Entry
}

// NewStore creates an empty wishlist for the session; call Hydrate to load it
func NewStore(kv storage.KV, sessionID string, log *logrus.Entry) *Store {
	key := StorageKey + ":" + sessionID
	return &Store{
		items: []Item{},
		kv:    kv,
		key:   key,
		log:   log.WithField("key", key),
	}
}

// Hydrate loads the persisted wishlist. Missing or malformed data is an empty
// list. The result is dropped if the list changed while loading.
func (s *Store) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	version := s.version
	s.mu.Unlock()

	data, err := s.kv.Get(ctx, s.key)
	items := []Item{}

	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return fmt.Errorf("failed to load wishlist: %w", err)
	default:
		var state State
		if err := json.Unmarshal(data, &state); err != nil {
			s.log.WithError(err).Warn("Discarding corrupt persisted wishlist")
		} else {
			items = dedupe(state.Items)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version != version {
		return nil
	}
	s.items = items
	s.version++
	return nil
}

// Add saves item unless its product is already present
func (s *Store) Add(ctx context.Context, item Item) error {
	item.ProductID = strings.TrimSpace(item.ProductID)
	if item.ProductID == "" {
		return ErrInvalidItem
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(item.ProductID) >= 0 {
		return nil
	}

	next := append(append(make([]Item, 0, len(s.items)+1), s.items...), item)
	return s.commit(ctx, next)
}

// Remove deletes a product if present
func (s *Store) Remove(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return nil
	}

	next := make([]Item, 0, len(s.items)-1)
	next = append(next, s.items[:i]...)
	next = append(next, s.items[i+1:]...)
	return s.commit(ctx, next)
}

// Contains reports whether the product is in the wishlist
func (s *Store) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(productID) >= 0
}

// Clear empties the wishlist
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, []Item{})
}

// Items returns a copy of the wishlist in insertion order
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Item{}, s.items...)
}

func (s *Store) commit(ctx context.Context, next []Item) error {
	data, err := json.Marshal(State{Items: next})
	if err != nil {
		return fmt.Errorf("failed to encode wishlist: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to persist wishlist: %w", err)
	}
	s.items = next
	s.version++
	return nil
}

func (s *Store) indexOf(productID string) int {
	for i := range s.items {
		if s.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func dedupe(items []Item) []Item {
	out := make([]Item, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.ProductID == "" {
			continue
		}
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		out = append(out, item)
	}
	return out
}

// Service hands out the wishlist of each guest session
type Service struct {
	kv  storage.KV
	log *logrus.Entry

	mu     sync.Mutex
	stores *lru.Cache
}

// NewService creates a new wishlist service
func NewService(kv storage.KV, cacheSize int, log *logrus.Logger) (*Service, error) {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	stores, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create wishlist cache: %w", err)
	}
	return &Service{
		kv:     kv,
		log:    log.WithField("component", "wishlist"),
		stores: stores,
	}, nil
}

// Wishlist returns the session's wishlist, refreshed from storage
func (s *Service) Wishlist(ctx context.Context, sessionID string) (*Store, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID required for wishlist")
	}

	s.mu.Lock()
	var store *Store
	if cached, ok := s.stores.Get(sessionID); ok {
		store = cached.(*Store)
	} else {
		store = NewStore(s.kv, sessionID, s.log.WithField("session_id", sessionID))
		s.stores.Add(sessionID, store)
	}
	s.mu.Unlock()

	if err := store.Hydrate(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
