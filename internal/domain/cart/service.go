// internal/domain/cart/service.go
package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/bv-cosmetics/storefront/internal/infrastructure/storage"
	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"
)

// Service hands out the cart store of each guest session
type Service struct {
	kv       storage.KV
	checkout CheckoutClient
	opts     Options
	log      *logrus.Entry

	mu     sync.Mutex
	stores *lru.Cache
	// pinned keeps stores evicted mid-checkout so a second checkout is refused
	pinned map[string]*Store
}

// NewService creates a new cart service. cacheSize bounds how many session
// stores stay in memory; evicted stores are rehydrated from storage.
func NewService(kv storage.KV, checkout CheckoutClient, opts Options, cacheSize int, log *logrus.Logger) (*Service, error) {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	s := &Service{
		kv:       kv,
		checkout: checkout,
		opts:     opts,
		log:      log.WithField("component", "cart"),
		pinned:   make(map[string]*Store),
	}

	stores, err := lru.NewWithEvict(cacheSize, s.evicted)
	if err != nil {
		return nil, fmt.Errorf("failed to create cart cache: %w", err)
	}
	s.stores = stores
	return s, nil
}

// Cart returns the session's store, refreshed from storage so that writes
// made by other instances are visible
func (s *Service) Cart(ctx context.Context, sessionID string) (*Store, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID required for cart")
	}

	store := s.store(sessionID)
	if err := store.Hydrate(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Service) store(sessionID string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.stores.Get(sessionID); ok {
		return cached.(*Store)
	}

	for id, store := range s.pinned {
		if id != sessionID && !store.IsLoading() {
			delete(s.pinned, id)
		}
	}
	if store, ok := s.pinned[sessionID]; ok {
		delete(s.pinned, sessionID)
		s.stores.Add(sessionID, store)
		return store
	}

	log := s.log.WithField("session_id", sessionID)
	store := NewStore(NewKVRepository(s.kv, sessionID, log), s.checkout, s.opts, log)
	s.stores.Add(sessionID, store)
	return store
}

// evicted runs inside stores.Add, so s.mu is already held
func (s *Service) evicted(key, value interface{}) {
	store := value.(*Store)
	if store.IsLoading() {
		s.pinned[key.(string)] = store
	}
}
