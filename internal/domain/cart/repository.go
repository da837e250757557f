package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bv-cosmetics/storefront/internal/infrastructure/storage"
	"github.com/sirupsen/logrus"
)

// Repository loads and saves one shopper's cart
type Repository interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}

// KVRepository persists a cart as JSON under a per-session key
type KVRepository struct {
	kv  storage.KV
	key string
	log *logrus.Entry
}

// NewKVRepository creates a repository for the given session
func NewKVRepository(kv storage.KV, sessionID string, log *logrus.Entry) *KVRepository {
	key := StorageKey + ":" + sessionID
	return &KVRepository{
		kv:  kv,
		key: key,
		log: log.WithField("key", key),
	}
}

// Key returns the storage key of this cart
func (r *KVRepository) Key() string {
	return r.key
}

// Load returns the persisted cart. Missing or malformed data yields an empty cart.
func (r *KVRepository) Load(ctx context.Context) (State, error) {
	data, err := r.kv.Get(ctx, r.key)
	if errors.Is(err, storage.ErrNotFound) {
		return State{Items: []LineItem{}}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("failed to load cart: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		r.log.WithError(err).Warn("Discarding corrupt persisted cart")
		return State{Items: []LineItem{}}, nil
	}

	return State{Items: sanitize(state.Items)}, nil
}

// Save writes the full item list
func (r *KVRepository) Save(ctx context.Context, state State) error {
	if state.Items == nil {
		state.Items = []LineItem{}
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	return r.kv.Set(ctx, r.key, data)
}

// sanitize drops lines that break the cart invariants and merges duplicate
// variants, so a hand-edited or partially written document still loads.
func sanitize(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	index := make(map[string]int, len(items))

	for _, item := range items {
		item.VariantID = strings.TrimSpace(item.VariantID)
		if item.VariantID == "" || item.Quantity < 1 {
			continue
		}
		if item.SelectedOptions == nil {
			item.SelectedOptions = []SelectedOption{}
		}
		if i, ok := index[item.VariantID]; ok {
			out[i].Quantity += item.Quantity
			continue
		}
		index[item.VariantID] = len(out)
		out = append(out, item)
	}
	return out
}
