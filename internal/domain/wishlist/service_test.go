package wishlist

import (
	"context"
	"sync"
	"testing"

	"github.com/bv-cosmetics/storefront/internal/infrastructure/storage"
	"github.com/bv-cosmetics/storefront/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serum() Item {
	return Item{
		ProductID:     "prod-1",
		ProductHandle: "vitamin-c-serum",
		Title:         "Vitamin C Brightening Serum",
		ImageURL:      "/assets/product-serum.png",
		Price:         "350",
		CurrencyCode:  "EGP",
	}
}

func TestStore_MembershipIsBinary(t *testing.T) {
	ctx := context.Background()
	s := NewStore(storage.NewMemory(), "s1", logger.Discard().WithField("test", t.Name()))

	require.NoError(t, s.Add(ctx, serum()))
	require.NoError(t, s.Add(ctx, serum()))

	assert.Len(t, s.Items(), 1)
	assert.True(t, s.Contains("prod-1"))
	assert.False(t, s.Contains("prod-2"))

	require.NoError(t, s.Remove(ctx, "prod-2"))
	require.NoError(t, s.Remove(ctx, "prod-1"))
	assert.Empty(t, s.Items())

	assert.ErrorIs(t, s.Add(ctx, Item{}), ErrInvalidItem)
}

func TestStore_PersistsAndRehydrates(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	log := logger.Discard().WithField("test", t.Name())

	s := NewStore(kv, "s1", log)
	require.NoError(t, s.Add(ctx, serum()))
	second := serum()
	second.ProductID = "prod-2"
	require.NoError(t, s.Add(ctx, second))

	reloaded := NewStore(kv, "s1", log)
	require.NoError(t, reloaded.Hydrate(ctx))
	assert.Equal(t, s.Items(), reloaded.Items())

	require.NoError(t, reloaded.Clear(ctx))
	data, err := kv.Get(ctx, StorageKey+":s1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(data))
}

func TestStore_CorruptStateIsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, StorageKey+":s1", []byte("not json")))

	s := NewStore(kv, "s1", logger.Discard().WithField("test", t.Name()))
	require.NoError(t, s.Hydrate(ctx))
	assert.Empty(t, s.Items())
}

func TestService_Wishlist(t *testing.T) {
	ctx := context.Background()
	svc, err := NewService(storage.NewMemory(), 8, logger.Discard())
	require.NoError(t, err)

	w, err := svc.Wishlist(ctx, "s1")
	require.NoError(t, err)
	require.NoError(t, w.Add(ctx, serum()))

	other, err := svc.Wishlist(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, other.Items())

	same, err := svc.Wishlist(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, same.Contains("prod-1"))

	_, err = svc.Wishlist(ctx, "")
	assert.Error(t, err)
}

// gatedKV holds its first Get after reading until release is closed
type gatedKV struct {
	*storage.Memory
	mu      sync.Mutex
	held    bool
	loaded  chan struct{}
	release chan struct{}
}

func (k *gatedKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := k.Memory.Get(ctx, key)

	k.mu.Lock()
	first := !k.held
	k.held = true
	k.mu.Unlock()

	if first {
		close(k.loaded)
		<-k.release
	}
	return data, err
}

func TestService_SlowHydrateKeepsConcurrentAdd(t *testing.T) {
	ctx := context.Background()
	kv := &gatedKV{Memory: storage.NewMemory(), loaded: make(chan struct{}), release: make(chan struct{})}
	svc, err := NewService(kv, 8, logger.Discard())
	require.NoError(t, err)

	second := serum()
	second.ProductID = "prod-2"

	errs := make(chan error, 1)
	go func() {
		w, err := svc.Wishlist(ctx, "s1")
		if err != nil {
			errs <- err
			return
		}
		errs <- w.Add(ctx, second)
	}()

	<-kv.loaded
	w, err := svc.Wishlist(ctx, "s1")
	require.NoError(t, err)
	require.NoError(t, w.Add(ctx, serum()))

	close(kv.release)
	require.NoError(t, <-errs)

	reloaded := NewStore(kv.Memory, "s1", logger.Discard().WithField("test", t.Name()))
	require.NoError(t, reloaded.Hydrate(ctx))
	ids := []string{}
	for _, item := range reloaded.Items() {
		ids = append(ids, item.ProductID)
	}
	assert.ElementsMatch(t, []string{"prod-1", "prod-2"}, ids)
}
