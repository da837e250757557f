package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/bv-cosmetics/storefront/internal/config"
	"github.com/bv-cosmetics/storefront/internal/domain/cart"
	"github.com/bv-cosmetics/storefront/internal/domain/catalog"
	"github.com/bv-cosmetics/storefront/internal/domain/i18n"
	"github.com/bv-cosmetics/storefront/internal/domain/wishlist"
	"github.com/bv-cosmetics/storefront/internal/infrastructure/storage"
	"github.com/bv-cosmetics/storefront/internal/interfaces/http/routes"
	"github.com/bv-cosmetics/storefront/internal/pkg/logger"
	"github.com/bv-cosmetics/storefront/internal/pkg/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubCheckout struct {
	remote *cart.RemoteCart
	err    error
	lines  []cart.CheckoutLine
}

func (s *stubCheckout) CreateCart(ctx context.Context, lines []cart.CheckoutLine) (*cart.RemoteCart, error) {
	s.lines = lines
	return s.remote, s.err
}

type stubHealth struct{ err error }

func (s stubHealth) Health(context.Context) error { return s.err }

type envelope struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Details []string        `json:"details"`
	Data    json.RawMessage `json:"data"`
}

type testAPI struct {
	t        *testing.T
	handler  http.Handler
	cookies  []*http.Cookie
	checkout *stubCheckout
}

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Name: "BV Cosmetics Storefront", Version: "test", Environment: "test"},
		Server:  config.ServerConfig{Port: "0", RequestTimeout: 5 * time.Second},
		Storage: config.StorageConfig{Driver: "memory", SessionCache: 16},
		Session: config.SessionConfig{
			Secret:     "test-session-secret-that-is-long-enough",
			CookieName: "bv_session",
			Expiry:     time.Hour,
		},
		Security: config.SecurityConfig{
			CORSAllowedOrigins: []string{"https://bv.example", "*.bv.example"},
			CORSAllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			CORSAllowedHeaders: []string{"Content-Type"},
		},
		Commerce: config.CommerceConfig{Source: "local"},
		Checkout: config.CheckoutConfig{Timeout: time.Second, Channel: "online_store"},
		Locale:   config.LocaleConfig{Default: "ar", CookieName: "bv_lang"},
	}
}

func newTestAPI(t *testing.T, checks map[string]HealthChecker) *testAPI {
	t.Helper()
	cfg := testConfig()
	log := logger.Discard()
	kv := storage.NewMemory()

	checkout := &stubCheckout{remote: &cart.RemoteCart{ID: "gid://shopify/Cart/1", CheckoutURL: "https://shop.example/cart/c/1"}}
	carts, err := cart.NewService(kv, checkout, cart.Options{CheckoutTimeout: cfg.Checkout.Timeout, Channel: cfg.Checkout.Channel}, 16, log)
	require.NoError(t, err)
	wishlists, err := wishlist.NewService(kv, 16, log)
	require.NoError(t, err)
	translations, err := i18n.LoadCatalog("")
	require.NoError(t, err)

	deps := routes.Dependencies{
		Carts:        carts,
		Wishlists:    wishlists,
		Catalog:      catalog.NewService(catalog.NewLocalSource(), log),
		Translations: translations,
		Sessions:     session.NewManager(cfg),
		Logger:       log,
	}

	srv := NewServer(cfg, deps, nil, checks)
	return &testAPI{t: t, handler: srv.Handler(), checkout: checkout}
}

func (a *testAPI) do(method, path string, body interface{}, headers ...string) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	for _, c := range a.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		a.setCookie(c)
	}

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (a *testAPI) setCookie(c *http.Cookie) {
	for i := range a.cookies {
		if a.cookies[i].Name == c.Name {
			a.cookies[i] = c
			return
		}
	}
	a.cookies = append(a.cookies, c)
}

func addItemBody(variantID string, quantity int) gin.H {
	return gin.H{
		"variantId":       variantID,
		"variantTitle":    "50ml",
		"price":           gin.H{"amount": "100.00", "currencyCode": "EGP"},
		"quantity":        quantity,
		"selectedOptions": []gin.H{{"name": "Size", "value": "50ml"}},
		"product":         gin.H{"handle": "retinol-night-cream"},
	}
}

func decodeSummary(t *testing.T, env envelope) cart.Summary {
	t.Helper()
	var s cart.Summary
	require.NoError(t, json.Unmarshal(env.Data, &s))
	return s
}

func TestHealthAndReadiness(t *testing.T) {
	api := newTestAPI(t, map[string]HealthChecker{"redis": stubHealth{}})

	w, _ := api.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w, _ = api.do(http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	down := newTestAPI(t, map[string]HealthChecker{"postgres": stubHealth{err: errors.New("refused")}})
	w, _ = down.do(http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCart_Lifecycle(t *testing.T) {
	api := newTestAPI(t, nil)

	w, env := api.do(http.MethodPost, "/api/v1/cart/items", addItemBody("var-6-1", 2))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotEmpty(t, api.cookies, "session cookie issued")
	assert.Equal(t, "تمت الإضافة للسلة", env.Message)

	w, env = api.do(http.MethodPost, "/api/v1/cart/items", addItemBody("var-6-1", 1))
	require.Equal(t, http.StatusOK, w.Code)
	summary := decodeSummary(t, env)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 3, summary.Items[0].Quantity)
	assert.Equal(t, "EGP 300.00", summary.TotalPrice.String())

	_, env = api.do(http.MethodPost, "/api/v1/cart/items", addItemBody("var-2-1", 0))
	summary = decodeSummary(t, env)
	assert.Equal(t, 4, summary.TotalItems)
	assert.Equal(t, "var-2-1", summary.Items[1].VariantID)

	w, env = api.do(http.MethodGet, "/api/v1/cart/count", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":4}`, string(env.Data))

	w, env = api.do(http.MethodPut, "/api/v1/cart/items/var-6-1", gin.H{"quantity": 5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 6, decodeSummary(t, env).TotalItems)

	w, env = api.do(http.MethodPut, "/api/v1/cart/items/var-6-1", gin.H{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeSummary(t, env).Items, 1)

	w, env = api.do(http.MethodDelete, "/api/v1/cart/items/var-2-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeSummary(t, env).Items)

	w, env = api.do(http.MethodPut, "/api/v1/cart/items/var-2-1", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request data", env.Error)
	assert.Len(t, env.Details, 1)

	w, env = api.do(http.MethodPost, "/api/v1/cart/items", gin.H{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, env.Details, 1)
}

func TestCart_RejectsSecondCurrency(t *testing.T) {
	api := newTestAPI(t, nil)
	w, _ := api.do(http.MethodPost, "/api/v1/cart/items", addItemBody("var-1-1", 1))
	require.Equal(t, http.StatusOK, w.Code)

	usd := addItemBody("var-2-1", 1)
	usd["price"] = gin.H{"amount": "5.00", "currencyCode": "USD"}
	w, env := api.do(http.MethodPost, "/api/v1/cart/items", usd)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "currency")

	_, env = api.do(http.MethodGet, "/api/v1/cart", nil)
	summary := decodeSummary(t, env)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, "EGP 100.00", summary.TotalPrice.String())
}

func TestCart_SessionsAreIsolated(t *testing.T) {
	api := newTestAPI(t, nil)
	api.do(http.MethodPost, "/api/v1/cart/items", addItemBody("var-1-1", 1))

	other := &testAPI{t: t, handler: api.handler}
	_, env := other.do(http.MethodGet, "/api/v1/cart", nil)
	assert.Empty(t, decodeSummary(t, env).Items)

	forged := &testAPI{t: t, handler: api.handler, cookies: []*http.Cookie{{Name: "bv_session", Value: "not-a-token"}}}
	w, env := forged.do(http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeSummary(t, env).Items)
	assert.NotEqual(t, "not-a-token", forged.cookies[0].Value)

	_, env = api.do(http.MethodGet, "/api/v1/cart", nil)
	assert.Len(t, decodeSummary(t, env).Items, 1)
}

func TestCart_EncodedVariantID(t *testing.T) {
	api := newTestAPI(t, nil)
	gid := "gid://shopify/ProductVariant/11"
	api.do(http.MethodPost, "/api/v1/cart/items", addItemBody(gid, 1))

	w, env := api.do(http.MethodPut, "/api/v1/cart/items/"+url.PathEscape(gid), gin.H{"quantity": 4})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 4, decodeSummary(t, env).TotalItems)
}

func TestCheckout(t *testing.T) {
	api := newTestAPI(t, nil)

	w, env := api.do(http.MethodPost, "/api/v1/cart/checkout", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "سلتك فارغة", env.Error)

	api.do(http.MethodPost, "/api/v1/cart/items", addItemBody("var-1-1", 120))

	w, env = api.do(http.MethodPost, "/api/v1/cart/checkout", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"checkoutUrl":"https://shop.example/cart/c/1?channel=online_store"}`, string(env.Data))
	require.Len(t, api.checkout.lines, 1)
	assert.Equal(t, cart.MaxLineQuantity, api.checkout.lines[0].Quantity)

	api.checkout.remote = &cart.RemoteCart{UserErrors: []cart.UserError{{Message: "Variant is sold out"}}}
	w, env = api.do(http.MethodPost, "/api/v1/cart/checkout", nil, "Accept-Language", "en-US,en;q=0.9")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Some items in your cart are no longer available.", env.Error)
	assert.Equal(t, []string{"Variant is sold out"}, env.Details)

	api.checkout.err = errors.New("connection refused")
	w, _ = api.do(http.MethodPost, "/api/v1/cart/checkout", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	_, env = api.do(http.MethodGet, "/api/v1/cart", nil)
	summary := decodeSummary(t, env)
	assert.Len(t, summary.Items, 1)
	assert.False(t, summary.IsLoading)
}

func TestCart_AddBundle(t *testing.T) {
	api := newTestAPI(t, nil)

	w, _ := api.do(http.MethodPost, "/api/v1/cart/bundles/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Built-in bundles list remote handles the local catalog does not carry
	w, _ = api.do(http.MethodPost, "/api/v1/cart/bundles/hair-care", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestWishlist(t *testing.T) {
	api := newTestAPI(t, nil)
	item := gin.H{"productId": "prod-1", "productHandle": "vitamin-c-serum", "title": "Vitamin C Brightening Serum", "price": "350", "currencyCode": "EGP"}

	w, _ := api.do(http.MethodPost, "/api/v1/wishlist/items", item, "Accept-Language", "en")
	require.Equal(t, http.StatusOK, w.Code)
	api.do(http.MethodPost, "/api/v1/wishlist/items", item)

	w, env := api.do(http.MethodGet, "/api/v1/wishlist", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Items []wishlist.Item `json:"items"`
		Count int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 1, list.Count)

	_, env = api.do(http.MethodGet, "/api/v1/wishlist/items/prod-1", nil)
	assert.JSONEq(t, `{"inWishlist":true}`, string(env.Data))

	w, _ = api.do(http.MethodDelete, "/api/v1/wishlist/items/prod-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, env = api.do(http.MethodGet, "/api/v1/wishlist/items/prod-1", nil)
	assert.JSONEq(t, `{"inWishlist":false}`, string(env.Data))

	w, env = api.do(http.MethodPost, "/api/v1/wishlist/items", gin.H{"title": "no id"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, env.Details, 1)
}

func TestCatalogRoutes(t *testing.T) {
	api := newTestAPI(t, nil)

	w, env := api.do(http.MethodGet, "/api/v1/products?first=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var products []catalog.Product
	require.NoError(t, json.Unmarshal(env.Data, &products))
	assert.Len(t, products, 2)

	w, _ = api.do(http.MethodGet, "/api/v1/products?query="+url.QueryEscape("x;drop"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodGet, "/api/v1/products/Vitamin-C-Serum", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = api.do(http.MethodGet, "/api/v1/products/bad%20handle", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodGet, "/api/v1/products/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, env = api.do(http.MethodGet, "/api/v1/categories/moisturizers/products", nil)
	require.NoError(t, json.Unmarshal(env.Data, &products))
	assert.Len(t, products, 2)

	_, env = api.do(http.MethodGet, "/api/v1/bundles", nil)
	var bundles []catalog.Bundle
	require.NoError(t, json.Unmarshal(env.Data, &bundles))
	assert.Len(t, bundles, len(catalog.CategoryBundles))

	w, _ = api.do(http.MethodGet, "/api/v1/bundles/serums", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = api.do(http.MethodGet, "/api/v1/bundles/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = api.do(http.MethodGet, "/api/v1/collections", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestI18nRoutes(t *testing.T) {
	api := newTestAPI(t, nil)

	w, env := api.do(http.MethodGet, "/api/v1/i18n", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ar", w.Header().Get("Content-Language"))
	assert.Equal(t, "rtl", w.Header().Get("X-Content-Direction"))
	var state struct {
		Language string `json:"language"`
		Dir      string `json:"dir"`
		IsRTL    bool   `json:"isRTL"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.True(t, state.IsRTL)

	w, _ = api.do(http.MethodGet, "/api/v1/i18n", nil, "Accept-Language", "en-GB,en;q=0.8")
	assert.Equal(t, "en", w.Header().Get("Content-Language"))

	w, env = api.do(http.MethodPut, "/api/v1/i18n/language", gin.H{"language": "en"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ltr", w.Header().Get("X-Content-Direction"))
	assert.Equal(t, "Language updated", env.Message)

	// The cookie now wins over the default
	_, env = api.do(http.MethodGet, "/api/v1/i18n/translate?key=cart.checkout", nil)
	assert.JSONEq(t, `{"key":"cart.checkout","text":"Checkout","language":"en"}`, string(env.Data))

	_, env = api.do(http.MethodGet, "/api/v1/i18n/translate?lang=ar&key=cart.checkout", nil)
	assert.JSONEq(t, `{"key":"cart.checkout","text":"إتمام الشراء","language":"ar"}`, string(env.Data))

	_, env = api.do(http.MethodGet, "/api/v1/i18n/translate?lang=ar&key=Hello&ar="+url.QueryEscape("مرحبا"), nil)
	assert.JSONEq(t, `{"key":"Hello","text":"مرحبا","language":"ar"}`, string(env.Data))

	_, env = api.do(http.MethodGet, "/api/v1/i18n/translate?key=no.such.key", nil)
	assert.JSONEq(t, `{"key":"no.such.key","text":"no.such.key","language":"en"}`, string(env.Data))

	w, _ = api.do(http.MethodPut, "/api/v1/i18n/language", gin.H{"language": "fr"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodGet, "/api/v1/i18n/messages", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	api := newTestAPI(t, nil)

	w, _ := api.do(http.MethodOptions, "/api/v1/cart", nil, "Origin", "https://shop.bv.example")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://shop.bv.example", w.Header().Get("Access-Control-Allow-Origin"))

	w, _ = api.do(http.MethodGet, "/health", nil, "Origin", "https://evil-bv.example")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
