package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bv-cosmetics/storefront/internal/domain/cart"
	"github.com/bv-cosmetics/storefront/internal/domain/catalog"
	"github.com/bv-cosmetics/storefront/internal/infrastructure/storage"
	"github.com/bv-cosmetics/storefront/internal/pkg/logger"
	"github.com/bv-cosmetics/storefront/internal/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productJSON = `{
  "id": "gid://shopify/Product/1",
  "title": "Argan Hair Treatment",
  "description": "Nourishing oil",
  "handle": "argan-hair-treatment",
  "productType": "hair-treatment",
  "priceRange": {"minVariantPrice": {"amount": "420.0", "currencyCode": "EGP"}},
  "compareAtPriceRange": {"minVariantPrice": {"amount": "0.0", "currencyCode": "EGP"}},
  "images": {"edges": [{"node": {"url": "https://cdn.example/argan.png", "altText": null}}]},
  "variants": {"edges": [{"node": {
    "id": "gid://shopify/ProductVariant/11",
    "title": "100ml",
    "price": {"amount": "420.0", "currencyCode": "EGP"},
    "compareAtPrice": {"amount": "520.0", "currencyCode": "EGP"},
    "availableForSale": true,
    "selectedOptions": [{"name": "Size", "value": "100ml"}]
  }}]},
  "options": [{"name": "Size", "values": ["100ml"]}]
}`

type recorded struct {
	token string
	req   gqlRequest
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *recorded)) (*Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.token = r.Header.Get(tokenHeader)
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &rec.req)
		handler(w, rec)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{Endpoint: srv.URL, Token: "test-token"}, logger.Discard())
	require.NoError(t, err)
	return c, rec
}

func TestNewClient_RequiresSettings(t *testing.T) {
	_, err := NewClient(Config{Token: "x"}, logger.Discard())
	assert.Error(t, err)
	_, err = NewClient(Config{Endpoint: "https://shop.example/api/2025-07/graphql.json"}, logger.Discard())
	assert.Error(t, err)
}

func TestCreateCart(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *recorded) {
		_, _ = io.WriteString(w, `{"data":{"cartCreate":{"cart":{"id":"gid://shopify/Cart/abc","checkoutUrl":"https://shop.example/cart/c/abc"},"userErrors":[]}}}`)
	})

	remote, err := c.CreateCart(context.Background(), []cart.CheckoutLine{
		{VariantID: "gid://shopify/ProductVariant/11", Quantity: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, "test-token", rec.token)
	assert.Contains(t, rec.req.Query, "cartCreate")
	lines := rec.req.Variables["input"].(map[string]interface{})["lines"].([]interface{})
	require.Len(t, lines, 1)
	line := lines[0].(map[string]interface{})
	assert.Equal(t, "gid://shopify/ProductVariant/11", line["merchandiseId"])
	assert.EqualValues(t, 2, line["quantity"])

	assert.Equal(t, "gid://shopify/Cart/abc", remote.ID)
	assert.Equal(t, "https://shop.example/cart/c/abc", remote.CheckoutURL)
	assert.Empty(t, remote.UserErrors)
}

func TestCreateCart_UserErrors(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *recorded) {
		_, _ = io.WriteString(w, `{"data":{"cartCreate":{"cart":null,"userErrors":[{"field":["input","lines","0","merchandiseId"],"message":"The merchandise with id 1 does not exist."}]}}}`)
	})

	remote, err := c.CreateCart(context.Background(), []cart.CheckoutLine{{VariantID: "1", Quantity: 1}})
	require.NoError(t, err)
	assert.Empty(t, remote.CheckoutURL)
	require.Len(t, remote.UserErrors, 1)
	assert.Equal(t, "The merchandise with id 1 does not exist.", remote.UserErrors[0].Message)
	assert.Equal(t, []string{"input", "lines", "0", "merchandiseId"}, remote.UserErrors[0].Field)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: "", want: ErrUnauthorized},
		{name: "payment required", status: http.StatusPaymentRequired, body: "", want: ErrPaymentRequired},
		{name: "rate limited", status: http.StatusTooManyRequests, body: "", want: ErrRateLimited},
		{name: "server error", status: http.StatusInternalServerError, body: "boom", want: ErrUpstream},
		{name: "graphql unauthorized", status: http.StatusOK, body: `{"errors":[{"message":"denied","extensions":{"code":"UNAUTHORIZED"}}]}`, want: ErrUnauthorized},
		{name: "graphql other", status: http.StatusOK, body: `{"errors":[{"message":"bad field"}]}`, want: ErrUpstream},
		{name: "malformed", status: http.StatusOK, body: `<html>`, want: ErrUpstream},
		{name: "no data", status: http.StatusOK, body: `{"data":null}`, want: ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *recorded) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.CreateCart(context.Background(), []cart.CheckoutLine{{VariantID: "1", Quantity: 1}})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
		})
	}
}

func TestProducts(t *testing.T) {
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *recorded) {
		_, _ = io.WriteString(w, `{"data":{"products":{"edges":[{"node":`+productJSON+`}]}}}`)
	})

	products, err := c.Products(context.Background(), 500, "")
	require.NoError(t, err)

	assert.EqualValues(t, catalog.MaxPageSize, rec.req.Variables["first"])
	assert.Nil(t, rec.req.Variables["query"])

	require.Len(t, products, 1)
	p := products[0]
	assert.Equal(t, "argan-hair-treatment", p.Handle)
	assert.Equal(t, "hair-treatment", p.Category)
	assert.Equal(t, "EGP 420.00", p.Price.String())
	assert.Nil(t, p.CompareAtPrice)
	assert.True(t, p.InStock)
	require.Len(t, p.Variants, 1)
	assert.Equal(t, "EGP 520.00", p.Variants[0].CompareAtPrice.String())
	assert.Equal(t, "Size", p.Variants[0].SelectedOptions[0].Name)
	assert.Equal(t, "https://cdn.example/argan.png", p.Images[0].URL)

	_, err = c.Products(context.Background(), 10, "tag:hair")
	require.NoError(t, err)
	assert.Equal(t, "tag:hair", rec.req.Variables["query"])
}

func TestProductByHandle(t *testing.T) {
	withMetafields := strings.TrimSuffix(strings.TrimSpace(productJSON), "}") +
		`, "ingredients_ar": {"key":"ingredients_ar","value":"زيت الأرغان","type":"multi_line_text_field"},
		   "ingredients_en": {"key":"ingredients_en","value":"Argan oil","type":"multi_line_text_field"},
		   "usage_instructions_ar": null,
		   "usage_instructions_en": null}`

	c, rec := newTestClient(t, func(w http.ResponseWriter, r *recorded) {
		if r.req.Variables["handle"] == "missing" {
			_, _ = io.WriteString(w, `{"data":{"productByHandle":null}}`)
			return
		}
		_, _ = io.WriteString(w, `{"data":{"productByHandle":`+withMetafields+`}}`)
	})

	p, err := c.ProductByHandle(context.Background(), "argan-hair-treatment")
	require.NoError(t, err)
	assert.Contains(t, rec.req.Query, `metafield(namespace: "custom", key: "usage_instructions_en")`)
	require.Len(t, p.Metafields, 2)
	value, ok := p.Metafield(MetafieldIngredientsEn)
	assert.True(t, ok)
	assert.Equal(t, "Argan oil", value)

	_, err = c.ProductByHandle(context.Background(), "missing")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCollections(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *recorded) {
		_, _ = io.WriteString(w, `{"data":{"collections":{"edges":[{"node":{
		  "id":"gid://shopify/Collection/7","title":"Hair","handle":"hair","description":"All hair",
		  "image":{"url":"https://cdn.example/hair.png","altText":"Hair"},
		  "products":{"edges":[{"node":`+productJSON+`}]}}}]}}}`)
	})

	collections, err := c.Collections(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, collections, 1)
	assert.Equal(t, "hair", collections[0].Handle)
	require.NotNil(t, collections[0].Image)
	assert.Equal(t, "Hair", collections[0].Image.AltText)
	assert.Len(t, collections[0].Products, 1)
}

func TestCheckoutThroughCartStore(t *testing.T) {
	ctx := context.Background()
	status := http.StatusOK
	c, rec := newTestClient(t, func(w http.ResponseWriter, r *recorded) {
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = io.WriteString(w, `{"data":{"cartCreate":{"cart":{"id":"gid://shopify/Cart/abc","checkoutUrl":"https://shop.example/cart/c/abc?key=1"},"userErrors":[]}}}`)
		}
	})

	log := logger.Discard().WithField("test", t.Name())
	repo := cart.NewKVRepository(storage.NewMemory(), "s1", log)
	store := cart.NewStore(repo, c, cart.Options{Channel: "online_store"}, log)
	require.NoError(t, store.AddItem(ctx, cart.LineItem{
		VariantID: "gid://shopify/ProductVariant/11",
		UnitPrice: money.FromInt(420, "EGP"),
		Quantity:  150,
	}))

	url, err := store.CreateCheckout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/cart/c/abc?channel=online_store&key=1", url)
	line := rec.req.Variables["input"].(map[string]interface{})["lines"].([]interface{})[0].(map[string]interface{})
	assert.EqualValues(t, 100, line["quantity"])

	status = http.StatusUnauthorized
	_, err = store.CreateCheckout(ctx)
	var transport *cart.TransportError
	require.True(t, errors.As(err, &transport))
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Len(t, store.Items(), 1)
}
