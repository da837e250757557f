// Package shopify talks to the Shopify Storefront GraphQL API. It opens
// checkout carts and reads the product catalog.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bv-cosmetics/storefront/internal/domain/cart"
	"github.com/bv-cosmetics/storefront/internal/domain/catalog"
	"github.com/bv-cosmetics/storefront/internal/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const tokenHeader = "X-Shopify-Storefront-Access-Token"

// maxResponseSize bounds how much of a response body is read
const maxResponseSize = 10 << 20

// Config holds Storefront API connection settings
type Config struct {
	Endpoint string // https://<domain>/api/<version>/graphql.json
	Token    string
	Timeout  time.Duration
}

var (
	_ cart.CheckoutClient = (*Client)(nil)
	_ catalog.Source      = (*Client)(nil)
)

// Client is a Storefront API client
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	log        *logrus.Entry
}

// NewClient creates a new Storefront API client
func NewClient(cfg Config, log *logrus.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("storefront endpoint is required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("storefront token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   cfg.Endpoint,
		token:      cfg.Token,
		log:        log.WithField("component", "shopify"),
	}, nil
}

// CreateCart opens a remote cart holding lines and returns its checkout URL
// along with any line-level rejections
func (c *Client) CreateCart(ctx context.Context, lines []cart.CheckoutLine) (*cart.RemoteCart, error) {
	input := make([]cartLineInput, len(lines))
	for i, line := range lines {
		input[i] = cartLineInput{Quantity: line.Quantity, MerchandiseID: line.VariantID}
	}

	var data cartCreateData
	err := c.do(ctx, cartCreateMutation, map[string]interface{}{
		"input": map[string]interface{}{"lines": input},
	}, &data)
	if err != nil {
		return nil, err
	}

	remote := &cart.RemoteCart{}
	if created := data.CartCreate.Cart; created != nil {
		remote.ID = created.ID
		remote.CheckoutURL = created.CheckoutURL
	}
	for _, ue := range data.CartCreate.UserErrors {
		remote.UserErrors = append(remote.UserErrors, cart.UserError{Field: ue.Field, Message: ue.Message})
	}
	return remote, nil
}

// Products lists up to first products matching the search query
func (c *Client) Products(ctx context.Context, first int, query string) ([]catalog.Product, error) {
	vars := map[string]interface{}{"first": catalog.ClampFirst(first), "query": nil}
	if query != "" {
		vars["query"] = query
	}

	var data productsData
	if err := c.do(ctx, productsQuery, vars, &data); err != nil {
		return nil, err
	}

	products := make([]catalog.Product, 0, len(data.Products.Edges))
	for _, edge := range data.Products.Edges {
		p, err := toProduct(edge.Node)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// ProductByHandle returns a product with its metafields, or
// catalog.ErrNotFound when the store has no such handle
func (c *Client) ProductByHandle(ctx context.Context, handle string) (*catalog.Product, error) {
	var data productByHandleData
	if err := c.do(ctx, productByHandleQuery, map[string]interface{}{"handle": handle}, &data); err != nil {
		return nil, err
	}
	if data.ProductByHandle == nil {
		return nil, catalog.ErrNotFound
	}

	p, err := toProduct(*data.ProductByHandle)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Collections lists up to first collections with their products
func (c *Client) Collections(ctx context.Context, first int) ([]catalog.Collection, error) {
	var data collectionsData
	if err := c.do(ctx, collectionsQuery, map[string]interface{}{"first": catalog.ClampFirst(first)}, &data); err != nil {
		return nil, err
	}

	collections := make([]catalog.Collection, 0, len(data.Collections.Edges))
	for _, edge := range data.Collections.Edges {
		node := edge.Node
		col := catalog.Collection{
			ID:          node.ID,
			Handle:      node.Handle,
			Title:       node.Title,
			Description: node.Description,
			Products:    make([]catalog.Product, 0, len(node.Products.Edges)),
		}
		if node.Image != nil {
			img := toImage(*node.Image)
			col.Image = &img
		}
		for _, pe := range node.Products.Edges {
			p, err := toProduct(pe.Node)
			if err != nil {
				return nil, err
			}
			col.Products = append(col.Products, p)
		}
		collections = append(collections, col)
	}
	return collections, nil
}

// do posts a GraphQL document and decodes its data into out
func (c *Client) do(ctx context.Context, query string, vars map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(tokenHeader, c.token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("Storefront API request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var gql gqlResponse
	if err := json.Unmarshal(respBody, &gql); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "malformed response body", Err: ErrUpstream}
	}
	if len(gql.Errors) > 0 {
		return graphQLError(resp.StatusCode, gql.Errors)
	}
	if len(gql.Data) == 0 || string(gql.Data) == "null" {
		return &APIError{StatusCode: resp.StatusCode, Message: "response has no data", Err: ErrUpstream}
	}

	if err := json.Unmarshal(gql.Data, out); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("decoding data: %v", err), Err: ErrUpstream}
	}
	return nil
}

func toProduct(node productNode) (catalog.Product, error) {
	price, err := toMoney(node.PriceRange.MinVariantPrice)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("product %s price: %w", node.Handle, err)
	}

	p := catalog.Product{
		ID:          node.ID,
		Handle:      node.Handle,
		Title:       node.Title,
		Description: node.Description,
		Category:    node.ProductType,
		Price:       price,
		Images:      make([]catalog.Image, 0, len(node.Images.Edges)),
		Variants:    make([]catalog.Variant, 0, len(node.Variants.Edges)),
	}

	if compareAt, err := toMoney(node.CompareAtPriceRange.MinVariantPrice); err == nil && !compareAt.IsZero() {
		p.CompareAtPrice = &compareAt
	}

	for _, edge := range node.Images.Edges {
		p.Images = append(p.Images, toImage(edge.Node))
	}

	for _, edge := range node.Variants.Edges {
		v, err := toVariant(edge.Node)
		if err != nil {
			return catalog.Product{}, fmt.Errorf("product %s: %w", node.Handle, err)
		}
		if v.AvailableForSale {
			p.InStock = true
		}
		p.Variants = append(p.Variants, v)
	}

	for _, opt := range node.Options {
		p.Options = append(p.Options, catalog.Option{Name: opt.Name, Values: opt.Values})
	}

	for _, m := range []*metafieldNode{node.IngredientsAr, node.IngredientsEn, node.UsageInstructionsAr, node.UsageInstructionsEn} {
		if m != nil {
			p.Metafields = append(p.Metafields, catalog.Metafield{Key: m.Key, Value: m.Value, Type: m.Type})
		}
	}

	return p, nil
}

func toVariant(node variantNode) (catalog.Variant, error) {
	price, err := toMoney(node.Price)
	if err != nil {
		return catalog.Variant{}, fmt.Errorf("variant %s price: %w", node.ID, err)
	}

	v := catalog.Variant{
		ID:               node.ID,
		Title:            node.Title,
		Price:            price,
		AvailableForSale: node.AvailableForSale,
		SelectedOptions:  make([]catalog.SelectedOption, 0, len(node.SelectedOptions)),
	}
	if node.CompareAtPrice != nil {
		if compareAt, err := toMoney(*node.CompareAtPrice); err == nil {
			v.CompareAtPrice = &compareAt
		}
	}
	for _, so := range node.SelectedOptions {
		v.SelectedOptions = append(v.SelectedOptions, catalog.SelectedOption{Name: so.Name, Value: so.Value})
	}
	return v, nil
}

func toMoney(m moneyV2) (money.Money, error) {
	if m.Amount == "" {
		return money.New(decimal.Zero, m.CurrencyCode), nil
	}
	return money.Parse(m.Amount, m.CurrencyCode)
}

func toImage(node imageNode) catalog.Image {
	img := catalog.Image{URL: node.URL}
	if node.AltText != nil {
		img.AltText = *node.AltText
	}
	return img
}
