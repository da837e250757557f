// internal/domain/cart/entity.go
package cart

import (
	"encoding/json"

	"github.com/bv-cosmetics/storefront/internal/pkg/money"
)

// StorageKey is the versioned key prefix of persisted carts
const StorageKey = "bv-cosmatics-cart/v1"

// MaxLineQuantity bounds the quantity sent to the commerce API per line
const MaxLineQuantity = 100

// SelectedOption is one option of the variant combination, e.g. Size: 50ml
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// LineItem is one purchasable variant in the cart
type LineItem struct {
	VariantID string `json:"variantId"`
	// Product is the catalog payload the item was added from. It is stored
	// and returned as-is and never inspected by the cart.
	Product         json.RawMessage  `json:"product,omitempty"`
	VariantTitle    string           `json:"variantTitle"`
	UnitPrice       money.Money      `json:"unitPrice"`
	Quantity        int              `json:"quantity"`
	SelectedOptions []SelectedOption `json:"selectedOptions"`
}

// LineTotal returns unit price times quantity
func (i LineItem) LineTotal() money.Money {
	return i.UnitPrice.Mul(i.Quantity)
}

func (i LineItem) clone() LineItem {
	out := i
	if i.Product != nil {
		out.Product = append(json.RawMessage(nil), i.Product...)
	}
	out.SelectedOptions = append([]SelectedOption{}, i.SelectedOptions...)
	return out
}

// State is the persisted part of a cart. The loading flag is never stored.
type State struct {
	Items []LineItem `json:"items"`
}

// Summary is a read-only view of a cart with its derived totals
type Summary struct {
	Items      []LineItem  `json:"items"`
	TotalItems int         `json:"totalItems"`
	TotalPrice money.Money `json:"totalPrice"`
	IsLoading  bool        `json:"isLoading"`
}

// CheckoutLine is one {variant, quantity} pair sent to the commerce API
type CheckoutLine struct {
	VariantID string `json:"merchandiseId"`
	Quantity  int    `json:"quantity"`
}

// UserError is a line-level rejection reported by the commerce API
type UserError struct {
	Field   []string `json:"field,omitempty"`
	Message string   `json:"message"`
}

// RemoteCart is the commerce API's answer to a cart creation request
type RemoteCart struct {
	ID          string
	CheckoutURL string
	UserErrors  []UserError
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i := range items {
		out[i] = items[i].clone()
	}
	return out
}

func clampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	if q > MaxLineQuantity {
		return MaxLineQuantity
	}
	return q
}
