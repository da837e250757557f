// internal/domain/catalog/entity.go
package catalog

import (
	"github.com/bv-cosmetics/storefront/internal/pkg/money"
)

// Product represents a sellable product with its variants
type Product struct {
	ID             string       `json:"id"`
	Handle         string       `json:"handle"`
	Title          string       `json:"title"`
	TitleAr        string       `json:"titleAr,omitempty"`
	Description    string       `json:"description"`
	DescriptionAr  string       `json:"descriptionAr,omitempty"`
	Category       string       `json:"category,omitempty"`
	Price          money.Money  `json:"price"`                    // Minimum variant price
	CompareAtPrice *money.Money `json:"compareAtPrice,omitempty"` // Minimum compare-at price
	Images         []Image      `json:"images"`
	Variants       []Variant    `json:"variants"`
	Options        []Option     `json:"options,omitempty"`
	Metafields     []Metafield  `json:"metafields,omitempty"`
	InStock        bool         `json:"inStock"`
}

// Variant represents a purchasable variant of a product
type Variant struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Price            money.Money      `json:"price"`
	CompareAtPrice   *money.Money     `json:"compareAtPrice,omitempty"`
	AvailableForSale bool             `json:"availableForSale"`
	SelectedOptions  []SelectedOption `json:"selectedOptions"`
}

// SelectedOption is one option value chosen by a variant
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Option lists the values a product option can take
type Option struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Image represents a product or collection image
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
}

// Metafield is a custom key/value attached to a product
type Metafield struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

// Collection represents a curated group of products
type Collection struct {
	ID          string    `json:"id"`
	Handle      string    `json:"handle"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       *Image    `json:"image,omitempty"`
	Products    []Product `json:"products"`
}

// Bundle is a discounted set of products for a category
type Bundle struct {
	CategorySlug       string   `json:"categorySlug"`
	TitleEn            string   `json:"titleEn"`
	TitleAr            string   `json:"titleAr"`
	DescriptionEn      string   `json:"descriptionEn"`
	DescriptionAr      string   `json:"descriptionAr"`
	ProductHandles     []string `json:"productHandles"`
	DiscountPercentage int      `json:"discountPercentage"`
}

// BundleOffer is a bundle resolved against the catalog and priced
type BundleOffer struct {
	Bundle        Bundle      `json:"bundle"`
	Products      []Product   `json:"products"`
	OriginalTotal money.Money `json:"originalTotal"`
	BundlePrice   money.Money `json:"bundlePrice"`
	Savings       money.Money `json:"savings"`
}

// FirstVariant returns the default variant of the product, if any
func (p *Product) FirstVariant() (Variant, bool) {
	if len(p.Variants) == 0 {
		return Variant{}, false
	}
	return p.Variants[0], true
}

// Metafield returns the value of the metafield with the given key
func (p *Product) Metafield(key string) (string, bool) {
	for _, m := range p.Metafields {
		if m.Key == key {
			return m.Value, true
		}
	}
	return "", false
}
