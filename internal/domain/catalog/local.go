package catalog

import (
	"context"
	"strings"

	"github.com/bv-cosmetics/storefront/internal/pkg/money"
)

// Source is where catalog data comes from: the built-in catalog or the
// remote commerce platform
type Source interface {
	Products(ctx context.Context, first int, query string) ([]Product, error)
	ProductByHandle(ctx context.Context, handle string) (*Product, error)
	Collections(ctx context.Context, first int) ([]Collection, error)
}

// LocalSource serves the built-in product catalog
type LocalSource struct {
	products []Product
}

// NewLocalSource creates a source over the built-in catalog
func NewLocalSource() *LocalSource {
	return &LocalSource{products: localProducts()}
}

// NewStaticSource creates a source over the given products
func NewStaticSource(products []Product) *LocalSource {
	return &LocalSource{products: products}
}

// Products returns up to first products matching query. Each whitespace
// separated term must appear in the title, handle or category; a
// "field:value" term matches on value.
func (s *LocalSource) Products(ctx context.Context, first int, query string) ([]Product, error) {
	terms := strings.Fields(strings.ToLower(query))
	first = ClampFirst(first)

	out := make([]Product, 0, first)
	for _, p := range s.products {
		if len(out) == first {
			break
		}
		if matches(p, terms) {
			out = append(out, p)
		}
	}
	return out, nil
}

// ProductByHandle returns the product with the given handle or ErrNotFound
func (s *LocalSource) ProductByHandle(ctx context.Context, handle string) (*Product, error) {
	for i := range s.products {
		if s.products[i].Handle == handle {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

// Collections groups the catalog by category in order of first appearance
func (s *LocalSource) Collections(ctx context.Context, first int) ([]Collection, error) {
	first = ClampFirst(first)

	var out []Collection
	index := make(map[string]int)
	for _, p := range s.products {
		if p.Category == "" {
			continue
		}
		i, ok := index[p.Category]
		if !ok {
			if len(out) == first {
				continue
			}
			i = len(out)
			index[p.Category] = i
			out = append(out, Collection{
				ID:     "collection-" + p.Category,
				Handle: p.Category,
				Title:  categoryTitle(p.Category),
			})
		}
		out[i].Products = append(out[i].Products, p)
	}
	return out, nil
}

func matches(p Product, terms []string) bool {
	haystack := strings.ToLower(strings.Join([]string{p.Title, p.TitleAr, p.Handle, p.Category}, " "))
	for _, term := range terms {
		if _, value, ok := strings.Cut(term, ":"); ok {
			term = value
		}
		term = strings.Trim(term, "*")
		if term != "" && !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}

func categoryTitle(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func egp(amount int64) money.Money {
	return money.FromInt(amount, money.DefaultCurrency)
}

func egpRef(amount int64) *money.Money {
	m := egp(amount)
	return &m
}

func sizeVariant(id, size string, price, compareAt int64) Variant {
	return Variant{
		ID:               id,
		Title:            size,
		Price:            egp(price),
		CompareAtPrice:   egpRef(compareAt),
		AvailableForSale: true,
		SelectedOptions:  []SelectedOption{{Name: "Size", Value: size}},
	}
}

func localProducts() []Product {
	products := []Product{
		{
			ID:            "prod-1",
			Handle:        "vitamin-c-serum",
			Title:         "Vitamin C Brightening Serum",
			TitleAr:       "سيروم فيتامين سي للتفتيح",
			Description:   "A powerful antioxidant serum that brightens and evens skin tone while reducing the appearance of fine lines.",
			DescriptionAr: "سيروم مضاد للأكسدة قوي يفتح البشرة ويوحد لونها مع تقليل ظهور الخطوط الدقيقة.",
			Category:      "serums",
			Images:        []Image{{URL: "/assets/product-serum.png"}},
			Variants: []Variant{
				sizeVariant("var-1-1", "30ml", 350, 450),
				sizeVariant("var-1-2", "50ml", 520, 650),
			},
		},
		{
			ID:            "prod-2",
			Handle:        "hydrating-day-cream",
			Title:         "Hydrating Day Cream SPF 30",
			TitleAr:       "كريم نهاري مرطب بعامل حماية 30",
			Description:   "Lightweight moisturizer with sun protection. Perfect for daily use under makeup.",
			DescriptionAr: "مرطب خفيف مع حماية من الشمس. مثالي للاستخدام اليومي تحت المكياج.",
			Category:      "moisturizers",
			Images:        []Image{{URL: "/assets/product-cream.png"}},
			Variants: []Variant{
				sizeVariant("var-2-1", "50ml", 280, 350),
			},
		},
		{
			ID:            "prod-3",
			Handle:        "gentle-foaming-cleanser",
			Title:         "Gentle Foaming Cleanser",
			TitleAr:       "غسول رغوي لطيف",
			Description:   "A gentle yet effective cleanser that removes impurities without stripping the skin.",
			DescriptionAr: "غسول لطيف وفعال يزيل الشوائب دون تجفيف البشرة.",
			Category:      "cleansers",
			Images:        []Image{{URL: "/assets/product-cleanser.png"}},
			Variants: []Variant{
				sizeVariant("var-3-1", "150ml", 180, 220),
				sizeVariant("var-3-2", "250ml", 280, 350),
			},
		},
		{
			ID:            "prod-4",
			Handle:        "collagen-booster",
			Title:         "Collagen Booster Treatment",
			TitleAr:       "علاج معزز الكولاجين",
			Description:   "Advanced anti-aging treatment that stimulates collagen production for firmer, younger-looking skin.",
			DescriptionAr: "علاج متقدم لمكافحة الشيخوخة يحفز إنتاج الكولاجين لبشرة أكثر شباباً.",
			Category:      "treatments",
			Images:        []Image{{URL: "/assets/product-booster.png"}},
			Variants: []Variant{
				sizeVariant("var-4-1", "30ml", 550, 700),
			},
		},
		{
			ID:            "prod-5",
			Handle:        "hair-repair-treatment",
			Title:         "Hair Repair Treatment",
			TitleAr:       "علاج إصلاح الشعر",
			Description:   "Intensive repair treatment for damaged hair. Restores shine and strength.",
			DescriptionAr: "علاج مكثف للشعر التالف. يستعيد اللمعان والقوة.",
			Category:      "hair-care",
			Images:        []Image{{URL: "/assets/product-treatment.png"}},
			Variants: []Variant{
				sizeVariant("var-5-1", "100ml", 420, 520),
				sizeVariant("var-5-2", "200ml", 750, 950),
			},
		},
		{
			ID:            "prod-6",
			Handle:        "retinol-night-cream",
			Title:         "Retinol Night Cream",
			TitleAr:       "كريم ليلي بالريتينول",
			Description:   "Powerful night cream with retinol to reduce wrinkles and improve skin texture.",
			DescriptionAr: "كريم ليلي قوي بالريتينول لتقليل التجاعيد وتحسين ملمس البشرة.",
			Category:      "moisturizers",
			Images:        []Image{{URL: "/assets/product-night-cream.png"}},
			Variants: []Variant{
				sizeVariant("var-6-1", "50ml", 480, 600),
			},
		},
	}

	for i := range products {
		p := &products[i]
		p.Price = p.Variants[0].Price
		p.CompareAtPrice = p.Variants[0].CompareAtPrice
		p.InStock = true
		p.Options = []Option{{Name: "Size", Values: variantTitles(p.Variants)}}
	}
	return products
}

func variantTitles(variants []Variant) []string {
	titles := make([]string, len(variants))
	for i, v := range variants {
		titles[i] = v.Title
	}
	return titles
}
