package catalog

import (
	"strings"

	"github.com/bv-cosmetics/storefront/internal/pkg/money"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CategoryBundles are the discounted sets offered on category pages
var CategoryBundles = []Bundle{
	{
		CategorySlug:       "hair-care",
		TitleEn:            "Hair Care Set",
		TitleAr:            "مجموعة العناية بالشعر",
		DescriptionEn:      "Complete hair care routine",
		DescriptionAr:      "روتين كامل للعناية بالشعر",
		ProductHandles:     []string{"hair-mask-xpresso", "conditioner-xpresso", "shampoo-xpresso"},
		DiscountPercentage: 20,
	},
	{
		CategorySlug:       "skin-care",
		TitleEn:            "Skin Care Set",
		TitleAr:            "مجموعة العناية بالبشرة",
		DescriptionEn:      "Complete skincare routine",
		DescriptionAr:      "روتين كامل للعناية بالبشرة",
		ProductHandles:     []string{"gold-diamond-hair-treatment", "bio-collagen-hair-treatment", "lazuli-hair-treatment"},
		DiscountPercentage: 15,
	},
	{
		CategorySlug:       "serums",
		TitleEn:            "Serum Collection",
		TitleAr:            "مجموعة السيروم",
		DescriptionEn:      "Premium serum bundle",
		DescriptionAr:      "باقة سيروم مميزة",
		ProductHandles:     []string{"argan-hair-treatment", "almond-hair-treatment", "emmerald-hair-treatment"},
		DiscountPercentage: 25,
	},
	{
		CategorySlug:       "body-care",
		TitleEn:            "Body Care Set",
		TitleAr:            "مجموعة العناية بالجسم",
		DescriptionEn:      "Luxurious body care bundle",
		DescriptionAr:      "باقة فاخرة للعناية بالجسم",
		ProductHandles:     []string{"beyond-hair-treatment", "florid-hair-treatment", "black-horse-hair-treatment"},
		DiscountPercentage: 18,
	},
	{
		CategorySlug:       "hair-treatment",
		TitleEn:            "Hair Treatment Set",
		TitleAr:            "مجموعة علاج الشعر",
		DescriptionEn:      "Professional hair treatment bundle",
		DescriptionAr:      "باقة علاج الشعر الاحترافية",
		ProductHandles:     []string{"lipo-line-hair-treatment", "lipo-blond-hair-treatment", "fluence-03-in-01-hair-treatment"},
		DiscountPercentage: 22,
	},
}

// FindBundle looks up a bundle by category slug, ignoring case
func FindBundle(bundles []Bundle, categorySlug string) (Bundle, bool) {
	for _, b := range bundles {
		if strings.EqualFold(b.CategorySlug, categorySlug) {
			return b, true
		}
	}
	return Bundle{}, false
}

// PriceBundle computes the discounted price of a set of products:
// bundle = total * (1 - pct/100) and savings = total - bundle, both exact
func PriceBundle(bundle Bundle, products []Product) BundleOffer {
	currency := money.DefaultCurrency
	total := decimal.Zero
	for i, p := range products {
		if i == 0 && p.Price.CurrencyCode != "" {
			currency = p.Price.CurrencyCode
		}
		total = total.Add(p.Price.Amount)
	}

	factor := decimal.NewFromInt(1).Sub(decimal.NewFromInt(int64(bundle.DiscountPercentage)).Div(hundred))
	price := total.Mul(factor)

	if products == nil {
		products = []Product{}
	}
	return BundleOffer{
		Bundle:        bundle,
		Products:      products,
		OriginalTotal: money.New(total, currency),
		BundlePrice:   money.New(price, currency),
		Savings:       money.New(total.Sub(price), currency),
	}
}
