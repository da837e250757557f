package shopify

import "encoding/json"

type gqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

type gqlError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

type moneyV2 struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type priceRange struct {
	MinVariantPrice moneyV2 `json:"minVariantPrice"`
}

type imageNode struct {
	URL     string  `json:"url"`
	AltText *string `json:"altText"`
}

type variantNode struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Price            moneyV2  `json:"price"`
	CompareAtPrice   *moneyV2 `json:"compareAtPrice"`
	AvailableForSale bool     `json:"availableForSale"`
	SelectedOptions  []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"selectedOptions"`
}

type metafieldNode struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

type productNode struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Handle              string     `json:"handle"`
	ProductType         string     `json:"productType"`
	PriceRange          priceRange `json:"priceRange"`
	CompareAtPriceRange priceRange `json:"compareAtPriceRange"`
	Images              struct {
		Edges []struct {
			Node imageNode `json:"node"`
		} `json:"edges"`
	} `json:"images"`
	Variants struct {
		Edges []struct {
			Node variantNode `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
	Options []struct {
		Name   string   `json:"name"`
		Values []string `json:"values"`
	} `json:"options"`

	IngredientsAr       *metafieldNode `json:"ingredients_ar"`
	IngredientsEn       *metafieldNode `json:"ingredients_en"`
	UsageInstructionsAr *metafieldNode `json:"usage_instructions_ar"`
	UsageInstructionsEn *metafieldNode `json:"usage_instructions_en"`
}

type productsData struct {
	Products struct {
		Edges []struct {
			Node productNode `json:"node"`
		} `json:"edges"`
	} `json:"products"`
}

type productByHandleData struct {
	ProductByHandle *productNode `json:"productByHandle"`
}

type collectionsData struct {
	Collections struct {
		Edges []struct {
			Node struct {
				ID          string     `json:"id"`
				Title       string     `json:"title"`
				Handle      string     `json:"handle"`
				Description string     `json:"description"`
				Image       *imageNode `json:"image"`
				Products    struct {
					Edges []struct {
						Node productNode `json:"node"`
					} `json:"edges"`
				} `json:"products"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"collections"`
}

type cartLineInput struct {
	Quantity      int    `json:"quantity"`
	MerchandiseID string `json:"merchandiseId"`
}

type cartCreateData struct {
	CartCreate struct {
		Cart *struct {
			ID          string `json:"id"`
			CheckoutURL string `json:"checkoutUrl"`
		} `json:"cart"`
		UserErrors []struct {
			Field   []string `json:"field"`
			Message string   `json:"message"`
		} `json:"userErrors"`
	} `json:"cartCreate"`
}
