package shopify

import "fmt"

func productFields(images, variants int) string {
	return fmt.Sprintf(`
      id
      title
      description
      handle
      productType
      priceRange {
        minVariantPrice {
          amount
          currencyCode
        }
      }
      compareAtPriceRange {
        minVariantPrice {
          amount
          currencyCode
        }
      }
      images(first: %d) {
        edges {
          node {
            url
            altText
          }
        }
      }
      variants(first: %d) {
        edges {
          node {
            id
            title
            price {
              amount
              currencyCode
            }
            compareAtPrice {
              amount
              currencyCode
            }
            availableForSale
            selectedOptions {
              name
              value
            }
          }
        }
      }
      options {
        name
        values
      }`, images, variants)
}

func metafield(key string) string {
	return fmt.Sprintf(`
      %[1]s: metafield(namespace: "custom", key: "%[1]s") {
        key
        value
        type
      }`, key)
}

// Metafield keys fetched with product details
const (
	MetafieldIngredientsAr       = "ingredients_ar"
	MetafieldIngredientsEn       = "ingredients_en"
	MetafieldUsageInstructionsAr = "usage_instructions_ar"
	MetafieldUsageInstructionsEn = "usage_instructions_en"
)

var (
	productsQuery = `
  query GetProducts($first: Int!, $query: String) {
    products(first: $first, query: $query) {
      edges {
        node {` + productFields(5, 10) + `
        }
      }
    }
  }`

	collectionsQuery = `
  query GetCollections($first: Int!) {
    collections(first: $first) {
      edges {
        node {
          id
          title
          handle
          description
          image {
            url
            altText
          }
          products(first: 50) {
            edges {
              node {` + productFields(5, 10) + `
              }
            }
          }
        }
      }
    }
  }`

	productByHandleQuery = `
  query GetProductByHandle($handle: String!) {
    productByHandle(handle: $handle) {` + productFields(10, 100) +
		metafield(MetafieldIngredientsAr) +
		metafield(MetafieldIngredientsEn) +
		metafield(MetafieldUsageInstructionsAr) +
		metafield(MetafieldUsageInstructionsEn) + `
    }
  }`
)

const cartCreateMutation = `
  mutation cartCreate($input: CartInput!) {
    cartCreate(input: $input) {
      cart {
        id
        checkoutUrl
        totalQuantity
      }
      userErrors {
        field
        message
      }
    }
  }`
