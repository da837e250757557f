package wishlist

// StorageKey is the versioned key prefix of persisted wishlists
const StorageKey = "bv-cosmatics-wishlist/v1"

// Item represents a product saved to the wishlist
type Item struct {
	ProductID     string `json:"productId"`
	ProductHandle string `json:"productHandle"`
	Title         string `json:"title"`
	ImageURL      string `json:"imageUrl"`
	Price         string `json:"price"`
	CurrencyCode  string `json:"currencyCode"`
}

// State is the persisted wishlist document
type State struct {
	Items []Item `json:"items"`
}
