package models

// CartLine is one distinct product in a browser session's cart.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// WishlistEntry is a saved product, no quantity.
type WishlistEntry struct {
	Product Product `json:"product"`
}

// OrderLine is a priced cart line in a checkout summary.
type OrderLine struct {
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

// Order is the summary handed off at checkout. It is not persisted.
type Order struct {
	Lines   []OrderLine `json:"lines"`
	Total   string      `json:"total"`
	Message string      `json:"message"`
	Link    string      `json:"link"`
}
