package domain

// CartItem is a server-side cart line. AvailableStock is the stock
// ceiling for the referenced size, used to bound quantity controls.
type CartItem struct {
	ID             int64   `json:"id"`
	ProductID      int64   `json:"productId"`
	ProductName    string  `json:"productName"`
	ProductSlug    string  `json:"productSlug"`
	ProductImage   string  `json:"productImage,omitempty"`
	SizeID         int64   `json:"sizeId"`
	SizeName       string  `json:"sizeName"`
	Quantity       int     `json:"quantity"`
	Price          float64 `json:"price"`
	Total          float64 `json:"total"`
	AvailableStock int     `json:"availableStock"`
}

// Cart mirrors the server cart. All totals are computed server-side and
// treated as authoritative; the client never recomputes them from deltas.
type Cart struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	Items       []CartItem `json:"items"`
	TotalItems  int        `json:"totalItems"`
	UniqueItems int        `json:"uniqueItems"`
	Subtotal    float64    `json:"subtotal"`
	Tax         float64    `json:"tax"`
	Total       float64    `json:"total"`
}

func (c *Cart) Empty() bool {
	return c == nil || len(c.Items) == 0
}

func (c *Cart) Count() int {
	if c == nil {
		return 0
	}
	return c.TotalItems
}
