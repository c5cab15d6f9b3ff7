package domain

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

// ProductSize is a per-size variant of a product. Price overrides the
// product price when set.
type ProductSize struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Stock int      `json:"stock"`
	Price *float64 `json:"price,omitempty"`
}

// EffectivePrice resolves the variant price: the override if present,
// else the product base price.
func (s ProductSize) EffectivePrice(base float64) float64 {
	if s.Price != nil {
		return *s.Price
	}
	return base
}

type Product struct {
	ID               int64         `json:"id"`
	Name             string        `json:"name"`
	Slug             string        `json:"slug"`
	Price            float64       `json:"price"`
	OriginalPrice    *float64      `json:"originalPrice,omitempty"`
	Discount         *int          `json:"discount,omitempty"`
	Image            string        `json:"image,omitempty"`
	AdditionalPhotos []string      `json:"additionalPhotos,omitempty"`
	Description      string        `json:"description,omitempty"`
	Stock            int           `json:"stock"`
	Sizes            []ProductSize `json:"sizes,omitempty"`
	CategoryID       string        `json:"categoryId"`
	CategoryName     string        `json:"categoryName"`

	// InStock is derived client-side from the server-supplied aggregate
	// stock. The aggregate is authoritative; per-size stocks are never
	// summed to recompute it.
	InStock bool `json:"inStock,omitempty"`
}

// CompareAtPrice is the pre-discount price, zero when there is none.
// Templates cannot format through a pointer, so the deref lives here.
func (p Product) CompareAtPrice() float64 {
	if p.OriginalPrice != nil && *p.OriginalPrice > p.Price {
		return *p.OriginalPrice
	}
	return 0
}

// DiscountPct is the advertised discount percentage, zero when absent.
func (p Product) DiscountPct() int {
	if p.Discount != nil && *p.Discount > 0 {
		return *p.Discount
	}
	return 0
}

const (
	StockInStock    = "IN_STOCK"
	StockLowStock   = "LOW_STOCK"
	StockOutOfStock = "OUT_OF_STOCK"
)

// StockStatus buckets the product's aggregate stock for display.
func (p Product) StockStatus() string {
	return StockStatus(p.Stock)
}

// StockStatus buckets an aggregate quantity for display.
func StockStatus(qty int) string {
	switch {
	case qty >= 5:
		return StockInStock
	case qty > 0:
		return StockLowStock
	default:
		return StockOutOfStock
	}
}

// Page is the backend's pagination envelope.
type Page[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"pageNumber"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}
