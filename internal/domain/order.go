package domain

const (
	OrderPending    = "PENDING"
	OrderConfirmed  = "CONFIRMED"
	OrderProcessing = "PROCESSING"
	OrderShipped    = "SHIPPED"
	OrderDelivered  = "DELIVERED"
	OrderCancelled  = "CANCELLED"
)

const PaymentCashOnDelivery = "CASH_ON_DELIVERY"

type OrderItem struct {
	ID           int64   `json:"id"`
	ProductID    int64   `json:"productId"`
	ProductName  string  `json:"productName"`
	ProductSlug  string  `json:"productSlug"`
	ProductImage string  `json:"productImage,omitempty"`
	SizeID       int64   `json:"sizeId"`
	SizeName     string  `json:"sizeName"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	Total        float64 `json:"total"`
}

// Order is an immutable snapshot taken at placement time; only Status
// (and the payment/delivery fields it drives) moves afterwards.
type Order struct {
	ID                int64       `json:"id"`
	OrderNumber       string      `json:"orderNumber"`
	UserID            int64       `json:"userId"`
	AddressID         int64       `json:"addressId"`
	Status            string      `json:"status"`
	PaymentMethod     string      `json:"paymentMethod"`
	PaymentStatus     string      `json:"paymentStatus"`
	Items             []OrderItem `json:"items"`
	TotalItems        int         `json:"totalItems"`
	Subtotal          float64     `json:"subtotal"`
	Shipping          float64     `json:"shipping"`
	Tax               float64     `json:"tax"`
	Total             float64     `json:"total"`
	Notes             string      `json:"notes,omitempty"`
	EstimatedDelivery string      `json:"estimatedDelivery,omitempty"`
	DeliveredAt       string      `json:"deliveredAt,omitempty"`
	CreatedAt         string      `json:"createdAt"`
	UpdatedAt         string      `json:"updatedAt"`
}

// CanCancel reports whether the customer may still cancel the order.
// Only PENDING orders are cancellable from the client.
func (o Order) CanCancel() bool {
	return o.Status == OrderPending
}
