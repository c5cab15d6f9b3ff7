package services

import (
	"context"
	"fmt"

	"freshthreads/internal/api"
	"freshthreads/internal/domain"
)

type OrderItemRequest struct {
	ProductID     int64   `json:"productId"`
	ProductSizeID int64   `json:"productSizeId"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
}

type PlaceOrderRequest struct {
	AddressID     int64              `json:"addressId"`
	PaymentMethod string             `json:"paymentMethod"`
	Items         []OrderItemRequest `json:"items"`
	Subtotal      float64            `json:"subtotal"`
	Shipping      float64            `json:"shipping"`
	Tax           float64            `json:"tax"`
	Total         float64            `json:"total"`
}

type OrderService struct {
	API *api.Client
}

func NewOrderService(c *api.Client) *OrderService {
	return &OrderService{API: c}
}

func (s *OrderService) MyOrders(ctx context.Context, creds api.Credentials, page, size int) (domain.Page[domain.Order], error) {
	var out domain.Page[domain.Order]
	path := fmt.Sprintf("/orders/my-orders?page=%d&size=%d", page, size)
	err := s.API.Get(ctx, creds, path, &out)
	return out, err
}

func (s *OrderService) Get(ctx context.Context, creds api.Credentials, orderID int64) (domain.Order, error) {
	var o domain.Order
	err := s.API.Get(ctx, creds, fmt.Sprintf("/orders/%d", orderID), &o)
	return o, err
}

func (s *OrderService) ByNumber(ctx context.Context, creds api.Credentials, orderNumber string) (domain.Order, error) {
	var o domain.Order
	err := s.API.Get(ctx, creds, "/orders/number/"+orderNumber, &o)
	return o, err
}

func (s *OrderService) Place(ctx context.Context, creds api.Credentials, req PlaceOrderRequest) (domain.Order, error) {
	var o domain.Order
	err := s.API.Post(ctx, creds, "/orders", req, &o)
	return o, err
}

func (s *OrderService) Cancel(ctx context.Context, creds api.Credentials, orderID int64) (domain.Order, error) {
	var o domain.Order
	err := s.API.Post(ctx, creds, fmt.Sprintf("/orders/%d/cancel", orderID), nil, &o)
	return o, err
}
