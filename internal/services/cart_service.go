package services

import (
	"context"
	"fmt"

	"freshthreads/internal/api"
	"freshthreads/internal/domain"
)

type AddToCartRequest struct {
	ProductID     int64 `json:"productId"`
	ProductSizeID int64 `json:"productSizeId"`
	Quantity      int   `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartService binds the cart endpoints. Every mutation returns the
// server's authoritative cart; callers replace local state with it
// wholesale.
type CartService struct {
	API *api.Client
}

func NewCartService(c *api.Client) *CartService {
	return &CartService{API: c}
}

func (s *CartService) Get(ctx context.Context, creds api.Credentials) (*domain.Cart, error) {
	var cart domain.Cart
	if err := s.API.Get(ctx, creds, "/cart", &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *CartService) Add(ctx context.Context, creds api.Credentials, req AddToCartRequest) (*domain.Cart, error) {
	var cart domain.Cart
	if err := s.API.Post(ctx, creds, "/cart", req, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *CartService) UpdateItem(ctx context.Context, creds api.Credentials, itemID int64, quantity int) (*domain.Cart, error) {
	var cart domain.Cart
	path := fmt.Sprintf("/cart/items/%d", itemID)
	if err := s.API.Put(ctx, creds, path, updateCartItemRequest{Quantity: quantity}, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, creds api.Credentials, itemID int64) (*domain.Cart, error) {
	var cart domain.Cart
	path := fmt.Sprintf("/cart/items/%d", itemID)
	if err := s.API.Delete(ctx, creds, path, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *CartService) Clear(ctx context.Context, creds api.Credentials) error {
	return s.API.Delete(ctx, creds, "/cart", nil)
}
