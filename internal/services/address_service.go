package services

import (
	"context"
	"fmt"

	"freshthreads/internal/api"
	"freshthreads/internal/domain"
)

type AddressRequest struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Street    string `json:"address"`
	City      string `json:"city"`
	IsDefault bool   `json:"isDefault"`
}

type AddressService struct {
	API *api.Client
}

func NewAddressService(c *api.Client) *AddressService {
	return &AddressService{API: c}
}

func (s *AddressService) List(ctx context.Context, creds api.Credentials) ([]domain.Address, error) {
	var addrs []domain.Address
	if err := s.API.Get(ctx, creds, "/addresses", &addrs); err != nil {
		return nil, err
	}
	return addrs, nil
}

func (s *AddressService) Create(ctx context.Context, creds api.Credentials, req AddressRequest) (domain.Address, error) {
	var a domain.Address
	err := s.API.Post(ctx, creds, "/addresses", req, &a)
	return a, err
}

func (s *AddressService) Update(ctx context.Context, creds api.Credentials, id int64, req AddressRequest) (domain.Address, error) {
	var a domain.Address
	err := s.API.Put(ctx, creds, fmt.Sprintf("/addresses/%d", id), req, &a)
	return a, err
}

func (s *AddressService) Delete(ctx context.Context, creds api.Credentials, id int64) error {
	return s.API.Delete(ctx, creds, fmt.Sprintf("/addresses/%d", id), nil)
}
