package services

import (
	"context"
	"fmt"

	"freshthreads/internal/api"
	"freshthreads/internal/domain"
)

type ProductService struct {
	API *api.Client
}

func NewProductService(c *api.Client) *ProductService {
	return &ProductService{API: c}
}

// All fetches every product, unpaginated.
func (s *ProductService) All(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := s.API.Get(ctx, nil, "/products", &products); err != nil {
		return nil, err
	}
	return deriveInStock(products), nil
}

func (s *ProductService) List(ctx context.Context, page, size int) (domain.Page[domain.Product], error) {
	var out domain.Page[domain.Product]
	path := fmt.Sprintf("/products?page=%d&size=%d", page, size)
	if err := s.API.Get(ctx, nil, path, &out); err != nil {
		return out, err
	}
	out.Content = deriveInStock(out.Content)
	return out, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	if err := s.API.Get(ctx, nil, fmt.Sprintf("/products/%d", id), &p); err != nil {
		return p, err
	}
	p.InStock = p.Stock > 0
	return p, nil
}

// BySlug resolves a product by its slug. The backend has no slug
// endpoint; the full list is filtered client-side.
func (s *ProductService) BySlug(ctx context.Context, slug string) (*domain.Product, error) {
	products, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].Slug == slug {
			return &products[i], nil
		}
	}
	return nil, nil
}

func (s *ProductService) ByCategory(ctx context.Context, categoryID string, page, size int) (domain.Page[domain.Product], error) {
	var out domain.Page[domain.Product]
	path := fmt.Sprintf("/products/category/%s?page=%d&size=%d", categoryID, page, size)
	if err := s.API.Get(ctx, nil, path, &out); err != nil {
		return out, err
	}
	out.Content = deriveInStock(out.Content)
	return out, nil
}

func (s *ProductService) AllByCategory(ctx context.Context, categoryID string) ([]domain.Product, error) {
	var products []domain.Product
	if err := s.API.Get(ctx, nil, "/products/category/"+categoryID+"/all", &products); err != nil {
		return nil, err
	}
	return deriveInStock(products), nil
}

// Similar returns up to limit products from the same category, the
// product itself excluded.
func (s *ProductService) Similar(ctx context.Context, p domain.Product, limit int) ([]domain.Product, error) {
	all, err := s.AllByCategory(ctx, p.CategoryID)
	if err != nil {
		return nil, err
	}
	similar := make([]domain.Product, 0, limit)
	for _, other := range all {
		if other.Slug == p.Slug {
			continue
		}
		similar = append(similar, other)
		if len(similar) == limit {
			break
		}
	}
	return similar, nil
}

// deriveInStock marks products with a positive server-supplied aggregate
// stock. The aggregate is taken as-is; per-size stocks are not summed.
func deriveInStock(products []domain.Product) []domain.Product {
	for i := range products {
		products[i].InStock = products[i].Stock > 0
	}
	return products
}
