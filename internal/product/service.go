package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/ai-commerce/internal/store"
)

var (
	ErrNotFound       = errors.New("product not found")
	ErrInvalidProduct = errors.New("invalid product")
)

type Service interface {
	ListProducts(ctx context.Context) []Product
	FilterByCategory(ctx context.Context, category string) []Product
	Search(ctx context.Context, query string) []Product
	GetProduct(ctx context.Context, id uint64) (*Product, error)
	CreateProduct(ctx context.Context, p *Product) (*Product, error)
	UpdateProduct(ctx context.Context, id uint64, p *Product) (*Product, error)
	DeleteProduct(ctx context.Context, id uint64) bool
}

type service struct {
	products *store.Store[Product]
}

// NewStore returns an empty product store.
func NewStore() *store.Store[Product] {
	return store.New(setID, store.WithClone(clone))
}

func NewService(products *store.Store[Product]) Service {
	return &service{products: products}
}

func (s *service) ListProducts(ctx context.Context) []Product {
	return s.products.List()
}

func (s *service) FilterByCategory(ctx context.Context, category string) []Product {
	return s.products.Filter(func(p Product) bool {
		return strings.EqualFold(p.Category, category)
	})
}

func (s *service) Search(ctx context.Context, query string) []Product {
	q := strings.ToLower(query)
	return s.products.Filter(func(p Product) bool {
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q)
	})
}

func (s *service) GetProduct(ctx context.Context, id uint64) (*Product, error) {
	p, ok := s.products.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *service) CreateProduct(ctx context.Context, p *Product) (*Product, error) {
	if err := validate(p); err != nil {
		log.Warn().Err(err).Str("name", p.Name).Msg("service: rejected product")
		return nil, err
	}
	candidate := *p
	syncImageURL(&candidate)

	created, outcome := s.products.Insert(candidate)
	if outcome != store.Applied {
		log.Error().Stringer("outcome", outcome).Str("name", p.Name).Msg("service: product store refused insert")
		return nil, fmt.Errorf("service: failed to create product: %s", outcome)
	}
	log.Info().Uint64("product_id", created.ID).Str("name", created.Name).Msg("service: product created")

	return &created, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uint64, p *Product) (*Product, error) {
	if err := validate(p); err != nil {
		log.Warn().Err(err).Uint64("product_id", id).Msg("service: rejected product update")
		return nil, err
	}
	candidate := *p
	syncImageURL(&candidate)

	updated, outcome := s.products.Replace(id, candidate)
	switch outcome {
	case store.Applied:
	case store.NotFound:
		log.Warn().Uint64("product_id", id).Msg("service: product not found for update")
		return nil, ErrNotFound
	default:
		log.Error().Stringer("outcome", outcome).Uint64("product_id", id).Msg("service: product store refused update")
		return nil, fmt.Errorf("service: failed to update product: %s", outcome)
	}

	return &updated, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uint64) bool {
	deleted := s.products.Delete(id)
	if deleted {
		log.Info().Uint64("product_id", id).Msg("service: product deleted")
	}
	return deleted
}

func validate(p *Product) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: price must be non-negative, got %s", ErrInvalidProduct, p.Price)
	case p.Stock < 0:
		return fmt.Errorf("%w: stock must be non-negative, got %d", ErrInvalidProduct, p.Stock)
	case p.Rating != nil && (*p.Rating < 0 || *p.Rating > 5):
		return fmt.Errorf("%w: rating must be between 0 and 5, got %v", ErrInvalidProduct, *p.Rating)
	}
	return nil
}

func syncImageURL(p *Product) {
	p.ImageURL = ""
	if len(p.Images) > 0 {
		p.ImageURL = p.Images[0]
	}
}
