package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/urbancoll/artisanhub-backend/internal/apperror"
)

// Service defines catalog business logic.
type Service interface {
	CreateProduct(ctx context.Context, ownerID string, req UpsertProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, category string) ([]*Product, error)
	UpdateProduct(ctx context.Context, ownerID, id string, req UpsertProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, ownerID, id string) error
}

type service struct {
	repo  Repository
	cache Cache // nil when Redis is not configured
}

// NewService creates a new catalog service. cache may be nil.
func NewService(repo Repository, cache Cache) Service {
	return &service{repo: repo, cache: cache}
}

func (s *service) CreateProduct(ctx context.Context, ownerID string, req UpsertProductRequest) (*Product, error) {
	if req.Name == "" || req.Price == nil {
		return nil, apperror.New(apperror.KindValidation, "name and price are required")
	}
	if *req.Price < 0 {
		return nil, apperror.New(apperror.KindValidation, "price must not be negative")
	}
	if req.Stock != nil && *req.Stock < 0 {
		return nil, apperror.New(apperror.KindValidation, "stock must not be negative")
	}

	vendorID, err := s.ownVendorID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	p := &Product{
		ID:       uuid.New(),
		VendorID: vendorID,
		Name:     req.Name,
		Price:    *req.Price,
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindNotFound, "product not found", err)
	}
	return p, nil
}

func (s *service) ListProducts(ctx context.Context, category string) ([]*Product, error) {
	// only the unfiltered listing is cached
	if category == "" && s.cache != nil {
		if products, ok := s.cache.GetList(ctx); ok {
			return products, nil
		}
	}
	products, err := s.repo.List(ctx, category)
	if err != nil {
		return nil, err
	}
	if category == "" && s.cache != nil {
		s.cache.SetList(ctx, products)
	}
	return products, nil
}

func (s *service) UpdateProduct(ctx context.Context, ownerID, id string, req UpsertProductRequest) (*Product, error) {
	p, err := s.ownedProduct(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	// patch semantics: omitted fields keep their stored values
	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, apperror.New(apperror.KindValidation, "price must not be negative")
		}
		p.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, apperror.New(apperror.KindValidation, "stock must not be negative")
		}
		p.Stock = *req.Stock
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Category != nil {
		p.Category = *req.Category
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, ownerID, id string) error {
	if _, err := s.ownedProduct(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) ownVendorID(ctx context.Context, ownerID string) (uuid.UUID, error) {
	raw, err := s.repo.VendorIDByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, apperror.New(apperror.KindValidation, "a vendor profile is required to manage products")
		}
		return uuid.Nil, err
	}
	return uuid.Parse(raw)
}

func (s *service) ownedProduct(ctx context.Context, ownerID, id string) (*Product, error) {
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	vendorID, err := s.ownVendorID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if p.VendorID != vendorID {
		return nil, apperror.New(apperror.KindNotFound, "product not found")
	}
	return p, nil
}

func (s *service) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
