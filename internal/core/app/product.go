package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/backoffice-api/internal/core/domain/entity"
	"github.com/jcmexdev/backoffice-api/internal/core/ports"
)

// NewProduct is the validated input for product creation.
type NewProduct struct {
	Description    string
	Price          decimal.Decimal
	Barcode        string
	Section        string
	Stock          int
	ExpirationDate *time.Time
	Images         []string
}

// UpdateProductInput carries the optional fields of a partial update.
// Stock edits here are direct back-office corrections; ordered stock moves
// only through the order lifecycle engine.
type UpdateProductInput struct {
	Description    *string
	Price          *decimal.Decimal
	Barcode        *string
	Section        *string
	Stock          *int
	ExpirationDate *time.Time
	Images         *[]string
}

type ListProductsInput struct {
	Page        int
	Limit       int
	Description string
	Barcode     string
	Section     string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Available   *bool
}

// ProductService owns product CRUD. Stock reservation lives on the order
// side; this service only validates and persists catalog data.
type ProductService struct {
	uow   ports.UnitOfWork
	pages Pagination
}

func NewProductService(uow ports.UnitOfWork, pages Pagination) *ProductService {
	return &ProductService{uow: uow, pages: pages}
}

func (s *ProductService) Create(ctx context.Context, createdBy string, in NewProduct) (*entity.Product, error) {
	product := &entity.Product{
		CreatedBy:      createdBy,
		Description:    in.Description,
		Price:          in.Price,
		Barcode:        in.Barcode,
		Section:        in.Section,
		Stock:          in.Stock,
		ExpirationDate: in.ExpirationDate,
		Images:         in.Images,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	err := s.uow.Run(ctx, func(ctx context.Context, repos ports.RepositorySet) error {
		return repos.Products().Insert(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	err := s.uow.Run(ctx, func(ctx context.Context, repos ports.RepositorySet) error {
		var err error
		out, err = repos.Products().Get(ctx, id)
		return err
	})
	return out, err
}

func (s *ProductService) List(ctx context.Context, in ListProductsInput) ([]*entity.Product, int, int, error) {
	page, limit, offset := s.pages.Clamp(in.Page, in.Limit)

	filter := ports.ProductFilter{
		Description: in.Description,
		Barcode:     in.Barcode,
		Section:     in.Section,
		MinPrice:    in.MinPrice,
		MaxPrice:    in.MaxPrice,
		Available:   in.Available,
		Offset:      offset,
		Limit:       limit,
	}

	var out []*entity.Product
	err := s.uow.Run(ctx, func(ctx context.Context, repos ports.RepositorySet) error {
		var err error
		out, err = repos.Products().List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, 0, err
	}
	return out, page, limit, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, in UpdateProductInput) (*entity.Product, error) {
	var updated *entity.Product
	err := s.uow.Run(ctx, func(ctx context.Context, repos ports.RepositorySet) error {
		product, err := repos.Products().Get(ctx, id)
		if err != nil {
			return err
		}

		if in.Description != nil {
			product.Description = *in.Description
		}
		if in.Price != nil {
			product.Price = *in.Price
		}
		if in.Barcode != nil {
			product.Barcode = *in.Barcode
		}
		if in.Section != nil {
			product.Section = *in.Section
		}
		if in.Stock != nil {
			product.Stock = *in.Stock
		}
		if in.ExpirationDate != nil {
			product.ExpirationDate = in.ExpirationDate
		}
		if in.Images != nil {
			product.Images = *in.Images
		}

		if err := product.Validate(); err != nil {
			return err
		}
		if err := repos.Products().Update(ctx, product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a product. Products referenced by order items are
// protected by the store's foreign key and surface as a Conflict.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.uow.Run(ctx, func(ctx context.Context, repos ports.RepositorySet) error {
		return repos.Products().Delete(ctx, id)
	})
}
