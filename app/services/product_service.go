package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/models"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/repositories"
)

type ProductInput struct {
	Name     string
	Brand    string
	Category string
	Unit     string
	Barcode  string
	Image    string
	IsActive *bool
}

type ProductService struct {
	products repositories.ProductRepositoryImpl
	log      *logger.Logger
}

func NewProductService(products repositories.ProductRepositoryImpl, log *logger.Logger) *ProductService {
	return &ProductService{
		products: products,
		log:      log.With("service", "ProductService"),
	}
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := s.validate(ctx, "", in); err != nil {
		return nil, err
	}
	product := &models.Product{IsActive: true}
	applyProductInput(product, in)

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.log.Info("product created", "productId", product.ID, "name", product.Name)
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	if err := s.validate(ctx, id, in); err != nil {
		return nil, err
	}
	applyProductInput(product, in)

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	return product, nil
}

// List returns active products, filtered by name or brand when query is set.
func (s *ProductService) List(ctx context.Context, query string, page, limit int) ([]models.Product, int64, error) {
	limit, offset := paginate(page, limit)
	if query = strings.TrimSpace(query); query != "" {
		return s.products.SearchProductsPaginated(ctx, query, limit, offset)
	}
	return s.products.GetPaginated(ctx, limit, offset)
}

func (s *ProductService) validate(ctx context.Context, selfID string, in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if barcode := strings.TrimSpace(in.Barcode); barcode != "" {
		existing, err := s.products.GetByBarcode(ctx, barcode)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return fmt.Errorf("%w: barcode %s is already registered", ErrValidation, barcode)
		}
	}
	return nil
}

func applyProductInput(product *models.Product, in ProductInput) {
	product.Name = strings.TrimSpace(in.Name)
	product.Brand = strings.TrimSpace(in.Brand)
	product.Category = strings.TrimSpace(in.Category)
	product.Unit = in.Unit
	product.Image = in.Image
	product.Barcode = nil
	if barcode := strings.TrimSpace(in.Barcode); barcode != "" {
		product.Barcode = &barcode
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
}
