package products

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// Service handles product master data.
type Service struct {
	repo Repository
}

// NewService builds the product service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all products for a company.
func (s *Service) List(ctx context.Context, companyID int64) ([]Product, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

// Create stores a new product under the company.
func (s *Service) Create(ctx context.Context, companyID int64, req CreateProductRequest) (Product, error) {
	selling, err := decimal.NewFromString(req.SellingPrice)
	if err != nil {
		return Product{}, fmt.Errorf("products: selling price %q: %w", req.SellingPrice, shared.ErrValidation)
	}
	cost := decimal.Zero
	if req.CostPrice != "" {
		if cost, err = decimal.NewFromString(req.CostPrice); err != nil {
			return Product{}, fmt.Errorf("products: cost price %q: %w", req.CostPrice, shared.ErrValidation)
		}
	}
	return s.repo.Create(ctx, Product{
		CompanyID:      companyID,
		Name:           req.Name,
		SKU:            req.SKU,
		Description:    req.Description,
		SellingPrice:   selling,
		CostPrice:      cost,
		QuantityOnHand: req.QuantityOnHand,
	})
}

// Delete removes a product, rejecting cross-company ids.
func (s *Service) Delete(ctx context.Context, companyID, id int64) error {
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if product.CompanyID != companyID {
		return fmt.Errorf("products: product %d: %w", id, shared.ErrCrossCompany)
	}
	return s.repo.Delete(ctx, id)
}
