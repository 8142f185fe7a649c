package companies

import "context"

// Service handles company master data.
type Service struct {
	repo Repository
}

// NewService builds the company service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get loads one company.
func (s *Service) Get(ctx context.Context, id int64) (Company, error) {
	return s.repo.Get(ctx, id)
}

// List returns every company.
func (s *Service) List(ctx context.Context) ([]Company, error) {
	return s.repo.List(ctx)
}

// Create registers a new company with its reporting currency.
func (s *Service) Create(ctx context.Context, req CreateCompanyRequest) (Company, error) {
	return s.repo.Create(ctx, Company{Name: req.Name, Currency: req.Currency})
}

// UpdateCurrency changes the company's reporting currency. Existing
// transactions keep the currency they were recorded with.
func (s *Service) UpdateCurrency(ctx context.Context, id int64, currency string) (Company, error) {
	return s.repo.UpdateCurrency(ctx, id, currency)
}
