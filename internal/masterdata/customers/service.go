package customers

import "context"

// Service handles customer master data.
type Service struct {
	repo Repository
}

// NewService builds the customer service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all customers for a company.
func (s *Service) List(ctx context.Context, companyID int64) ([]Customer, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

// Create stores a new customer under the company.
func (s *Service) Create(ctx context.Context, companyID int64, req CreateCustomerRequest) (Customer, error) {
	return s.repo.Create(ctx, Customer{
		CompanyID: companyID,
		Name:      req.Name,
		Email:     req.Email,
		Address:   req.Address,
		Phone:     req.Phone,
	})
}
