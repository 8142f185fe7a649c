package companies

import "time"

// Company is the tenancy root for every ledger entity.
type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateCompanyRequest is the boundary DTO for company creation.
type CreateCompanyRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Currency string `json:"currency" validate:"required,len=3"`
}

// UpdateCompanyRequest carries the mutable company fields.
type UpdateCompanyRequest struct {
	Currency string `json:"currency" validate:"required,len=3"`
}
