package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is sellable master data for one company.
type Product struct {
	ID             int64           `json:"id"`
	CompanyID      int64           `json:"companyId"`
	Name           string          `json:"name"`
	SKU            string          `json:"sku,omitempty"`
	Description    string          `json:"description,omitempty"`
	SellingPrice   decimal.Decimal `json:"sellingPrice"`
	CostPrice      decimal.Decimal `json:"costPrice"`
	QuantityOnHand int             `json:"quantityOnHand"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// CreateProductRequest is the boundary DTO for product creation.
type CreateProductRequest struct {
	Name           string `json:"name" validate:"required,max=200"`
	SKU            string `json:"sku,omitempty" validate:"omitempty,max=100"`
	Description    string `json:"description,omitempty" validate:"omitempty,max=1000"`
	SellingPrice   string `json:"sellingPrice" validate:"required"`
	CostPrice      string `json:"costPrice,omitempty"`
	QuantityOnHand int    `json:"quantityOnHand" validate:"gte=0"`
}
