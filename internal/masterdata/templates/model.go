package templates

import "time"

// Template is a static account-pairing hint for manual postings. It has
// no enforced semantics; the ledger never reads it.
type Template struct {
	ID          int64           `json:"id"`
	CompanyID   int64           `json:"companyId"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Entries     []TemplateEntry `json:"entries"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// TemplateEntry suggests an account and direction for one line.
type TemplateEntry struct {
	ID         int64  `json:"id"`
	TemplateID int64  `json:"templateId"`
	AccountID  int64  `json:"accountId"`
	Direction  string `json:"direction"`
	Hint       string `json:"hint,omitempty"`
}

// CreateTemplateRequest is the boundary DTO for template creation.
type CreateTemplateRequest struct {
	Name        string                 `json:"name" validate:"required,max=200"`
	Description string                 `json:"description,omitempty" validate:"omitempty,max=500"`
	Entries     []TemplateEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

// TemplateEntryRequest is one suggested line as submitted over the wire.
type TemplateEntryRequest struct {
	AccountID int64  `json:"accountId" validate:"required,gt=0"`
	Direction string `json:"direction" validate:"required,oneof=DEBIT CREDIT"`
	Hint      string `json:"hint,omitempty" validate:"omitempty,max=200"`
}
