package templates

import (
	"context"
	"fmt"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// Service handles posting template master data.
type Service struct {
	repo Repository
}

// NewService builds the template service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all templates for a company.
func (s *Service) List(ctx context.Context, companyID int64) ([]Template, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

// Create stores a template with its suggested lines. Every referenced
// account must belong to the company.
func (s *Service) Create(ctx context.Context, companyID int64, req CreateTemplateRequest) (Template, error) {
	template := Template{
		CompanyID:   companyID,
		Name:        req.Name,
		Description: req.Description,
	}
	for _, e := range req.Entries {
		template.Entries = append(template.Entries, TemplateEntry{
			AccountID: e.AccountID,
			Direction: e.Direction,
			Hint:      e.Hint,
		})
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		for _, e := range template.Entries {
			owner, err := s.repo.AccountCompany(ctx, e.AccountID)
			if err != nil {
				return fmt.Errorf("templates: account %d: %w", e.AccountID, err)
			}
			if owner != companyID {
				return fmt.Errorf("templates: account %d: %w", e.AccountID, shared.ErrCrossCompany)
			}
		}
		created, err := s.repo.Insert(ctx, template)
		if err != nil {
			return err
		}
		template = created
		return nil
	})
	if err != nil {
		return Template{}, err
	}
	return template, nil
}

// Delete removes a template, rejecting cross-company ids.
func (s *Service) Delete(ctx context.Context, companyID, id int64) error {
	template, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if template.CompanyID != companyID {
		return fmt.Errorf("templates: template %d: %w", id, shared.ErrCrossCompany)
	}
	return s.repo.Delete(ctx, id)
}
