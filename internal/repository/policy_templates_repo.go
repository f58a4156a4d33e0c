package repository

import (
	"context"

	"roomfindr-data/internal/domain"
)

// PolicyTemplatesRepository data access for reusable policy definitions.
// Strongly typed domain models; no map[string]any across this boundary.
type PolicyTemplatesRepository interface {
	// GetTemplate fetches one template by id (domain.ErrNotFound when absent).
	GetTemplate(ctx context.Context, templateID string) (*domain.PolicyTemplate, error)

	// ListTemplates returns templates matching the filter, ordered by category
	// then title. With OwnerLandlordID set it returns that landlord's private
	// templates union all system templates; without it, system templates only.
	ListTemplates(ctx context.Context, filter TemplateFilters) ([]*domain.PolicyTemplate, error)

	// CreateTemplate inserts a new template and returns its id.
	CreateTemplate(ctx context.Context, t *domain.PolicyTemplate) (string, error)

	// UpdateTemplate applies the patch and bumps the content version.
	UpdateTemplate(ctx context.Context, templateID string, patch TemplatePatch) error

	// DeleteTemplate removes the template row (hard delete).
	DeleteTemplate(ctx context.Context, templateID string) error
}

// TemplateFilters template list filter
type TemplateFilters struct {
	OwnerLandlordID string // optional; include this landlord's private templates
	Category        string // optional; restrict to one category
}

// TemplatePatch partial template update; nil fields are left untouched.
type TemplatePatch struct {
	Title        *string
	Description  *string
	Category     *string
	DefaultValue *string
}
