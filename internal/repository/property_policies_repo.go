package repository

import (
	"context"

	"roomfindr-data/internal/domain"
)

// PropertyPoliciesRepository data access for template-to-property bindings.
type PropertyPoliciesRepository interface {
	// GetBinding fetches one binding by id (domain.ErrNotFound when absent).
	GetBinding(ctx context.Context, bindingID string) (*domain.PropertyPolicy, error)

	// ListForProperty returns bindings for a property joined with their
	// template, ordered by creation time. activeOnly restricts to
	// is_active = TRUE (the public policy display and agreement snapshot
	// both use activeOnly=true).
	ListForProperty(ctx context.Context, propertyID string, activeOnly bool) ([]*domain.PropertyPolicyWithTemplate, error)

	// CreateBinding inserts a binding and returns its id. Returns
	// domain.ErrConflict when an active binding of the same template to the
	// same property already exists.
	CreateBinding(ctx context.Context, b *domain.PropertyPolicy) (string, error)

	// UpdateBinding applies the patch if the stored version still equals
	// expectedVersion, bumping the version; domain.ErrConflict on a lost race.
	UpdateBinding(ctx context.Context, bindingID string, patch BindingPatch, expectedVersion int) error

	// DeleteBinding removes the binding row (hard delete).
	DeleteBinding(ctx context.Context, bindingID string) error

	// CountActiveForTemplate counts active bindings referencing a template
	// (guards template deletion).
	CountActiveForTemplate(ctx context.Context, templateID string) (int, error)
}

// BindingPatch partial binding update; nil fields are left untouched.
// CustomValue distinguishes "leave alone" (nil) from "clear override"
// (pointer to empty string).
type BindingPatch struct {
	CustomValue *string
	IsActive    *bool
}
