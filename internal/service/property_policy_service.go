package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"roomfindr-data/internal/domain"
	"roomfindr-data/internal/repository"
)

// PropertyPolicyService binds templates to properties, with per-binding
// overrides. Every effective-value change is routed through the change log
// before the binding row is persisted.
type PropertyPolicyService interface {
	Bind(ctx context.Context, req BindRequest) (*BindResponse, error)
	Rebind(ctx context.Context, req RebindRequest) error
	Unbind(ctx context.Context, req UnbindRequest) error
	ListForProperty(ctx context.Context, req ListPropertyPoliciesRequest) (*ListPropertyPoliciesResponse, error)
}

type propertyPolicyService struct {
	bindings   repository.PropertyPoliciesRepository
	templates  repository.PolicyTemplatesRepository
	properties repository.PropertiesRepository
	changes    PolicyChangeService
	logger     *zap.Logger
}

func NewPropertyPolicyService(
	bindings repository.PropertyPoliciesRepository,
	templates repository.PolicyTemplatesRepository,
	properties repository.PropertiesRepository,
	changes PolicyChangeService,
	logger *zap.Logger,
) PropertyPolicyService {
	return &propertyPolicyService{
		bindings:   bindings,
		templates:  templates,
		properties: properties,
		changes:    changes,
		logger:     logger,
	}
}

type BindRequest struct {
	Actor       domain.Actor
	PropertyID  string // required
	TemplateID  string // required
	CustomValue string // optional override
	IsActive    bool
}

type BindResponse struct {
	BindingID string `json:"binding_id"`
}

type RebindRequest struct {
	Actor       domain.Actor
	BindingID   string  // required
	CustomValue *string // nil = leave alone, "" = clear override
	IsActive    *bool   // nil = leave alone
}

type UnbindRequest struct {
	Actor     domain.Actor
	BindingID string // required
}

type ListPropertyPoliciesRequest struct {
	PropertyID string // required
}

// PropertyPolicyView one resolved policy entry for the public display.
type PropertyPolicyView struct {
	BindingID   string `json:"binding_id"`
	TemplateID  string `json:"template_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Value       string `json:"value"` // override if set, else template default
	HasOverride bool   `json:"has_override"`
}

type ListPropertyPoliciesResponse struct {
	Items []PropertyPolicyView `json:"items"`
}

// authorizeOwner property must exist and belong to the acting landlord.
func (s *propertyPolicyService) authorizeOwner(ctx context.Context, propertyID string, actor domain.Actor) (*domain.Property, error) {
	p, err := s.properties.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if p.LandlordID != actor.UserID {
		return nil, fmt.Errorf("property %s is owned by another landlord: %w", propertyID, domain.ErrNotAuthorized)
	}
	return p, nil
}

func (s *propertyPolicyService) Bind(ctx context.Context, req BindRequest) (*BindResponse, error) {
	if req.PropertyID == "" || req.TemplateID == "" {
		return nil, fmt.Errorf("property_id and template_id are required: %w", domain.ErrValidation)
	}
	if _, err := s.authorizeOwner(ctx, req.PropertyID, req.Actor); err != nil {
		return nil, err
	}
	if _, err := s.templates.GetTemplate(ctx, req.TemplateID); err != nil {
		return nil, err
	}

	binding := &domain.PropertyPolicy{
		PropertyID: req.PropertyID,
		TemplateID: req.TemplateID,
		IsActive:   req.IsActive,
	}
	if req.CustomValue != "" {
		v := req.CustomValue
		binding.CustomValue = &v
	}

	id, err := s.bindings.CreateBinding(ctx, binding)
	if err != nil {
		return nil, err
	}

	s.logger.Info("policy bound to property",
		zap.String("binding_id", id),
		zap.String("property_id", req.PropertyID),
		zap.String("template_id", req.TemplateID),
	)
	return &BindResponse{BindingID: id}, nil
}

// Rebind updates the override value and/or active flag. Ownership resolves
// transitively: binding -> property -> landlord. When the effective value
// changes, the diff is recorded against the pre-update value before the
// binding row is written.
func (s *propertyPolicyService) Rebind(ctx context.Context, req RebindRequest) error {
	if req.BindingID == "" {
		return fmt.Errorf("binding_id is required: %w", domain.ErrValidation)
	}

	binding, err := s.bindings.GetBinding(ctx, req.BindingID)
	if err != nil {
		return err
	}
	if _, err := s.authorizeOwner(ctx, binding.PropertyID, req.Actor); err != nil {
		return err
	}

	if req.CustomValue != nil {
		template, err := s.templates.GetTemplate(ctx, binding.TemplateID)
		if err != nil {
			return err
		}
		oldValue := binding.EffectiveValue(template.DefaultValue)
		newValue := *req.CustomValue
		if newValue == "" {
			newValue = template.DefaultValue
		}
		if newValue != oldValue {
			_, err := s.changes.RecordChange(ctx, RecordChangeRequest{
				PropertyID: binding.PropertyID,
				TemplateID: binding.TemplateID,
				OldValue:   oldValue,
				NewValue:   newValue,
				UpdatedBy:  req.Actor.UserID,
			})
			if err != nil {
				return fmt.Errorf("failed to record policy change: %w", err)
			}
		}
	}

	return s.bindings.UpdateBinding(ctx, req.BindingID, repository.BindingPatch{
		CustomValue: req.CustomValue,
		IsActive:    req.IsActive,
	}, binding.Version)
}

func (s *propertyPolicyService) Unbind(ctx context.Context, req UnbindRequest) error {
	if req.BindingID == "" {
		return fmt.Errorf("binding_id is required: %w", domain.ErrValidation)
	}

	binding, err := s.bindings.GetBinding(ctx, req.BindingID)
	if err != nil {
		return err
	}
	if _, err := s.authorizeOwner(ctx, binding.PropertyID, req.Actor); err != nil {
		return err
	}

	if err := s.bindings.DeleteBinding(ctx, req.BindingID); err != nil {
		return err
	}
	s.logger.Info("policy unbound from property",
		zap.String("binding_id", req.BindingID),
		zap.String("property_id", binding.PropertyID),
	)
	return nil
}

// ListForProperty publicly readable: prospective tenants see the resolved
// active policy set before reserving.
func (s *propertyPolicyService) ListForProperty(ctx context.Context, req ListPropertyPoliciesRequest) (*ListPropertyPoliciesResponse, error) {
	if req.PropertyID == "" {
		return nil, fmt.Errorf("property_id is required: %w", domain.ErrValidation)
	}

	rows, err := s.bindings.ListForProperty(ctx, req.PropertyID, true)
	if err != nil {
		return nil, err
	}

	items := make([]PropertyPolicyView, 0, len(rows))
	for _, row := range rows {
		items = append(items, PropertyPolicyView{
			BindingID:   row.Binding.BindingID,
			TemplateID:  row.Template.TemplateID,
			Title:       row.Template.Title,
			Description: row.Template.Description,
			Category:    row.Template.Category,
			Value:       row.Binding.EffectiveValue(row.Template.DefaultValue),
			HasOverride: row.Binding.CustomValue != nil && *row.Binding.CustomValue != "",
		})
	}
	return &ListPropertyPoliciesResponse{Items: items}, nil
}
