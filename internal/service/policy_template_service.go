package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"roomfindr-data/internal/domain"
	"roomfindr-data/internal/repository"
)

// PolicyTemplateService reusable policy definition catalog.
// System templates are platform-seeded and read-only for landlords; private
// templates are mutable by their owning landlord only.
type PolicyTemplateService interface {
	CreateTemplate(ctx context.Context, req CreateTemplateRequest) (*CreateTemplateResponse, error)
	UpdateTemplate(ctx context.Context, req UpdateTemplateRequest) error
	DeleteTemplate(ctx context.Context, req DeleteTemplateRequest) error
	ListTemplates(ctx context.Context, req ListTemplatesRequest) (*ListTemplatesResponse, error)
}

type policyTemplateService struct {
	templates repository.PolicyTemplatesRepository
	bindings  repository.PropertyPoliciesRepository
	logger    *zap.Logger
}

func NewPolicyTemplateService(
	templates repository.PolicyTemplatesRepository,
	bindings repository.PropertyPoliciesRepository,
	logger *zap.Logger,
) PolicyTemplateService {
	return &policyTemplateService{
		templates: templates,
		bindings:  bindings,
		logger:    logger,
	}
}

type CreateTemplateRequest struct {
	Actor        domain.Actor
	Title        string // required
	Description  string // optional
	Category     string // required, one of the known categories
	DefaultValue string // required
}

type CreateTemplateResponse struct {
	TemplateID string `json:"template_id"`
}

type UpdateTemplateRequest struct {
	Actor        domain.Actor
	TemplateID   string // required
	Title        *string
	Description  *string
	Category     *string
	DefaultValue *string
}

type DeleteTemplateRequest struct {
	Actor      domain.Actor
	TemplateID string // required
}

type ListTemplatesRequest struct {
	// LandlordID optional; when set the response is that landlord's private
	// templates union all system templates, otherwise system templates only.
	LandlordID string
	Category   string // optional
}

type ListTemplatesResponse struct {
	Items []*domain.PolicyTemplate `json:"items"`
}

func (s *policyTemplateService) CreateTemplate(ctx context.Context, req CreateTemplateRequest) (*CreateTemplateResponse, error) {
	if req.Actor.Role != domain.RoleLandlord {
		return nil, fmt.Errorf("only landlords create policy templates: %w", domain.ErrNotAuthorized)
	}
	if req.Title == "" {
		return nil, fmt.Errorf("title is required: %w", domain.ErrValidation)
	}
	if req.DefaultValue == "" {
		return nil, fmt.Errorf("default_value is required: %w", domain.ErrValidation)
	}
	if !domain.ValidCategory(req.Category) {
		return nil, fmt.Errorf("unknown category %q: %w", req.Category, domain.ErrValidation)
	}

	id, err := s.templates.CreateTemplate(ctx, &domain.PolicyTemplate{
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		DefaultValue:     req.DefaultValue,
		IsSystemTemplate: false,
		OwnerLandlordID:  req.Actor.UserID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("policy template created",
		zap.String("template_id", id),
		zap.String("landlord_id", req.Actor.UserID),
		zap.String("category", req.Category),
	)
	return &CreateTemplateResponse{TemplateID: id}, nil
}

// authorizeTemplateMutation owner-only; system templates are immutable
// through this service regardless of caller.
func (s *policyTemplateService) authorizeTemplateMutation(ctx context.Context, templateID string, actor domain.Actor) (*domain.PolicyTemplate, error) {
	t, err := s.templates.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if t.IsSystemTemplate {
		return nil, fmt.Errorf("system templates are read-only: %w", domain.ErrNotAuthorized)
	}
	if t.OwnerLandlordID != actor.UserID {
		return nil, fmt.Errorf("template %s is owned by another landlord: %w", templateID, domain.ErrNotAuthorized)
	}
	return t, nil
}

func (s *policyTemplateService) UpdateTemplate(ctx context.Context, req UpdateTemplateRequest) error {
	if _, err := s.authorizeTemplateMutation(ctx, req.TemplateID, req.Actor); err != nil {
		return err
	}
	if req.Category != nil && !domain.ValidCategory(*req.Category) {
		return fmt.Errorf("unknown category %q: %w", *req.Category, domain.ErrValidation)
	}

	return s.templates.UpdateTemplate(ctx, req.TemplateID, repository.TemplatePatch{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		DefaultValue: req.DefaultValue,
	})
}

func (s *policyTemplateService) DeleteTemplate(ctx context.Context, req DeleteTemplateRequest) error {
	if _, err := s.authorizeTemplateMutation(ctx, req.TemplateID, req.Actor); err != nil {
		return err
	}

	count, err := s.bindings.CountActiveForTemplate(ctx, req.TemplateID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("template %s has %d active bindings: %w", req.TemplateID, count, domain.ErrInvalidState)
	}

	if err := s.templates.DeleteTemplate(ctx, req.TemplateID); err != nil {
		return err
	}
	s.logger.Info("policy template deleted",
		zap.String("template_id", req.TemplateID),
		zap.String("landlord_id", req.Actor.UserID),
	)
	return nil
}

func (s *policyTemplateService) ListTemplates(ctx context.Context, req ListTemplatesRequest) (*ListTemplatesResponse, error) {
	items, err := s.templates.ListTemplates(ctx, repository.TemplateFilters{
		OwnerLandlordID: req.LandlordID,
		Category:        req.Category,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.PolicyTemplate{}
	}
	return &ListTemplatesResponse{Items: items}, nil
}
