package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"roomfindr-data/internal/domain"
	"roomfindr-data/internal/service"
)

// PolicyTemplateHandler /admin/api/v1/policy-templates endpoints.
type PolicyTemplateHandler struct {
	templates service.PolicyTemplateService
	identity  *IdentityContext
	logger    *zap.Logger
}

func NewPolicyTemplateHandler(templates service.PolicyTemplateService, identity *IdentityContext, logger *zap.Logger) *PolicyTemplateHandler {
	return &PolicyTemplateHandler{templates: templates, identity: identity, logger: logger}
}

type templatePayload struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Category     *string `json:"category"`
	DefaultValue *string `json:"default_value"`
}

// List GET /admin/api/v1/policy-templates
// Landlords see their private templates union the system set; an anonymous
// or tenant caller sees system templates only.
func (h *PolicyTemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	req := service.ListTemplatesRequest{
		Category: r.URL.Query().Get("category"),
	}
	if actor, err := h.identity.CurrentActor(r); err == nil && actor.Role == domain.RoleLandlord {
		req.LandlordID = actor.UserID
	}

	resp, err := h.templates.ListTemplates(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

// Create POST /admin/api/v1/policy-templates
func (h *PolicyTemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.identity)
	if !ok {
		return
	}

	var payload templatePayload
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	req := service.CreateTemplateRequest{Actor: actor}
	if payload.Title != nil {
		req.Title = *payload.Title
	}
	if payload.Description != nil {
		req.Description = *payload.Description
	}
	if payload.Category != nil {
		req.Category = *payload.Category
	}
	if payload.DefaultValue != nil {
		req.DefaultValue = *payload.DefaultValue
	}

	resp, err := h.templates.CreateTemplate(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

// Update PUT /admin/api/v1/policy-templates/{id}
func (h *PolicyTemplateHandler) Update(w http.ResponseWriter, r *http.Request, templateID string) {
	actor, ok := requireActor(w, r, h.identity)
	if !ok {
		return
	}

	var payload templatePayload
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	err := h.templates.UpdateTemplate(r.Context(), service.UpdateTemplateRequest{
		Actor:        actor,
		TemplateID:   templateID,
		Title:        payload.Title,
		Description:  payload.Description,
		Category:     payload.Category,
		DefaultValue: payload.DefaultValue,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

// Delete DELETE /admin/api/v1/policy-templates/{id}
func (h *PolicyTemplateHandler) Delete(w http.ResponseWriter, r *http.Request, templateID string) {
	actor, ok := requireActor(w, r, h.identity)
	if !ok {
		return
	}

	err := h.templates.DeleteTemplate(r.Context(), service.DeleteTemplateRequest{
		Actor:      actor,
		TemplateID: templateID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}
