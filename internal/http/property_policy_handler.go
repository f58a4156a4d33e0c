package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"roomfindr-data/internal/service"
)

// PropertyPolicyHandler /admin/api/v1/property-policies endpoints.
type PropertyPolicyHandler struct {
	policies service.PropertyPolicyService
	identity *IdentityContext
	logger   *zap.Logger
}

func NewPropertyPolicyHandler(policies service.PropertyPolicyService, identity *IdentityContext, logger *zap.Logger) *PropertyPolicyHandler {
	return &PropertyPolicyHandler{policies: policies, identity: identity, logger: logger}
}

type bindPayload struct {
	PropertyID  string `json:"property_id"`
	TemplateID  string `json:"template_id"`
	CustomValue string `json:"custom_value"`
	IsActive    *bool  `json:"is_active"`
}

type rebindPayload struct {
	CustomValue *string `json:"custom_value"`
	IsActive    *bool   `json:"is_active"`
}

// Bind POST /admin/api/v1/property-policies
func (h *PropertyPolicyHandler) Bind(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.identity)
	if !ok {
		return
	}

	var payload bindPayload
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	req := service.BindRequest{
		Actor:       actor,
		PropertyID:  payload.PropertyID,
		TemplateID:  payload.TemplateID,
		CustomValue: payload.CustomValue,
		IsActive:    true,
	}
	if payload.IsActive != nil {
		req.IsActive = *payload.IsActive
	}

	resp, err := h.policies.Bind(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

// Rebind PUT /admin/api/v1/property-policies/{id}
func (h *PropertyPolicyHandler) Rebind(w http.ResponseWriter, r *http.Request, bindingID string) {
	actor, ok := requireActor(w, r, h.identity)
	if !ok {
		return
	}

	var payload rebindPayload
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	err := h.policies.Rebind(r.Context(), service.RebindRequest{
		Actor:       actor,
		BindingID:   bindingID,
		CustomValue: payload.CustomValue,
		IsActive:    payload.IsActive,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

// Unbind DELETE /admin/api/v1/property-policies/{id}
func (h *PropertyPolicyHandler) Unbind(w http.ResponseWriter, r *http.Request, bindingID string) {
	actor, ok := requireActor(w, r, h.identity)
	if !ok {
		return
	}

	err := h.policies.Unbind(r.Context(), service.UnbindRequest{
		Actor:     actor,
		BindingID: bindingID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

// ListForProperty GET /admin/api/v1/property-policies/for-property?property_id=
// No auth: prospective tenants read the resolved policy set before reserving.
func (h *PropertyPolicyHandler) ListForProperty(w http.ResponseWriter, r *http.Request) {
	resp, err := h.policies.ListForProperty(r.Context(), service.ListPropertyPoliciesRequest{
		PropertyID: r.URL.Query().Get("property_id"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}
