package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"roomfindr-data/internal/service"
)

// PolicyUpdateHandler /admin/api/v1/policy-updates endpoints (audit log).
type PolicyUpdateHandler struct {
	changes  service.PolicyChangeService
	identity *IdentityContext
	logger   *zap.Logger
}

func NewPolicyUpdateHandler(changes service.PolicyChangeService, identity *IdentityContext, logger *zap.Logger) *PolicyUpdateHandler {
	return &PolicyUpdateHandler{changes: changes, identity: identity, logger: logger}
}

// List GET /admin/api/v1/policy-updates?property_id=
func (h *PolicyUpdateHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r, h.identity); !ok {
		return
	}

	resp, err := h.changes.ListForProperty(r.Context(), service.ListChangesRequest{
		PropertyID: r.URL.Query().Get("property_id"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

// Export GET /admin/api/v1/policy-updates/export?property_id=
// Streams the change log as an xlsx attachment.
func (h *PolicyUpdateHandler) Export(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r, h.identity); !ok {
		return
	}

	resp, err := h.changes.ListForProperty(r.Context(), service.ListChangesRequest{
		PropertyID: r.URL.Query().Get("property_id"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	data, err := GeneratePolicyUpdatesExport(resp.Items)
	if err != nil {
		h.logger.Error("failed to generate policy updates export", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
		return
	}

	filename := fmt.Sprintf("policy-updates-%s.xlsx", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
