package httpapi

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"roomfindr-data/internal/domain"
	"roomfindr-data/internal/repository"
	"roomfindr-data/internal/service"
)

// RentalHandler /rental/api/v1/... endpoints: property listings, reservations
// and the agreement snapshot/acceptance flow.
type RentalHandler struct {
	properties   repository.PropertiesRepository
	reservations repository.ReservationsRepository
	agreements   service.RentalAgreementService
	policies     service.PropertyPolicyService
	identity     *IdentityContext
	logger       *zap.Logger
}

func NewRentalHandler(
	properties repository.PropertiesRepository,
	reservations repository.ReservationsRepository,
	agreements service.RentalAgreementService,
	policies service.PropertyPolicyService,
	identity *IdentityContext,
	logger *zap.Logger,
) *RentalHandler {
	return &RentalHandler{
		properties:   properties,
		reservations: reservations,
		agreements:   agreements,
		policies:     policies,
		identity:     identity,
		logger:       logger,
	}
}

type propertyPayload struct {
	Title   string `json:"title"`
	Address string `json:"address"`
}

// CreateProperty POST /rental/api/v1/properties
func (h *RentalHandler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.identity)
	if !ok {
		return
	}
	if actor.Role != domain.RoleLandlord {
		writeJSON(w, http.StatusForbidden, Fail("only landlords can list properties"))
		return
	}

	var payload propertyPayload
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if payload.Title == "" {
		writeJSON(w, http.StatusBadRequest, Fail("title is required"))
		return
	}

	id, err := h.properties.CreateProperty(r.Context(), &domain.Property{
		LandlordID: actor.UserID,
		Title:      payload.Title,
		Address:    payload.Address,
		Status:     "listed",
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"property_id": id}))
}

// ListMyProperties GET /rental/api/v1/properties
func (h *RentalHandler) ListMyProperties(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.identity)
	if !ok {
		return
	}

	items, err := h.properties.ListByLandlord(r.Context(), actor.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if items == nil {
		items = []*domain.Property{}
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items}))
}

// PropertyPolicies GET /rental/api/v1/properties/{id}/policies
// Public: the resolved active policy set shown to prospective tenants.
func (h *RentalHandler) PropertyPolicies(w http.ResponseWriter, r *http.Request, propertyID string) {
	resp, err := h.policies.ListForProperty(r.Context(), service.ListPropertyPoliciesRequest{
		PropertyID: propertyID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

type reservationPayload struct {
	PropertyID string `json:"property_id"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD
	EndDate    string `json:"end_date"`   // YYYY-MM-DD
}

type reservationResult struct {
	ReservationID string                  `json:"reservation_id"`
	Agreement     *domain.RentalAgreement `json:"agreement"`
}

// CreateReservation POST /rental/api/v1/reservations
// Creating a reservation snapshots the property's active policy set into the
// rental agreement in the same request.
func (h *RentalHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.identity)
	if !ok {
		return
	}
	if actor.Role != domain.RoleTenant {
		writeJSON(w, http.StatusForbidden, Fail("only tenants can reserve"))
		return
	}

	var payload reservationPayload
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}
	if payload.PropertyID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("property_id is required"))
		return
	}
	startDate, err := time.Parse("2006-01-02", payload.StartDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("start_date must be YYYY-MM-DD"))
		return
	}
	endDate, err := time.Parse("2006-01-02", payload.EndDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("end_date must be YYYY-MM-DD"))
		return
	}
	if !endDate.After(startDate) {
		writeJSON(w, http.StatusBadRequest, Fail("end_date must be after start_date"))
		return
	}

	if _, err := h.properties.GetProperty(r.Context(), payload.PropertyID); err != nil {
		writeServiceError(w, err)
		return
	}

	id, err := h.reservations.CreateReservation(r.Context(), &domain.Reservation{
		PropertyID: payload.PropertyID,
		TenantID:   actor.UserID,
		Status:     domain.ReservationPending,
		StartDate:  startDate,
		EndDate:    endDate,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp, err := h.agreements.Build(r.Context(), service.BuildAgreementRequest{ReservationID: id})
	if err != nil {
		// The reservation row exists; surface the build failure so the client
		// can retry GET /agreements/for-reservation (Build is idempotent).
		h.logger.Error("agreement build failed after reservation create",
			zap.String("reservation_id", id),
			zap.Error(err),
		)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Ok(reservationResult{
		ReservationID: id,
		Agreement:     resp.Agreement,
	}))
}

// ListReservations GET /rental/api/v1/reservations?property_id=
// Landlord view of reservations on one of their properties.
func (h *RentalHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r, h.identity)
	if !ok {
		return
	}

	propertyID := r.URL.Query().Get("property_id")
	if propertyID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("property_id is required"))
		return
	}
	property, err := h.properties.GetProperty(r.Context(), propertyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if property.LandlordID != actor.UserID {
		writeJSON(w, http.StatusForbidden, Fail("property is owned by another landlord"))
		return
	}

	var statuses []string
	if s := r.URL.Query().Get("status"); s != "" {
		statuses = []string{s}
	}
	items, err := h.reservations.ListForProperty(r.Context(), propertyID, statuses)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if items == nil {
		items = []*domain.Reservation{}
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items}))
}

// AgreementForReservation GET /rental/api/v1/agreements/for-reservation?reservation_id=
func (h *RentalHandler) AgreementForReservation(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r, h.identity); !ok {
		return
	}

	resp, err := h.agreements.GetForReservation(r.Context(), service.GetAgreementRequest{
		ReservationID: r.URL.Query().Get("reservation_id"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

// AcceptAgreement POST /rental/api/v1/agreements/{id}/accept
func (h *RentalHandler) AcceptAgreement(w http.ResponseWriter, r *http.Request, agreementID string) {
	actor, ok := requireActor(w, r, h.identity)
	if !ok {
		return
	}

	resp, err := h.agreements.Accept(r.Context(), service.AcceptAgreementRequest{
		Actor:       actor,
		AgreementID: agreementID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}
