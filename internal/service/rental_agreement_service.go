package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"roomfindr-data/internal/domain"
	"roomfindr-data/internal/repository"
)

// RentalAgreementService freezes a property's active policy set into an
// immutable agreement at reservation time and runs the acceptance workflow.
//
// Per agreement: absent -> snapshotted (pending acceptance) -> accepted.
// Accepted is terminal; nothing ever transitions back to absent.
type RentalAgreementService interface {
	// Build is idempotent and safe to retry: the first call snapshots, every
	// later call (including concurrent ones) returns the stored agreement.
	Build(ctx context.Context, req BuildAgreementRequest) (*AgreementResponse, error)

	// Accept records acceptance by the tenant named on the agreement.
	// A second accept by the same tenant is a no-op success that keeps the
	// original timestamp.
	Accept(ctx context.Context, req AcceptAgreementRequest) (*AgreementResponse, error)

	// GetForReservation returns the agreement, or a nil Agreement (not an
	// error) when none has been built yet.
	GetForReservation(ctx context.Context, req GetAgreementRequest) (*AgreementResponse, error)
}

type rentalAgreementService struct {
	agreements   repository.RentalAgreementsRepository
	reservations repository.ReservationsRepository
	properties   repository.PropertiesRepository
	bindings     repository.PropertyPoliciesRepository
	logger       *zap.Logger
}

func NewRentalAgreementService(
	agreements repository.RentalAgreementsRepository,
	reservations repository.ReservationsRepository,
	properties repository.PropertiesRepository,
	bindings repository.PropertyPoliciesRepository,
	logger *zap.Logger,
) RentalAgreementService {
	return &rentalAgreementService{
		agreements:   agreements,
		reservations: reservations,
		properties:   properties,
		bindings:     bindings,
		logger:       logger,
	}
}

type BuildAgreementRequest struct {
	ReservationID string // required
}

type AcceptAgreementRequest struct {
	Actor       domain.Actor
	AgreementID string // required
}

type GetAgreementRequest struct {
	ReservationID string // required
}

type AgreementResponse struct {
	Agreement *domain.RentalAgreement `json:"agreement"`
}

func (s *rentalAgreementService) Build(ctx context.Context, req BuildAgreementRequest) (*AgreementResponse, error) {
	if req.ReservationID == "" {
		return nil, fmt.Errorf("reservation_id is required: %w", domain.ErrValidation)
	}

	reservation, err := s.reservations.GetReservation(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}

	// Fast path: already built.
	if existing, err := s.agreements.GetByReservation(ctx, req.ReservationID); err == nil {
		return &AgreementResponse{Agreement: existing}, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	property, err := s.properties.GetProperty(ctx, reservation.PropertyID)
	if err != nil {
		return nil, err
	}

	rows, err := s.bindings.ListForProperty(ctx, reservation.PropertyID, true)
	if err != nil {
		return nil, err
	}

	// Value copy: nothing in the snapshot references the live binding or
	// template rows. Zero active bindings is a valid (empty) snapshot.
	policies := make([]domain.AgreementPolicy, 0, len(rows))
	for _, row := range rows {
		policies = append(policies, domain.AgreementPolicy{
			TemplateID:      row.Template.TemplateID,
			Title:           row.Template.Title,
			Description:     row.Template.Description,
			Category:        row.Template.Category,
			Value:           row.Binding.EffectiveValue(row.Template.DefaultValue),
			TemplateVersion: row.Template.Version,
			IsRequired:      row.Template.IsSystemTemplate,
		})
	}

	agreement := &domain.RentalAgreement{
		ReservationID: req.ReservationID,
		PropertyID:    reservation.PropertyID,
		TenantID:      reservation.TenantID,
		LandlordID:    property.LandlordID,
		Policies:      policies,
	}

	id, err := s.agreements.CreateAgreement(ctx, agreement)
	if err != nil {
		// Lost the check-then-insert race: another builder got there first.
		// The unique constraint on reservation_id makes this equivalent to
		// "already exists"; return the winner's row.
		if errors.Is(err, domain.ErrConflict) {
			existing, getErr := s.agreements.GetByReservation(ctx, req.ReservationID)
			if getErr != nil {
				return nil, getErr
			}
			return &AgreementResponse{Agreement: existing}, nil
		}
		return nil, err
	}

	s.logger.Info("rental agreement snapshotted",
		zap.String("agreement_id", id),
		zap.String("reservation_id", req.ReservationID),
		zap.String("property_id", reservation.PropertyID),
		zap.Int("policies", len(policies)),
	)

	built, err := s.agreements.GetAgreement(ctx, id)
	if err != nil {
		return nil, err
	}
	return &AgreementResponse{Agreement: built}, nil
}

func (s *rentalAgreementService) Accept(ctx context.Context, req AcceptAgreementRequest) (*AgreementResponse, error) {
	if req.AgreementID == "" {
		return nil, fmt.Errorf("agreement_id is required: %w", domain.ErrValidation)
	}

	agreement, err := s.agreements.GetAgreement(ctx, req.AgreementID)
	if err != nil {
		return nil, err
	}
	if agreement.TenantID != req.Actor.UserID {
		return nil, fmt.Errorf("agreement %s belongs to another tenant: %w", req.AgreementID, domain.ErrNotAuthorized)
	}

	if agreement.TermsAccepted {
		return &AgreementResponse{Agreement: agreement}, nil
	}

	applied, err := s.agreements.MarkAccepted(ctx, req.AgreementID, req.Actor.UserID, time.Now())
	if err != nil {
		return nil, err
	}
	if applied {
		s.logger.Info("rental agreement accepted",
			zap.String("agreement_id", req.AgreementID),
			zap.String("tenant_id", req.Actor.UserID),
		)
	}
	// Re-read either way: on a lost race the first caller's timestamp stands.
	accepted, err := s.agreements.GetAgreement(ctx, req.AgreementID)
	if err != nil {
		return nil, err
	}
	return &AgreementResponse{Agreement: accepted}, nil
}

func (s *rentalAgreementService) GetForReservation(ctx context.Context, req GetAgreementRequest) (*AgreementResponse, error) {
	if req.ReservationID == "" {
		return nil, fmt.Errorf("reservation_id is required: %w", domain.ErrValidation)
	}

	agreement, err := s.agreements.GetByReservation(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &AgreementResponse{Agreement: nil}, nil
		}
		return nil, err
	}
	return &AgreementResponse{Agreement: agreement}, nil
}
