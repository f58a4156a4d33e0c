package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"roomfindr-data/internal/domain"
	"roomfindr-data/internal/notify"
	"roomfindr-data/internal/repository"
)

// PolicyChangeService immutable change log with notification fan-out.
//
// RecordChange persists the audit row synchronously and launches fan-out in a
// detached goroutine: the landlord's edit never waits on (or fails because
// of) the notification channel. At-most-one log row per edit is guaranteed by
// the caller invoking RecordChange exactly once per detected diff;
// at-least-once delivery is acceptable on the receiving side.
type PolicyChangeService interface {
	RecordChange(ctx context.Context, req RecordChangeRequest) (*RecordChangeResponse, error)
	ListForProperty(ctx context.Context, req ListChangesRequest) (*ListChangesResponse, error)
}

type policyChangeService struct {
	updates      repository.PolicyUpdatesRepository
	reservations repository.ReservationsRepository
	notifier     notify.Notifier
	logger       *zap.Logger
}

func NewPolicyChangeService(
	updates repository.PolicyUpdatesRepository,
	reservations repository.ReservationsRepository,
	notifier notify.Notifier,
	logger *zap.Logger,
) PolicyChangeService {
	return &policyChangeService{
		updates:      updates,
		reservations: reservations,
		notifier:     notifier,
		logger:       logger,
	}
}

type RecordChangeRequest struct {
	PropertyID string // required
	TemplateID string // required
	OldValue   string
	NewValue   string
	UpdatedBy  string // required, user id of the editor
}

type RecordChangeResponse struct {
	UpdateID string `json:"update_id"`
}

type ListChangesRequest struct {
	PropertyID string // required
}

type ListChangesResponse struct {
	Items []*domain.PolicyUpdate `json:"items"`
}

func (s *policyChangeService) RecordChange(ctx context.Context, req RecordChangeRequest) (*RecordChangeResponse, error) {
	if req.PropertyID == "" || req.TemplateID == "" {
		return nil, fmt.Errorf("property_id and template_id are required: %w", domain.ErrValidation)
	}
	if req.UpdatedBy == "" {
		return nil, fmt.Errorf("updated_by is required: %w", domain.ErrValidation)
	}

	update := &domain.PolicyUpdate{
		PropertyID: req.PropertyID,
		TemplateID: req.TemplateID,
		OldValue:   req.OldValue,
		NewValue:   req.NewValue,
		UpdatedBy:  req.UpdatedBy,
	}
	id, err := s.updates.CreateUpdate(ctx, update)
	if err != nil {
		return nil, err
	}

	// Detached fan-out: not awaited by the mutation path, no cancellation
	// tied to the request context.
	go s.fanOut(context.Background(), id, req)

	return &RecordChangeResponse{UpdateID: id}, nil
}

// fanOut notifies every tenant with a pending or confirmed reservation on
// the property, once each, then flips notification_sent. Failures are
// logged and swallowed; they never reach the mutation caller.
func (s *policyChangeService) fanOut(ctx context.Context, updateID string, req RecordChangeRequest) {
	reservations, err := s.reservations.ListForProperty(ctx, req.PropertyID,
		[]string{domain.ReservationConfirmed, domain.ReservationPending})
	if err != nil {
		s.logger.Error("policy change fan-out: failed to list reservations",
			zap.String("update_id", updateID),
			zap.String("property_id", req.PropertyID),
			zap.Error(err),
		)
		return
	}

	seen := map[string]bool{}
	for _, r := range reservations {
		if seen[r.TenantID] {
			continue
		}
		seen[r.TenantID] = true

		err := s.notifier.Notify(ctx, notify.Notification{
			RecipientID: r.TenantID,
			Kind:        notify.KindAnnouncement,
			Title:       "Rental policy updated",
			Body:        "A policy has been updated for your rental property. Please review the current house rules.",
			Metadata: map[string]any{
				"update_id":   updateID,
				"property_id": req.PropertyID,
				"template_id": req.TemplateID,
				"old_value":   req.OldValue,
				"new_value":   req.NewValue,
			},
		})
		if err != nil {
			s.logger.Warn("policy change fan-out: notify failed",
				zap.String("update_id", updateID),
				zap.String("tenant_id", r.TenantID),
				zap.Error(err),
			)
		}
	}

	if err := s.updates.MarkNotified(ctx, updateID); err != nil {
		s.logger.Error("policy change fan-out: failed to mark notified",
			zap.String("update_id", updateID),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("policy change fan-out complete",
		zap.String("update_id", updateID),
		zap.String("property_id", req.PropertyID),
		zap.Int("recipients", len(seen)),
	)
}

func (s *policyChangeService) ListForProperty(ctx context.Context, req ListChangesRequest) (*ListChangesResponse, error) {
	if req.PropertyID == "" {
		return nil, fmt.Errorf("property_id is required: %w", domain.ErrValidation)
	}
	items, err := s.updates.ListForProperty(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.PolicyUpdate{}
	}
	return &ListChangesResponse{Items: items}, nil
}
