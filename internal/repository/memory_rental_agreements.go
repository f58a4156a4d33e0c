package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"roomfindr-data/internal/domain"
)

// MemoryRentalAgreementsRepo supports agreements when DB is disabled.
// Stores deep copies; the snapshot handed out never aliases live state.
type MemoryRentalAgreementsRepo struct {
	mu            sync.RWMutex
	agreements    map[string]domain.RentalAgreement // agreementID -> agreement
	byReservation map[string]string                 // reservationID -> agreementID
}

func NewMemoryRentalAgreementsRepo() *MemoryRentalAgreementsRepo {
	return &MemoryRentalAgreementsRepo{
		agreements:    map[string]domain.RentalAgreement{},
		byReservation: map[string]string{},
	}
}

var _ RentalAgreementsRepository = (*MemoryRentalAgreementsRepo)(nil)

func copyAgreement(a domain.RentalAgreement) domain.RentalAgreement {
	policies := make([]domain.AgreementPolicy, len(a.Policies))
	copy(policies, a.Policies)
	a.Policies = policies
	if a.AcceptedAt != nil {
		at := *a.AcceptedAt
		a.AcceptedAt = &at
	}
	if a.AcceptedBy != nil {
		by := *a.AcceptedBy
		a.AcceptedBy = &by
	}
	return a
}

func (r *MemoryRentalAgreementsRepo) GetAgreement(_ context.Context, agreementID string) (*domain.RentalAgreement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.agreements[agreementID]
	if !ok {
		return nil, fmt.Errorf("agreement %s: %w", agreementID, domain.ErrNotFound)
	}
	copied := copyAgreement(a)
	return &copied, nil
}

func (r *MemoryRentalAgreementsRepo) GetByReservation(_ context.Context, reservationID string) (*domain.RentalAgreement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byReservation[reservationID]
	if !ok {
		return nil, fmt.Errorf("agreement for reservation %s: %w", reservationID, domain.ErrNotFound)
	}
	copied := copyAgreement(r.agreements[id])
	return &copied, nil
}

func (r *MemoryRentalAgreementsRepo) CreateAgreement(_ context.Context, a *domain.RentalAgreement) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byReservation[a.ReservationID]; exists {
		return "", fmt.Errorf("agreement for reservation %s already exists: %w", a.ReservationID, domain.ErrConflict)
	}

	if a.AgreementID == "" {
		a.AgreementID = uuid.NewString()
	}
	stored := copyAgreement(*a)
	stored.TermsAccepted = false
	stored.AcceptedAt = nil
	stored.AcceptedBy = nil
	stored.CreatedAt = time.Now()
	r.agreements[stored.AgreementID] = stored
	r.byReservation[stored.ReservationID] = stored.AgreementID
	return stored.AgreementID, nil
}

func (r *MemoryRentalAgreementsRepo) MarkAccepted(_ context.Context, agreementID, acceptedBy string, acceptedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.agreements[agreementID]
	if !ok {
		return false, fmt.Errorf("agreement %s: %w", agreementID, domain.ErrNotFound)
	}
	if a.TermsAccepted {
		return false, nil
	}
	a.TermsAccepted = true
	a.AcceptedAt = &acceptedAt
	a.AcceptedBy = &acceptedBy
	r.agreements[agreementID] = a
	return true, nil
}
