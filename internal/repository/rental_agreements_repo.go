package repository

import (
	"context"
	"time"

	"roomfindr-data/internal/domain"
)

// RentalAgreementsRepository data access for frozen agreement snapshots.
type RentalAgreementsRepository interface {
	// GetAgreement fetches one agreement by id (domain.ErrNotFound when absent).
	GetAgreement(ctx context.Context, agreementID string) (*domain.RentalAgreement, error)

	// GetByReservation fetches the agreement for a reservation
	// (domain.ErrNotFound when none has been built yet).
	GetByReservation(ctx context.Context, reservationID string) (*domain.RentalAgreement, error)

	// CreateAgreement inserts a snapshot and returns its id. A duplicate
	// reservation_id surfaces as domain.ErrConflict so concurrent builders
	// can fall back to the existing row.
	CreateAgreement(ctx context.Context, a *domain.RentalAgreement) (string, error)

	// MarkAccepted records acceptance iff the agreement is still unaccepted.
	// Returns false (and no error) when the row was already accepted, so a
	// racing second accept never overwrites the first timestamp.
	MarkAccepted(ctx context.Context, agreementID, acceptedBy string, acceptedAt time.Time) (bool, error)
}
