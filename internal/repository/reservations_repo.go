package repository

import (
	"context"

	"roomfindr-data/internal/domain"
)

// ReservationsRepository data access for reservations. The policy core only
// needs lookup, creation and the per-property status scan used by
// notification fan-out.
type ReservationsRepository interface {
	// GetReservation fetches one reservation by id (domain.ErrNotFound when absent).
	GetReservation(ctx context.Context, reservationID string) (*domain.Reservation, error)

	// CreateReservation inserts a reservation and returns its id.
	CreateReservation(ctx context.Context, r *domain.Reservation) (string, error)

	// ListForProperty returns reservations for a property whose status is in
	// statuses (all statuses when empty), newest first.
	ListForProperty(ctx context.Context, propertyID string, statuses []string) ([]*domain.Reservation, error)
}

// PropertiesRepository data access for property listings; the policy core
// uses it for ownership traversal (binding -> property -> landlord_id).
type PropertiesRepository interface {
	// GetProperty fetches one property by id (domain.ErrNotFound when absent).
	GetProperty(ctx context.Context, propertyID string) (*domain.Property, error)

	// CreateProperty inserts a property and returns its id.
	CreateProperty(ctx context.Context, p *domain.Property) (string, error)

	// ListByLandlord returns a landlord's properties, newest first.
	ListByLandlord(ctx context.Context, landlordID string) ([]*domain.Property, error)
}

// UsersRepository data access for user accounts (login + actor resolution).
type UsersRepository interface {
	// GetUser fetches one user by id (domain.ErrNotFound when absent).
	GetUser(ctx context.Context, userID string) (*domain.User, error)

	// GetByAccountHash fetches a user by the sha256 account hash
	// (domain.ErrNotFound when absent).
	GetByAccountHash(ctx context.Context, accountHash string) (*domain.User, error)

	// CreateUser inserts a user and returns its id.
	CreateUser(ctx context.Context, u *domain.User) (string, error)
}
