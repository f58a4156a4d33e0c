package domain

import "time"

// Reservation statuses. Policy-change notifications fan out to tenants whose
// reservation is pending or confirmed; finished/cancelled stays quiet.
const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
	ReservationFinished  = "finished"
)

// Reservation record (reservations table)
type Reservation struct {
	ReservationID string    `db:"reservation_id"` // UUID, PRIMARY KEY
	PropertyID    string    `db:"property_id"`    // UUID, NOT NULL, FK to properties
	TenantID      string    `db:"tenant_id"`      // UUID, NOT NULL, FK to users
	Status        string    `db:"status"`         // pending | confirmed | cancelled | finished
	StartDate     time.Time `db:"start_date"`     // DATE
	EndDate       time.Time `db:"end_date"`       // DATE
	CreatedAt     time.Time `db:"created_at"`
}
