package domain

import "time"

// Property listing record (properties table).
// Only the fields the policy/agreement core needs; search, media and pricing
// live in their own services.
type Property struct {
	PropertyID string    `db:"property_id"` // UUID, PRIMARY KEY
	LandlordID string    `db:"landlord_id"` // UUID, NOT NULL, FK to users
	Title      string    `db:"title"`       // VARCHAR(200), NOT NULL
	Address    string    `db:"address"`     // nullable in DB, '' when absent
	Status     string    `db:"status"`      // listed | unlisted
	CreatedAt  time.Time `db:"created_at"`
}
