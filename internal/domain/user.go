package domain

import "time"

// User roles. A user has exactly one role; landlords own properties and
// policy templates, tenants make reservations and accept agreements.
const (
	RoleTenant   = "tenant"
	RoleLandlord = "landlord"
	RoleAdmin    = "admin"
)

// User account record (users table)
type User struct {
	UserID       string    `db:"user_id"`       // UUID, PRIMARY KEY
	Nickname     string    `db:"nickname"`      // display name
	Email        string    `db:"email"`         // nullable in DB, '' when absent
	AccountHash  string    `db:"account_hash"`  // sha256(lower(account)), unique
	PasswordHash string    `db:"password_hash"` // sha256(lower(account) + ":" + password)
	Role         string    `db:"role"`          // tenant | landlord | admin
	Status       string    `db:"status"`        // active | suspended
	CreatedAt    time.Time `db:"created_at"`
}

// Actor is the acting principal resolved for the current request.
type Actor struct {
	UserID string
	Role   string
}
