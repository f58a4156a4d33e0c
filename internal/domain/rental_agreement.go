package domain

import "time"

// AgreementPolicy one frozen policy entry inside a rental agreement.
// A value copy of the binding + template at snapshot time, stored in the
// agreement's JSONB policies column. Later edits to the live binding or
// template never reach rows already written.
type AgreementPolicy struct {
	TemplateID      string `json:"template_id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	Value           string `json:"value"`            // override if present at snapshot time, else template default
	TemplateVersion int    `json:"template_version"` // template content version used for the snapshot
	IsRequired      bool   `json:"is_required"`
}

// RentalAgreement frozen policy snapshot for one reservation
// (rental_agreements table). reservation_id has a unique index: at most one
// agreement per reservation, and a duplicate insert is how concurrent build
// calls detect each other.
//
// State machine: created with terms_accepted = FALSE (pending acceptance),
// accepted exactly once by the tenant named on it, never deleted.
type RentalAgreement struct {
	AgreementID   string            `db:"agreement_id"`   // UUID, PRIMARY KEY
	ReservationID string            `db:"reservation_id"` // UUID, NOT NULL, UNIQUE
	PropertyID    string            `db:"property_id"`    // UUID, NOT NULL
	TenantID      string            `db:"tenant_id"`      // UUID, NOT NULL
	LandlordID    string            `db:"landlord_id"`    // UUID, NOT NULL
	Policies      []AgreementPolicy `db:"policies"`       // JSONB, NOT NULL, immutable once written
	TermsAccepted bool              `db:"terms_accepted"` // BOOLEAN, NOT NULL, DEFAULT FALSE
	AcceptedAt    *time.Time        `db:"accepted_at"`    // nullable; set on first accept only
	AcceptedBy    *string           `db:"accepted_by"`    // nullable; always equals tenant_id when set
	CreatedAt     time.Time         `db:"created_at"`
}
