package domain

import "time"

// PolicyUpdate immutable audit record of one override-value change
// (policy_updates table). Only notification_sent ever changes after insert,
// and only from FALSE to TRUE once fan-out finished.
//
// References the (property_id, template_id) pair rather than the binding row
// id: the binding keeps evolving after the change is logged.
type PolicyUpdate struct {
	UpdateID         string    `db:"update_id"`         // UUID, PRIMARY KEY
	PropertyID       string    `db:"property_id"`       // UUID, NOT NULL
	TemplateID       string    `db:"template_id"`       // UUID, NOT NULL
	OldValue         string    `db:"old_value"`         // TEXT, value before the change
	NewValue         string    `db:"new_value"`         // TEXT, value after the change
	UpdatedBy        string    `db:"updated_by"`        // UUID, user who made the change
	UpdatedAt        time.Time `db:"updated_at"`
	NotificationSent bool      `db:"notification_sent"` // BOOLEAN, NOT NULL, DEFAULT FALSE
}
