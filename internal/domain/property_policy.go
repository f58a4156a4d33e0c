package domain

import "time"

// PropertyPolicy binding of a template to one property (property_policies
// table). At most one active binding per (property_id, template_id); the DB
// enforces this with a partial unique index over is_active = TRUE.
//
// Version is an optimistic-concurrency counter: updates carry the version
// they read and lose with ErrConflict if another writer got there first.
type PropertyPolicy struct {
	BindingID   string    `db:"binding_id"`   // UUID, PRIMARY KEY
	PropertyID  string    `db:"property_id"`  // UUID, NOT NULL, FK to properties
	TemplateID  string    `db:"template_id"`  // UUID, NOT NULL, FK to policy_templates
	CustomValue *string   `db:"custom_value"` // TEXT, nullable; overrides the template default when set
	IsActive    bool      `db:"is_active"`    // BOOLEAN, NOT NULL
	Version     int       `db:"version"`      // INT, NOT NULL, DEFAULT 1
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// EffectiveValue resolves the value shown to tenants: the override when
// present, else the template default.
func (p *PropertyPolicy) EffectiveValue(templateDefault string) string {
	if p.CustomValue != nil && *p.CustomValue != "" {
		return *p.CustomValue
	}
	return templateDefault
}

// PropertyPolicyWithTemplate is the join row used for policy displays and
// agreement building.
type PropertyPolicyWithTemplate struct {
	Binding  PropertyPolicy
	Template PolicyTemplate
}
