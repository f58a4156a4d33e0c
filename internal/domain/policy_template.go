package domain

import "time"

// Policy categories. "custom" is the catch-all for landlord-written rules.
const (
	CategoryPets         = "pets"
	CategorySmoking      = "smoking"
	CategoryGuests       = "guests"
	CategoryCleaning     = "cleaning"
	CategoryCancellation = "cancellation"
	CategoryCustom       = "custom"
)

// ValidCategory reports whether c is one of the known policy categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryPets, CategorySmoking, CategoryGuests, CategoryCleaning,
		CategoryCancellation, CategoryCustom:
		return true
	}
	return false
}

// PolicyTemplate reusable rule definition (policy_templates table).
// System templates are platform-seeded: never owned, never mutable or
// deletable by a landlord. A landlord's private templates are visible only
// to that landlord (plus the system set).
type PolicyTemplate struct {
	TemplateID       string    `db:"template_id"`        // UUID, PRIMARY KEY
	Title            string    `db:"title"`              // VARCHAR(200), NOT NULL
	Description      string    `db:"description"`        // nullable in DB, '' when absent
	Category         string    `db:"category"`           // pets|smoking|guests|cleaning|cancellation|custom
	DefaultValue     string    `db:"default_value"`      // TEXT, NOT NULL
	IsSystemTemplate bool      `db:"is_system_template"` // BOOLEAN, NOT NULL
	OwnerLandlordID  string    `db:"owner_landlord_id"`  // UUID, nullable; '' iff system template
	Version          int       `db:"version"`            // bumped on every content update
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}
