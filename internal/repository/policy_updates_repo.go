package repository

import (
	"context"

	"roomfindr-data/internal/domain"
)

// PolicyUpdatesRepository data access for the immutable change log.
// There is deliberately no generic update method: rows never change after
// insert except the notification_sent flag.
type PolicyUpdatesRepository interface {
	// CreateUpdate inserts one change record and returns its id.
	CreateUpdate(ctx context.Context, u *domain.PolicyUpdate) (string, error)

	// MarkNotified flips notification_sent to TRUE after fan-out finished.
	MarkNotified(ctx context.Context, updateID string) error

	// ListForProperty returns all change records for a property, newest first.
	ListForProperty(ctx context.Context, propertyID string) ([]*domain.PolicyUpdate, error)
}
