package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"roomfindr-data/internal/domain"
)

// PostgresPolicyUpdatesRepository policy_updates table access.
type PostgresPolicyUpdatesRepository struct {
	db *sql.DB
}

func NewPostgresPolicyUpdatesRepository(db *sql.DB) *PostgresPolicyUpdatesRepository {
	return &PostgresPolicyUpdatesRepository{db: db}
}

var _ PolicyUpdatesRepository = (*PostgresPolicyUpdatesRepository)(nil)

func (r *PostgresPolicyUpdatesRepository) CreateUpdate(ctx context.Context, u *domain.PolicyUpdate) (string, error) {
	if u.UpdateID == "" {
		u.UpdateID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO policy_updates
			(update_id, property_id, template_id, old_value, new_value, updated_by, notification_sent)
		 VALUES ($1::uuid, $2::uuid, $3::uuid, $4, $5, $6::uuid, FALSE)`,
		u.UpdateID, u.PropertyID, u.TemplateID, u.OldValue, u.NewValue, u.UpdatedBy,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create policy update: %w", err)
	}
	return u.UpdateID, nil
}

func (r *PostgresPolicyUpdatesRepository) MarkNotified(ctx context.Context, updateID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE policy_updates SET notification_sent = TRUE WHERE update_id = $1::uuid`,
		updateID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark policy update notified: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("policy update %s: %w", updateID, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresPolicyUpdatesRepository) ListForProperty(ctx context.Context, propertyID string) ([]*domain.PolicyUpdate, error) {
	query := `
		SELECT
			update_id::text,
			property_id::text,
			template_id::text,
			COALESCE(old_value, '') as old_value,
			COALESCE(new_value, '') as new_value,
			updated_by::text,
			updated_at,
			notification_sent
		FROM policy_updates
		WHERE property_id = $1::uuid
		ORDER BY updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list policy updates: %w", err)
	}
	defer rows.Close()

	var result []*domain.PolicyUpdate
	for rows.Next() {
		var u domain.PolicyUpdate
		err := rows.Scan(
			&u.UpdateID,
			&u.PropertyID,
			&u.TemplateID,
			&u.OldValue,
			&u.NewValue,
			&u.UpdatedBy,
			&u.UpdatedAt,
			&u.NotificationSent,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan policy update: %w", err)
		}
		result = append(result, &u)
	}
	return result, rows.Err()
}
