package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"roomfindr-data/internal/domain"
)

// PostgresPropertyPoliciesRepository property_policies table access.
// Assumes the partial unique index:
//
//	CREATE UNIQUE INDEX uq_property_policies_active
//	ON property_policies (property_id, template_id) WHERE is_active = TRUE;
type PostgresPropertyPoliciesRepository struct {
	db *sql.DB
}

func NewPostgresPropertyPoliciesRepository(db *sql.DB) *PostgresPropertyPoliciesRepository {
	return &PostgresPropertyPoliciesRepository{db: db}
}

var _ PropertyPoliciesRepository = (*PostgresPropertyPoliciesRepository)(nil)

// isUniqueViolation lib/pq error class 23505
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}

func (r *PostgresPropertyPoliciesRepository) GetBinding(ctx context.Context, bindingID string) (*domain.PropertyPolicy, error) {
	if bindingID == "" {
		return nil, fmt.Errorf("binding_id is required")
	}

	query := `
		SELECT
			binding_id::text,
			property_id::text,
			template_id::text,
			custom_value,
			is_active,
			version,
			created_at,
			updated_at
		FROM property_policies
		WHERE binding_id = $1::uuid
	`

	var b domain.PropertyPolicy
	err := r.db.QueryRowContext(ctx, query, bindingID).Scan(
		&b.BindingID,
		&b.PropertyID,
		&b.TemplateID,
		&b.CustomValue,
		&b.IsActive,
		&b.Version,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("binding %s: %w", bindingID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get binding: %w", err)
	}
	return &b, nil
}

func (r *PostgresPropertyPoliciesRepository) ListForProperty(ctx context.Context, propertyID string, activeOnly bool) ([]*domain.PropertyPolicyWithTemplate, error) {
	query := `
		SELECT
			pp.binding_id::text,
			pp.property_id::text,
			pp.template_id::text,
			pp.custom_value,
			pp.is_active,
			pp.version,
			pp.created_at,
			pp.updated_at,
			pt.template_id::text,
			pt.title,
			COALESCE(pt.description, '') as description,
			pt.category,
			pt.default_value,
			pt.is_system_template,
			COALESCE(pt.owner_landlord_id::text, '') as owner_landlord_id,
			pt.version,
			pt.created_at,
			pt.updated_at
		FROM property_policies pp
		JOIN policy_templates pt ON pt.template_id = pp.template_id
		WHERE pp.property_id = $1::uuid
	`
	if activeOnly {
		query += ` AND pp.is_active = TRUE`
	}
	query += ` ORDER BY pp.created_at`

	rows, err := r.db.QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bindings: %w", err)
	}
	defer rows.Close()

	var result []*domain.PropertyPolicyWithTemplate
	for rows.Next() {
		var row domain.PropertyPolicyWithTemplate
		err := rows.Scan(
			&row.Binding.BindingID,
			&row.Binding.PropertyID,
			&row.Binding.TemplateID,
			&row.Binding.CustomValue,
			&row.Binding.IsActive,
			&row.Binding.Version,
			&row.Binding.CreatedAt,
			&row.Binding.UpdatedAt,
			&row.Template.TemplateID,
			&row.Template.Title,
			&row.Template.Description,
			&row.Template.Category,
			&row.Template.DefaultValue,
			&row.Template.IsSystemTemplate,
			&row.Template.OwnerLandlordID,
			&row.Template.Version,
			&row.Template.CreatedAt,
			&row.Template.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan binding: %w", err)
		}
		result = append(result, &row)
	}
	return result, rows.Err()
}

func (r *PostgresPropertyPoliciesRepository) CreateBinding(ctx context.Context, b *domain.PropertyPolicy) (string, error) {
	if b.BindingID == "" {
		b.BindingID = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO property_policies
			(binding_id, property_id, template_id, custom_value, is_active, version)
		 VALUES ($1::uuid, $2::uuid, $3::uuid, $4, $5, 1)`,
		b.BindingID, b.PropertyID, b.TemplateID, b.CustomValue, b.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("active binding for template %s already exists: %w", b.TemplateID, domain.ErrConflict)
		}
		return "", fmt.Errorf("failed to create binding: %w", err)
	}
	return b.BindingID, nil
}

func (r *PostgresPropertyPoliciesRepository) UpdateBinding(ctx context.Context, bindingID string, patch BindingPatch, expectedVersion int) error {
	set := []string{}
	args := []any{}

	if patch.CustomValue != nil {
		args = append(args, *patch.CustomValue)
		set = append(set, fmt.Sprintf("custom_value = NULLIF($%d, '')", len(args)))
	}
	if patch.IsActive != nil {
		args = append(args, *patch.IsActive)
		set = append(set, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if len(set) == 0 {
		return nil
	}
	set = append(set, "version = version + 1", "updated_at = NOW()")

	args = append(args, bindingID, expectedVersion)
	query := `UPDATE property_policies SET ` + strings.Join(set, ", ") +
		fmt.Sprintf(` WHERE binding_id = $%d::uuid AND version = $%d`, len(args)-1, len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("active binding already exists: %w", domain.ErrConflict)
		}
		return fmt.Errorf("failed to update binding: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		// Either the row is gone or another writer bumped the version.
		if _, err := r.GetBinding(ctx, bindingID); err != nil {
			return err
		}
		return fmt.Errorf("binding %s version mismatch: %w", bindingID, domain.ErrConflict)
	}
	return nil
}

func (r *PostgresPropertyPoliciesRepository) DeleteBinding(ctx context.Context, bindingID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM property_policies WHERE binding_id = $1::uuid`, bindingID)
	if err != nil {
		return fmt.Errorf("failed to delete binding: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("binding %s: %w", bindingID, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresPropertyPoliciesRepository) CountActiveForTemplate(ctx context.Context, templateID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM property_policies WHERE template_id = $1::uuid AND is_active = TRUE`,
		templateID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bindings: %w", err)
	}
	return count, nil
}
