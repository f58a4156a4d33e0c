package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"roomfindr-data/internal/domain"
)

// PostgresPolicyTemplatesRepository policy_templates table access.
type PostgresPolicyTemplatesRepository struct {
	db *sql.DB
}

func NewPostgresPolicyTemplatesRepository(db *sql.DB) *PostgresPolicyTemplatesRepository {
	return &PostgresPolicyTemplatesRepository{db: db}
}

var _ PolicyTemplatesRepository = (*PostgresPolicyTemplatesRepository)(nil)

const policyTemplateColumns = `
	template_id::text,
	title,
	COALESCE(description, '') as description,
	category,
	default_value,
	is_system_template,
	COALESCE(owner_landlord_id::text, '') as owner_landlord_id,
	version,
	created_at,
	updated_at
`

func scanPolicyTemplate(row interface{ Scan(...any) error }) (*domain.PolicyTemplate, error) {
	var t domain.PolicyTemplate
	err := row.Scan(
		&t.TemplateID,
		&t.Title,
		&t.Description,
		&t.Category,
		&t.DefaultValue,
		&t.IsSystemTemplate,
		&t.OwnerLandlordID,
		&t.Version,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PostgresPolicyTemplatesRepository) GetTemplate(ctx context.Context, templateID string) (*domain.PolicyTemplate, error) {
	if templateID == "" {
		return nil, fmt.Errorf("template_id is required")
	}

	query := `SELECT ` + policyTemplateColumns + ` FROM policy_templates WHERE template_id = $1::uuid`

	t, err := scanPolicyTemplate(r.db.QueryRowContext(ctx, query, templateID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("template %s: %w", templateID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return t, nil
}

func (r *PostgresPolicyTemplatesRepository) ListTemplates(ctx context.Context, filter TemplateFilters) ([]*domain.PolicyTemplate, error) {
	where := []string{}
	args := []any{}

	if filter.OwnerLandlordID != "" {
		args = append(args, filter.OwnerLandlordID)
		where = append(where, fmt.Sprintf("(is_system_template = TRUE OR owner_landlord_id = $%d::uuid)", len(args)))
	} else {
		where = append(where, "is_system_template = TRUE")
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}

	query := `SELECT ` + policyTemplateColumns + ` FROM policy_templates WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY category, title`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var result []*domain.PolicyTemplate
	for rows.Next() {
		t, err := scanPolicyTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *PostgresPolicyTemplatesRepository) CreateTemplate(ctx context.Context, t *domain.PolicyTemplate) (string, error) {
	if t.TemplateID == "" {
		t.TemplateID = uuid.NewString()
	}

	var owner any
	if t.OwnerLandlordID != "" {
		owner = t.OwnerLandlordID
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO policy_templates
			(template_id, title, description, category, default_value, is_system_template, owner_landlord_id, version)
		 VALUES ($1::uuid, $2, NULLIF($3, ''), $4, $5, $6, $7::uuid, 1)`,
		t.TemplateID, t.Title, t.Description, t.Category, t.DefaultValue, t.IsSystemTemplate, owner,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create template: %w", err)
	}
	return t.TemplateID, nil
}

func (r *PostgresPolicyTemplatesRepository) UpdateTemplate(ctx context.Context, templateID string, patch TemplatePatch) error {
	set := []string{}
	args := []any{}

	if patch.Title != nil {
		args = append(args, *patch.Title)
		set = append(set, fmt.Sprintf("title = $%d", len(args)))
	}
	if patch.Description != nil {
		args = append(args, *patch.Description)
		set = append(set, fmt.Sprintf("description = NULLIF($%d, '')", len(args)))
	}
	if patch.Category != nil {
		args = append(args, *patch.Category)
		set = append(set, fmt.Sprintf("category = $%d", len(args)))
	}
	if patch.DefaultValue != nil {
		args = append(args, *patch.DefaultValue)
		set = append(set, fmt.Sprintf("default_value = $%d", len(args)))
	}
	if len(set) == 0 {
		return nil
	}
	set = append(set, "version = version + 1", "updated_at = NOW()")

	args = append(args, templateID)
	query := `UPDATE policy_templates SET ` + strings.Join(set, ", ") +
		fmt.Sprintf(` WHERE template_id = $%d::uuid`, len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("template %s: %w", templateID, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresPolicyTemplatesRepository) DeleteTemplate(ctx context.Context, templateID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM policy_templates WHERE template_id = $1::uuid`, templateID)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("template %s: %w", templateID, domain.ErrNotFound)
	}
	return nil
}
