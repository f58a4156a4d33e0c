package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"roomfindr-data/internal/domain"
)

// PostgresPropertiesRepository properties table access.
type PostgresPropertiesRepository struct {
	db *sql.DB
}

func NewPostgresPropertiesRepository(db *sql.DB) *PostgresPropertiesRepository {
	return &PostgresPropertiesRepository{db: db}
}

var _ PropertiesRepository = (*PostgresPropertiesRepository)(nil)

const propertyColumns = `
	property_id::text,
	landlord_id::text,
	title,
	COALESCE(address, '') as address,
	COALESCE(status, 'listed') as status,
	created_at
`

func (r *PostgresPropertiesRepository) GetProperty(ctx context.Context, propertyID string) (*domain.Property, error) {
	if propertyID == "" {
		return nil, fmt.Errorf("property_id is required")
	}

	query := `SELECT ` + propertyColumns + ` FROM properties WHERE property_id = $1::uuid`

	var p domain.Property
	err := r.db.QueryRowContext(ctx, query, propertyID).Scan(
		&p.PropertyID,
		&p.LandlordID,
		&p.Title,
		&p.Address,
		&p.Status,
		&p.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("property %s: %w", propertyID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return &p, nil
}

func (r *PostgresPropertiesRepository) CreateProperty(ctx context.Context, p *domain.Property) (string, error) {
	if p.PropertyID == "" {
		p.PropertyID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = "listed"
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO properties (property_id, landlord_id, title, address, status)
		 VALUES ($1::uuid, $2::uuid, $3, NULLIF($4, ''), $5)`,
		p.PropertyID, p.LandlordID, p.Title, p.Address, p.Status,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create property: %w", err)
	}
	return p.PropertyID, nil
}

func (r *PostgresPropertiesRepository) ListByLandlord(ctx context.Context, landlordID string) ([]*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE landlord_id = $1::uuid ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, landlordID)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	var result []*domain.Property
	for rows.Next() {
		var p domain.Property
		err := rows.Scan(
			&p.PropertyID,
			&p.LandlordID,
			&p.Title,
			&p.Address,
			&p.Status,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		result = append(result, &p)
	}
	return result, rows.Err()
}
