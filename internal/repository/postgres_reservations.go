package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"roomfindr-data/internal/domain"
)

// PostgresReservationsRepository reservations table access.
type PostgresReservationsRepository struct {
	db *sql.DB
}

func NewPostgresReservationsRepository(db *sql.DB) *PostgresReservationsRepository {
	return &PostgresReservationsRepository{db: db}
}

var _ ReservationsRepository = (*PostgresReservationsRepository)(nil)

const reservationColumns = `
	reservation_id::text,
	property_id::text,
	tenant_id::text,
	status,
	start_date,
	end_date,
	created_at
`

func (r *PostgresReservationsRepository) GetReservation(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	if reservationID == "" {
		return nil, fmt.Errorf("reservation_id is required")
	}

	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE reservation_id = $1::uuid`

	var res domain.Reservation
	err := r.db.QueryRowContext(ctx, query, reservationID).Scan(
		&res.ReservationID,
		&res.PropertyID,
		&res.TenantID,
		&res.Status,
		&res.StartDate,
		&res.EndDate,
		&res.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("reservation %s: %w", reservationID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return &res, nil
}

func (r *PostgresReservationsRepository) CreateReservation(ctx context.Context, res *domain.Reservation) (string, error) {
	if res.ReservationID == "" {
		res.ReservationID = uuid.NewString()
	}
	if res.Status == "" {
		res.Status = domain.ReservationPending
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reservations
			(reservation_id, property_id, tenant_id, status, start_date, end_date)
		 VALUES ($1::uuid, $2::uuid, $3::uuid, $4, $5, $6)`,
		res.ReservationID, res.PropertyID, res.TenantID, res.Status, res.StartDate, res.EndDate,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create reservation: %w", err)
	}
	return res.ReservationID, nil
}

func (r *PostgresReservationsRepository) ListForProperty(ctx context.Context, propertyID string, statuses []string) ([]*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE property_id = $1::uuid`
	args := []any{propertyID}

	if len(statuses) > 0 {
		query += ` AND status = ANY($2)`
		args = append(args, pq.Array(statuses))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	var result []*domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		err := rows.Scan(
			&res.ReservationID,
			&res.PropertyID,
			&res.TenantID,
			&res.Status,
			&res.StartDate,
			&res.EndDate,
			&res.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		result = append(result, &res)
	}
	return result, rows.Err()
}
