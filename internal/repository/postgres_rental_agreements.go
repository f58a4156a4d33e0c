package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"roomfindr-data/internal/domain"
)

// PostgresRentalAgreementsRepository rental_agreements table access.
// The policies snapshot is stored as JSONB; reservation_id carries a unique
// index so concurrent builds collapse onto one row.
type PostgresRentalAgreementsRepository struct {
	db *sql.DB
}

func NewPostgresRentalAgreementsRepository(db *sql.DB) *PostgresRentalAgreementsRepository {
	return &PostgresRentalAgreementsRepository{db: db}
}

var _ RentalAgreementsRepository = (*PostgresRentalAgreementsRepository)(nil)

const rentalAgreementColumns = `
	agreement_id::text,
	reservation_id::text,
	property_id::text,
	tenant_id::text,
	landlord_id::text,
	COALESCE(policies, '[]'::jsonb) as policies,
	terms_accepted,
	accepted_at,
	accepted_by::text,
	created_at
`

func scanRentalAgreement(row interface{ Scan(...any) error }) (*domain.RentalAgreement, error) {
	var a domain.RentalAgreement
	var policiesRaw json.RawMessage
	err := row.Scan(
		&a.AgreementID,
		&a.ReservationID,
		&a.PropertyID,
		&a.TenantID,
		&a.LandlordID,
		&policiesRaw,
		&a.TermsAccepted,
		&a.AcceptedAt,
		&a.AcceptedBy,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(policiesRaw, &a.Policies); err != nil {
		return nil, fmt.Errorf("failed to decode policies snapshot: %w", err)
	}
	if a.Policies == nil {
		a.Policies = []domain.AgreementPolicy{}
	}
	return &a, nil
}

func (r *PostgresRentalAgreementsRepository) GetAgreement(ctx context.Context, agreementID string) (*domain.RentalAgreement, error) {
	if agreementID == "" {
		return nil, fmt.Errorf("agreement_id is required")
	}

	query := `SELECT ` + rentalAgreementColumns + ` FROM rental_agreements WHERE agreement_id = $1::uuid`

	a, err := scanRentalAgreement(r.db.QueryRowContext(ctx, query, agreementID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("agreement %s: %w", agreementID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get agreement: %w", err)
	}
	return a, nil
}

func (r *PostgresRentalAgreementsRepository) GetByReservation(ctx context.Context, reservationID string) (*domain.RentalAgreement, error) {
	if reservationID == "" {
		return nil, fmt.Errorf("reservation_id is required")
	}

	query := `SELECT ` + rentalAgreementColumns + ` FROM rental_agreements WHERE reservation_id = $1::uuid`

	a, err := scanRentalAgreement(r.db.QueryRowContext(ctx, query, reservationID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("agreement for reservation %s: %w", reservationID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get agreement by reservation: %w", err)
	}
	return a, nil
}

func (r *PostgresRentalAgreementsRepository) CreateAgreement(ctx context.Context, a *domain.RentalAgreement) (string, error) {
	if a.AgreementID == "" {
		a.AgreementID = uuid.NewString()
	}
	if a.Policies == nil {
		a.Policies = []domain.AgreementPolicy{}
	}

	policiesJSON, err := json.Marshal(a.Policies)
	if err != nil {
		return "", fmt.Errorf("failed to encode policies snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO rental_agreements
			(agreement_id, reservation_id, property_id, tenant_id, landlord_id, policies, terms_accepted)
		 VALUES ($1::uuid, $2::uuid, $3::uuid, $4::uuid, $5::uuid, $6::jsonb, FALSE)`,
		a.AgreementID, a.ReservationID, a.PropertyID, a.TenantID, a.LandlordID, policiesJSON,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("agreement for reservation %s already exists: %w", a.ReservationID, domain.ErrConflict)
		}
		return "", fmt.Errorf("failed to create agreement: %w", err)
	}
	return a.AgreementID, nil
}

func (r *PostgresRentalAgreementsRepository) MarkAccepted(ctx context.Context, agreementID, acceptedBy string, acceptedAt time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rental_agreements
		 SET terms_accepted = TRUE, accepted_at = $2, accepted_by = $3::uuid
		 WHERE agreement_id = $1::uuid AND terms_accepted = FALSE`,
		agreementID, acceptedAt, acceptedBy,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark agreement accepted: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
