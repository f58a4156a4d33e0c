package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"roomfindr-data/internal/domain"
)

var agreementRowColumns = []string{
	"agreement_id", "reservation_id", "property_id", "tenant_id", "landlord_id",
	"policies", "terms_accepted", "accepted_at", "accepted_by", "created_at",
}

func TestPostgresGetByReservationDecodesSnapshot(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	policies := `[{"template_id":"tmpl-1","title":"Pets","description":"","category":"pets","value":"cats only","template_version":2,"is_required":true}]`
	mock.ExpectQuery(`SELECT .+ FROM rental_agreements WHERE reservation_id = \$1::uuid`).
		WithArgs("res-1").
		WillReturnRows(sqlmock.NewRows(agreementRowColumns).
			AddRow("agr-1", "res-1", "prop-1", "tenant-1", "landlord-1",
				[]byte(policies), false, nil, nil, time.Now()))

	repo := NewPostgresRentalAgreementsRepository(db)
	a, err := repo.GetByReservation(context.Background(), "res-1")
	require.NoError(t, err)
	require.Equal(t, "agr-1", a.AgreementID)
	require.False(t, a.TermsAccepted)
	require.Nil(t, a.AcceptedAt)
	require.Len(t, a.Policies, 1)
	require.Equal(t, "cats only", a.Policies[0].Value)
	require.Equal(t, 2, a.Policies[0].TemplateVersion)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetByReservationNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM rental_agreements WHERE reservation_id = \$1::uuid`).
		WithArgs("res-1").
		WillReturnRows(sqlmock.NewRows(agreementRowColumns))

	repo := NewPostgresRentalAgreementsRepository(db)
	_, err = repo.GetByReservation(context.Background(), "res-1")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateAgreementUniqueViolationIsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO rental_agreements`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_rental_agreements_reservation"})

	repo := NewPostgresRentalAgreementsRepository(db)
	_, err = repo.CreateAgreement(context.Background(), &domain.RentalAgreement{
		ReservationID: "res-1", PropertyID: "prop-1", TenantID: "tenant-1", LandlordID: "landlord-1",
	})
	require.ErrorIs(t, err, domain.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMarkAcceptedOnlyFlipsPendingRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Now()
	mock.ExpectExec(`UPDATE rental_agreements\s+SET terms_accepted = TRUE, accepted_at = \$2, accepted_by = \$3::uuid\s+WHERE agreement_id = \$1::uuid AND terms_accepted = FALSE`).
		WithArgs("agr-1", at, "tenant-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgresRentalAgreementsRepository(db)
	applied, err := repo.MarkAccepted(context.Background(), "agr-1", "tenant-1", at)
	require.NoError(t, err)
	require.True(t, applied)

	// Second accept matches zero rows: no error, not applied.
	mock.ExpectExec(`UPDATE rental_agreements`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	applied, err = repo.MarkAccepted(context.Background(), "agr-1", "tenant-1", at)
	require.NoError(t, err)
	require.False(t, applied)
	require.NoError(t, mock.ExpectationsWereMet())
}
