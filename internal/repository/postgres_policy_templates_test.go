package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"roomfindr-data/internal/domain"
)

var templateRowColumns = []string{
	"template_id", "title", "description", "category", "default_value",
	"is_system_template", "owner_landlord_id", "version", "created_at", "updated_at",
}

func TestPostgresGetTemplate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM policy_templates WHERE template_id = \$1::uuid`).
		WithArgs("tmpl-1").
		WillReturnRows(sqlmock.NewRows(templateRowColumns).
			AddRow("tmpl-1", "Pets", "Whether pets are allowed", "pets", "not allowed",
				true, "", 3, now, now))

	repo := NewPostgresPolicyTemplatesRepository(db)
	tmpl, err := repo.GetTemplate(context.Background(), "tmpl-1")
	require.NoError(t, err)
	require.Equal(t, "Pets", tmpl.Title)
	require.True(t, tmpl.IsSystemTemplate)
	require.Equal(t, 3, tmpl.Version)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetTemplateNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM policy_templates WHERE template_id = \$1::uuid`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(templateRowColumns))

	repo := NewPostgresPolicyTemplatesRepository(db)
	_, err = repo.GetTemplate(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListTemplatesOwnerUnionSystem(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM policy_templates WHERE \(is_system_template = TRUE OR owner_landlord_id = \$1::uuid\) ORDER BY category, title`).
		WithArgs("landlord-1").
		WillReturnRows(sqlmock.NewRows(templateRowColumns).
			AddRow("tmpl-1", "Pets", "", "pets", "not allowed", true, "", 1, now, now).
			AddRow("tmpl-2", "Quiet hours", "", "custom", "after 22:00", false, "landlord-1", 1, now, now))

	repo := NewPostgresPolicyTemplatesRepository(db)
	items, err := repo.ListTemplates(context.Background(), TemplateFilters{OwnerLandlordID: "landlord-1"})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateTemplateBumpsVersion(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE policy_templates SET default_value = \$1, version = version \+ 1, updated_at = NOW\(\) WHERE template_id = \$2::uuid`).
		WithArgs("after 23:00", "tmpl-2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgresPolicyTemplatesRepository(db)
	v := "after 23:00"
	err = repo.UpdateTemplate(context.Background(), "tmpl-2", TemplatePatch{DefaultValue: &v})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateTemplateNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE policy_templates SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPostgresPolicyTemplatesRepository(db)
	v := "x"
	err = repo.UpdateTemplate(context.Background(), "missing", TemplatePatch{Title: &v})
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteTemplate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM policy_templates WHERE template_id = \$1::uuid`).
		WithArgs("tmpl-2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgresPolicyTemplatesRepository(db)
	require.NoError(t, repo.DeleteTemplate(context.Background(), "tmpl-2"))
	require.NoError(t, mock.ExpectationsWereMet())
}
