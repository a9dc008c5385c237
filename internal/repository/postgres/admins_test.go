package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"regen-insight/server/internal/county"
	"regen-insight/server/internal/errs"
	"regen-insight/server/internal/model"
	"regen-insight/server/internal/repository"
)

var errUniqueViolation = &pgconn.PgError{Code: "23505"}

func subAdmin(countyID int) *model.Admin {
	return &model.Admin{
		ID:           "a1",
		Name:         "County Admin",
		Email:        "admin@example.com",
		PasswordHash: "h",
		Role:         model.RoleSub,
		CountyID:     &countyID,
		CreatedAt:    time.Now(),
	}
}

func TestAdminRepoCreateSubCountyTaken(t *testing.T) {
	mock, db := newDB(t)
	repo := NewAdminRepo(db)
	a := subAdmin(1)

	// The county check runs before the cap check, so no insert is attempted.
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(a.CountyID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	err := repo.Create(context.Background(), a)
	require.ErrorIs(t, err, errs.ErrCountyAssigned)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepoCreateSubCountyRace(t *testing.T) {
	mock, db := newDB(t)
	repo := NewAdminRepo(db)
	a := subAdmin(1)

	// A concurrent writer takes the county between the check and the insert;
	// the partial unique index still reports it as taken.
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(a.CountyID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO admins").
		WithArgs(a.ID, a.Name, a.Email, a.PasswordHash, a.Role, a.CountyID, a.ContactPhone, a.ContactEmail, a.CreatedAt, county.Count).
		WillReturnError(errUniqueViolation)

	err := repo.Create(context.Background(), a)
	require.ErrorIs(t, err, errs.ErrCountyAssigned)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepoCreateSubCapReached(t *testing.T) {
	mock, db := newDB(t)
	repo := NewAdminRepo(db)
	a := subAdmin(5)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(a.CountyID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO admins").
		WithArgs(a.ID, a.Name, a.Email, a.PasswordHash, a.Role, a.CountyID, a.ContactPhone, a.ContactEmail, a.CreatedAt, county.Count).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	err := repo.Create(context.Background(), a)
	require.ErrorIs(t, err, errs.ErrCapacityExceeded)
	require.EqualError(t, err, "Maximum number of sub-admins reached (47)")
}

func TestAdminRepoUpdatePatchesOnlyGivenFields(t *testing.T) {
	mock, db := newDB(t)
	repo := NewAdminRepo(db)
	countyID := 2
	created := time.Now().UTC().Truncate(time.Second)
	phone := "+254700000000"

	rows := pgxmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "county_id", "contact_phone", "contact_email", "created_at"}).
		AddRow("a1", "County Admin", "admin@example.com", "h", model.RoleSub, &countyID, phone, "", created)
	mock.ExpectQuery("UPDATE admins SET").
		WithArgs("a1", (*string)(nil), (*string)(nil), &phone, (*string)(nil)).
		WillReturnRows(rows)

	got, err := repo.Update(context.Background(), "a1", repository.AdminUpdate{ContactPhone: &phone})
	require.NoError(t, err)
	require.Equal(t, phone, got.ContactPhone)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepoFindSubAdminByCountyMissing(t *testing.T) {
	mock, db := newDB(t)
	repo := NewAdminRepo(db)

	mock.ExpectQuery("SELECT (.+) FROM admins WHERE role='sub' AND county_id").
		WithArgs(9).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindSubAdminByCounty(context.Background(), 9)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestAdminRepoGetByIDSurfacesInfraErrors(t *testing.T) {
	mock, db := newDB(t)
	repo := NewAdminRepo(db)
	connErr := errors.New("unexpected EOF")

	mock.ExpectQuery("SELECT (.+) FROM admins WHERE id").
		WithArgs("a1").
		WillReturnError(connErr)

	_, err := repo.GetByID(context.Background(), "a1")
	require.ErrorIs(t, err, connErr)
	require.NotErrorIs(t, err, errs.ErrAdminNotFound)
}
