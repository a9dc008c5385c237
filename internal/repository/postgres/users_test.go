package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"regen-insight/server/internal/errs"
	"regen-insight/server/internal/model"
)

func newDB(t *testing.T) (pgxmock.PgxPoolIface, *DB) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, &DB{Pool: mock}
}

func TestUserRepoCreateDuplicateEmail(t *testing.T) {
	mock, db := newDB(t)
	repo := NewUserRepo(db)

	u := &model.User{ID: "u1", Name: "Amina", Email: "amina@example.com", PasswordHash: "h", CountyID: 1, CurrentRegion: 1, CreatedAt: time.Now()}

	mock.ExpectExec("INSERT INTO users").
		WithArgs(u.ID, u.Name, u.Email, u.PasswordHash, u.CountyID, u.CurrentRegion, u.CreatedAt).
		WillReturnError(errUniqueViolation)

	err := repo.Create(context.Background(), u)
	require.ErrorIs(t, err, errs.ErrDuplicateEmail)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoGetByEmail(t *testing.T) {
	mock, db := newDB(t)
	repo := NewUserRepo(db)
	created := time.Now().UTC().Truncate(time.Second)

	rows := pgxmock.NewRows([]string{"id", "name", "email", "password_hash", "county_id", "current_region", "created_at"}).
		AddRow("u1", "Amina", "amina@example.com", "h", 1, 3, created)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("amina@example.com").
		WillReturnRows(rows)

	u, err := repo.GetByEmail(context.Background(), "amina@example.com")
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)
	require.Equal(t, 3, u.CurrentRegion)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoGetByIDNotFound(t *testing.T) {
	mock, db := newDB(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUserRepoGetByIDSurfacesInfraErrors(t *testing.T) {
	mock, db := newDB(t)
	repo := NewUserRepo(db)
	connErr := errors.New("unexpected EOF")

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs("u1").
		WillReturnError(connErr)

	_, err := repo.GetByID(context.Background(), "u1")
	require.ErrorIs(t, err, connErr)
	require.NotErrorIs(t, err, errs.ErrNotFound)
}

func TestUserRepoUpdateRegion(t *testing.T) {
	mock, db := newDB(t)
	repo := NewUserRepo(db)

	mock.ExpectExec("UPDATE users SET current_region").
		WithArgs("u1", 7).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, repo.UpdateRegion(context.Background(), "u1", 7))

	mock.ExpectExec("UPDATE users SET current_region").
		WithArgs("missing", 7).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	require.ErrorIs(t, repo.UpdateRegion(context.Background(), "missing", 7), errs.ErrNotFound)
}
