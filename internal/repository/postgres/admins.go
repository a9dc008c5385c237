package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"regen-insight/server/internal/county"
	"regen-insight/server/internal/errs"
	"regen-insight/server/internal/model"
	"regen-insight/server/internal/repository"
)

// AdminRepo implements repository.AdminRepository using PostgreSQL. The
// one-sub-admin-per-county invariant is backed by a partial unique index on
// (county_id) WHERE role='sub'; the 47 cap by a conditional insert.
type AdminRepo struct{ db *DB }

func NewAdminRepo(db *DB) *AdminRepo { return &AdminRepo{db: db} }

func (r *AdminRepo) Create(ctx context.Context, a *model.Admin) error {
	if a.Role != model.RoleSub {
		const q = `
INSERT INTO admins (id, name, email, password_hash, role, county_id, contact_phone, contact_email, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
		_, err := r.db.Pool.Exec(ctx, q, a.ID, a.Name, a.Email, a.PasswordHash, a.Role, a.CountyID, a.ContactPhone, a.ContactEmail, a.CreatedAt)
		return err
	}

	// County uniqueness is checked before the cap, so a taken county reports
	// as such even when the roster is full. The partial unique index backs
	// this up against concurrent writers.
	var taken bool
	if err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM admins WHERE role='sub' AND county_id=$1)`, a.CountyID,
	).Scan(&taken); err != nil {
		return err
	}
	if taken {
		return errs.ErrCountyAssigned
	}

	// Conditional insert keeps the sub-admin count at or below the cap even
	// with concurrent writers.
	const q = `
INSERT INTO admins (id, name, email, password_hash, role, county_id, contact_phone, contact_email, created_at)
SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9
WHERE (SELECT count(*) FROM admins WHERE role='sub') < $10`
	tag, err := r.db.Pool.Exec(ctx, q, a.ID, a.Name, a.Email, a.PasswordHash, a.Role, a.CountyID, a.ContactPhone, a.ContactEmail, a.CreatedAt, county.Count)
	if isUniqueViolation(err) {
		return errs.ErrCountyAssigned
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrCapacityExceeded
	}
	return nil
}

func (r *AdminRepo) GetByID(ctx context.Context, id string) (*model.Admin, error) {
	const q = `
SELECT id, name, email, password_hash, role, county_id, contact_phone, contact_email, created_at
FROM admins WHERE id=$1`
	return scanAdmin(r.db.Pool.QueryRow(ctx, q, id))
}

func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	const q = `
SELECT id, name, email, password_hash, role, county_id, contact_phone, contact_email, created_at
FROM admins WHERE email=$1`
	return scanAdmin(r.db.Pool.QueryRow(ctx, q, email))
}

func scanAdmin(row pgx.Row) (*model.Admin, error) {
	var a model.Admin
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.CountyID, &a.ContactPhone, &a.ContactEmail, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrAdminNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepo) Update(ctx context.Context, id string, patch repository.AdminUpdate) (*model.Admin, error) {
	const q = `
UPDATE admins SET
  name = COALESCE($2, name),
  email = COALESCE($3, email),
  contact_phone = COALESCE($4, contact_phone),
  contact_email = COALESCE($5, contact_email)
WHERE id=$1
RETURNING id, name, email, password_hash, role, county_id, contact_phone, contact_email, created_at`
	return scanAdmin(r.db.Pool.QueryRow(ctx, q, id, patch.Name, patch.Email, patch.ContactPhone, patch.ContactEmail))
}

func (r *AdminRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM admins WHERE id=$1`, id)
	return err
}

func (r *AdminRepo) ListSubAdmins(ctx context.Context) ([]model.Admin, error) {
	const q = `
SELECT id, name, email, password_hash, role, county_id, contact_phone, contact_email, created_at
FROM admins WHERE role='sub' ORDER BY county_id`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []model.Admin
	for rows.Next() {
		var a model.Admin
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.CountyID, &a.ContactPhone, &a.ContactEmail, &a.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, a)
	}
	return subs, rows.Err()
}

func (r *AdminRepo) FindSubAdminByCounty(ctx context.Context, countyID int) (*model.Admin, error) {
	const q = `
SELECT id, name, email, password_hash, role, county_id, contact_phone, contact_email, created_at
FROM admins WHERE role='sub' AND county_id=$1`
	a, err := scanAdmin(r.db.Pool.QueryRow(ctx, q, countyID))
	if errors.Is(err, errs.ErrAdminNotFound) {
		return nil, errs.ErrNotFound
	}
	return a, err
}

func (r *AdminRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM admins`).Scan(&count)
	return count, err
}

func (r *AdminRepo) CountSubAdmins(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM admins WHERE role='sub'`).Scan(&count)
	return count, err
}
