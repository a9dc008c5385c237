package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"regen-insight/server/internal/errs"
	"regen-insight/server/internal/model"
)

// UploadRepo implements repository.UploadRepository. Likes live in a separate
// upload_likes table keyed by (upload_id, user_id); the likes column on the
// upload row is the cached count.
type UploadRepo struct{ db *DB }

func NewUploadRepo(db *DB) *UploadRepo { return &UploadRepo{db: db} }

const uploadColumns = `id, user_id, user_name, county_id, county_name, location, comment, object_key, ts, likes`

func (r *UploadRepo) Create(ctx context.Context, u *model.Upload) error {
	const q = `
INSERT INTO uploads (id, user_id, user_name, county_id, county_name, location, comment, object_key, ts, likes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Pool.Exec(ctx, q, u.ID, u.UserID, u.UserName, u.CountyID, u.CountyName, u.Location, u.Comment, u.ObjectKey, u.Timestamp, u.Likes)
	return err
}

func (r *UploadRepo) GetByID(ctx context.Context, id string) (*model.Upload, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+uploadColumns+` FROM uploads WHERE id=$1`, id)
	u, err := scanUpload(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func scanUpload(row pgx.Row) (*model.Upload, error) {
	var u model.Upload
	if err := row.Scan(&u.ID, &u.UserID, &u.UserName, &u.CountyID, &u.CountyName, &u.Location, &u.Comment, &u.ObjectKey, &u.Timestamp, &u.Likes); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UploadRepo) list(ctx context.Context, q string, args ...any) ([]model.Upload, error) {
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Upload
	for rows.Next() {
		u, err := scanUpload(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *UploadRepo) ListByCounty(ctx context.Context, countyID int) ([]model.Upload, error) {
	return r.list(ctx, `SELECT `+uploadColumns+` FROM uploads WHERE county_id=$1 ORDER BY ts DESC`, countyID)
}

func (r *UploadRepo) ListMostLiked(ctx context.Context, countyID, limit int) ([]model.Upload, error) {
	return r.list(ctx, `SELECT `+uploadColumns+` FROM uploads WHERE county_id=$1 ORDER BY likes DESC, ts DESC LIMIT $2`, countyID, limit)
}

// ToggleLike flips the user's like inside one transaction so the cached count
// stays consistent with the upload_likes rows.
func (r *UploadRepo) ToggleLike(ctx context.Context, uploadID, userID string) (bool, int, error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, 0, err
	}

	liked, likes, err := r.toggleLikeTx(ctx, tx, uploadID, userID)
	if err != nil {
		_ = tx.Rollback(ctx)
		return false, 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, 0, err
	}
	return liked, likes, nil
}

func (r *UploadRepo) toggleLikeTx(ctx context.Context, tx pgx.Tx, uploadID, userID string) (bool, int, error) {
	var likes int
	if err := tx.QueryRow(ctx, `SELECT likes FROM uploads WHERE id=$1 FOR UPDATE`, uploadID).Scan(&likes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, 0, errs.ErrNotFound
		}
		return false, 0, err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM upload_likes WHERE upload_id=$1 AND user_id=$2`, uploadID, userID)
	if err != nil {
		return false, 0, err
	}
	liked := tag.RowsAffected() == 0
	if liked {
		if _, err := tx.Exec(ctx, `INSERT INTO upload_likes (upload_id, user_id) VALUES ($1, $2)`, uploadID, userID); err != nil {
			return false, 0, err
		}
		likes++
	} else if likes > 0 {
		likes--
	}
	if _, err := tx.Exec(ctx, `UPDATE uploads SET likes=$2 WHERE id=$1`, uploadID, likes); err != nil {
		return false, 0, err
	}
	return liked, likes, nil
}

func (r *UploadRepo) CountByCounty(ctx context.Context, countyID int) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM uploads WHERE county_id=$1`, countyID).Scan(&count)
	return count, err
}
