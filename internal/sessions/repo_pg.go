package sessions

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, s Session) error {
	const query = `
INSERT INTO sessions (id, token_hash, user_id, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.ExecContext(ctx, query, s.ID, s.TokenHash, s.UserID, s.CreatedAt, s.ExpiresAt)
	return err
}

func (r *PGRepo) GetByTokenHash(ctx context.Context, tokenHash string) (Session, error) {
	const query = `
SELECT id, token_hash, user_id, created_at, expires_at
FROM sessions
WHERE token_hash = $1
LIMIT 1`
	var s Session
	err := r.DB.QueryRowContext(ctx, query, tokenHash).Scan(
		&s.ID,
		&s.TokenHash,
		&s.UserID,
		&s.CreatedAt,
		&s.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	return s, nil
}

func (r *PGRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	return err
}

func (r *PGRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
