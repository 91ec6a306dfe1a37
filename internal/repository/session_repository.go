package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SessionRepo persists login sessions keyed by the SHA-256 hash of the
// session id embedded in the client's token.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Store inserts a session row.
func (r *SessionRepo) Store(ctx context.Context, username, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (username, token_hash, expires_at) VALUES (?,?,?)",
		username, tokenHash, exp.UTC().Unix())
	return err
}

// Validate returns the username if a non-revoked, non-expired session exists.
func (r *SessionRepo) Validate(ctx context.Context, tokenHash string) (string, error) {
	var (
		username  string
		expiresAt int64
		revokedAt sql.NullInt64
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT username, expires_at, revoked_at FROM sessions WHERE token_hash = ? LIMIT 1",
		tokenHash).Scan(&username, &expiresAt, &revokedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrSessionInvalid
	}
	if err != nil {
		return "", err
	}
	if revokedAt.Valid || time.Now().UTC().Unix() >= expiresAt {
		return "", ErrSessionInvalid
	}
	return username, nil
}

// Revoke marks a session as revoked. Revoking an unknown or already revoked
// session is not an error.
func (r *SessionRepo) Revoke(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE sessions SET revoked_at = ? WHERE token_hash = ? AND revoked_at IS NULL",
		time.Now().UTC().Unix(), tokenHash)
	return err
}

// DeleteExpired removes sessions that expired before now and returns how
// many rows were deleted.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < ?", now.UTC().Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
