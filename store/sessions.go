package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// RevokeSession records a signed-out session id until its token expires.
func (s *Store) RevokeSession(ctx context.Context, id string, expires time.Time) error {
	_, err := s.exec(ctx, `
		INSERT INTO revoked_sessions (id, expires_at) VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`, id, expires.UTC())
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *Store) SessionRevoked(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.queryRow(ctx, `SELECT 1 FROM revoked_sessions WHERE id = $1`, id).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("check revoked session: %w", err)
	}
	return true, nil
}

// PruneRevokedSessions deletes entries whose tokens have expired by now.
func (s *Store) PruneRevokedSessions(ctx context.Context) (int64, error) {
	res, err := s.exec(ctx, `DELETE FROM revoked_sessions WHERE expires_at <= $1`, s.now())
	if err != nil {
		return 0, fmt.Errorf("prune revoked sessions: %w", err)
	}
	return res.RowsAffected()
}
