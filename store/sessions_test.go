package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestRevokedSessionsLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	if revoked, err := s.SessionRevoked(ctx, "j1"); err != nil || revoked {
		t.Fatalf("unknown session: revoked=%v err=%v", revoked, err)
	}
	if err := s.RevokeSession(ctx, "j1", now.Add(time.Hour)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	// Signing out twice is harmless.
	if err := s.RevokeSession(ctx, "j1", now.Add(time.Hour)); err != nil {
		t.Fatalf("revoke again: %v", err)
	}
	if err := s.RevokeSession(ctx, "j2", now.Add(-time.Minute)); err != nil {
		t.Fatalf("revoke j2: %v", err)
	}
	if revoked, err := s.SessionRevoked(ctx, "j1"); err != nil || !revoked {
		t.Fatalf("j1: revoked=%v err=%v", revoked, err)
	}

	n, err := s.PruneRevokedSessions(ctx)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one expired entry pruned, got %d", n)
	}
	if revoked, _ := s.SessionRevoked(ctx, "j2"); revoked {
		t.Fatalf("expired entry should be gone")
	}
	if revoked, _ := s.SessionRevoked(ctx, "j1"); !revoked {
		t.Fatalf("live entry should survive pruning")
	}
}

func TestPostgresRevokeSessionStatements(t *testing.T) {
	s, mock := newMockStore(t)
	expires := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO revoked_sessions \(id, expires_at\) VALUES \(\$1, \$2\)\s+ON CONFLICT \(id\) DO NOTHING`).
		WithArgs("j1", expires).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT 1 FROM revoked_sessions WHERE id = \$1`).
		WithArgs("j1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(`SELECT 1 FROM revoked_sessions WHERE id = \$1`).
		WithArgs("j2").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	mock.ExpectExec(`DELETE FROM revoked_sessions WHERE expires_at <= \$1`).
		WithArgs(s.now()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	ctx := context.Background()
	if err := s.RevokeSession(ctx, "j1", expires); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if revoked, err := s.SessionRevoked(ctx, "j1"); err != nil || !revoked {
		t.Fatalf("j1: revoked=%v err=%v", revoked, err)
	}
	if revoked, err := s.SessionRevoked(ctx, "j2"); err != nil || revoked {
		t.Fatalf("j2: revoked=%v err=%v", revoked, err)
	}
	if n, err := s.PruneRevokedSessions(ctx); err != nil || n != 3 {
		t.Fatalf("prune: n=%d err=%v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
