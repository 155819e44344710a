package session_test

import (
	"context"
	"database/sql"
	"testing"

	"draftline/internal/db"
	"draftline/internal/migrate"
	"draftline/internal/session"
)

func openWorkspace(t *testing.T, dir string) *sql.DB {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: dir})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func TestSessionRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store := session.Store{DB: openWorkspace(t, dir)}
	st, err := store.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if st.Authenticated() {
		t.Fatalf("expected anonymous fresh workspace")
	}

	if err := store.Login(ctx, "tok-abc", "user@example.com"); err != nil {
		t.Fatalf("login: %v", err)
	}

	// a new connection simulates a process restart
	restored := session.Store{DB: openWorkspace(t, dir)}
	st, err = restored.Current(ctx)
	if err != nil {
		t.Fatalf("current after restart: %v", err)
	}
	if st.Token != "tok-abc" || st.Email != "user@example.com" {
		t.Fatalf("session not restored: %+v", st)
	}

	if err := restored.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	again := session.Store{DB: openWorkspace(t, dir)}
	st, err = again.Current(ctx)
	if err != nil {
		t.Fatalf("current after logout: %v", err)
	}
	if st.Authenticated() {
		t.Fatalf("expected anonymous after logout: %+v", st)
	}
}

func TestLoginReplacesPriorSession(t *testing.T) {
	ctx := context.Background()
	store := session.Store{DB: openWorkspace(t, t.TempDir())}
	if err := store.Login(ctx, "tok-1", "first@example.com"); err != nil {
		t.Fatalf("first login: %v", err)
	}
	if err := store.Login(ctx, "tok-2", "second@example.com"); err != nil {
		t.Fatalf("second login: %v", err)
	}
	st, err := store.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if st.Token != "tok-2" || st.Email != "second@example.com" {
		t.Fatalf("prior session survived: %+v", st)
	}
}
