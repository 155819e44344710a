// Package session persists the current credential and user identity across
// process restarts, mirroring the login/logout lifecycle of the drafting
// service's web client.
package session

import (
	"context"
	"database/sql"
	"time"
)

// State is the restored session. Token and Email are both empty for an
// anonymous session.
type State struct {
	Token string `json:"-"`
	Email string `json:"email,omitempty"`
}

// Authenticated reports whether a credential is present. The token is never
// validated client-side; an expired token surfaces when a request fails.
func (s State) Authenticated() bool { return s.Token != "" }

type Store struct {
	DB  *sql.DB
	Now func() time.Time
}

func (s Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Current restores the persisted session, best-effort. A missing row means
// anonymous.
func (s Store) Current(ctx context.Context) (State, error) {
	var st State
	err := s.DB.QueryRowContext(ctx, `SELECT token,email FROM session WHERE id=1`).Scan(&st.Token, &st.Email)
	if err == sql.ErrNoRows {
		return State{}, nil
	}
	if err != nil {
		return State{}, err
	}
	return st, nil
}

// Login persists the credential and identity, replacing any prior session.
func (s Store) Login(ctx context.Context, token, email string) error {
	now := s.now().UTC().Format(time.RFC3339)
	_, err := s.DB.ExecContext(ctx, `INSERT INTO session(id,token,email,updated_at) VALUES (1,?,?,?)
		ON CONFLICT(id) DO UPDATE SET token=excluded.token, email=excluded.email, updated_at=excluded.updated_at`,
		token, email, now)
	return err
}

// Logout clears the persisted session, returning to anonymous.
func (s Store) Logout(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM session WHERE id=1`)
	return err
}
