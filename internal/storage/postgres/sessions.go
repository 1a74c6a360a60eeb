// Package postgres persists hunt sessions in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/gotto/core/logger"
	"github.com/m3rciful/gotto/core/telegram/state"
	"github.com/m3rciful/gotto/internal/hunt"
)

const (
	selectSession = `SELECT chat_id, user_id, state, radius, target_lat, target_lon, round_id, updated_at
		FROM hunt_sessions WHERE chat_id = $1 AND user_id = $2`
	upsertSession = `INSERT INTO hunt_sessions (chat_id, user_id, state, radius, target_lat, target_lon, round_id, updated_at)
		VALUES (:chat_id, :user_id, :state, :radius, :target_lat, :target_lon, :round_id, :updated_at)
		ON CONFLICT (chat_id, user_id) DO UPDATE SET
			state = EXCLUDED.state,
			radius = EXCLUDED.radius,
			target_lat = EXCLUDED.target_lat,
			target_lon = EXCLUDED.target_lon,
			round_id = EXCLUDED.round_id,
			updated_at = EXCLUDED.updated_at`
	deleteSession = `DELETE FROM hunt_sessions WHERE chat_id = $1 AND user_id = $2`
	countSessions = `SELECT count(*) FROM hunt_sessions`
)

type sessionRow struct {
	ChatID    int64           `db:"chat_id"`
	UserID    int64           `db:"user_id"`
	State     string          `db:"state"`
	Radius    int             `db:"radius"`
	TargetLat sql.NullFloat64 `db:"target_lat"`
	TargetLon sql.NullFloat64 `db:"target_lon"`
	RoundID   string          `db:"round_id"`
	UpdatedAt time.Time       `db:"updated_at"`
}

func toRow(key state.Key, s hunt.Session, now time.Time) sessionRow {
	row := sessionRow{
		ChatID:    key.ChatID,
		UserID:    key.UserID,
		State:     string(s.State),
		Radius:    s.Radius,
		RoundID:   s.RoundID,
		UpdatedAt: now.UTC(),
	}
	if s.Target != nil {
		row.TargetLat = sql.NullFloat64{Float64: s.Target.Lat, Valid: true}
		row.TargetLon = sql.NullFloat64{Float64: s.Target.Lon, Valid: true}
	}
	return row
}

func (r sessionRow) session() hunt.Session {
	s := hunt.Session{
		State:   hunt.State(r.State),
		Radius:  r.Radius,
		RoundID: r.RoundID,
	}
	if r.TargetLat.Valid && r.TargetLon.Valid {
		s.Target = &hunt.Coordinate{Lat: r.TargetLat.Float64, Lon: r.TargetLon.Float64}
	}
	return s
}

// SessionStore implements state.Store[hunt.Session] on the hunt_sessions table.
type SessionStore struct {
	db  *sqlx.DB
	now func() time.Time
}

var (
	_ state.Store[hunt.Session] = (*SessionStore)(nil)
	_ state.Counter             = (*SessionStore)(nil)
)

// NewSessionStore wraps an open connection. The schema is managed by migrations.
func NewSessionStore(db *sqlx.DB) *SessionStore {
	return &SessionStore{db: db, now: time.Now}
}

// Get loads the session under key, or the zero session when none is stored.
func (s *SessionStore) Get(ctx context.Context, key state.Key) (hunt.Session, error) {
	var row sessionRow
	err := s.db.GetContext(ctx, &row, selectSession, key.ChatID, key.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return hunt.Session{}, nil
	}
	if err != nil {
		s.logFailure(ctx, "store.get", key, err)
		return hunt.Session{}, fmt.Errorf("postgres: get session %s: %w", key, err)
	}
	return row.session(), nil
}

// Set upserts the session under key.
func (s *SessionStore) Set(ctx context.Context, key state.Key, sess hunt.Session) error {
	if _, err := s.db.NamedExecContext(ctx, upsertSession, toRow(key, sess, s.now())); err != nil {
		s.logFailure(ctx, "store.set", key, err)
		return fmt.Errorf("postgres: save session %s: %w", key, err)
	}
	return nil
}

// Reset deletes the session under key.
func (s *SessionStore) Reset(ctx context.Context, key state.Key) error {
	if _, err := s.db.ExecContext(ctx, deleteSession, key.ChatID, key.UserID); err != nil {
		s.logFailure(ctx, "store.reset", key, err)
		return fmt.Errorf("postgres: reset session %s: %w", key, err)
	}
	return nil
}

// Len counts stored sessions.
func (s *SessionStore) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, countSessions); err != nil {
		return 0, fmt.Errorf("postgres: count sessions: %w", err)
	}
	return n, nil
}

func (s *SessionStore) logFailure(ctx context.Context, event string, key state.Key, err error) {
	logger.Store.ErrorContext(ctx, "session store failed",
		slog.String("event", event),
		slog.Int64("chat_id", key.ChatID),
		slog.Int64("user_id", key.UserID),
		slog.String("err", err.Error()),
	)
}
