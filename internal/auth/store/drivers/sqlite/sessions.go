package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/tabauth/internal/auth/domain"
)

const sessionColumns = `id, user_id, token, started_at, last_active_at`

type sessionsRepo struct {
	q dbtx
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) (domain.Session, error) {
	err := r.q.QueryRowContext(ctx, `
		INSERT INTO sessions (user_id, token, started_at, last_active_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`,
		s.UserID,
		s.Token,
		toMicros(s.StartedAt),
		toMicros(s.LastActiveAt),
	).Scan(&s.ID)
	if err != nil {
		return domain.Session{}, mapConflict(err)
	}
	return s, nil
}

func (r *sessionsRepo) GetSessionByToken(ctx context.Context, token string) (domain.Session, error) {
	return scanSession(r.q.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE token = ?`, token))
}

func (r *sessionsRepo) GetUserSession(ctx context.Context, token string, userID int64) (domain.Session, error) {
	return scanSession(r.q.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE token = ? AND user_id = ?`, token, userID))
}

func (r *sessionsRepo) GetActiveSession(ctx context.Context, token string, since time.Time) (domain.Session, error) {
	return scanSession(r.q.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE token = ? AND last_active_at >= ?`,
		token, toMicros(since)))
}

func (r *sessionsRepo) TouchSession(ctx context.Context, id int64, at time.Time) error {
	return expectRows(r.q.ExecContext(ctx,
		`UPDATE sessions SET last_active_at = ? WHERE id = ?`, toMicros(at), id))
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, id int64) error {
	return expectRows(r.q.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id))
}

func (r *sessionsRepo) DeleteStaleUserSessions(
	ctx context.Context,
	userID int64,
	cutoff time.Time,
	keepID int64,
) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		DELETE FROM sessions
		WHERE user_id = ? AND last_active_at <= ? AND id <> ?`,
		userID, toMicros(cutoff), keepID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *sessionsRepo) DeleteStaleSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM sessions WHERE last_active_at < ?`, toMicros(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanSession(row *sql.Row) (domain.Session, error) {
	var (
		s            domain.Session
		startedAt    int64
		lastActiveAt int64
	)

	if err := row.Scan(&s.ID, &s.UserID, &s.Token, &startedAt, &lastActiveAt); err != nil {
		return domain.Session{}, mapNotFound(err)
	}

	s.StartedAt = fromMicros(startedAt)
	s.LastActiveAt = fromMicros(lastActiveAt)
	return s, nil
}
