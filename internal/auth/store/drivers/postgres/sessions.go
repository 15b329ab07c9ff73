package postgres

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
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		s.UserID, s.Token, s.StartedAt, s.LastActiveAt,
	).Scan(&s.ID)
	if err != nil {
		return domain.Session{}, mapErr("SESSION_CREATE_FAILED", "insert session", err)
	}
	return s, nil
}

func (r *sessionsRepo) GetSessionByToken(ctx context.Context, token string) (domain.Session, error) {
	s, err := scanSession(r.q.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE token = $1`, token))
	if err != nil {
		return domain.Session{}, mapErr("SESSION_GET_FAILED", "select session by token", err)
	}
	return s, nil
}

func (r *sessionsRepo) GetUserSession(ctx context.Context, token string, userID int64) (domain.Session, error) {
	s, err := scanSession(r.q.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE token = $1 AND user_id = $2`, token, userID))
	if err != nil {
		return domain.Session{}, mapErr("SESSION_GET_FAILED", "select user session", err)
	}
	return s, nil
}

func (r *sessionsRepo) GetActiveSession(ctx context.Context, token string, since time.Time) (domain.Session, error) {
	s, err := scanSession(r.q.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE token = $1 AND last_active_at >= $2`, token, since))
	if err != nil {
		return domain.Session{}, mapErr("SESSION_GET_FAILED", "select active session", err)
	}
	return s, nil
}

func (r *sessionsRepo) TouchSession(ctx context.Context, id int64, at time.Time) error {
	res, err := r.q.ExecContext(ctx, `UPDATE sessions SET last_active_at = $1 WHERE id = $2`, at, id)
	return expectRows("SESSION_TOUCH_FAILED", "touch session", res, err)
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return expectRows("SESSION_DELETE_FAILED", "delete session", res, err)
}

func (r *sessionsRepo) DeleteStaleUserSessions(
	ctx context.Context,
	userID int64,
	cutoff time.Time,
	keepID int64,
) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		DELETE FROM sessions
		WHERE user_id = $1 AND last_active_at <= $2 AND id <> $3`,
		userID, cutoff, keepID)
	if err != nil {
		return 0, mapErr("SESSION_DELETE_FAILED", "delete stale user sessions", err)
	}
	return res.RowsAffected()
}

func (r *sessionsRepo) DeleteStaleSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM sessions WHERE last_active_at < $1`, cutoff)
	if err != nil {
		return 0, mapErr("SESSION_DELETE_FAILED", "delete stale sessions", err)
	}
	return res.RowsAffected()
}

func scanSession(row *sql.Row) (domain.Session, error) {
	var s domain.Session
	if err := row.Scan(&s.ID, &s.UserID, &s.Token, &s.StartedAt, &s.LastActiveAt); err != nil {
		return domain.Session{}, err
	}
	s.StartedAt = s.StartedAt.UTC()
	s.LastActiveAt = s.LastActiveAt.UTC()
	return s, nil
}
