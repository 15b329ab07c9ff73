package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tabauth/internal/auth/domain"
	"github.com/aussiebroadwan/tabauth/internal/auth/metrics"
	"github.com/aussiebroadwan/tabauth/internal/auth/store"
	"github.com/aussiebroadwan/tabauth/pkg/cryptox"
	"github.com/aussiebroadwan/tabauth/pkg/slogx"
)

// LoginRequest is the input to StartSession. Identity is the user resolved
// from the request token, if any.
type LoginRequest struct {
	Identity *domain.User
	Token    *string
	Username *string
	Password *string
}

type SessionService struct {
	Store   store.Store
	Clock   Clock
	Metrics *metrics.Metrics

	// NewToken defaults to cryptox.NewSessionToken.
	NewToken func() (string, error)
}

// StartSession logs a user in. An already identified caller that names a
// token gets that session back untouched. Everyone else must present
// credentials; on success a new session is stored and the user's other
// sessions idle beyond domain.ExpiryWindow are removed.
func (s *SessionService) StartSession(ctx context.Context, req LoginRequest) (_ domain.SessionView, err error) {
	ctx, span := tracer.Start(ctx, "SessionService.StartSession")
	defer func() { endSpan(span, err) }()

	if req.Identity != nil && req.Token != nil {
		return s.currentSession(ctx, *req.Token)
	}

	creds, err := ParseCredentials(req.Username, req.Password)
	if err != nil {
		s.Metrics.Login(metrics.LoginInvalidFormat)
		return domain.SessionView{}, err
	}

	now := s.Clock.Now()
	var (
		view    domain.SessionView
		removed int64
	)

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := authenticate(ctx, tx.Users(), creds)
		if err != nil {
			return err
		}

		sess, err := s.createSession(ctx, tx, user.ID, now)
		if err != nil {
			return err
		}

		removed, err = tx.Sessions().DeleteStaleUserSessions(ctx, user.ID, now.Add(-domain.ExpiryWindow), sess.ID)
		if err != nil {
			return err
		}

		view = domain.NewSessionView(sess, user.Origin)
		return nil
	})
	if err != nil {
		s.Metrics.Login(loginResult(err))
		return domain.SessionView{}, err
	}

	s.Metrics.Login(metrics.LoginSuccess)
	s.Metrics.Sessions(metrics.SessionCreated, 1)
	s.Metrics.Sessions(metrics.SessionExpired, int(removed))

	slogx.FromContext(ctx).Info("session started",
		slog.Int64("user_id", view.UserID),
		slog.Int64("session_id", view.ID),
		slog.Int64("stale_removed", removed),
	)
	return view, nil
}

// currentSession returns the named session as stored. Origin is left out
// since no login took place.
func (s *SessionService) currentSession(ctx context.Context, token string) (domain.SessionView, error) {
	var sess domain.Session
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		sess, err = tx.Sessions().GetSessionByToken(ctx, token)
		return notFoundAs(err, InvalidTokenError())
	})
	if err != nil {
		return domain.SessionView{}, err
	}
	return domain.NewSessionView(sess, nil), nil
}

// createSession stores a new session for userID stamped at now.
func (s *SessionService) createSession(
	ctx context.Context,
	tx store.Tx,
	userID int64,
	now time.Time,
) (domain.Session, error) {
	newToken := s.NewToken
	if newToken == nil {
		newToken = cryptox.NewSessionToken
	}

	token, err := newToken()
	if err != nil {
		return domain.Session{}, err
	}

	sess, err := tx.Sessions().CreateSession(ctx, domain.Session{
		UserID:       userID,
		Token:        token,
		StartedAt:    now,
		LastActiveAt: now,
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Session{}, ErrTokenCollision
		}
		return domain.Session{}, err
	}
	return sess, nil
}

// EndSession deletes the session named by token. The caller must be
// identified but need not own the session.
func (s *SessionService) EndSession(ctx context.Context, identity *domain.User, token *string) (err error) {
	ctx, span := tracer.Start(ctx, "SessionService.EndSession")
	defer func() { endSpan(span, err) }()

	if identity == nil {
		return NotAuthenticatedError()
	}
	if token == nil {
		return InvalidTokenError()
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		sess, err := tx.Sessions().GetSessionByToken(ctx, *token)
		if err != nil {
			return notFoundAs(err, InvalidTokenError())
		}
		return notFoundAs(tx.Sessions().DeleteSession(ctx, sess.ID), InvalidTokenError())
	})
	if err != nil {
		return err
	}

	s.Metrics.Sessions(metrics.SessionEnded, 1)
	slogx.FromContext(ctx).Info("session ended",
		slog.Int64("user_id", identity.ID),
		slog.String("token", cryptox.RedactToken(*token)),
	)
	return nil
}

// RefreshSession extends the caller's own session. A session idle beyond
// domain.ExpiryWindow is deleted and reported as an invalid token.
func (s *SessionService) RefreshSession(
	ctx context.Context,
	identity *domain.User,
	token *string,
) (_ domain.SessionView, err error) {
	ctx, span := tracer.Start(ctx, "SessionService.RefreshSession")
	defer func() { endSpan(span, err) }()

	if identity == nil {
		return domain.SessionView{}, NotAuthenticatedError()
	}
	if token == nil {
		return domain.SessionView{}, InvalidTokenError()
	}

	now := s.Clock.Now()
	var (
		sess    domain.Session
		expired bool
	)

	// The expired session must stay deleted, so the transaction commits
	// before the error is reported, including one scoped to the request.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		sess, err = tx.Sessions().GetUserSession(ctx, *token, identity.ID)
		if err != nil {
			return notFoundAs(err, InvalidTokenError())
		}

		if sess.Expired(now) {
			expired = true
			store.KeepChanges(ctx)
			return notFoundAs(tx.Sessions().DeleteSession(ctx, sess.ID), InvalidTokenError())
		}

		sess.LastActiveAt = sess.ActivityAt(now)
		return notFoundAs(tx.Sessions().TouchSession(ctx, sess.ID, sess.LastActiveAt), InvalidTokenError())
	})
	if err != nil {
		return domain.SessionView{}, err
	}

	if expired {
		s.Metrics.Sessions(metrics.SessionExpired, 1)
		slogx.FromContext(ctx).Info("expired session removed on refresh",
			slog.Int64("user_id", identity.ID),
			slog.Int64("session_id", sess.ID),
		)
		return domain.SessionView{}, InvalidTokenError()
	}

	s.Metrics.Sessions(metrics.SessionRefreshed, 1)
	return domain.NewSessionView(sess, identity.Origin), nil
}

func notFoundAs(err, replacement error) error {
	if errors.Is(err, store.ErrNotFound) {
		return replacement
	}
	return err
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return metrics.LoginInvalidCredentials
	case errors.Is(err, ErrAccountLocked):
		return metrics.LoginLocked
	default:
		return metrics.LoginError
	}
}
