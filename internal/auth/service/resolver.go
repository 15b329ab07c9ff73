package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/tabauth/internal/auth/domain"
	"github.com/aussiebroadwan/tabauth/internal/auth/metrics"
	"github.com/aussiebroadwan/tabauth/internal/auth/store"
)

// TokenResolver maps a request token to the user it identifies.
type TokenResolver struct {
	Store   store.Store
	Clock   Clock
	Metrics *metrics.Metrics
}

// Resolve returns the owner of token when the session was active within
// domain.ResolveWindow, recording the use. A missing, unknown or stale token
// yields nil without error and nothing is deleted. Only storage failures
// return an error.
func (r *TokenResolver) Resolve(ctx context.Context, token *string) (_ *domain.User, err error) {
	if token == nil {
		r.Metrics.Resolution(metrics.ResolveNoToken)
		return nil, nil
	}

	ctx, span := tracer.Start(ctx, "TokenResolver.Resolve")
	defer func() { endSpan(span, err) }()

	now := r.Clock.Now()
	var user *domain.User

	err = r.Store.WithTx(ctx, func(tx store.Tx) error {
		sess, err := tx.Sessions().GetActiveSession(ctx, *token, now.Add(-domain.ResolveWindow))
		if err != nil {
			return ignoreNotFound(err)
		}

		u, err := tx.Users().GetUserByID(ctx, sess.UserID)
		if err != nil {
			return ignoreNotFound(err)
		}

		if err := tx.Sessions().TouchSession(ctx, sess.ID, sess.ActivityAt(now)); err != nil {
			return ignoreNotFound(err)
		}

		user = &u
		return nil
	})
	if err != nil {
		r.Metrics.Resolution(metrics.ResolveError)
		return nil, err
	}

	if user == nil {
		r.Metrics.Resolution(metrics.ResolveUnknown)
		return nil, nil
	}

	r.Metrics.Resolution(metrics.ResolveResolved)
	return user, nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}
