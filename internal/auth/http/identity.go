package http

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/tabauth/internal/auth/domain"
	"github.com/aussiebroadwan/tabauth/internal/auth/service"
	"github.com/aussiebroadwan/tabauth/internal/auth/store"
	"github.com/aussiebroadwan/tabauth/pkg/httpx"
	"github.com/aussiebroadwan/tabauth/pkg/slogx"
)

type ctxKey int

const (
	ctxKeyIdentity ctxKey = iota
	ctxKeyToken
)

// Identify opens the request transaction, extracts the request token,
// resolves it and stores both the token and any resolved user in the request
// context. An unresolvable token is not an error; handlers decide whether
// they need an identity.
//
// The transaction commits once the handler succeeds, or when a failing
// operation called store.KeepChanges. Otherwise every write made while
// serving the request, including the resolver's touch, is rolled back.
func Identify(st store.Store, resolver *service.TokenResolver) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw, ok, err := httpx.RequestToken(r)
			if err != nil {
				writeError(w, r, err)
				return
			}

			tx, err := st.Tx(ctx)
			if err != nil {
				writeError(w, r, err)
				return
			}
			defer func() { _ = tx.Rollback() }()
			ctx = store.ContextWithTx(ctx, tx)

			var token *string
			if ok {
				token = &raw
				ctx = context.WithValue(ctx, ctxKeyToken, token)
			}

			user, err := resolver.Resolve(ctx, token)
			if err != nil {
				writeError(w, r, err)
				return
			}

			if user != nil {
				ctx = context.WithValue(ctx, ctxKeyIdentity, user)
				ctx = slogx.With(ctx, "user_id", user.ID)
			}

			r = r.WithContext(ctx)
			buf := httpx.NewResponseBuffer()
			next.ServeHTTP(buf, r)

			if buf.Status() < http.StatusBadRequest || store.ChangesKept(ctx) {
				if err := tx.Commit(); err != nil {
					writeError(w, r, err)
					return
				}
			}

			if err := buf.FlushTo(w); err != nil {
				slogx.FromContext(ctx).Warn("response write failed", "error", err)
			}
		})
	}
}

// IdentityFromContext returns the user resolved for this request, or nil.
func IdentityFromContext(ctx context.Context) *domain.User {
	u, _ := ctx.Value(ctxKeyIdentity).(*domain.User)
	return u
}

// TokenFromContext returns the token carried by this request, or nil.
func TokenFromContext(ctx context.Context) *string {
	t, _ := ctx.Value(ctxKeyToken).(*string)
	return t
}
