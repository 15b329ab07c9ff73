package http

import (
	"net/http"

	"github.com/aussiebroadwan/tabauth/internal/auth/service"
	"github.com/aussiebroadwan/tabauth/pkg/httpx"
)

type SessionsHandler struct {
	Sessions *service.SessionService
}

// LoginRequest is the login body. Either credentials or the caller's current
// token.
type LoginRequest struct {
	Username httpx.String `json:"username,omitempty" swaggertype:"string"`
	Password httpx.String `json:"password,omitempty" swaggertype:"string"`
	Token    httpx.String `json:"token,omitempty" swaggertype:"string"`
}

// TokenRequest documents bodies that only carry a session token.
type TokenRequest struct {
	Token string `json:"token"`
}

// HandleCreate logs a user in.
//
//	@Summary		Log in
//	@Description	Exchanges a username and password for a new session token. A caller already
//	@Description	authenticated by the token in the body gets that session back unchanged.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			body	body		LoginRequest	true	"Credentials or current token"
//	@Success		200		{object}	Envelope{d=domain.SessionView}
//	@Failure		400		{object}	Envelope{d=ErrorBody}
//	@Failure		413		{object}	Envelope{d=ErrorBody}
//	@Failure		500		{object}	Envelope{d=ErrorBody}
//	@Router			/api/sessions [post].
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := httpx.ReadJSON[LoginRequest](r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := h.Sessions.StartSession(ctx, service.LoginRequest{
		Identity: IdentityFromContext(ctx),
		Token:    TokenFromContext(ctx),
		Username: body.Username.Ptr(),
		Password: body.Password.Ptr(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, view)
}

// HandleDelete logs a session out.
//
//	@Summary		Log out
//	@Description	Deletes the session named by token. The caller must be authenticated.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			body	body		TokenRequest	true	"Session token"
//	@Success		200		{object}	Envelope{d=object}
//	@Failure		400		{object}	Envelope{d=ErrorBody}
//	@Failure		413		{object}	Envelope{d=ErrorBody}
//	@Failure		500		{object}	Envelope{d=ErrorBody}
//	@Router			/api/sessions [delete].
func (h *SessionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.Sessions.EndSession(ctx, IdentityFromContext(ctx), TokenFromContext(ctx)); err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, struct{}{})
}

// HandleRefresh extends a session.
//
//	@Summary		Refresh session
//	@Description	Marks the caller's session active. Sessions idle for more than two weeks are
//	@Description	deleted and reported as invalid.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			body	body		TokenRequest	true	"Session token"
//	@Success		200		{object}	Envelope{d=domain.SessionView}
//	@Failure		400		{object}	Envelope{d=ErrorBody}
//	@Failure		413		{object}	Envelope{d=ErrorBody}
//	@Failure		500		{object}	Envelope{d=ErrorBody}
//	@Router			/api/sessions [put].
func (h *SessionsHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := h.Sessions.RefreshSession(ctx, IdentityFromContext(ctx), TokenFromContext(ctx))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, view)
}
