package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/tabauth/internal/auth/service"
	"github.com/aussiebroadwan/tabauth/pkg/httpx"
)

type UsersHandler struct {
	Users *service.UserService
}

// CreateAccountRequest is the account creation body.
type CreateAccountRequest struct {
	Username httpx.String `json:"username" swaggertype:"string"`
	Email    httpx.String `json:"email" swaggertype:"string"`
	Password httpx.String `json:"password" swaggertype:"string"`
	Origin   httpx.String `json:"origin,omitempty" swaggertype:"string"`
	Token    httpx.String `json:"token,omitempty" swaggertype:"string"`
}

// hasNonString reports a supplied field that is not a JSON string.
func (c CreateAccountRequest) hasNonString() bool {
	for _, f := range []httpx.String{c.Username, c.Email, c.Password, c.Origin, c.Token} {
		if f.Set && !f.Valid {
			return true
		}
	}
	return false
}

// UpdateProfileRequest is the profile update body.
type UpdateProfileRequest struct {
	Token    httpx.String `json:"token" swaggertype:"string"`
	Email    httpx.String `json:"email" swaggertype:"string"`
	Password httpx.String `json:"password,omitempty" swaggertype:"string"`
}

// HandleCreate registers an account.
//
//	@Summary		Create account
//	@Description	Creates a user and an initial session. Every body field must be a string.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateAccountRequest	true	"New account"
//	@Success		200		{object}	Envelope{d=domain.AccountView}
//	@Failure		400		{object}	Envelope{d=ErrorBody}
//	@Failure		413		{object}	Envelope{d=ErrorBody}
//	@Failure		500		{object}	Envelope{d=ErrorBody}
//	@Router			/api/users [post].
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := httpx.ReadJSON[CreateAccountRequest](r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if body.hasNonString() {
		writeError(w, r, service.AccountFieldsError())
		return
	}

	view, err := h.Users.CreateAccount(r.Context(), service.NewAccount{
		Username: body.Username.Ptr(),
		Email:    body.Email.Ptr(),
		Password: body.Password.Ptr(),
		Origin:   body.Origin.Ptr(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, view)
}

// HandleGet returns the caller's profile.
//
//	@Summary		Get profile
//	@Tags			Users
//	@Produce		json
//	@Param			user_id	path		int		true	"User ID"
//	@Param			token	query		string	true	"Session token"
//	@Success		200		{object}	Envelope{d=domain.UserView}
//	@Failure		400		{object}	Envelope{d=ErrorBody}
//	@Router			/api/user/{user_id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := pathUserID(r)
	if !ok {
		writeError(w, r, service.NotAuthenticatedError())
		return
	}

	view, err := h.Users.GetProfile(ctx, IdentityFromContext(ctx), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, view)
}

// HandleUpdate changes the caller's email and optionally password.
//
//	@Summary		Update profile
//	@Description	Replaces the email and, when given, the password (at least 8 characters).
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			user_id	path		int						true	"User ID"
//	@Param			body	body		UpdateProfileRequest	true	"Profile changes"
//	@Success		200		{object}	Envelope{d=domain.UserView}
//	@Failure		400		{object}	Envelope{d=ErrorBody}
//	@Failure		413		{object}	Envelope{d=ErrorBody}
//	@Failure		500		{object}	Envelope{d=ErrorBody}
//	@Router			/api/user/{user_id} [put].
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := pathUserID(r)
	if !ok {
		writeError(w, r, service.NotAuthenticatedError())
		return
	}

	body, err := httpx.ReadJSON[UpdateProfileRequest](r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := h.Users.UpdateProfile(ctx, IdentityFromContext(ctx), userID, service.ProfileUpdate{
		Email:       body.Email.Ptr(),
		Password:    body.Password.Ptr(),
		PasswordSet: body.Password.Set && !body.Password.Null,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeData(w, view)
}

func pathUserID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("user_id"), 10, 64)
	return id, err == nil
}
