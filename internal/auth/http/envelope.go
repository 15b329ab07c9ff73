package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/tabauth/internal/auth/service"
	"github.com/aussiebroadwan/tabauth/pkg/httpx"
	"github.com/aussiebroadwan/tabauth/pkg/slogx"
)

const (
	serverErrorType     = "server_error"
	requestTooLargeType = "request_too_large"
)

// Envelope wraps every API response body.
type Envelope struct {
	D any `json:"d"`
}

// ErrorBody is the payload of a failed request.
type ErrorBody struct {
	ErrorType string   `json:"error_type"`
	Errors    []string `json:"errors"`
}

func writeData(w http.ResponseWriter, v any) {
	httpx.WriteJSON(w, http.StatusOK, Envelope{D: v})
}

// writeError renders AuthErrors as 400s with their tag and messages and an
// oversized body as a 413. Any other error is logged and hidden behind a
// generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		httpx.WriteJSON(w, http.StatusRequestEntityTooLarge, Envelope{D: ErrorBody{
			ErrorType: requestTooLargeType,
			Errors:    []string{"request body too large"},
		}})
		return
	}

	var authErr *service.AuthError
	if errors.As(err, &authErr) {
		msgs := authErr.Messages
		if msgs == nil {
			msgs = []string{}
		}
		httpx.WriteJSON(w, http.StatusBadRequest, Envelope{D: ErrorBody{
			ErrorType: string(authErr.Kind),
			Errors:    msgs,
		}})
		return
	}

	slogx.FromContext(r.Context()).Error("request failed", "err", err)
	httpx.WriteJSON(w, http.StatusInternalServerError, Envelope{D: ErrorBody{
		ErrorType: serverErrorType,
		Errors:    []string{"internal server error"},
	}})
}
