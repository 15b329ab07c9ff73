package httpx

import (
	"net/http"
)

// TokenField names the query parameter and body field carrying a session token.
const TokenField = "token"

type tokenBody struct {
	Token String `json:"token"`
}

// RequestToken extracts the session token from r. GET and HEAD requests carry
// it as a query parameter; PUT, POST and DELETE carry it as a string field of
// a JSON object body. The body is restored after reading. Any other method,
// a missing field, or a non-string value yields ok == false.
func RequestToken(r *http.Request) (token string, ok bool, err error) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		q := r.URL.Query()
		if !q.Has(TokenField) {
			return "", false, nil
		}
		return q.Get(TokenField), true, nil

	case http.MethodPut, http.MethodPost, http.MethodDelete:
		body, err := ReadJSON[tokenBody](r)
		if err != nil {
			return "", false, err
		}
		return body.Token.Value, body.Token.Valid, nil

	default:
		return "", false, nil
	}
}
