package httpx

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mw("outer"), mw("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusBadRequest, map[string]string{"a": "b"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.JSONEq(t, `{"a":"b"}`, rec.Body.String())
}

func TestRequestToken(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   string
		wantOK bool
	}{
		{"get query", http.MethodGet, "/api/user/1?token=abc", "", "abc", true},
		{"get empty query value", http.MethodGet, "/api/user/1?token=", "", "", true},
		{"get missing", http.MethodGet, "/api/user/1", "", "", false},
		{"get ignores body", http.MethodGet, "/", `{"token":"abc"}`, "", false},
		{"post body", http.MethodPost, "/api/sessions", `{"token":"abc"}`, "abc", true},
		{"put body", http.MethodPut, "/api/sessions", `{"token":"abc","x":1}`, "abc", true},
		{"delete body", http.MethodDelete, "/api/sessions", `{"token":"abc"}`, "abc", true},
		{"post ignores query", http.MethodPost, "/api/sessions?token=abc", `{}`, "", false},
		{"post non-string token", http.MethodPost, "/", `{"token":42}`, "", false},
		{"post null token", http.MethodPost, "/", `{"token":null}`, "", false},
		{"post invalid json", http.MethodPost, "/", `{"token":`, "", false},
		{"post array body", http.MethodPost, "/", `["token"]`, "", false},
		{"post empty body", http.MethodPost, "/", ``, "", false},
		{"patch unsupported", http.MethodPatch, "/?token=abc", `{"token":"abc"}`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.target, body)

			got, ok, err := RequestToken(req)
			require.NoError(t, err)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRequestTokenRestoresBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"token":"abc","username":"alice"}`))

	_, ok, err := RequestToken(req)
	require.NoError(t, err)
	require.True(t, ok)

	body, err := ReadJSON[struct {
		Username String `json:"username"`
	}](req)
	require.NoError(t, err)
	require.Equal(t, "alice", body.Username.Value)
}

func TestRequestTokenOversizedBody(t *testing.T) {
	big := `{"token":"abc","pad":"` + strings.Repeat("x", MaxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))

	_, ok, err := RequestToken(req)
	require.False(t, ok)

	var tooLarge *http.MaxBytesError
	require.ErrorAs(t, err, &tooLarge)
	require.EqualValues(t, MaxBodyBytes, tooLarge.Limit)
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		A String `json:"a"`
		B String `json:"b"`
		C String `json:"c"`
		D String `json:"d"`
	}

	got := DecodeJSON[body]([]byte(`{"a":"x","b":null,"c":3}`))

	require.Equal(t, String{Set: true, Valid: true, Value: "x"}, got.A)
	require.Equal(t, ptrTo("x"), got.A.Ptr())
	require.False(t, got.A.Mistyped())

	require.True(t, got.B.Set)
	require.True(t, got.B.Null)
	require.Nil(t, got.B.Ptr())
	require.False(t, got.B.Mistyped())

	require.True(t, got.C.Mistyped())
	require.Nil(t, got.C.Ptr())

	require.Equal(t, String{}, got.D)

	for _, raw := range []string{``, `[1]`, `"a"`, `{"a":`} {
		require.Equal(t, body{}, DecodeJSON[body]([]byte(raw)), raw)
	}
}

func ptrTo(s string) *string { return &s }

func TestResponseBuffer(t *testing.T) {
	t.Run("holds output until flushed", func(t *testing.T) {
		buf := NewResponseBuffer()
		WriteJSON(buf, http.StatusBadRequest, map[string]string{"a": "b"})
		require.Equal(t, http.StatusBadRequest, buf.Status())

		rec := httptest.NewRecorder()
		rec.Header().Set("X-Request-ID", "abc")
		require.NoError(t, buf.FlushTo(rec))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		require.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
		require.JSONEq(t, `{"a":"b"}`, rec.Body.String())
	})

	t.Run("defaults to ok", func(t *testing.T) {
		buf := NewResponseBuffer()
		require.Equal(t, http.StatusOK, buf.Status())

		_, err := buf.Write([]byte("hi"))
		require.NoError(t, err)
		buf.WriteHeader(http.StatusTeapot)
		require.Equal(t, http.StatusOK, buf.Status())
	})
}
