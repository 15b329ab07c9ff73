package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

// MaxBodyBytes caps how much of a request body is buffered.
const MaxBodyBytes = 1 << 20

// PeekBody reads the request body and restores it so that later handlers can
// read it again. A nil body yields nil. A body larger than MaxBodyBytes fails
// with *http.MaxBytesError.
func PeekBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}

	data, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, MaxBodyBytes))
	_ = r.Body.Close()
	if err != nil {
		r.Body = http.NoBody
		return nil, err
	}
	r.Body = io.NopCloser(bytes.NewReader(data))
	return data, nil
}

// String is a JSON string field that remembers how it was supplied. Decoding
// never fails on it: a value of another type leaves Set true and Valid false.
type String struct {
	Set   bool
	Null  bool
	Valid bool
	Value string
}

func (s *String) UnmarshalJSON(data []byte) error {
	*s = String{Set: true}
	if string(bytes.TrimSpace(data)) == "null" {
		s.Null = true
		return nil
	}
	s.Valid = json.Unmarshal(data, &s.Value) == nil
	return nil
}

// Mistyped reports a present value that is neither a string nor null.
func (s String) Mistyped() bool { return s.Set && !s.Null && !s.Valid }

// Ptr returns the value when it was a JSON string, nil otherwise.
func (s String) Ptr() *string {
	if !s.Valid {
		return nil
	}
	v := s.Value
	return &v
}

// DecodeJSON parses data into a T. A body that is not a JSON object of the
// expected shape, including an empty one, yields the zero T.
func DecodeJSON[T any](data []byte) T {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return zero
	}
	return v
}

// ReadJSON buffers the request body and decodes it with DecodeJSON. Only a
// failure to read the body is returned.
func ReadJSON[T any](r *http.Request) (T, error) {
	data, err := PeekBody(r)
	if err != nil {
		var zero T
		return zero, err
	}
	return DecodeJSON[T](data), nil
}
