package service

import (
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/aussiebroadwan/tabauth/internal/auth/service")

// Clock returns the current time. A nil Clock reads the wall clock.
// Times are normalised to UTC with microsecond precision to match what the
// stores persist.
type Clock func() time.Time

func (c Clock) Now() time.Time {
	var t time.Time
	if c == nil {
		t = time.Now()
	} else {
		t = c()
	}
	return t.UTC().Truncate(time.Microsecond)
}

// endSpan closes span, recording internal errors as failures and expected
// AuthErrors as an attribute.
func endSpan(span trace.Span, err error) {
	defer span.End()

	if err == nil {
		return
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		span.SetAttributes(attribute.String("auth.error_type", string(authErr.Kind)))
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
