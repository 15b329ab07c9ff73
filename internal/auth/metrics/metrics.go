// Package metrics holds the Prometheus collectors for the auth service.
// A nil *Metrics is valid and records nothing.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Login outcomes.
const (
	LoginSuccess            = "success"
	LoginInvalidFormat      = "invalid_format"
	LoginInvalidCredentials = "invalid_credentials"
	LoginLocked             = "locked"
	LoginError              = "error"
)

// Token resolution outcomes.
const (
	ResolveNoToken  = "no_token"
	ResolveUnknown  = "unknown"
	ResolveResolved = "resolved"
	ResolveError    = "error"
)

// Session lifecycle events.
const (
	SessionCreated   = "created"
	SessionEnded     = "ended"
	SessionRefreshed = "refreshed"
	SessionExpired   = "expired"
	SessionSwept     = "swept"
)

type Metrics struct {
	LoginsTotal      *prometheus.CounterVec
	ResolutionsTotal *prometheus.CounterVec
	SessionsTotal    *prometheus.CounterVec
	AccountsTotal    prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tabauth_logins_total",
				Help: "Total login attempts by result",
			},
			[]string{"result"},
		),
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tabauth_token_resolutions_total",
				Help: "Total request token resolutions by result",
			},
			[]string{"result"},
		),
		SessionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tabauth_session_events_total",
				Help: "Total session lifecycle events by type",
			},
			[]string{"event"},
		),
		AccountsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tabauth_accounts_created_total",
				Help: "Total accounts created",
			},
		),
	}

	reg.MustRegister(m.LoginsTotal, m.ResolutionsTotal, m.SessionsTotal, m.AccountsTotal)
	return m
}

func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) Resolution(result string) {
	if m == nil {
		return
	}
	m.ResolutionsTotal.WithLabelValues(result).Inc()
}

// Sessions adds n to the counter for event.
func (m *Metrics) Sessions(event string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.SessionsTotal.WithLabelValues(event).Add(float64(n))
}

func (m *Metrics) AccountCreated() {
	if m == nil {
		return
	}
	m.AccountsTotal.Inc()
}
