// SPDX-License-Identifier: MIT

package middleware

import (
	"github.com/go-chi/chi/v5"

	"github.com/magiavventure/go-common/pkg/responder"
)

// StackConfig configures the canonical HTTP ingress middleware stack.
type StackConfig struct {
	// Responder renders every error leaving the stack. Required.
	Responder *responder.Responder

	// Audit logging
	EnableAudit bool
	Audit       AuditConfig

	// Observability
	EnableMetrics  bool
	TracingService string // empty disables tracing

	// Rate limiting
	EnableRateLimit bool
	RateLimit       RateLimitConfig
}

// NewRouter constructs a chi router with the canonical middleware stack applied.
func NewRouter(cfg StackConfig) *chi.Mux {
	r := chi.NewRouter()
	ApplyStack(r, cfg)
	return r
}

// ApplyStack applies the canonical middleware stack to r and routes unmatched
// requests to the responder. It must run before routes are registered.
func ApplyStack(r chi.Router, cfg StackConfig) {
	rs := cfg.Responder

	// 1. TransactionID (correlation first, so every later log line carries it)
	r.Use(TransactionID)
	// 2. Tracing
	if cfg.TracingService != "" {
		r.Use(Tracing(cfg.TracingService))
	}
	// 3. Metrics
	if cfg.EnableMetrics {
		r.Use(Metrics())
	}
	// 4. Audit
	if cfg.EnableAudit {
		audit := cfg.Audit
		if audit.OnReadError == nil {
			audit.OnReadError = rs.Write
		}
		r.Use(Audit(audit))
	}
	// 5. Recoverer (inside audit, so recovered panics are logged as responses)
	r.Use(rs.Recoverer)
	// 6. Rate limit
	if cfg.EnableRateLimit {
		r.Use(RateLimit(cfg.RateLimit, rs))
	}

	r.NotFound(rs.NotFound())
	r.MethodNotAllowed(rs.MethodNotAllowed())
}
