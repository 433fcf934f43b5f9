// SPDX-License-Identifier: MIT

package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/magiavventure/go-common/pkg/apperr"
	"github.com/magiavventure/go-common/pkg/log"
)

// emptyBody is logged in place of an absent or empty body.
const emptyBody = "{}"

// AuditConfig configures the Audit middleware.
type AuditConfig struct {
	// MaxLoggedBody truncates the logged copy of each body to this many bytes.
	// Zero logs bodies in full. Bodies delivered to handlers and callers are
	// never truncated.
	MaxLoggedBody int

	// OnReadError renders a failure to read the request body. When nil the
	// request is answered with 400 and an empty body.
	OnReadError func(w http.ResponseWriter, r *http.Request, err error)
}

// Audit logs one structured line for each request and one for its response.
// The request body is read once and replayed to downstream handlers; the
// response is buffered, logged and then copied unchanged to the caller.
func Audit(cfg AuditConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := log.WithComponentFromContext(r.Context(), "audit")

			body, err := readBody(r)
			if err != nil {
				logger.Error().
					Err(err).
					Str(log.FieldEvent, "audit.read_failed").
					Str(log.FieldMethod, r.Method).
					Str(log.FieldURL, requestURI(r)).
					Msg("failed to read request body")
				if cfg.OnReadError != nil {
					cfg.OnReadError(w, r, apperr.BadRequest(apperr.KindUnreadableBody, "request body", err))
				} else {
					w.WriteHeader(http.StatusBadRequest)
				}
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			logger.Info().
				Str(log.FieldEvent, "audit.request").
				Str(log.FieldMethod, r.Method).
				Str(log.FieldURL, requestURI(r)).
				Dict(log.FieldHeaders, headerDict(r.Header)).
				RawJSON(log.FieldBody, loggedBody(body, cfg.MaxLoggedBody)).
				Msg("REQUEST")

			bw := NewBufferedResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(bw, r)

			logger.Info().
				Str(log.FieldEvent, "audit.response").
				Str(log.FieldMethod, r.Method).
				Str(log.FieldURL, requestURI(r)).
				Dict(log.FieldHeaders, headerDict(bw.Header())).
				Int(log.FieldStatus, bw.StatusCode()).
				RawJSON(log.FieldBody, loggedBody(bw.Body(), cfg.MaxLoggedBody)).
				Msg("RESPONSE")

			if err := bw.CopyBodyToResponse(); err != nil {
				logger.Warn().
					Err(err).
					Str(log.FieldEvent, "audit.copy_failed").
					Msg("failed to copy buffered response body")
			}
		})
	}
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}

func requestURI(r *http.Request) string {
	if r.RequestURI != "" {
		return r.RequestURI
	}
	return r.URL.RequestURI()
}

// headerDict renders headers as name -> values joined by ", ". net/http keeps
// headers in a map, so names are emitted sorted.
func headerDict(h http.Header) *zerolog.Event {
	d := zerolog.Dict()
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		d.Str(name, strings.Join(h[name], ", "))
	}
	return d
}

// loggedBody returns body as embeddable single-line JSON: compacted when it
// already is JSON, quoted otherwise, and {} when empty.
func loggedBody(body []byte, limit int) []byte {
	if len(bytes.TrimSpace(body)) == 0 {
		return []byte(emptyBody)
	}
	if limit > 0 && len(body) > limit {
		body = body[:limit]
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err == nil {
		return compact.Bytes()
	}
	quoted, err := json.Marshal(string(body))
	if err != nil {
		return []byte(emptyBody)
	}
	return quoted
}
