// SPDX-License-Identifier: MIT

// Package responder converts faults raised while serving a request into
// catalog-backed JSON error responses. It is the single boundary where errors
// stop propagating: every fault becomes a Payload, internal causes are logged
// and never sent to the caller.
package responder

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/magiavventure/go-common/pkg/apperr"
	"github.com/magiavventure/go-common/pkg/catalog"
	"github.com/magiavventure/go-common/pkg/log"
)

// Resolver resolves an error key to its catalog entry.
// *catalog.Catalog satisfies it.
type Resolver interface {
	Resolve(key string) catalog.Entry
}

// Responder renders faults using a catalog.
type Responder struct {
	catalog Resolver
}

// New returns a Responder backed by c.
func New(c Resolver) *Responder {
	return &Responder{catalog: c}
}

// Payload classifies err and builds its wire payload. Every class except
// domain errors is logged first, since the payload carries no detail.
func (rs *Responder) Payload(r *http.Request, err error) Payload {
	p, _ := rs.render(r, apperr.Classify(err))
	return p
}

// render builds the payload for f and reports the key of the entry that
// actually served it, which differs from f.Key after a fallback.
func (rs *Responder) render(r *http.Request, f apperr.Fault) (Payload, string) {
	var p Payload
	var e catalog.Entry
	switch f.Class {
	case apperr.ClassDomain:
		e = rs.catalog.Resolve(f.Key)
		p = ToPayload(e, f.Args)

	case apperr.ClassValidation:
		rs.logFault(r, f, zerolog.WarnLevel)
		e = rs.catalog.Resolve(f.Key)
		p = ToPayload(e, nil)
		p.Status = http.StatusBadRequest
		p.Fields = append([]string(nil), f.Fields...)

	case apperr.ClassBadRequest, apperr.ClassNotFound:
		rs.logFault(r, f, zerolog.WarnLevel)
		e = rs.catalog.Resolve(f.Key)
		p = ToPayload(e, nil)

	default:
		rs.logFault(r, f, zerolog.ErrorLevel)
		e = rs.catalog.Resolve(f.Key)
		p = ToPayload(e, nil)
	}
	if e.Key == "" {
		return p, f.Key
	}
	return p, e.Key
}

// Write renders err as a JSON error response.
func (rs *Responder) Write(w http.ResponseWriter, r *http.Request, err error) {
	f := apperr.Classify(err)
	p, key := rs.render(r, f)

	errorResponses.WithLabelValues(key, strconv.Itoa(p.Status)).Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(p.Status)
	if encErr := json.NewEncoder(w).Encode(p); encErr != nil {
		logger := rs.logger(r)
		logger.Error().
			Err(encErr).
			Str(log.FieldEvent, "error.encode_failed").
			Str(log.FieldErrorKey, key).
			Int(log.FieldStatus, p.Status).
			Msg("failed to encode error response")
	}
}

// HandlerFunc is an HTTP handler that reports failure by returning an error.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts fn to http.Handler, rendering any returned error. An error
// returned after fn already wrote a status is logged and not rendered, since
// the response is committed.
func (rs *Responder) Handle(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww, ok := w.(chimw.WrapResponseWriter)
		if !ok {
			ww = chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		}
		err := fn(ww, r)
		if err == nil {
			return
		}
		if st := ww.Status(); st != 0 {
			logger := rs.logger(r)
			logger.Error().
				Err(err).
				Str(log.FieldEvent, "error.response_committed").
				Int(log.FieldStatus, st).
				Msg("handler failed after writing the response")
			return
		}
		rs.Write(ww, r, err)
	})
}

// NotFound handles requests that matched no route.
func (rs *Responder) NotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rs.Write(w, r, apperr.NotFound(r))
	}
}

// MethodNotAllowed handles requests whose path matched with another method.
func (rs *Responder) MethodNotAllowed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rs.Write(w, r, apperr.BadRequest(apperr.KindMethodNotAllowed, r.Method+" "+r.URL.Path, nil))
	}
}

type stackTracer interface {
	StackTrace() string
}

func (rs *Responder) logFault(r *http.Request, f apperr.Fault, level zerolog.Level) {
	logger := rs.logger(r)
	ev := logger.WithLevel(level).
		Err(f.Err).
		Str(log.FieldEvent, "error."+f.Class.String()).
		Str(log.FieldErrorKey, f.Key).
		Str(log.FieldFaultType, fmt.Sprintf("%T", f.Err))
	if r != nil {
		ev = ev.Str(log.FieldMethod, r.Method).Str(log.FieldPath, r.URL.Path)
	}
	if level >= zerolog.ErrorLevel && f.Err != nil {
		ev = ev.Str("detail", fmt.Sprintf("%+v", f.Err))
	}
	if st, ok := f.Err.(stackTracer); ok {
		ev = ev.Str(log.FieldStack, st.StackTrace())
	}
	if len(f.Fields) > 0 {
		ev = ev.Strs("fields", f.Fields)
	}
	msg := "request failed"
	if f.Err != nil {
		msg = f.Err.Error()
	}
	ev.Msg(msg)
}

func (rs *Responder) logger(r *http.Request) zerolog.Logger {
	if r == nil {
		return log.WithComponent("responder")
	}
	return log.WithComponentFromContext(r.Context(), "responder")
}
