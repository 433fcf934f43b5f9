// SPDX-License-Identifier: MIT

// Package binding extracts and validates request input. Every failure is
// returned as one of the apperr framework faults, so handlers can return it
// unchanged and let the responder map it to the bad-request or
// validation-error catalog entries.
package binding

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/magiavventure/go-common/pkg/apperr"
)

// DecodeJSON decodes the JSON request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || !isJSON(mt) {
			return apperr.BadRequest(apperr.KindUnsupportedMediaType, ct, err)
		}
	}
	if r.Body == nil || r.Body == http.NoBody {
		return apperr.BadRequest(apperr.KindUnreadableBody, "empty body", nil)
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxBytes *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytes):
			return err
		case errors.Is(err, io.EOF):
			return apperr.BadRequest(apperr.KindUnreadableBody, "empty body", err)
		default:
			return apperr.BadRequest(apperr.KindUnreadableBody, "malformed json", err)
		}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return err
		}
		return apperr.BadRequest(apperr.KindUnreadableBody, "trailing content after json value", err)
	}
	return nil
}

// Bind decodes the JSON body into dst and validates it.
func Bind(r *http.Request, dst any) error {
	if err := DecodeJSON(r, dst); err != nil {
		return err
	}
	return Validate(dst)
}

// RequireAccept fails unless the request accepts mediaType. A missing Accept
// header accepts everything.
func RequireAccept(r *http.Request, mediaType string) error {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return nil
	}
	major, _, _ := strings.Cut(mediaType, "/")
	for _, part := range strings.Split(accept, ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if mt == "*/*" || mt == mediaType || mt == major+"/*" {
			return nil
		}
	}
	return apperr.BadRequest(apperr.KindNotAcceptable, accept, nil)
}

// Query binds the query parameter name into dst (a pointer) using form style.
// A missing optional parameter leaves dst untouched. A missing required
// parameter and a value that does not parse into dst are reported as distinct
// bad-request kinds.
func Query(r *http.Request, name string, required bool, dst any) error {
	values := r.URL.Query()
	if !values.Has(name) {
		if required {
			return apperr.BadRequest(apperr.KindMissingParameter, name, nil)
		}
		return nil
	}
	// Presence is settled above, so dst is always bound as a required
	// parameter (a plain pointer rather than runtime's pointer-to-pointer).
	if err := runtime.BindQueryParameter("form", true, true, name, values, dst); err != nil {
		return apperr.BadRequest(apperr.KindTypeMismatch, name, err)
	}
	return nil
}

// PathParam returns the chi URL parameter name, failing when it is empty.
func PathParam(r *http.Request, name string) (string, error) {
	v := chi.URLParam(r, name)
	if v == "" {
		return "", apperr.BadRequest(apperr.KindMissingPathVariable, name, nil)
	}
	return v, nil
}

// FormFile returns the multipart file part name.
func FormFile(r *http.Request, name string) (multipart.File, *multipart.FileHeader, error) {
	f, h, err := r.FormFile(name)
	switch {
	case err == nil:
		return f, h, nil
	case errors.Is(err, http.ErrMissingFile):
		return nil, nil, apperr.BadRequest(apperr.KindMissingPart, name, err)
	default:
		return nil, nil, apperr.BadRequest(apperr.KindRequestBinding, name, err)
	}
}

func isJSON(mt string) bool {
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
