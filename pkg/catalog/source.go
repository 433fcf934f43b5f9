// SPDX-License-Identifier: MIT

package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/magiavventure/go-common/pkg/apperr"
)

// Source is one named set of catalog entries keyed by error key.
type Source struct {
	Name    string
	Entries map[string]Entry
}

// document is the on-disk shape shared by YAML and TOML sources.
type document struct {
	Errors map[string]Entry `yaml:"errors" toml:"errors"`
}

// FromMap wraps an in-memory mapping as a Source. The map is copied.
func FromMap(name string, entries map[string]Entry) Source {
	cp := make(map[string]Entry, len(entries))
	for k, v := range entries {
		cp[k] = v
	}
	return Source{Name: name, Entries: cp}
}

// Defaults returns the library's built-in entries for the reserved keys.
// Hosts usually fold it first so their own sources override it.
func Defaults() Source {
	return FromMap("defaults", map[string]Entry{
		apperr.KeyUnknown: {
			Code:        "GEN-500",
			Status:      http.StatusInternalServerError,
			Message:     "unknown error",
			Description: "an unexpected error occurred",
		},
		apperr.KeyValidation: {
			Code:        "GEN-400-VAL",
			Status:      http.StatusBadRequest,
			Message:     "validation error",
			Description: "one or more fields are not valid",
		},
		apperr.KeyBadRequest: {
			Code:        "GEN-400",
			Status:      http.StatusBadRequest,
			Message:     "bad request",
			Description: "the request could not be understood",
		},
		apperr.KeyNotFound: {
			Code:        "GEN-404",
			Status:      http.StatusNotFound,
			Message:     "not found",
			Description: "the requested resource does not exist",
		},
		apperr.KeyServiceUnavailable: {
			Code:        "GEN-503",
			Status:      http.StatusServiceUnavailable,
			Message:     "service unavailable",
			Description: "the service is temporarily unavailable",
		},
		apperr.KeyTooManyRequests: {
			Code:        "GEN-429",
			Status:      http.StatusTooManyRequests,
			Message:     "too many requests",
			Description: "request rate limit exceeded",
		},
	})
}

// Load reads a catalog source from path. The format follows the extension:
// .yaml/.yml or .toml. The source is named after the path.
func Load(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return ParseYAML(path, data)
	case ".toml":
		return ParseTOML(path, data)
	default:
		return Source{}, fmt.Errorf("catalog %s: unsupported extension %q", path, ext)
	}
}

// LoadAll loads every path in order, preserving it as merge precedence.
func LoadAll(paths ...string) ([]Source, error) {
	sources := make([]Source, 0, len(paths))
	for _, p := range paths {
		src, err := Load(p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// ParseYAML decodes a YAML catalog document. Unknown fields are rejected.
func ParseYAML(name string, data []byte) (Source, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return Source{}, fmt.Errorf("parse catalog %s: %w", name, err)
	}
	return Source{Name: name, Entries: nonNil(doc.Errors)}, nil
}

// ParseTOML decodes a TOML catalog document. Unknown fields are rejected.
func ParseTOML(name string, data []byte) (Source, error) {
	var doc document
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return Source{}, fmt.Errorf("parse catalog %s: %w", name, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Source{}, fmt.Errorf("parse catalog %s: unknown fields %s", name, strings.Join(keys, ", "))
	}
	return Source{Name: name, Entries: nonNil(doc.Errors)}, nil
}

func nonNil(m map[string]Entry) map[string]Entry {
	if m == nil {
		return map[string]Entry{}
	}
	return m
}
