// SPDX-License-Identifier: MIT

// Package catalog holds the error catalog: the startup-configured mapping from
// error key to the code, HTTP status and message template sent to callers.
//
// A Catalog is built once from named sources folded left to right (later
// sources win on key collision) and is read-only afterwards, so it is safe
// for concurrent use without locking.
package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/rs/zerolog"

	"github.com/magiavventure/go-common/pkg/apperr"
	"github.com/magiavventure/go-common/pkg/log"
)

// Entry is one catalog template.
type Entry struct {
	Key         string `yaml:"-" toml:"-" json:"key"`
	Code        string `yaml:"code" toml:"code" json:"code"`
	Status      int    `yaml:"status" toml:"status" json:"status"`
	Message     string `yaml:"message" toml:"message" json:"message,omitempty"`
	Description string `yaml:"description" toml:"description" json:"description,omitempty"`
}

// configFault is returned when even the fallback key is missing.
var configFault = Entry{
	Key:         apperr.KeyUnknown,
	Code:        apperr.KeyUnknown,
	Status:      http.StatusInternalServerError,
	Message:     "unknown error",
	Description: "error catalog is missing the fallback entry",
}

// ErrMissingReservedKey is wrapped by Validate for every reserved key absent
// from the catalog.
var ErrMissingReservedKey = errors.New("missing reserved error key")

// ErrInvalidStatus is wrapped by Validate for entries whose status is not a
// valid HTTP status code.
var ErrInvalidStatus = errors.New("invalid http status")

// Catalog is an immutable merged error catalog.
type Catalog struct {
	entries map[string]Entry
	sources []string
	logger  zerolog.Logger
}

// Build folds sources left to right into a new Catalog. A key present in
// several sources takes the entry of the last one.
func Build(sources ...Source) *Catalog {
	c := &Catalog{
		entries: make(map[string]Entry),
		logger:  log.WithComponent("catalog"),
	}
	for _, src := range sources {
		for key, e := range src.Entries {
			e.Key = key
			c.entries[key] = e
		}
		c.sources = append(c.sources, src.Name)
	}
	c.logger.Debug().
		Str(log.FieldEvent, "catalog.built").
		Strs("sources", c.sources).
		Int("entries", len(c.entries)).
		Msg("error catalog built")
	return c
}

// Lookup returns the entry for key without fallback.
func (c *Catalog) Lookup(key string) (Entry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

// Resolve returns the entry for key. A missing key resolves to the
// apperr.KeyUnknown entry; a missing fallback is a configuration fault and
// yields a hardcoded 500 entry instead of looking up again.
func (c *Catalog) Resolve(key string) Entry {
	if e, ok := c.entries[key]; ok {
		return e
	}
	if key != apperr.KeyUnknown {
		if e, ok := c.entries[apperr.KeyUnknown]; ok {
			return e
		}
	}
	c.logger.Error().
		Str(log.FieldEvent, "catalog.fallback_missing").
		Str(log.FieldErrorKey, key).
		Msgf("error catalog has no %q entry", apperr.KeyUnknown)
	return configFault
}

// Validate reports every reserved key missing from the catalog and every
// entry with an out-of-range status. Hosts call it at startup to fail fast.
func (c *Catalog) Validate() error {
	var errs []error
	for _, key := range apperr.ReservedKeys() {
		if _, ok := c.entries[key]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingReservedKey, key))
		}
	}
	for _, key := range c.Keys() {
		if st := c.entries[key].Status; st < 100 || st > 599 {
			errs = append(errs, fmt.Errorf("%w: %s has status %d", ErrInvalidStatus, key, st))
		}
	}
	return errors.Join(errs...)
}

// Keys returns the catalog keys in sorted order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Sources returns the source names in merge order.
func (c *Catalog) Sources() []string {
	return append([]string(nil), c.sources...)
}
