// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/magiavventure/go-common/pkg/apperr"
	"github.com/magiavventure/go-common/pkg/binding"
	"github.com/magiavventure/go-common/pkg/log"
	"github.com/magiavventure/go-common/pkg/responder"
)

const maxIconBytes = 64 << 10

// Category is the demo resource served by commonsvc.
type Category struct {
	ID         string `json:"id"`
	Name       string `json:"name" validate:"required,max=64"`
	Background string `json:"background" validate:"required,hexcolor"`
	Priority   int    `json:"priority" validate:"gte=0,lte=10"`
	IconBytes  int64  `json:"iconBytes,omitempty"`
}

type categoryStore struct {
	mu     sync.RWMutex
	byID   map[string]Category
	byName map[string]string
}

func newCategoryStore() *categoryStore {
	return &categoryStore{
		byID:   make(map[string]Category),
		byName: make(map[string]string),
	}
}

func (s *categoryStore) create(c Category) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byName[c.Name]; taken {
		return Category{}, apperr.New("category-name-taken", c.Name)
	}
	c.ID = uuid.NewString()
	c.IconBytes = 0
	s.byID[c.ID] = c
	s.byName[c.Name] = c.ID
	return c, nil
}

func (s *categoryStore) get(id string) (Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[id]
	if !ok {
		return Category{}, apperr.New("category-not-found", id)
	}
	return c, nil
}

func (s *categoryStore) update(id string, fn func(*Category)) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return Category{}, apperr.New("category-not-found", id)
	}
	fn(&c)
	s.byID[id] = c
	return c, nil
}

func (s *categoryStore) delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return apperr.New("category-not-found", id)
	}
	delete(s.byID, id)
	delete(s.byName, c.Name)
	return nil
}

// list returns categories with priority >= minPriority, highest priority
// first, ties by name.
func (s *categoryStore) list(minPriority, limit int) []Category {
	s.mu.RLock()
	out := make([]Category, 0, len(s.byID))
	for _, c := range s.byID {
		if c.Priority >= minPriority {
			out = append(out, c)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func mountCategories(r chi.Router, rs *responder.Responder, store *categoryStore) {
	h := &categoryHandlers{store: store}
	// Registered flat rather than with Route: a mounted subrouter would
	// inherit the stack-wrapped NotFound handler and run the stack twice.
	r.Method(http.MethodGet, "/categories", rs.Handle(h.list))
	r.Method(http.MethodPost, "/categories", rs.Handle(h.create))
	r.Method(http.MethodGet, "/categories/{id}", rs.Handle(h.get))
	r.Method(http.MethodDelete, "/categories/{id}", rs.Handle(h.delete))
	r.Method(http.MethodPut, "/categories/{id}/icon", rs.Handle(h.uploadIcon))
}

type categoryHandlers struct {
	store *categoryStore
}

func (h *categoryHandlers) list(w http.ResponseWriter, r *http.Request) error {
	if err := binding.RequireAccept(r, "application/json"); err != nil {
		return err
	}
	limit := 20
	if err := binding.Query(r, "limit", false, &limit); err != nil {
		return err
	}
	var minPriority int
	if err := binding.Query(r, "minPriority", false, &minPriority); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, h.store.list(minPriority, limit))
}

func (h *categoryHandlers) create(w http.ResponseWriter, r *http.Request) error {
	if err := binding.RequireAccept(r, "application/json"); err != nil {
		return err
	}
	var in Category
	if err := binding.Bind(r, &in); err != nil {
		return err
	}
	c, err := h.store.create(in)
	if err != nil {
		return err
	}

	logger := log.WithComponentFromContext(r.Context(), "categories")
	logger.Info().
		Str(log.FieldEvent, "category.created").
		Str("category_id", c.ID).
		Msg("category created")

	w.Header().Set("Location", "/categories/"+c.ID)
	return writeJSON(w, http.StatusCreated, c)
}

func (h *categoryHandlers) get(w http.ResponseWriter, r *http.Request) error {
	id, err := binding.PathParam(r, "id")
	if err != nil {
		return err
	}
	c, err := h.store.get(id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, c)
}

func (h *categoryHandlers) delete(w http.ResponseWriter, r *http.Request) error {
	id, err := binding.PathParam(r, "id")
	if err != nil {
		return err
	}
	if err := h.store.delete(id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *categoryHandlers) uploadIcon(w http.ResponseWriter, r *http.Request) error {
	id, err := binding.PathParam(r, "id")
	if err != nil {
		return err
	}
	if _, err := h.store.get(id); err != nil {
		return err
	}

	f, hdr, err := binding.FormFile(r, "icon")
	if err != nil {
		return err
	}
	defer f.Close()
	if hdr.Size > maxIconBytes {
		return apperr.New("category-icon-too-large", strconv.Itoa(maxIconBytes))
	}
	n, err := io.Copy(io.Discard, f)
	if err != nil {
		return apperr.BadRequest(apperr.KindUnreadableBody, "icon", err)
	}

	c, err := h.store.update(id, func(c *Category) { c.IconBytes = n })
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, c)
}

// writeJSON marshals before touching the response, so a failure can still
// be rendered as an error payload.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
	return nil
}
