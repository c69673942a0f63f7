// Package handlers implements the CRUD gateway: it validates input, delegates
// persistence to the store package, and publishes change events after
// successful mutations.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/corarez/salt-factory-app-sub000/internal/httpx"
	"github.com/corarez/salt-factory-app-sub000/internal/store"
)

// Notifier publishes a change event to all connected subscribers.
// Satisfied by *realtime.Hub; tests substitute a recording fake.
type Notifier interface {
	Publish(event string, payload any)
}

// urlID extracts the {id} route parameter.
func urlID(r *http.Request) (uint, bool) {
	n, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// monthYearFilter reads the optional month+year query parameters used by the
// monthly reporting views. Both must be present for the filter to apply.
func monthYearFilter(r *http.Request) (month, year int) {
	m, merr := strconv.Atoi(r.URL.Query().Get("month"))
	y, yerr := strconv.Atoi(r.URL.Query().Get("year"))
	if merr != nil || yerr != nil {
		return 0, 0
	}
	return m, y
}

// writeStoreError maps store errors onto the response taxonomy: 404 for a
// missing id, 409 for a unique-field collision, 500 with the underlying
// detail for anything else.
func writeStoreError(w http.ResponseWriter, err error, conflictMsg string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, store.ErrConflict):
		httpx.JSONError(w, http.StatusConflict, conflictMsg, nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "store_failure", err.Error())
	}
}
