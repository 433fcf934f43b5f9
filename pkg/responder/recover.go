// SPDX-License-Identifier: MIT

package responder

import (
	"fmt"
	"net/http"
	"runtime"
)

// PanicError is the fault produced from a value recovered in a handler.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// StackTrace returns the goroutine stack captured at recovery.
func (e *PanicError) StackTrace() string { return e.Stack }

// Recoverer ensures that panics inside any downstream handler do not crash
// the process. The panic is rendered as an unclassified fault, so the caller
// receives the service-unavailable entry and the stack goes to the log.
func (rs *Responder) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				// net/http uses this to abort a response silently.
				panic(rec)
			}
			buf := make([]byte, 8192)
			n := runtime.Stack(buf, false)
			rs.Write(w, r, &PanicError{Value: rec, Stack: string(buf[:n])})
		}()

		next.ServeHTTP(w, r)
	})
}
