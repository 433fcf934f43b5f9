// SPDX-License-Identifier: MIT

// Package middleware provides the HTTP middleware shared by services: the
// transaction id (correlation) middleware, request/response audit logging and
// the canonical stack that wires them with the error responder.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/magiavventure/go-common/pkg/log"
)

// HeaderTransactionID carries the correlation id in both directions.
const HeaderTransactionID = "transactionId"

// TransactionID establishes the request's correlation id. A non-empty inbound
// transactionId header is adopted, otherwise a random UUID is generated. The
// id is stored in the request context, attached to the context logger and
// echoed on the response.
func TransactionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		txID := r.Header.Get(HeaderTransactionID)
		if txID == "" {
			txID = uuid.NewString()
		}
		w.Header().Set(HeaderTransactionID, txID)

		ctx := log.ContextWithTransactionID(r.Context(), txID)
		logger := log.WithContext(ctx, log.Base())
		ctx = logger.WithContext(ctx)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
