// SPDX-License-Identifier: MIT

// Package apperr defines the error model shared by HTTP services.
//
// Application code raises domain failures as *Error values carrying a catalog
// key and optional message arguments. Request binding raises framework faults
// (*ValidationError, *BadRequestError, *NotFoundError). Classify folds any
// error into a Fault whose Class selects the catalog key the responder uses:
//
//	return apperr.New("name-taken", req.Name)
//
// Causes attached to faults are for server-side logs only and never reach the
// wire payload.
package apperr
