// SPDX-License-Identifier: MIT

package apperr

// Reserved catalog keys. A catalog missing any of them is misconfigured.
const (
	KeyUnknown            = "unknown-error"
	KeyValidation         = "validation-error"
	KeyBadRequest         = "bad-request"
	KeyNotFound           = "not-found"
	KeyServiceUnavailable = "service-unavailable"
)

// KeyTooManyRequests is raised by the rate limiter. It is not reserved:
// catalogs without it fall back to KeyUnknown.
const KeyTooManyRequests = "too-many-requests"

// ReservedKeys returns the keys the error pipeline itself depends on.
func ReservedKeys() []string {
	return []string{
		KeyUnknown,
		KeyValidation,
		KeyBadRequest,
		KeyNotFound,
		KeyServiceUnavailable,
	}
}
