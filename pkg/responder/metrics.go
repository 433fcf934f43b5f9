// SPDX-License-Identifier: MIT

package responder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var errorResponses = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "common_http_error_responses_total",
	Help: "Error payloads written, by catalog key and HTTP status",
}, []string{"key", "status"})
