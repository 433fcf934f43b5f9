// SPDX-License-Identifier: MIT

package responder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/magiavventure/go-common/pkg/catalog"
)

// Payload is the JSON error body sent to callers. Empty optional fields are
// omitted from the serialized object.
type Payload struct {
	Code        string   `json:"code"`
	Status      int      `json:"status"`
	Message     string   `json:"message,omitempty"`
	Description string   `json:"description,omitempty"`
	Fields      []string `json:"fields,omitempty"`
}

// ToPayload copies code, status and description from e and formats its
// message template with args.
func ToPayload(e catalog.Entry, args []string) Payload {
	return Payload{
		Code:        e.Code,
		Status:      e.Status,
		Message:     FormatMessage(e.Message, args),
		Description: e.Description,
	}
}

// FormatMessage substitutes args positionally into template using fmt verbs
// (%s). Without args the template is returned verbatim, placeholders included.
// Args beyond those the template consumes are dropped.
func FormatMessage(template string, args []string) string {
	if len(args) == 0 {
		return template
	}
	n := min(len(args), verbArgs(template))
	vals := make([]any, n)
	for i := range vals {
		vals[i] = args[i]
	}
	return fmt.Sprintf(template, vals...)
}

// verbArgs reports how many operands template consumes, honoring explicit
// argument indexes (%[2]s) and star widths. %% consumes none.
func verbArgs(template string) int {
	used, next := 0, 0
	for i := 0; i < len(template); i++ {
		if template[i] != '%' {
			continue
		}
		i++
	flags:
		for ; i < len(template); i++ {
			switch c := template[i]; {
			case c == '[':
				end := strings.IndexByte(template[i:], ']')
				if end < 0 {
					break flags
				}
				if idx, err := strconv.Atoi(template[i+1 : i+end]); err == nil && idx > 0 {
					next = idx - 1
				}
				i += end
			case c == '*':
				next++
				used = max(used, next)
			case strings.IndexByte("+-# 0123456789.", c) >= 0:
			default:
				break flags
			}
		}
		if i >= len(template) || template[i] == '%' {
			continue
		}
		next++
		used = max(used, next)
	}
	return used
}
