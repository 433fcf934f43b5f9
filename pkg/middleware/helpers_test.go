// SPDX-License-Identifier: MIT

package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/magiavventure/go-common/pkg/log"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.Reset()
	log.Configure(log.Config{Output: &buf, Level: "info"})
	t.Cleanup(func() {
		log.Reset()
		log.Configure(log.Config{})
	})
	return &buf
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &entry))
		lines = append(lines, entry)
	}
	return lines
}

// eventLines returns the decoded log lines whose event field equals event.
func eventLines(t *testing.T, buf *bytes.Buffer, event string) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, l := range logLines(t, buf) {
		if l[log.FieldEvent] == event {
			out = append(out, l)
		}
	}
	return out
}
