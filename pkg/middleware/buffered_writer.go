// SPDX-License-Identifier: MIT

package middleware

import (
	"bytes"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// BufferedResponseWriter holds the response body in memory instead of sending
// it, so it can be inspected after the handler returns. Headers go straight to
// the wrapped writer's header map; status and body are released by
// CopyBodyToResponse.
type BufferedResponseWriter struct {
	chimw.WrapResponseWriter
	dst     http.ResponseWriter
	body    bytes.Buffer
	flushed bool
}

// NewBufferedResponseWriter wraps w, or returns w itself when it already is a
// *BufferedResponseWriter.
func NewBufferedResponseWriter(w http.ResponseWriter, protoMajor int) *BufferedResponseWriter {
	if bw, ok := w.(*BufferedResponseWriter); ok {
		return bw
	}
	ww := chimw.NewWrapResponseWriter(w, protoMajor)
	bw := &BufferedResponseWriter{WrapResponseWriter: ww, dst: w}
	ww.Discard()
	ww.Tee(&bw.body)
	return bw
}

// StatusCode returns the status written by the handler, 200 when none was.
func (bw *BufferedResponseWriter) StatusCode() int {
	if st := bw.Status(); st != 0 {
		return st
	}
	return http.StatusOK
}

// Flush is a no-op: nothing reaches the client before CopyBodyToResponse.
func (bw *BufferedResponseWriter) Flush() {}

// FlushError is the http.ResponseController form of Flush.
func (bw *BufferedResponseWriter) FlushError() error { return nil }

// Unwrap returns nil so http.ResponseController cannot reach the client
// connection underneath the buffer.
func (bw *BufferedResponseWriter) Unwrap() http.ResponseWriter { return nil }

// Body returns the bytes buffered so far.
func (bw *BufferedResponseWriter) Body() []byte {
	return bw.body.Bytes()
}

// CopyBodyToResponse sends the status (once) and the buffered body to the
// wrapped writer and empties the buffer. Calling it again only sends bytes
// buffered since the previous call.
func (bw *BufferedResponseWriter) CopyBodyToResponse() error {
	if !bw.flushed {
		bw.flushed = true
		bw.dst.WriteHeader(bw.StatusCode())
	}
	if bw.body.Len() == 0 {
		return nil
	}
	_, err := bw.dst.Write(bw.body.Bytes())
	bw.body.Reset()
	return err
}
