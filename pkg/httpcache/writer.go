package httpcache

import (
	"bytes"
	"net/http"
)

// bufferingWriter captures an upstream response without forwarding it to the client.
type bufferingWriter struct {
	statusCode int
	header     http.Header
	body       bytes.Buffer
}

func newBufferingWriter() *bufferingWriter {
	return &bufferingWriter{statusCode: http.StatusOK, header: make(http.Header)}
}

func (w *bufferingWriter) Header() http.Header { return w.header }

func (w *bufferingWriter) Write(p []byte) (int, error) { return w.body.Write(p) }

func (w *bufferingWriter) WriteHeader(code int) { w.statusCode = code }

// upstreamResponse is shared between coalesced callers and must not be mutated.
type upstreamResponse struct {
	statusCode int
	header     http.Header
	body       []byte
}

func (r *upstreamResponse) writeTo(w http.ResponseWriter, withBody bool) {
	for k, v := range r.header {
		w.Header()[k] = append([]string(nil), v...)
	}
	w.WriteHeader(r.statusCode)
	if withBody {
		_, _ = w.Write(r.body)
	}
}
