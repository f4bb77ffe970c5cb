package common

import (
	"fmt"
	"net/http"
)

// CustomEvent renders a single server-sent event without the buffering or
// field escaping of gin's built-in SSE render. Event is the SSE event name;
// Data is the already-serialized payload line.
type CustomEvent struct {
	Event string
	Data  string
}

var contentType = []string{"text/event-stream"}
var noCache = []string{"no-cache"}

// Render writes the event to the wire as "event: <name>\ndata: <data>\n\n".
// The event line is omitted when Event is empty.
func (r CustomEvent) Render(w http.ResponseWriter) error {
	r.WriteContentType(w)
	if r.Event != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", r.Event); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s\n\n", r.Data)
	return err
}

// WriteContentType sets the SSE headers if they have not been written yet.
func (r CustomEvent) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	header["Content-Type"] = contentType
	if _, exist := header["Cache-Control"]; !exist {
		header["Cache-Control"] = noCache
	}
}
