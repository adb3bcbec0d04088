// Package device captures a free-text snapshot of the submitting device.
package device

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Info carries the browser-style identification fields nested into the
// relayed record.
type Info struct {
	UserAgent string `json:"userAgent"`
	Platform  string `json:"platform"`
	Vendor    string `json:"vendor"`
	Language  string `json:"language"`
}

// FromRequest builds a device snapshot from request headers.
// Client-hint headers are best effort; absent hints leave empty fields.
func FromRequest(r *http.Request) Info {
	return Info{
		UserAgent: r.UserAgent(),
		Platform:  strings.Trim(r.Header.Get("Sec-CH-UA-Platform"), `"`),
		Vendor:    r.Header.Get("Sec-CH-UA"),
		Language:  r.Header.Get("Accept-Language"),
	}
}

// JSON serializes the snapshot for nesting as a string inside the relay body.
func (i Info) JSON() string {
	b, err := json.Marshal(i)
	if err != nil {
		// Info is plain strings, marshal cannot fail
		return "{}"
	}
	return string(b)
}
