package dto

import (
	"net/http"
	"net/url"
)

// EchoResponse reflects the observable properties of a request back to the
// client. Multi-valued query parameters and headers keep their original
// order. Fields that do not apply to an endpoint are left unset and omitted
// from the serialized body.
type EchoResponse struct {
	Args    url.Values  `json:"args"`
	Data    string      `json:"data,omitempty"`
	Files   url.Values  `json:"files,omitempty"`
	Form    url.Values  `json:"form,omitempty"`
	Headers http.Header `json:"headers"`
	JSON    any         `json:"json,omitempty"`
	Method  string      `json:"method,omitempty"`
	Origin  string      `json:"origin"`
	URL     string      `json:"url"`
}

// StreamLine is one NDJSON chunk emitted by the stream endpoint.
type StreamLine struct {
	ID      int         `json:"id"`
	Args    url.Values  `json:"args"`
	Headers http.Header `json:"headers"`
	Origin  string      `json:"origin"`
	URL     string      `json:"url"`
}

// DelayResponse is the echo payload of the delay endpoint plus the actually
// applied delay in seconds (after clamping).
type DelayResponse struct {
	EchoResponse
	Delay float64 `json:"delay"`
}

type HeadersResponse struct {
	Headers http.Header `json:"headers"`
}

type IPResponse struct {
	Origin string `json:"origin"`
}

type UserAgentResponse struct {
	UserAgent string `json:"user-agent"`
}

type UUIDResponse struct {
	UUID string `json:"uuid"`
}

type CookiesResponse struct {
	Cookies map[string]string `json:"cookies"`
}

// AuthResponse is shared by the basic, hidden-basic, bearer and digest auth
// endpoints. Token and Claims are only populated by the bearer endpoint.
type AuthResponse struct {
	Authenticated bool           `json:"authenticated"`
	User          string         `json:"user,omitempty"`
	Token         string         `json:"token,omitempty"`
	Claims        map[string]any `json:"claims,omitempty"`
}
