package client

import (
	"net/http"
)

type bearerTokenTransport struct {
	base  http.RoundTripper
	token string
}

func (t *bearerTokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	return t.base.RoundTrip(req)
}

// withBearerToken returns a copy of h whose transport adds the token.
func withBearerToken(h *http.Client, token string) *http.Client {
	base := h.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	out := *h
	out.Transport = &bearerTokenTransport{
		base:  base,
		token: token,
	}
	return &out
}
