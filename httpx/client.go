package httpx

import (
	"net"
	"net/http"
)

// ClientIP returns the value of the proxy header if set, otherwise the host
// part of the peer address. The header value is returned as sent.
func ClientIP(r *http.Request, header string) string {
	if header != "" {
		if fwd := r.Header.Get(header); fwd != "" {
			return fwd
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
