package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// forwardHeaders are consulted in order before falling back to RemoteAddr.
// X-Forwarded-For may carry a chain; its first valid address wins.
var forwardHeaders = []string{
	"CF-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
}

// FromRequest returns the normalised client address of r, or "" when none
// of the sources holds a valid IP.
func FromRequest(r *http.Request) string {
	for _, h := range forwardHeaders {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		for part := range strings.SplitSeq(v, ",") {
			if ip := normalize(part); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return normalize(r.RemoteAddr)
	}
	return normalize(host)
}

func normalize(s string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return addr.Unmap().WithZone("").String()
}
