// Package clientip resolves the address of the client behind a request.
//
// Proxy headers (CF-Connecting-IP, X-Forwarded-For, X-Real-IP) are checked
// before RemoteAddr. Only deploy behind a proxy that overwrites them.
package clientip
