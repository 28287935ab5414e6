// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the client IP that keys the scan quota. The service
// runs behind reverse proxies and CDNs, so proxy headers are consulted
// before falling back to the socket address.
package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// ClientIP resolves the originating client address. It takes, in order, the
// first hop of X-Forwarded-For, then X-Real-IP, then CF-Connecting-IP, and
// finally the request's remote address with the port stripped. The result
// is the identity key for the per-IP quota ledger, so the same resolution
// must be used everywhere (enforcement, the limit endpoint, and logs).
func ClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first := xff
		if idx := strings.IndexByte(xff, ','); idx >= 0 {
			first = xff[:idx]
		}
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(c.GetHeader("X-Real-IP")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(c.GetHeader("CF-Connecting-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}
