package ctxutil

import (
	"context"
	"net"
	"net/http"
	"strings"
)

const clientIPKey = "client_ip"

// SetClientIP sets client IP to context.Context
func SetClientIP(ctx context.Context, ip string) context.Context {
	return SetValue(ctx, clientIPKey, ip)
}

// GetClientIP gets client IP from context.Context
func GetClientIP(ctx context.Context) string {
	if ip, ok := GetValue(ctx, clientIPKey).(string); ok && ip != "" {
		return ip
	}
	return "unknown"
}

// ClientIPFromRequest returns the first public address in X-Forwarded-For or
// X-Real-IP, falling back to RemoteAddr.
func ClientIPFromRequest(req *http.Request) string {
	if xff := req.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := strings.TrimSpace(part); ip != "" && !isPrivateIP(ip) {
				return ip
			}
		}
	}
	if ip := req.Header.Get("X-Real-IP"); ip != "" && !isPrivateIP(ip) {
		return ip
	}
	return getIPFromAddr(req.RemoteAddr)
}

// getIPFromAddr extracts IP from address string
func getIPFromAddr(addr string) string {
	if addr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// isPrivateIP reports loopback, link-local and private addresses. Invalid
// addresses count as private.
func isPrivateIP(s string) bool {
	ip := net.ParseIP(s)
	if ip == nil {
		return true
	}
	return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast()
}
