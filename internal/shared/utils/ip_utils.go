package utils

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const fallbackIP = "127.0.0.1"

var privateIPBlocks = mustParseCIDRs(
	"10.0.0.0/8",     // Private network
	"172.16.0.0/12",  // Private network
	"192.168.0.0/16", // Private network
	"127.0.0.0/8",    // Loopback
)

// ExtractClientIP extracts the client IP address from the request.
//
// Priority order:
// 1. X-Forwarded-For header (takes first IP)
// 2. X-Real-IP header
// 3. RemoteAddr
//
// The result is normalized by NormalizeIP, since payment providers
// expect the IPv4 form whenever one exists.
func ExtractClientIP(c *gin.Context) string {
	// Format: "client, proxy1, proxy2"
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip, ok := NormalizeIP(strings.TrimSpace(first)); ok {
			return ip
		}
	}

	if xri := c.GetHeader("X-Real-IP"); xri != "" {
		if ip, ok := NormalizeIP(strings.TrimSpace(xri)); ok {
			return ip
		}
	}

	// RemoteAddr format: "IP:port" or "[IPv6]:port"
	remoteAddr := c.Request.RemoteAddr
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	if ip, ok := NormalizeIP(host); ok {
		return ip
	}

	return fallbackIP
}

// NormalizeIP validates ip and returns its canonical text form.
// IPv6 loopback becomes 127.0.0.1 and IPv4-mapped addresses become IPv4.
func NormalizeIP(ip string) (string, bool) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "", false
	}
	if parsed.Equal(net.IPv6loopback) {
		return fallbackIP, true
	}
	if v4 := parsed.To4(); v4 != nil {
		return v4.String(), true
	}
	return parsed.String(), true
}

// IsPrivateIP checks if an IP address is in private range
func IsPrivateIP(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}

	for _, block := range privateIPBlocks {
		if block.Contains(parsed) {
			return true
		}
	}

	return parsed.IsLoopback()
}

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	blocks := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, block, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(err)
		}
		blocks = append(blocks, block)
	}
	return blocks
}
