package security

import (
	"net"
	"net/netip"
	"strings"
)

// defaultHeaderPriority is the ordered list of header keys inspected when
// the caller does not provide an explicit HeaderPriority.
var defaultHeaderPriority = []string{"X-Real-Ip", "X-Forwarded-For"}

// resolveClientAddr determines the effective client address from the
// transport-reported remote address and the request headers.
//
// If the remote address is within trustedProxies, the function walks
// headerPriority in order and returns the first valid IP found in the
// headers. Otherwise (or when no valid header IP is found) it returns the
// remote address itself.
func resolveClientAddr(remoteAddr string, header map[string]string, trustedProxies []netip.Prefix, headerPriority []string) (netip.Addr, bool) {
	peerAddr, ok := parseAddr(remoteAddr)
	if !ok {
		return netip.Addr{}, false
	}

	if isTrustedProxy(peerAddr, trustedProxies) {
		if addr, found := addrFromHeaders(header, headerPriority); found {
			return addr, true
		}
	}

	return peerAddr, true
}

// parseAddr parses an address string into a netip.Addr, stripping any port.
func parseAddr(addrStr string) (netip.Addr, bool) {
	// Try parsing as host:port first.
	if host, _, err := net.SplitHostPort(addrStr); err == nil {
		addrStr = host
	}

	ip, err := netip.ParseAddr(addrStr)
	if err != nil {
		return netip.Addr{}, false
	}
	return ip, true
}

// isTrustedProxy reports whether addr falls within any of the given prefixes.
func isTrustedProxy(addr netip.Addr, prefixes []netip.Prefix) bool {
	for _, p := range prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// addrFromHeaders walks the header keys in priority order and returns the
// first valid IP address found. For multi-value headers such as
// X-Forwarded-For the left-most (client) entry is used. Lookups are
// case-insensitive over the canonical spellings used by transports.
func addrFromHeaders(header map[string]string, priority []string) (netip.Addr, bool) {
	for _, key := range priority {
		v, ok := headerValue(header, key)
		if !ok {
			continue
		}
		// X-Forwarded-For may contain comma-separated IPs.
		for part := range strings.SplitSeq(v, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if ip, err := netip.ParseAddr(trimmed); err == nil {
				return ip, true
			}
		}
	}
	return netip.Addr{}, false
}

// headerValue finds key in the header map ignoring case.
func headerValue(header map[string]string, key string) (string, bool) {
	if v, ok := header[key]; ok {
		return v, true
	}
	for k, v := range header {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}
