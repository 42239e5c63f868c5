// internal/app/system/ratelimit/clientip.go
package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync/atomic"
)

// DefaultTrustedProxies are the peers whose forwarding headers are believed
// when nothing else is configured: a reverse proxy on the same host.
var DefaultTrustedProxies = []string{"127.0.0.0/8", "::1/128"}

var trusted atomic.Pointer[[]netip.Prefix]

func init() {
	if err := SetTrustedProxies(DefaultTrustedProxies); err != nil {
		panic(err)
	}
}

// SetTrustedProxies replaces the set of proxies allowed to supply
// X-Forwarded-For and X-Real-IP. Entries are IP addresses or CIDR ranges.
// An empty list trusts no one, so ClientIP always uses RemoteAddr.
func SetTrustedProxies(list []string) error {
	prefixes := make([]netip.Prefix, 0, len(list))
	for _, s := range list {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if strings.Contains(s, "/") {
			p, err := netip.ParsePrefix(s)
			if err != nil {
				return fmt.Errorf("trusted proxy %q: %w", s, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		a, err := netip.ParseAddr(s)
		if err != nil {
			return fmt.Errorf("trusted proxy %q: %w", s, err)
		}
		prefixes = append(prefixes, netip.PrefixFrom(a.Unmap(), a.Unmap().BitLen()))
	}
	trusted.Store(&prefixes)
	return nil
}

func isTrusted(a netip.Addr) bool {
	a = a.Unmap()
	for _, p := range *trusted.Load() {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// ClientIP returns the caller's address. Forwarding headers are honored only
// when the direct peer is a trusted proxy: X-Forwarded-For is walked from the
// right and the first hop that is not itself a trusted proxy wins, then
// X-Real-IP, then RemoteAddr.
func ClientIP(r *http.Request) string {
	remote := r.RemoteAddr
	if host, _, err := net.SplitHostPort(remote); err == nil {
		remote = host
	}
	peer, err := netip.ParseAddr(remote)
	if err != nil || !isTrusted(peer) {
		return remote
	}

	if xff := r.Header.Values("X-Forwarded-For"); len(xff) > 0 {
		hops := strings.Split(strings.Join(xff, ","), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				break
			}
			if !isTrusted(hop) {
				return hop.Unmap().String()
			}
		}
	}
	if xri, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return xri.Unmap().String()
	}
	return remote
}
