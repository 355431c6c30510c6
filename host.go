package readlater

import "strings"

// NormalizeHost lower-cases a host and strips any port, trailing dot and
// leading "www." label. An IPv6 address only carries a port in brackets,
// so a bare address such as "::1" is kept whole.
func NormalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	switch {
	case strings.HasPrefix(host, "["):
		if i := strings.IndexByte(host, ']'); i > 0 {
			host = host[1:i]
		}
	case strings.Count(host, ":") == 1:
		host = host[:strings.IndexByte(host, ':')]
	}
	host = strings.TrimSuffix(host, ".")
	return strings.TrimPrefix(host, "www.")
}

// HostPatterns returns the lookup keys for a host, most specific first: the
// normalized host followed by leading-dot patterns for it and each parent
// domain. Top-level domains never produce a pattern.
//
//	HostPatterns("news.example.com") → ["news.example.com", ".news.example.com", ".example.com"]
func HostPatterns(host string) []string {
	host = NormalizeHost(host)
	if host == "" {
		return nil
	}
	patterns := []string{host}
	for h := host; strings.Contains(h, "."); h = h[strings.IndexByte(h, '.')+1:] {
		patterns = append(patterns, "."+h)
	}
	return patterns
}

// MatchHost reports whether a host pattern covers host. Patterns starting
// with a dot match the domain itself and any subdomain; other patterns must
// match exactly after normalization.
func MatchHost(pattern, host string) bool {
	host = NormalizeHost(host)
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if strings.HasPrefix(pattern, ".") {
		return host == pattern[1:] || strings.HasSuffix(host, pattern)
	}
	return NormalizeHost(pattern) == host
}
