package utils

import (
	"net/url"
	"strings"
)

// siteOrigins are the production hosts allowed to call the API from a
// browser context.
var siteOrigins = map[string]bool{
	"fmd.gg":     true,
	"www.fmd.gg": true,
}

// IsAllowedOrigin checks whether an Origin header value should be trusted.
// It allows the site's own hosts plus localhost and .local hostnames for
// development; other public origins are blocked.
func IsAllowedOrigin(origin string) bool {
	if origin == "" {
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	hostname := parsed.Hostname()

	if siteOrigins[hostname] {
		return true
	}
	if hostname == "localhost" || hostname == "127.0.0.1" {
		return true
	}
	if strings.HasSuffix(hostname, ".local") {
		return true
	}
	return false
}
