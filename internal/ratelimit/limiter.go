// Package ratelimit applies a fixed-window request limit per caller in front
// of the proxy routes.
package ratelimit

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Limiter decides whether a caller identified by key may proceed. When the
// request is rejected it also reports how long until the window resets.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// keyHeaders is the priority order for identifying a caller. Forwarded-IP
// headers first, then host/auth headers.
var keyHeaders = []string{
	"X-Forwarded-For",
	"X-Real-Ip",
	"CF-Connecting-Ip",
	"Host",
	"Authorization",
}

// ClientKey derives the rate-limit bucket key for a request from the first
// present header, defaulting to a shared anonymous bucket.
func ClientKey(r *http.Request) string {
	for _, h := range keyHeaders {
		v := r.Header.Get(h)
		if h == "Host" && v == "" {
			v = r.Host
		}
		if v == "" {
			continue
		}
		// X-Forwarded-For may carry a chain; the first entry is the caller.
		if h == "X-Forwarded-For" {
			if i := strings.IndexAny(v, ", "); i > 0 {
				v = v[:i]
			}
		}
		return v
	}
	return "anonymous"
}
