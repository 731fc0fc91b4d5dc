package middleware

import (
	"net/http"
	"slices"
	"time"

	"github.com/kbukum/seqkit/logger"
)

var quietPaths = []string{"/health", "/info"}

// RequestLogger logs every request except the health and info probes: 5xx
// at error level, 4xx at warn, the rest at debug.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(quietPaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			path := r.URL.Path
			if q := r.URL.RawQuery; q != "" {
				path += "?" + q
			}
			fields := logger.DurationFields("http.request", time.Since(start))
			fields[logger.FieldMethod] = r.Method
			fields[logger.FieldPath] = path
			fields[logger.FieldStatus] = sw.status
			fields[logger.FieldClient] = r.RemoteAddr

			l := log.WithContext(r.Context())
			switch {
			case sw.status >= 500:
				l.Error("Request completed", fields)
			case sw.status >= 400:
				l.Warn("Request completed", fields)
			default:
				l.Debug("Request completed", fields)
			}
		})
	}
}
