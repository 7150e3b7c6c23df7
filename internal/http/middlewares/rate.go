package middlewares

import (
	"net/http"
	"strconv"

	"github.com/myglobyx/globyx-api/internal/http/errors"
	"github.com/myglobyx/globyx-api/internal/observability/logger"
	"github.com/myglobyx/globyx-api/internal/rate"
)

// RateKeyFunc define cómo generar la clave de rate limiting.
type RateKeyFunc func(r *http.Request) string

// IPOnlyRateKey genera una clave basada solo en IP.
// Para login/signup no queremos leer el body para derivar la clave.
func IPOnlyRateKey(r *http.Request) string {
	return clientIP(r)
}

// WithRateLimit limita requests usando el limiter dado. Si el limiter falla
// (ej: redis caído) el request pasa: preferimos degradar a abierto antes que
// tirar el login de todo el mundo.
func WithRateLimit(limiter rate.Limiter, keyFn RateKeyFunc) Middleware {
	if limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if keyFn == nil {
		keyFn = IPOnlyRateKey
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := limiter.Allow(r.Context(), keyFn(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate_limit_error", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			if !res.Allowed {
				if res.RetryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())))
				}
				errors.WriteError(w, errors.ErrRateLimitExceeded)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			next.ServeHTTP(w, r)
		})
	}
}
