package middleware

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Telemetry instruments the handler with otelhttp spans and metrics.
// Health probes are filtered out to keep them from dominating the traces.
func Telemetry(next http.Handler) http.Handler {
	return otelhttp.NewMiddleware("budgetix-api",
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
	)(next)
}
