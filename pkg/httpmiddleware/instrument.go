package httpmiddleware

import (
	"net/http"

	"github.com/go-faster/sdk/app"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instrument returns a middleware that wraps the handler with OpenTelemetry
// HTTP tracing and records a per-method request counter.
func Instrument(serviceName string, m *app.Telemetry) Middleware {
	meter := m.MeterProvider().Meter(serviceName)
	requests, _ := meter.Int64Counter("http.server.requests")

	return func(next http.Handler) http.Handler {
		counted := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(r.Context(), 1, metric.WithAttributes(
				attribute.String("http.method", r.Method),
			))
			next.ServeHTTP(w, r)
		})

		return otelhttp.NewHandler(counted, serviceName,
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		)
	}
}
