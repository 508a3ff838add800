package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Application-wide Prometheus metrics. They live in their own package so the
// provider client, the services and the HTTP layer can share them without
// import cycles.

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	ProviderRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "provider_requests_total",
		Help: "Calls to the identity provider by operation and result",
	}, []string{"op", "result"}) // op: exchange|profile, result: ok|error

	ProviderRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "provider_request_duration_seconds",
		Help:    "Identity provider call latency",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"op"})

	ProfileCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "profile_cache_lookups_total",
		Help: "Provider profile cache lookups",
	}, []string{"result"}) // hit|miss

	LoginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "logins_total",
		Help: "Login attempts by method and result",
	}, []string{"method", "result"}) // method: yandex|password

	AccountsResolved = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "accounts_resolved_total",
		Help: "Provider identities resolved to local accounts",
	}, []string{"outcome"}) // existing|linked|created|conflict

	RateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"scope"})
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ProviderRequestsTotal,
		ProviderRequestDuration,
		ProfileCacheLookups,
		LoginsTotal,
		AccountsResolved,
		RateLimited,
	}
}

// Register registers every metric (plus any extra collectors) on reg, or on
// the default registry if nil. Duplicate registration is not an error.
func Register(reg prometheus.Registerer, extra ...prometheus.Collector) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range append(collectors(), extra...) {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return err
			}
		}
	}
	return nil
}

// Handler serves the default gatherer.
func Handler() http.Handler { return promhttp.Handler() }

func ObserveProvider(op string, err error, took time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	ProviderRequestsTotal.WithLabelValues(op, result).Inc()
	ProviderRequestDuration.WithLabelValues(op).Observe(took.Seconds())
}

func ObserveProfileCache(hit bool) {
	if hit {
		ProfileCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	ProfileCacheLookups.WithLabelValues("miss").Inc()
}

func ObserveLogin(method string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	LoginsTotal.WithLabelValues(method, result).Inc()
}

func ObserveResolve(outcome string) {
	AccountsResolved.WithLabelValues(outcome).Inc()
}
