package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Shortens = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shorten_requests_total",
		Help: "Total successful shorten requests.",
	})
	Redirects = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redirect_requests_total",
		Help: "Total successful redirects.",
	})
	ExpiredHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "expired_redirect_requests_total",
		Help: "Redirect requests for expired links.",
	})
	LogAppendFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "access_log_append_failures_total",
		Help: "Access log entries dropped because the log was unavailable.",
	})
)

func init() {
	prometheus.MustRegister(Shortens, Redirects, ExpiredHits, LogAppendFailures)
}

func Handler(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}
