// Package metrics exposes per-operation Prometheus counters and the
// /metrics endpoint served on its own listener.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Result label values.
const (
	ResultSuccess  = "success"
	ResultInvalid  = "invalid"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

var (
	TodoListCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "todo_list_total",
		Help: "Todo list requests by result.",
	}, []string{"result"})

	TodoCreateCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "todo_create_total",
		Help: "Todo create requests by result.",
	}, []string{"result"})

	TodoUpdateCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "todo_update_total",
		Help: "Todo update requests by result.",
	}, []string{"result"})

	TodoDeleteCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "todo_delete_total",
		Help: "Todo delete requests by result.",
	}, []string{"result"})

	EventPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "todo_event_publish_failures_total",
		Help: "Mutation events that failed to publish to JetStream.",
	})
)

// Init starts the metrics HTTP server on addr in the background.
func Init(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}
