// Package metrics exposes Prometheus instruments for the dataset service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every instrument. Each Registry owns its own Prometheus
// registry so tests can create as many as they like.
type Registry struct {
	MutationsTotal      *prometheus.CounterVec
	SavesTotal          *prometheus.CounterVec
	ImportsTotal        *prometheus.CounterVec
	ReloadsTotal        prometheus.Counter
	DatasetNodes        prometheus.Gauge
	DatasetFlows        prometheus.Gauge
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewRegistry creates a registry with Go runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Registry{
		registry: reg,
		MutationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chainscope_mutations_total",
			Help: "Dataset mutations by operation and result",
		}, []string{"operation", "result"}),
		SavesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chainscope_saves_total",
			Help: "Slot writes by result",
		}, []string{"result"}),
		ImportsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chainscope_imports_total",
			Help: "Dataset imports by result",
		}, []string{"result"}),
		ReloadsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "chainscope_reloads_total",
			Help: "Reloads triggered by external slot edits",
		}),
		DatasetNodes: f.NewGauge(prometheus.GaugeOpts{
			Name: "chainscope_dataset_nodes",
			Help: "Nodes in the current dataset",
		}),
		DatasetFlows: f.NewGauge(prometheus.GaugeOpts{
			Name: "chainscope_dataset_flows",
			Help: "Flows in the current dataset",
		}),
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chainscope_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chainscope_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}, []string{"method", "route"}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordMutation counts one mutation attempt.
func (r *Registry) RecordMutation(op string, err error) {
	r.MutationsTotal.WithLabelValues(op, result(err)).Inc()
}

// RecordSave counts one slot write.
func (r *Registry) RecordSave(err error) {
	r.SavesTotal.WithLabelValues(result(err)).Inc()
}

// RecordImport counts one import attempt.
func (r *Registry) RecordImport(err error) {
	r.ImportsTotal.WithLabelValues(result(err)).Inc()
}

// RecordReload counts one external reload.
func (r *Registry) RecordReload() {
	r.ReloadsTotal.Inc()
}

// SetDatasetSize updates the size gauges.
func (r *Registry) SetDatasetSize(nodes, flows int) {
	r.DatasetNodes.Set(float64(nodes))
	r.DatasetFlows.Set(float64(flows))
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency keyed by chi route pattern.
func (r *Registry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		route := "unmatched"
		if rc := chi.RouteContext(req.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		r.HTTPRequestsTotal.WithLabelValues(req.Method, route, strconv.Itoa(status)).Inc()
		r.HTTPRequestDuration.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())
	})
}
