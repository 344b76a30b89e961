package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface and the registrar domain counters.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	enrollments     prometheus.Counter
	unenrollments   prometheus.Counter
	gradesRecorded  prometheus.Counter
	creditRejects   prometheus.Counter
}

// NewMetricsService registers the core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	enrollments := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enrollments_total",
		Help: "Total accepted enrollments",
	})

	unenrollments := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "unenrollments_total",
		Help: "Total completed unenrollments",
	})

	gradesRecorded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "grades_recorded_total",
		Help: "Total grade entries recorded",
	})

	creditRejects := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enrollment_credit_rejections_total",
		Help: "Enrollments rejected by the semester credit ceiling",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, enrollments, unenrollments, gradesRecorded, creditRejects, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		enrollments:     enrollments,
		unenrollments:   unenrollments,
		gradesRecorded:  gradesRecorded,
		creditRejects:   creditRejects,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordEnrollment counts an accepted enrollment.
func (m *MetricsService) RecordEnrollment() {
	if m == nil {
		return
	}
	m.enrollments.Inc()
}

// RecordUnenrollment counts a completed unenrollment.
func (m *MetricsService) RecordUnenrollment() {
	if m == nil {
		return
	}
	m.unenrollments.Inc()
}

// RecordGradeEntry counts a recorded grade.
func (m *MetricsService) RecordGradeEntry() {
	if m == nil {
		return
	}
	m.gradesRecorded.Inc()
}

// RecordCreditRejection counts an enrollment turned away by the
// credit ceiling.
func (m *MetricsService) RecordCreditRejection() {
	if m == nil {
		return
	}
	m.creditRejects.Inc()
}
