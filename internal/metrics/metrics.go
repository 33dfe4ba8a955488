package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors of one process. Use a fresh registry per
// instance so tests can build several servers side by side.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	QuizCompletions  *prometheus.CounterVec
	ScorePercentage  prometheus.Histogram
	StreakRecomputes prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint"},
		),
		QuizCompletions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_completions_total",
				Help: "Completed quizzes by category",
			},
			[]string{"quiz_type"},
		),
		ScorePercentage: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "quiz_score_percentage",
				Help:    "Percentage score of completed quizzes",
				Buckets: []float64{20, 40, 60, 80, 100},
			},
		),
		StreakRecomputes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "streak_recomputes_total",
				Help: "Streak evaluations written to the checkpoint store",
			},
		),
	}

	m.registry.MustRegister(
		m.RequestCounter,
		m.RequestDuration,
		m.QuizCompletions,
		m.ScorePercentage,
		m.StreakRecomputes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveCompletion(quizType string, percentage int) {
	m.QuizCompletions.WithLabelValues(quizType).Inc()
	m.ScorePercentage.Observe(float64(percentage))
}
