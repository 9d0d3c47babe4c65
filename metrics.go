package fern

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// StatsCollector exports frame stats as prometheus metrics.
type StatsCollector struct {
	frames       prometheus.Counter
	routineCalls prometheus.Counter
	diffChanges  prometheus.Counter
	despawned    prometheus.Counter
	events       prometheus.Counter
	iterations   prometheus.Histogram
	primitives   prometheus.Gauge
	frameSeconds prometheus.Histogram
}

// NewStatsCollector registers fern's metrics with reg.
func NewStatsCollector(reg prometheus.Registerer) *StatsCollector {
	f := promauto.With(reg)
	return &StatsCollector{
		frames: f.NewCounter(prometheus.CounterOpts{
			Namespace: "fern",
			Name:      "frames_total",
			Help:      "Number of UI frames updated.",
		}),
		routineCalls: f.NewCounter(prometheus.CounterOpts{
			Namespace: "fern",
			Name:      "widget_updates_total",
			Help:      "Number of widget update routines run.",
		}),
		diffChanges: f.NewCounter(prometheus.CounterOpts{
			Namespace: "fern",
			Name:      "diff_changes_total",
			Help:      "Number of child changes merged into the widget tree.",
		}),
		despawned: f.NewCounter(prometheus.CounterOpts{
			Namespace: "fern",
			Name:      "widgets_despawned_total",
			Help:      "Number of widget entities despawned.",
		}),
		events: f.NewCounter(prometheus.CounterOpts{
			Namespace: "fern",
			Name:      "events_total",
			Help:      "Number of typed UI events dispatched.",
		}),
		iterations: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fern",
			Name:      "layout_iterations",
			Help:      "Layout solve iterations per frame.",
			Buckets:   []float64{1, 2, 3, 4, 5},
		}),
		primitives: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "fern",
			Name:      "primitives",
			Help:      "Render primitives produced by the last frame.",
		}),
		frameSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fern",
			Name:      "frame_seconds",
			Help:      "Time spent in one UI update.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
	}
}

// Observe records one frame.
func (s *StatsCollector) Observe(stats FrameStats) {
	s.frames.Inc()
	s.routineCalls.Add(float64(stats.RoutineCalls))
	s.diffChanges.Add(float64(stats.DiffChanges))
	s.despawned.Add(float64(stats.Despawned))
	s.events.Add(float64(stats.Events))
	s.iterations.Observe(float64(stats.LayoutIterations))
	s.primitives.Set(float64(stats.Primitives))
	s.frameSeconds.Observe(stats.Total().Seconds())
}
