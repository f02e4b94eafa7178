package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// VisitMetrics exposes application-level instruments for the visit
// completion workflow.
type VisitMetrics struct {
	saves        *prometheus.CounterVec
	saveDuration prometheus.Histogram
	photoUploads *prometheus.CounterVec
	emailsSent   prometheus.Counter
}

// New registers the visit instruments with the given registerer.
func New(reg prometheus.Registerer) *VisitMetrics {
	m := &VisitMetrics{
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pestora",
			Name:      "visit_saves_total",
			Help:      "Visit completion attempts by outcome.",
		}, []string{"outcome"}),
		saveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pestora",
			Name:      "visit_save_duration_seconds",
			Help:      "Duration of visit completion saves.",
			Buckets:   prometheus.DefBuckets,
		}),
		photoUploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pestora",
			Name:      "visit_photo_uploads_total",
			Help:      "Report photo uploads by outcome.",
		}, []string{"outcome"}),
		emailsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pestora",
			Name:      "visit_notification_emails_total",
			Help:      "Visit notification emails sent.",
		}),
	}
	reg.MustRegister(m.saves, m.saveDuration, m.photoUploads, m.emailsSent)
	return m
}

func (m *VisitMetrics) ObserveSave(outcome string, d time.Duration) {
	m.saves.WithLabelValues(outcome).Inc()
	m.saveDuration.Observe(d.Seconds())
}

func (m *VisitMetrics) ObservePhotoUpload(outcome string) {
	m.photoUploads.WithLabelValues(outcome).Inc()
}

func (m *VisitMetrics) ObserveEmailSent() {
	m.emailsSent.Inc()
}

func NewDefault() *VisitMetrics {
	return New(prometheus.DefaultRegisterer)
}

// Module provides visit metrics backed by the default registry.
var Module = fx.Module("observability.metrics",
	fx.Provide(NewDefault),
)
