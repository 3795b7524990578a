package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records counters for the public widget endpoints.
type StorefrontMetrics struct {
	offersServed   prometheus.Counter
	eventsTracked  *prometheus.CounterVec
	eventsDeduped  prometheus.Counter
	lookupFailures *prometheus.CounterVec
	matchDuration  prometheus.Histogram
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	offersServed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_offers_served_total",
		Help: "Upsell offers returned to storefront requests.",
	})
	eventsTracked := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_events_tracked_total",
		Help: "Analytics events accepted, by event type.",
	}, []string{"event_type"})
	eventsDeduped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_events_deduped_total",
		Help: "Impression events rejected as session duplicates.",
	})
	lookupFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "platform_lookup_failures_total",
		Help: "Failed platform API lookups, by kind.",
	}, []string{"kind"})
	matchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_match_duration_seconds",
		Help:    "Duration of rule matching per upsells request.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(offersServed, eventsTracked, eventsDeduped, lookupFailures, matchDuration)
	return &StorefrontMetrics{
		offersServed:   offersServed,
		eventsTracked:  eventsTracked,
		eventsDeduped:  eventsDeduped,
		lookupFailures: lookupFailures,
		matchDuration:  matchDuration,
	}
}

// AddOffersServed adds the number of offers returned by one request.
func (m *StorefrontMetrics) AddOffersServed(n int) {
	if m == nil || m.offersServed == nil || n <= 0 {
		return
	}
	m.offersServed.Add(float64(n))
}

// IncTracked increments the accepted-event counter for the given type.
func (m *StorefrontMetrics) IncTracked(eventType string) {
	if m == nil || m.eventsTracked == nil {
		return
	}
	m.eventsTracked.WithLabelValues(eventType).Inc()
}

// IncDeduped increments the duplicate-impression counter.
func (m *StorefrontMetrics) IncDeduped() {
	if m == nil || m.eventsDeduped == nil {
		return
	}
	m.eventsDeduped.Inc()
}

// IncLookupFailure increments the platform lookup failure counter.
func (m *StorefrontMetrics) IncLookupFailure(kind string) {
	if m == nil || m.lookupFailures == nil {
		return
	}
	m.lookupFailures.WithLabelValues(kind).Inc()
}

// ObserveMatchDuration records one matching pass.
func (m *StorefrontMetrics) ObserveMatchDuration(d time.Duration) {
	if m == nil || m.matchDuration == nil {
		return
	}
	m.matchDuration.Observe(d.Seconds())
}
