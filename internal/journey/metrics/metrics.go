package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for journeys and the wizards driving them.
type Metrics struct {
	Started   *prometheus.CounterVec
	Completed *prometheus.CounterVec
	Cancelled *prometheus.CounterVec
	// Evicted counts journeys dropped for age on read.
	Evicted *prometheus.CounterVec
	// Missing counts requests for journeys that were not in the store, by policy.
	Missing *prometheus.CounterVec
	// Stale counts saves rejected because another request wrote first.
	Stale *prometheus.CounterVec

	ValidationFailures *prometheus.CounterVec
	Conflicts          *prometheus.CounterVec
	ConflictChoices    *prometheus.CounterVec

	CommitLatency *prometheus.HistogramVec
}

// New registers the journey metrics with the default registry.
func New() *Metrics {
	return &Metrics{
		Started: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "contacts_journeys_started_total",
			Help: "Journeys started by kind and mode",
		}, []string{"kind", "mode"}),
		Completed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "contacts_journeys_completed_total",
			Help: "Journeys committed successfully by kind and mode",
		}, []string{"kind", "mode"}),
		Cancelled: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "contacts_journeys_cancelled_total",
			Help: "Journeys cancelled by the user",
		}, []string{"kind"}),
		Evicted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "contacts_journeys_evicted_total",
			Help: "Journeys dropped because they were older than the configured age",
		}, []string{"kind"}),
		Missing: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "contacts_journeys_missing_total",
			Help: "Requests for journeys that were not found, by the policy applied",
		}, []string{"kind", "policy"}),
		Stale: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "contacts_journeys_stale_writes_total",
			Help: "Journey saves rejected because of a concurrent write",
		}, []string{"kind"}),
		ValidationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "contacts_journey_validation_failures_total",
			Help: "Step submissions that failed validation",
		}, []string{"kind", "step"}),
		Conflicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "contacts_journey_conflicts_total",
			Help: "Commits rejected as duplicate relationships",
		}, []string{"kind"}),
		ConflictChoices: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "contacts_journey_conflict_choices_total",
			Help: "Conflict resolutions by the option chosen",
		}, []string{"kind", "choice"}),
		CommitLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "contacts_journey_commit_duration_seconds",
			Help:    "Duration of the terminal commit call to the contacts API",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"kind", "outcome"}),
	}
}

func (m *Metrics) IncrementStarted(kind, mode string) {
	if m != nil {
		m.Started.WithLabelValues(kind, mode).Inc()
	}
}

func (m *Metrics) IncrementCompleted(kind, mode string) {
	if m != nil {
		m.Completed.WithLabelValues(kind, mode).Inc()
	}
}

func (m *Metrics) IncrementCancelled(kind string) {
	if m != nil {
		m.Cancelled.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) IncrementEvicted(kind string) {
	if m != nil {
		m.Evicted.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) IncrementMissing(kind, policy string) {
	if m != nil {
		m.Missing.WithLabelValues(kind, policy).Inc()
	}
}

func (m *Metrics) IncrementStale(kind string) {
	if m != nil {
		m.Stale.WithLabelValues(kind).Inc()
	}
}

// IncrementValidationFailure records a step submission rejected by validation.
func (m *Metrics) IncrementValidationFailure(kind, step string) {
	if m != nil {
		m.ValidationFailures.WithLabelValues(kind, step).Inc()
	}
}

func (m *Metrics) IncrementConflict(kind string) {
	if m != nil {
		m.Conflicts.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) IncrementConflictChoice(kind, choice string) {
	if m != nil {
		m.ConflictChoices.WithLabelValues(kind, choice).Inc()
	}
}

// ObserveCommitLatency records how long a commit took and how it ended
// ("ok", "duplicate", "error").
func (m *Metrics) ObserveCommitLatency(kind, outcome string, d time.Duration) {
	if m != nil {
		m.CommitLatency.WithLabelValues(kind, outcome).Observe(d.Seconds())
	}
}
