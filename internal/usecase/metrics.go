package usecase

import "time"

// Metrics receives domain events for instrumentation. The observability package
// provides the Prometheus-backed implementation.
type Metrics interface {
	SearchPerformed(matches int, elapsed time.Duration)
	SelectionRecorded(outcome string)
	SectionToggled(expanded bool)
	SessionsActive(count int)
	CountdownSubscribers(delta int)
	PivotCacheLookup(hit bool)
}

const (
	SelectionOutcomeSelected = "selected"
	SelectionOutcomeInvalid  = "invalid"
)

type noopMetrics struct{}

func (noopMetrics) SearchPerformed(int, time.Duration) {}
func (noopMetrics) SelectionRecorded(string)           {}
func (noopMetrics) SectionToggled(bool)                {}
func (noopMetrics) SessionsActive(int)                 {}
func (noopMetrics) CountdownSubscribers(int)           {}
func (noopMetrics) PivotCacheLookup(bool)              {}

func metricsOrNoop(m Metrics) Metrics {
	if m == nil {
		return noopMetrics{}
	}
	return m
}
