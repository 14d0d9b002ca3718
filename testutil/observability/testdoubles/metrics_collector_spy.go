package testdoubles

import (
	"maps"
	"sync"
	"time"

	"github.com/AntonStoeckl/content-eventbus-go/observability"
)

// MetricRecord is one captured metrics call. Duration is set for durations, Value for values.
type MetricRecord struct {
	Metric   string
	Duration time.Duration
	Value    float64
	Labels   map[string]string
}

// MetricsCollectorSpy captures every metrics call for inspection.
type MetricsCollectorSpy struct {
	mu        sync.Mutex
	durations []MetricRecord
	counters  []MetricRecord
	values    []MetricRecord
}

func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durations = append(s.durations, MetricRecord{Metric: metric, Duration: duration, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters = append(s.counters, MetricRecord{Metric: metric, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = append(s.values, MetricRecord{Metric: metric, Value: value, Labels: maps.Clone(labels)})
}

// Durations returns the captured durations for metric.
func (s *MetricsCollectorSpy) Durations(metric string) []MetricRecord {
	return s.filter(&s.durations, metric)
}

// Counters returns the captured counter increments for metric.
func (s *MetricsCollectorSpy) Counters(metric string) []MetricRecord {
	return s.filter(&s.counters, metric)
}

// Values returns the captured values for metric.
func (s *MetricsCollectorSpy) Values(metric string) []MetricRecord {
	return s.filter(&s.values, metric)
}

func (s *MetricsCollectorSpy) filter(records *[]MetricRecord, metric string) []MetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	matching := make([]MetricRecord, 0)
	for _, record := range *records {
		if record.Metric == metric {
			matching = append(matching, record)
		}
	}

	return matching
}

var _ observability.MetricsCollector = (*MetricsCollectorSpy)(nil)
