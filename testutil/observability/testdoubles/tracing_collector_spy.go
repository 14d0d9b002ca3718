package testdoubles

import (
	"context"
	"maps"
	"sync"

	"github.com/AntonStoeckl/content-eventbus-go/observability"
)

// SpanRecord is one span started through the spy. Status is empty until the span is finished.
type SpanRecord struct {
	Name       string
	Attributes map[string]string
	Status     string
	Finished   bool
}

// SpySpan is the SpanContext handed out by TracingCollectorSpy.
type SpySpan struct {
	spy   *TracingCollectorSpy
	index int
}

func (c *SpySpan) SetStatus(status string) {
	c.spy.update(c.index, func(r *SpanRecord) { r.Status = status })
}

func (c *SpySpan) AddAttribute(key, value string) {
	c.spy.update(c.index, func(r *SpanRecord) { r.Attributes[key] = value })
}

// TracingCollectorSpy records spans in start order.
type TracingCollectorSpy struct {
	mu    sync.Mutex
	spans []SpanRecord
}

func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{}
}

func (s *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, observability.SpanContext) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attributes := maps.Clone(attrs)
	if attributes == nil {
		attributes = make(map[string]string)
	}

	s.spans = append(s.spans, SpanRecord{Name: name, Attributes: attributes})

	return ctx, &SpySpan{spy: s, index: len(s.spans) - 1}
}

func (s *TracingCollectorSpy) FinishSpan(spanCtx observability.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(*SpySpan)
	if !ok {
		return
	}

	s.update(span.index, func(r *SpanRecord) {
		maps.Copy(r.Attributes, attrs)
		r.Status = status
		r.Finished = true
	})
}

// Spans returns a copy of the spans named name.
func (s *TracingCollectorSpy) Spans(name string) []SpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	matching := make([]SpanRecord, 0)
	for _, span := range s.spans {
		if span.Name == name {
			span.Attributes = maps.Clone(span.Attributes)
			matching = append(matching, span)
		}
	}

	return matching
}

func (s *TracingCollectorSpy) update(index int, fn func(r *SpanRecord)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.spans[index])
}

var _ observability.TracingCollector = (*TracingCollectorSpy)(nil)
