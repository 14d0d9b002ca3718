// Package testdoubles provides spies for the observability interfaces:
//   - LogHandlerSpy: a slog.Handler recording every record, use it with slog.New
//   - MetricsCollectorSpy: records duration, counter, and value calls
//   - TracingCollectorSpy: records started and finished spans
package testdoubles
