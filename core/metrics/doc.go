// Package metrics defines the sinks that record dispatch decisions for
// observability. Sinks like PromSink and InfluxSink live in infra/metrics and
// register themselves by name; NewMetricsSink builds one from configuration
// and returns a MultiSink when several are configured. Optional recorder
// interfaces are detected with a type assertion so a sink only implements
// what it can store.
package metrics
