// Package metrics models per-request outcomes and aggregates them into run
// statistics.
//
// An [Outcome] is produced exactly once per issued request and classified
// into the exhaustive [Classification] set: success, timeout, status error,
// connect error, other error, or integrity failure. The [Aggregator] is the
// single consumer of the outcome channel; it discards a configurable warm-up
// prefix, maintains per-classification counts and a latency [Sampler], emits
// periodic rolling reports, and produces the final [Summary].
//
// Two sampler strategies are provided: [ExactSampler] retains every sample
// and selects percentiles by nearest rank, while [StreamSampler] keeps an
// HdrHistogram for bounded memory on long or unbounded runs.
package metrics
