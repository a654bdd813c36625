package types

// MetricSample is one performance or usage measurement emitted by the
// pipeline during the session. Samples are append-only; arrival order
// matters for latency inspection but not for the final aggregate.
type MetricSample struct {
	Kind        string  `json:"kind"`
	Value       float64 `json:"value"`
	TimestampMS int64   `json:"timestamp_ms"`
}
