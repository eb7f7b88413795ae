package measure

import "time"

// Measure holds the metrics of every stage of a run.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric holds the metrics of one stage.
type Metric interface {
	AddDuration(elapsed time.Duration)
	AddTransport(inputStageName string)
	AddDrop()
	AVGDuration() time.Duration
	Total() int64
	Drops() int64
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
	AllTransports() map[string]*TransportInfo
}
