package etl

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/askiada/go-recordpipe/pkg/record"
)

// SliceLoader keeps the loaded records in memory. It is safe for concurrent use.
type SliceLoader struct {
	batches map[string][]record.Record
	order   []string
	mu      sync.Mutex
}

func NewSliceLoader() *SliceLoader {
	return &SliceLoader{batches: make(map[string][]record.Record)}
}

func (l *SliceLoader) Load(_ context.Context, batchID string, records []record.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.batches[batchID]; !ok {
		l.order = append(l.order, batchID)
	}
	l.batches[batchID] = append(l.batches[batchID], records...)

	return nil
}

// Records returns every loaded record, batch after batch.
func (l *SliceLoader) Records() []record.Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := []record.Record{}
	for _, id := range l.order {
		out = append(out, l.batches[id]...)
	}

	return out
}

// Batches returns the identifiers of the loaded batches, in load order.
func (l *SliceLoader) Batches() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.order...)
}

// LogLoader writes every record to a logger at info level.
type LogLoader struct {
	logger zerolog.Logger
}

func NewLogLoader(logger zerolog.Logger) *LogLoader {
	return &LogLoader{logger: logger}
}

func (l *LogLoader) Load(_ context.Context, batchID string, records []record.Record) error {
	for i, rec := range records {
		l.logger.Info().Str("batch_id", batchID).Int("index", i).Str("kind", rec.Kind().String()).Msg(rec.String())
	}

	return nil
}
