package queue

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHandler collects batches and returns a fixed status per record.
type recordingHandler struct {
	mu      sync.Mutex
	batches [][]Record
	status  func(rec Record) Status
	done    chan struct{}
	want    int
	seen    int
}

func newRecordingHandler(want int, status func(rec Record) Status) *recordingHandler {
	if status == nil {
		status = func(Record) Status { return StatusDelivered }
	}
	return &recordingHandler{
		status: status,
		done:   make(chan struct{}),
		want:   want,
	}
}

func (h *recordingHandler) HandleBatch(_ context.Context, records []Record) []Status {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.batches = append(h.batches, records)
	statuses := make([]Status, len(records))
	for i, rec := range records {
		statuses[i] = h.status(rec)
	}

	h.seen += len(records)
	if h.seen >= h.want {
		select {
		case <-h.done:
		default:
			close(h.done)
		}
	}
	return statuses
}

func (h *recordingHandler) waitForRecords(t *testing.T) {
	t.Helper()
	select {
	case <-h.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for handler to receive records")
	}
}

func (h *recordingHandler) allRecords() []Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	var all []Record
	for _, b := range h.batches {
		all = append(all, b...)
	}
	return all
}

func TestConsumerDispatchesAndRecordsStatus(t *testing.T) {
	store := newMemoryStore()
	q := New(store, 10, slog.Default())
	handler := newRecordingHandler(2, nil)

	consumer := NewConsumer(q, handler, ConsumerConfig{
		BatchSize:     10,
		FlushInterval: 20 * time.Millisecond,
	}, slog.Default())
	require.NoError(t, consumer.Start())
	defer consumer.Stop()

	require.NoError(t, q.Enqueue(context.Background(), []byte("one")))
	require.NoError(t, q.Enqueue(context.Background(), []byte("two")))

	handler.waitForRecords(t)
	consumer.Stop()

	records := handler.allRecords()
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.Equal(t, StatusDelivered, store.statusOf(rec.ID))
	}
}

func TestConsumerWritesAbandonedStatus(t *testing.T) {
	store := newMemoryStore()
	q := New(store, 10, slog.Default())
	handler := newRecordingHandler(1, func(Record) Status { return StatusAbandoned })

	consumer := NewConsumer(q, handler, ConsumerConfig{
		BatchSize:     1,
		FlushInterval: 20 * time.Millisecond,
	}, slog.Default())
	require.NoError(t, consumer.Start())

	require.NoError(t, q.Enqueue(context.Background(), []byte("bad")))

	handler.waitForRecords(t)
	consumer.Stop()

	records := handler.allRecords()
	require.Len(t, records, 1)
	assert.Equal(t, StatusAbandoned, store.statusOf(records[0].ID))
}

func TestConsumerBatchSizeBound(t *testing.T) {
	store := newMemoryStore()
	q := New(store, 10, slog.Default())
	handler := newRecordingHandler(5, nil)

	consumer := NewConsumer(q, handler, ConsumerConfig{
		BatchSize:     2,
		FlushInterval: time.Second,
	}, slog.Default())

	// Fill the channel before the consumer starts so the first batches
	// can be observed at their size bound.
	for i := 0; i < 5; i++ {
		require.NoError(t, q.Enqueue(context.Background(), []byte{byte(i)}))
	}

	require.NoError(t, consumer.Start())
	handler.waitForRecords(t)
	consumer.Stop()

	handler.mu.Lock()
	defer handler.mu.Unlock()
	total := 0
	for _, batch := range handler.batches {
		assert.LessOrEqual(t, len(batch), 2)
		total += len(batch)
	}
	assert.Equal(t, 5, total)
}

func TestConsumerDeliversBufferedRecordsOnce(t *testing.T) {
	store := newMemoryStore()
	q := New(store, 10, slog.Default())
	handler := newRecordingHandler(3, nil)

	// Records enqueued before Start exist both on the channel and as
	// pending rows; recovery must not dispatch them a second time.
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Enqueue(context.Background(), []byte{byte(i)}))
	}

	consumer := NewConsumer(q, handler, ConsumerConfig{
		BatchSize:     10,
		FlushInterval: 20 * time.Millisecond,
	}, slog.Default())
	require.NoError(t, consumer.Start())

	handler.waitForRecords(t)
	consumer.Stop()

	records := handler.allRecords()
	require.Len(t, records, 3)

	seen := map[string]int{}
	for _, rec := range records {
		seen[rec.ID.String()]++
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "record %s delivered more than once", id)
	}
}

func TestConsumerRecoversPendingRecords(t *testing.T) {
	store := newMemoryStore()

	// Simulate records persisted by a previous process that never reached
	// a terminal status.
	orphanPending := NewRecord([]byte("pending"))
	require.NoError(t, store.Save(context.Background(), orphanPending))

	orphanProcessing := NewRecord([]byte("processing"))
	require.NoError(t, store.Save(context.Background(), orphanProcessing))
	require.NoError(t, store.UpdateStatus(context.Background(), orphanProcessing.ID, StatusProcessing, ""))

	q := New(store, 10, slog.Default())
	handler := newRecordingHandler(2, nil)

	consumer := NewConsumer(q, handler, ConsumerConfig{
		BatchSize:     10,
		FlushInterval: 20 * time.Millisecond,
	}, slog.Default())
	require.NoError(t, consumer.Start())

	handler.waitForRecords(t)
	consumer.Stop()

	ids := map[string]bool{}
	for _, rec := range handler.allRecords() {
		ids[rec.ID.String()] = true
	}
	assert.True(t, ids[orphanPending.ID.String()])
	assert.True(t, ids[orphanProcessing.ID.String()])
}

func TestConsumerHandlesShortStatusSlice(t *testing.T) {
	store := newMemoryStore()
	q := New(store, 10, slog.Default())

	short := &shortHandler{done: make(chan struct{})}
	consumer := NewConsumer(q, short, ConsumerConfig{
		BatchSize:     2,
		FlushInterval: 20 * time.Millisecond,
	}, slog.Default())

	require.NoError(t, q.Enqueue(context.Background(), []byte("one")))
	require.NoError(t, q.Enqueue(context.Background(), []byte("two")))
	require.NoError(t, consumer.Start())

	select {
	case <-short.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for handler")
	}
	consumer.Stop()

	// The unaccounted-for record is abandoned, not stuck processing.
	require.Len(t, short.records, 2)
	assert.Equal(t, StatusDelivered, store.statusOf(short.records[0].ID))
	assert.Equal(t, StatusAbandoned, store.statusOf(short.records[1].ID))
}

// shortHandler violates the Handler contract by returning one status for
// a two-record batch.
type shortHandler struct {
	records []Record
	done    chan struct{}
}

func (h *shortHandler) HandleBatch(_ context.Context, records []Record) []Status {
	h.records = records
	defer close(h.done)
	return []Status{StatusDelivered}
}
