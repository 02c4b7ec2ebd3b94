package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory Store for tests.
type memoryStore struct {
	mu       sync.Mutex
	records  map[uuid.UUID]Record
	statuses map[uuid.UUID]Status
	notes    map[uuid.UUID]string
	saveErr  error
	listErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		records:  make(map[uuid.UUID]Record),
		statuses: make(map[uuid.UUID]Status),
		notes:    make(map[uuid.UUID]string),
	}
}

func (m *memoryStore) Save(_ context.Context, rec Record) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = rec
	m.statuses[rec.ID] = rec.Status
	return nil
}

func (m *memoryStore) UpdateStatus(_ context.Context, id uuid.UUID, status Status, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return nil
	}
	m.statuses[id] = status
	m.notes[id] = note
	return nil
}

func (m *memoryStore) GetPending(_ context.Context) ([]Record, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var pending []Record
	for id, rec := range m.records {
		if m.statuses[id] == StatusPending || m.statuses[id] == StatusProcessing {
			pending = append(pending, rec)
		}
	}
	return pending, nil
}

func (m *memoryStore) statusOf(id uuid.UUID) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statuses[id]
}

func TestQueueEnqueue(t *testing.T) {
	store := newMemoryStore()
	q := New(store, 2, slog.Default())

	require.NoError(t, q.Enqueue(context.Background(), []byte("one")))
	require.NoError(t, q.Enqueue(context.Background(), []byte("two")))

	rec := <-q.GetChannel()
	assert.Equal(t, []byte("one"), rec.Body)
	assert.Equal(t, StatusPending, rec.Status)
	assert.Equal(t, StatusPending, store.statusOf(rec.ID))
}

func TestQueueEnqueueFull(t *testing.T) {
	store := newMemoryStore()
	q := New(store, 1, slog.Default())

	require.NoError(t, q.Enqueue(context.Background(), []byte("one")))

	err := q.Enqueue(context.Background(), []byte("two"))
	assert.ErrorIs(t, err, ErrQueueFull)

	// The overflowed record is still persisted for recovery.
	pending, listErr := store.GetPending(context.Background())
	require.NoError(t, listErr)
	assert.Len(t, pending, 2)
}

func TestQueueEnqueuePersistFailure(t *testing.T) {
	store := newMemoryStore()
	store.saveErr = errors.New("disk full")
	q := New(store, 1, slog.Default())

	err := q.Enqueue(context.Background(), []byte("one"))
	require.Error(t, err)

	// Nothing entered the channel.
	select {
	case <-q.GetChannel():
		t.Fatal("record should not have been enqueued")
	default:
	}
}

func TestQueueClose(t *testing.T) {
	store := newMemoryStore()
	q := New(store, 2, slog.Default())

	require.NoError(t, q.Enqueue(context.Background(), []byte("one")))
	q.Close()

	assert.ErrorIs(t, q.Enqueue(context.Background(), []byte("two")), ErrQueueClosed)
	assert.ErrorIs(t, q.Requeue(NewRecord([]byte("three"))), ErrQueueClosed)

	// Buffered records remain readable after Close.
	rec, ok := <-q.GetChannel()
	assert.True(t, ok)
	assert.Equal(t, []byte("one"), rec.Body)

	_, ok = <-q.GetChannel()
	assert.False(t, ok)

	// Close is idempotent.
	q.Close()
}

func TestQueueRequeue(t *testing.T) {
	store := newMemoryStore()
	q := New(store, 1, slog.Default())

	rec := NewRecord([]byte("recovered"))
	require.NoError(t, q.Requeue(rec))

	got := <-q.GetChannel()
	assert.Equal(t, rec.ID, got.ID)

	require.NoError(t, q.Requeue(NewRecord([]byte("a"))))
	assert.ErrorIs(t, q.Requeue(NewRecord([]byte("b"))), ErrQueueFull)
}

func TestQueueRequeueSkipsLiveRecord(t *testing.T) {
	store := newMemoryStore()
	q := New(store, 2, slog.Default())

	require.NoError(t, q.Enqueue(context.Background(), []byte("live")))
	rec := <-q.GetChannel()

	// The record is still in flight in this process, so recovery must not
	// put a second copy on the channel.
	assert.ErrorIs(t, q.Requeue(rec), ErrDuplicateRecord)
}

func TestQueueConcurrentEnqueueAndClose(t *testing.T) {
	store := newMemoryStore()
	q := New(store, 4, slog.Default())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := q.Enqueue(context.Background(), []byte("n"))
			if err != nil {
				assert.True(t, errors.Is(err, ErrQueueClosed) || errors.Is(err, ErrQueueFull))
			}
		}()
	}

	// Must never panic with a send on the closed channel.
	q.Close()
	wg.Wait()
}
