package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ConsumerConfig holds configuration for the batch consumer.
type ConsumerConfig struct {
	// BatchSize is the maximum number of records handed to the handler
	// in one batch.
	BatchSize int

	// FlushInterval bounds how long a partially filled batch waits
	// before being dispatched.
	FlushInterval time.Duration
}

// DefaultConsumerConfig returns a ConsumerConfig with reasonable defaults.
func DefaultConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		BatchSize:     10,
		FlushInterval: 500 * time.Millisecond,
	}
}

// Consumer drains the queue into batches and hands each batch to the
// handler. The handler's per-record terminal statuses are written back to
// the store; a record's failure is the handler's to isolate and never
// stops the consumer.
type Consumer struct {
	queue      *Queue
	handler    Handler
	config     ConsumerConfig
	logger     *slog.Logger
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewConsumer creates a new Consumer reading from the given queue.
func NewConsumer(q *Queue, handler Handler, config ConsumerConfig, logger *slog.Logger) *Consumer {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultConsumerConfig().BatchSize
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = DefaultConsumerConfig().FlushInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Consumer{
		queue:      q,
		handler:    handler,
		config:     config,
		logger:     logger.With("component", "queue_consumer"),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start recovers unfinished records from the store and begins consuming.
func (c *Consumer) Start() error {
	if err := c.recover(); err != nil {
		return fmt.Errorf("failed to recover queue records: %w", err)
	}

	c.wg.Add(1)
	go c.run()

	return nil
}

// Stop gracefully shuts down the consumer. In-flight batches finish;
// unconsumed records stay pending in the store and are redelivered on the
// next start.
func (c *Consumer) Stop() {
	c.cancelFunc()
	c.wg.Wait()
}

// recover loads records that were pending or in flight when the previous
// process stopped and puts them back on the channel. This is the source
// of at-least-once redelivery: a crash mid-batch re-enqueues records the
// handler may already have acted on. Records this process already placed
// on the channel are skipped, so recovery never double-delivers a live
// record.
func (c *Consumer) recover() error {
	ctx := context.Background()

	pending, err := c.queue.store.GetPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending records: %w", err)
	}

	c.logger.Info("recovering unfinished queue records", "pending_count", len(pending))

	for _, rec := range pending {
		switch err := c.queue.Requeue(rec); {
		case errors.Is(err, ErrDuplicateRecord):
			c.logger.Debug("record already queued, skipping", "record_id", rec.ID)
		case err != nil:
			c.logger.Error("failed to requeue pending record",
				"record_id", rec.ID,
				"error", err)
		}
	}

	return nil
}

// run is the consumer loop: collect a batch, dispatch it, repeat.
func (c *Consumer) run() {
	defer c.wg.Done()

	for {
		batch, ok := c.collectBatch()
		if len(batch) > 0 {
			c.dispatchBatch(batch)
		}
		if !ok {
			c.logger.Debug("record channel closed, stopping consumer")
			return
		}
		if c.ctx.Err() != nil {
			c.logger.Debug("stopping consumer")
			return
		}
	}
}

// collectBatch blocks for the first record, then fills the batch up to
// BatchSize or until FlushInterval elapses. Returns false when the
// channel is closed or the consumer is stopping.
func (c *Consumer) collectBatch() ([]Record, bool) {
	var batch []Record

	select {
	case <-c.ctx.Done():
		return nil, false
	case rec, ok := <-c.queue.GetChannel():
		if !ok {
			return nil, false
		}
		batch = append(batch, rec)
	}

	timer := time.NewTimer(c.config.FlushInterval)
	defer timer.Stop()

	for len(batch) < c.config.BatchSize {
		select {
		case <-c.ctx.Done():
			return batch, false
		case <-timer.C:
			return batch, true
		case rec, ok := <-c.queue.GetChannel():
			if !ok {
				return batch, false
			}
			batch = append(batch, rec)
		}
	}

	return batch, true
}

// dispatchBatch marks the batch processing, invokes the handler, and
// records each record's terminal status.
func (c *Consumer) dispatchBatch(batch []Record) {
	ctx := context.Background()

	for _, rec := range batch {
		if err := c.queue.store.UpdateStatus(ctx, rec.ID, StatusProcessing, ""); err != nil {
			c.logger.Error("failed to mark record processing",
				"record_id", rec.ID,
				"error", err)
		}
	}

	c.logger.Info("dispatching batch", "batch_size", len(batch))

	statuses := c.handler.HandleBatch(ctx, batch)

	if len(statuses) != len(batch) {
		// A handler contract violation; mark everything we cannot account
		// for as abandoned rather than leaving it processing forever.
		c.logger.Error("handler returned wrong number of statuses",
			"expected", len(batch),
			"actual", len(statuses))
	}

	for i, rec := range batch {
		status := StatusAbandoned
		note := "no status reported by handler"
		if i < len(statuses) {
			status = statuses[i]
			note = ""
		}

		if err := c.queue.store.UpdateStatus(ctx, rec.ID, status, note); err != nil {
			c.logger.Error("failed to record terminal status",
				"record_id", rec.ID,
				"status", status,
				"error", err)
		}
		c.queue.forget(rec.ID)
	}
}
