// Package queue implements the durable notification queue: an in-memory
// buffered channel of records backed by persistent storage, plus the
// consumer that drains records in batches and hands them to a handler.
//
// Delivery is at-least-once: records are persisted before they enter the
// channel, and pending records are re-enqueued on startup. Consumers must
// therefore tolerate duplicate delivery of the same record.
package queue
