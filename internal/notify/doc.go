// Package notify implements the notification dispatch pipeline: the queue
// consumer's handler that, for each task mutation event, resolves the
// task's display data, resolves the owner's contact address, renders a
// notification email, and attempts delivery.
//
// Each record in a batch is processed independently. A record that fails
// at any step is abandoned after logging; its siblings are unaffected.
// The dispatcher performs no retries of its own and never writes to the
// task or user stores.
package notify
