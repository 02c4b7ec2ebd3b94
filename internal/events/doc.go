// Package events defines the task mutation events that flow from the CRUD
// layer to the notification dispatcher, and the emitter that publishes
// them onto the durable queue.
package events
