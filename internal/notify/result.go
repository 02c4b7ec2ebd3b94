package notify

import "github.com/google/uuid"

// Stage identifies how far a record progressed through the pipeline.
type Stage string

// Pipeline stages in order. A delivered record reaches StageDelivered;
// an abandoned record stops at the last stage it completed.
const (
	StageReceived        Stage = "received"
	StageDecoded         Stage = "decoded"
	StageTaskResolved    Stage = "task_resolved"
	StageContactResolved Stage = "contact_resolved"
	StageRendered        Stage = "rendered"
	StageDelivered       Stage = "delivered"
)

// AbandonReason classifies why a record was abandoned.
type AbandonReason string

// Abandon reasons, one per failure mode of the pipeline.
const (
	// ReasonNone marks a delivered record.
	ReasonNone AbandonReason = ""

	// ReasonDecode: the record body was malformed or missing required
	// fields. Never retried; redelivery cannot fix a bad payload.
	ReasonDecode AbandonReason = "decode"

	// ReasonTaskLookup: the task store call itself failed.
	ReasonTaskLookup AbandonReason = "task_lookup"

	// ReasonTaskMissing: the task no longer exists, a benign race with
	// deletion between the mutation and the notification.
	ReasonTaskMissing AbandonReason = "task_missing"

	// ReasonContactLookup: the directory query failed.
	ReasonContactLookup AbandonReason = "contact_lookup"

	// ReasonContactMissing: no contact record exists for the owner.
	ReasonContactMissing AbandonReason = "contact_missing"

	// ReasonRender: the notification could not be rendered.
	ReasonRender AbandonReason = "render"

	// ReasonDelivery: the mail provider rejected or failed the send.
	ReasonDelivery AbandonReason = "delivery"
)

// Result is the outcome of processing one record. Exactly one of
// Delivered or a non-empty Reason holds.
type Result struct {
	// RecordID identifies the queue record this result belongs to.
	RecordID uuid.UUID

	// Stage is the furthest pipeline stage the record completed.
	Stage Stage

	// Delivered reports whether a delivery attempt succeeded.
	Delivered bool

	// Reason classifies the abandonment when Delivered is false.
	Reason AbandonReason

	// Recipient is the resolved contact address, when resolution got
	// that far.
	Recipient string

	// Err is the underlying error for failures that carried one.
	Err error
}
