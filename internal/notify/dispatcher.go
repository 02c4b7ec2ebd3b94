package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/events"
	"github.com/taskdeck/taskdeck-api/internal/platform/mail"
	"github.com/taskdeck/taskdeck-api/internal/queue"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// Constructor validation errors
var (
	ErrNilTaskReader = errors.New("task reader cannot be nil")
	ErrNilDirectory  = errors.New("contact directory cannot be nil")
	ErrNilSender     = errors.New("mail sender cannot be nil")
	ErrNilRenderer   = errors.New("renderer cannot be nil")
	ErrNilLogger     = errors.New("logger cannot be nil")
)

// Dispatcher consumes batches of task mutation records and attempts to
// render and deliver exactly one notification email per record. All
// collaborators are injected so tests can substitute doubles.
type Dispatcher struct {
	tasks    store.TaskReader
	contacts store.ContactDirectory
	sender   mail.Sender
	renderer *Renderer
	from     string
	now      func() time.Time
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher. The from address is the envelope
// sender for every notification; now is injectable for tests and defaults
// to time.Now when nil.
func NewDispatcher(
	tasks store.TaskReader,
	contacts store.ContactDirectory,
	sender mail.Sender,
	renderer *Renderer,
	from string,
	now func() time.Time,
	logger *slog.Logger,
) (*Dispatcher, error) {
	if tasks == nil {
		return nil, ErrNilTaskReader
	}
	if contacts == nil {
		return nil, ErrNilDirectory
	}
	if sender == nil {
		return nil, ErrNilSender
	}
	if renderer == nil {
		return nil, ErrNilRenderer
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if from == "" {
		return nil, mail.ErrNoSender
	}
	if now == nil {
		now = time.Now
	}

	return &Dispatcher{
		tasks:    tasks,
		contacts: contacts,
		sender:   sender,
		renderer: renderer,
		from:     from,
		now:      now,
		logger:   logger.With("component", "notification_dispatcher"),
	}, nil
}

// Ensure Dispatcher implements queue.Handler
var _ queue.Handler = (*Dispatcher)(nil)

// ProcessBatch processes each record in order, independently. It never
// short-circuits: a record that fails at any step is abandoned and its
// siblings still run. Returns one Result per record, in input order.
func (d *Dispatcher) ProcessBatch(ctx context.Context, records []queue.Record) []Result {
	results := make([]Result, 0, len(records))
	for _, rec := range records {
		results = append(results, d.ProcessOne(ctx, rec))
	}
	return results
}

// HandleBatch implements queue.Handler by mapping each Result to the
// record's terminal queue status.
func (d *Dispatcher) HandleBatch(ctx context.Context, records []queue.Record) []queue.Status {
	results := d.ProcessBatch(ctx, records)

	statuses := make([]queue.Status, len(results))
	for i, res := range results {
		if res.Delivered {
			statuses[i] = queue.StatusDelivered
		} else {
			statuses[i] = queue.StatusAbandoned
		}
	}
	return statuses
}

// ProcessOne runs one record through the pipeline: decode, resolve task,
// resolve contact, render, deliver. Every failure abandons only this
// record; the returned Result records how far it got and why it stopped.
func (d *Dispatcher) ProcessOne(ctx context.Context, rec queue.Record) Result {
	log := d.logger.With("record_id", rec.ID)
	result := Result{RecordID: rec.ID, Stage: StageReceived}

	// Decode. A payload that cannot be decoded now will never decode;
	// redelivery cannot help, so the record is dropped outright.
	event, err := events.DecodeTaskMutationEvent(rec.Body)
	if err != nil {
		log.Error("invalid record body", "error", err)
		result.Reason = ReasonDecode
		result.Err = err
		return result
	}

	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		log.Error("invalid user ID in record", "error", err)
		result.Reason = ReasonDecode
		result.Err = err
		return result
	}

	taskID, err := uuid.Parse(event.TaskID)
	if err != nil {
		log.Error("invalid task ID in record", "error", err)
		result.Reason = ReasonDecode
		result.Err = err
		return result
	}

	result.Stage = StageDecoded
	log = log.With("task_id", event.TaskID, "action", event.Action)

	// Resolve the task's display data. A missing task is a benign race:
	// it may have been deleted between the mutation and this dispatch.
	task, err := d.tasks.GetByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			log.Warn("no task record for event")
			result.Reason = ReasonTaskMissing
			result.Err = err
			return result
		}
		log.Error("task lookup failed", "error", err)
		result.Reason = ReasonTaskLookup
		result.Err = err
		return result
	}
	result.Stage = StageTaskResolved

	// Resolve the owner's contact address.
	email, err := d.contacts.EmailByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Warn("no contact record for owner")
			result.Reason = ReasonContactMissing
			result.Err = err
			return result
		}
		log.Error("contact lookup failed", "error", err)
		result.Reason = ReasonContactLookup
		result.Err = err
		return result
	}
	result.Stage = StageContactResolved
	result.Recipient = email

	// Render.
	notification, err := d.renderer.Render(
		string(event.Action),
		event.TaskID,
		task.Title,
		task.DueDate,
		d.now(),
	)
	if err != nil {
		log.Error("failed to render notification", "error", err)
		result.Reason = ReasonRender
		result.Err = err
		return result
	}
	result.Stage = StageRendered

	// Deliver. A failed send is logged and abandoned; it never
	// propagates to the batch.
	msg := mail.Message{
		From:     d.from,
		To:       []string{email},
		Subject:  notification.Subject,
		TextBody: notification.TextBody,
		HTMLBody: notification.HTMLBody,
	}
	if err := d.sender.Send(ctx, msg); err != nil {
		log.Error("failed to send notification", "error", err)
		result.Reason = ReasonDelivery
		result.Err = err
		return result
	}

	result.Stage = StageDelivered
	result.Delivered = true
	log.Info("notification sent", "recipient_present", true)
	return result
}
