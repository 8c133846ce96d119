package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Clubs-Council-IIITH/events/internal/directory"
	"github.com/Clubs-Council-IIITH/events/internal/models"
	"github.com/Clubs-Council-IIITH/events/pkg/jobs"
)

// JobTypeTransition is the queue job type for workflow notifications.
const JobTypeTransition = "event_transition"

// TransitionNotification is the structured payload handed to downstream
// notification channels after a committed transition. Delivery is someone
// else's problem; this service only assembles and enqueues.
type TransitionNotification struct {
	EventID   string            `json:"eventId"`
	EventCode string            `json:"eventCode"`
	EventName string            `json:"eventName"`
	ClubID    string            `json:"clubId"`
	ClubName  string            `json:"clubName,omitempty"`
	ClubEmail string            `json:"clubEmail,omitempty"`
	State     models.EventState `json:"state"`
	Action    string            `json:"action"`
	ActorID   string            `json:"actorId"`
	ActorRole models.Role       `json:"actorRole"`
}

// Sink receives assembled notifications. Implementations must tolerate
// at-least-once delivery.
type Sink interface {
	Deliver(ctx context.Context, notification TransitionNotification) error
}

// SinkFunc adapts a plain function into a Sink.
type SinkFunc func(ctx context.Context, notification TransitionNotification) error

// Deliver implements Sink.
func (f SinkFunc) Deliver(ctx context.Context, notification TransitionNotification) error {
	return f(ctx, notification)
}

// Notifier decouples workflow transitions from notification delivery through
// the in-memory job queue. Enqueue failures are logged and swallowed: a
// committed transition is never rolled back because a mail could not be sent.
type Notifier struct {
	queue  *jobs.Queue
	clubs  clubDirectory
	logger *zap.Logger
}

// NewNotifier builds the notifier and its backing queue.
func NewNotifier(sink Sink, clubs clubDirectory, cfg jobs.QueueConfig, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &Notifier{clubs: clubs, logger: logger}
	n.queue = jobs.NewQueue("notifications", func(ctx context.Context, job jobs.Job) error {
		notification, ok := job.Payload.(TransitionNotification)
		if !ok {
			n.logger.Error("unexpected notification payload", zap.String("job_id", job.ID))
			return nil
		}
		return sink.Deliver(ctx, notification)
	}, cfg)
	return n
}

// Start launches the queue workers.
func (n *Notifier) Start(ctx context.Context) {
	n.queue.Start(ctx)
}

// Stop drains the workers.
func (n *Notifier) Stop() {
	n.queue.Stop()
}

// EventTransitioned assembles and enqueues a notification for a committed
// workflow transition.
func (n *Notifier) EventTransitioned(ctx context.Context, event *models.Event, action Action, actor models.Actor) {
	notification := TransitionNotification{
		EventID:   event.ID,
		EventCode: event.Code,
		EventName: event.Name,
		ClubID:    event.ClubID,
		State:     event.State,
		Action:    string(action),
		ActorID:   actor.ID,
		ActorRole: actor.Role,
	}
	if n.clubs != nil {
		if club, err := n.clubs.GetClub(ctx, event.ClubID); err == nil {
			notification.ClubName = club.Name
			notification.ClubEmail = club.Email
		} else {
			n.logger.Warn("club lookup for notification failed",
				zap.String("club_id", event.ClubID), zap.Error(err))
		}
	}

	err := n.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    JobTypeTransition,
		Payload: notification,
	})
	if err != nil {
		n.logger.Warn("notification enqueue failed",
			zap.String("event_id", event.ID), zap.Error(err))
	}
}

var _ transitionNotifier = (*Notifier)(nil)
var _ clubDirectory = (*directory.Client)(nil)
var _ memberDirectory = (*directory.Client)(nil)
