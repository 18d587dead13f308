package notify

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-logistics/logger"
	"go-logistics/models"
	"go-logistics/services"
	"go-logistics/utils"
)

// Queue accepts background jobs
type Queue interface {
	Enqueue(job services.Job) error
	ScheduleJob(job services.Job, delay time.Duration)
}

// retryDelay is how long a notification waits for room on a full queue.
const retryDelay = time.Second

type NotificationStore interface {
	Insert(ctx context.Context, notification *models.Notification) error
}

// Directory resolves email addresses for recipients
type Directory interface {
	RiderEmail(ctx context.Context, riderID primitive.ObjectID) (string, error)
	UserEmail(ctx context.Context, userID primitive.ObjectID) (string, error)
	AdminEmails(ctx context.Context) ([]string, error)
}

// Broadcaster pushes events to live subscribers
type Broadcaster interface {
	Broadcast(notification models.Notification)
}

// Service is the Dispatcher used by the delivery-session service. Notify only
// enqueues; persistence, mail and websocket fan-out run on the job queue.
type Service struct {
	queue       Queue
	store       NotificationStore
	directory   Directory
	mailer      utils.Mailer
	broadcaster Broadcaster
	now         func() time.Time
}

func NewService(queue Queue, store NotificationStore, directory Directory, mailer utils.Mailer, broadcaster Broadcaster) *Service {
	return &Service{
		queue:       queue,
		store:       store,
		directory:   directory,
		mailer:      mailer,
		broadcaster: broadcaster,
		now:         time.Now,
	}
}

func (s *Service) Notify(_ context.Context, kind models.EventKind, payload models.Notification) {
	payload.Kind = kind
	if payload.CreatedAt.IsZero() {
		payload.CreatedAt = s.now()
	}

	job := func(ctx context.Context) {
		s.deliver(ctx, payload)
	}
	err := s.queue.Enqueue(job)
	if errors.Is(err, services.ErrJobQueueIsFull) {
		// one more try once the workers have caught up
		s.queue.ScheduleJob(job, retryDelay)
		return
	}
	if err != nil {
		logger.Log.Warn("notification dropped",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}
}

func (s *Service) deliver(ctx context.Context, notification models.Notification) {
	if err := s.store.Insert(ctx, &notification); err != nil {
		logger.Log.Error("failed to store notification",
			zap.String("kind", string(notification.Kind)),
			zap.Error(err),
		)
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(notification)
	}

	recipients, err := s.recipients(ctx, notification)
	if err != nil {
		logger.Log.Error("failed to resolve notification recipients",
			zap.String("kind", string(notification.Kind)),
			zap.Error(err),
		)
		return
	}

	subject := Subject(notification.Kind)
	for _, to := range recipients {
		if err := s.mailer.SendEmail(to, subject, notification.Message); err != nil {
			logger.Log.Error("failed to send email",
				zap.String("to", to),
				zap.String("kind", string(notification.Kind)),
				zap.Error(err),
			)
		}
	}
}

func (s *Service) recipients(ctx context.Context, n models.Notification) ([]string, error) {
	switch n.Kind {
	case models.EventSessionAssigned:
		if n.RiderID == nil {
			return nil, nil
		}
		return single(s.directory.RiderEmail(ctx, *n.RiderID))
	case models.EventOrderShipped, models.EventOrderDelivered, models.EventOrderCancelled:
		if n.UserID == nil {
			return nil, nil
		}
		return single(s.directory.UserEmail(ctx, *n.UserID))
	default:
		return s.directory.AdminEmails(ctx)
	}
}

func single(email string, err error) ([]string, error) {
	if err != nil || email == "" {
		return nil, err
	}
	return []string{email}, nil
}

// Subject is the email subject for an event kind
func Subject(kind models.EventKind) string {
	switch kind {
	case models.EventSessionCreated:
		return "New Delivery Session"
	case models.EventSessionAssigned:
		return "Delivery Run Assigned"
	case models.EventSessionCancelled:
		return "Delivery Session Cancelled"
	case models.EventOrderShipped:
		return "Your Order Has Shipped"
	case models.EventOrderDelivered:
		return "Your Order Has Been Delivered"
	case models.EventOrderCancelled:
		return "Your Order Has Been Cancelled"
	case models.EventProofSubmitted:
		return "Proof of Delivery Submitted"
	default:
		return "Delivery Update"
	}
}
