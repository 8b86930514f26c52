package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Samamatip/dh-workflow/internal/domain/notification"
	"github.com/Samamatip/dh-workflow/internal/domain/shift"
	"github.com/Samamatip/dh-workflow/internal/domain/shiftrequest"
	"github.com/Samamatip/dh-workflow/internal/domain/user"
	"github.com/Samamatip/dh-workflow/internal/pkg/email"
	"github.com/Samamatip/dh-workflow/internal/pkg/sse"
)

const dateLayout = "2006-01-02"

// Config holds notification service configuration
type Config struct {
	WorkerCount int           // default: 2
	QueueSize   int           // default: 100
	SendTimeout time.Duration // default: 30 seconds
}

// emailJob sends one message to a user once their address is known.
type emailJob struct {
	recipientID string
	send        func(ctx context.Context, to string, name string) error
}

type service struct {
	hub    *sse.Hub
	users  user.UserRepository
	mailer email.EmailService
	config Config

	queue  chan emailJob
	wg     sync.WaitGroup
	stopCh chan struct{}
	once   sync.Once
}

// NewNotificationService publishes events on hub and, when mailer is not nil,
// sends emails from background workers.
func NewNotificationService(hub *sse.Hub, users user.UserRepository, mailer email.EmailService, cfg Config) notification.Notifier {
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 100
	}
	if cfg.SendTimeout == 0 {
		cfg.SendTimeout = 30 * time.Second
	}

	s := &service{
		hub:    hub,
		users:  users,
		mailer: mailer,
		config: cfg,
		queue:  make(chan emailJob, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	if mailer != nil {
		for i := 0; i < cfg.WorkerCount; i++ {
			s.wg.Add(1)
			go s.worker(i)
		}
		slog.Info("notification email workers started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize)
	}

	return s
}

func (s *service) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case job := <-s.queue:
			s.deliver(id, job)
		case <-s.stopCh:
			// Drain what is already queued
			for {
				select {
				case job := <-s.queue:
					s.deliver(id, job)
				default:
					return
				}
			}
		}
	}
}

func (s *service) deliver(workerID int, job emailJob) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.SendTimeout)
	defer cancel()

	recipient, err := s.users.GetByID(ctx, job.recipientID)
	if err != nil {
		slog.Error("notification recipient lookup failed", "worker", workerID, "user_id", job.recipientID, "error", err)
		return
	}
	if err := job.send(ctx, recipient.Email, recipient.FullName); err != nil {
		slog.Error("notification email failed", "worker", workerID, "user_id", job.recipientID, "error", err)
	}
}

func (s *service) enqueue(job emailJob) {
	if s.mailer == nil {
		return
	}
	select {
	case <-s.stopCh:
		return
	default:
	}
	select {
	case s.queue <- job:
	default:
		slog.Warn("notification email queue full, dropping message", "user_id", job.recipientID)
	}
}

// BookingCreated implements notification.Notifier.
func (s *service) BookingCreated(ctx context.Context, sh shift.Shift, e shift.StatusEvent) {
	s.hub.Publish(sse.RoleTopic(string(user.RoleAdmin)), sse.Event{
		Event: string(notification.TypeBookingCreated),
		Data:  bookingPayload(sh, e),
	})
}

// BookingReviewed implements notification.Notifier.
func (s *service) BookingReviewed(ctx context.Context, sh shift.Shift, e shift.StatusEvent) {
	eventType := notification.TypeBookingApproved
	if e.Status == shift.BookingStatusRejected {
		eventType = notification.TypeBookingRejected
	}

	s.hub.Publish(sse.UserTopic(e.StaffID), sse.Event{
		Event: string(eventType),
		Data:  bookingPayload(sh, e),
	})

	data := email.BookingDecisionData{
		Decision:  string(e.Status),
		Date:      sh.Date.Format(dateLayout),
		StartTime: sh.StartTime,
		EndTime:   sh.EndTime,
	}
	if e.RejectionReason != nil {
		data.Reason = *e.RejectionReason
	}
	s.enqueue(emailJob{
		recipientID: e.StaffID,
		send: func(ctx context.Context, to, name string) error {
			data.StaffName = name
			return s.mailer.SendBookingDecision(ctx, to, data)
		},
	})
}

// ShiftRequestReviewed implements notification.Notifier.
func (s *service) ShiftRequestReviewed(ctx context.Context, r shiftrequest.ShiftRequest) {
	payload := notification.ShiftRequestPayload{
		RequestID:  r.ID,
		Status:     string(r.Status),
		AdminNotes: r.AdminNotes,
		ShiftID:    r.ShiftID,
		Date:       r.Date.Format(dateLayout),
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
	}
	s.hub.Publish(sse.UserTopic(r.RequestedBy), sse.Event{
		Event: string(notification.TypeShiftRequestReviewed),
		Data:  payload,
	})

	data := email.RequestReviewData{
		Decision:  string(r.Status),
		Date:      payload.Date,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}
	if r.AdminNotes != nil {
		data.AdminNotes = *r.AdminNotes
	}
	s.enqueue(emailJob{
		recipientID: r.RequestedBy,
		send: func(ctx context.Context, to, name string) error {
			data.StaffName = name
			return s.mailer.SendRequestReview(ctx, to, data)
		},
	})
}

// Stop implements notification.Notifier.
func (s *service) Stop() {
	s.once.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
	})
}

func bookingPayload(sh shift.Shift, e shift.StatusEvent) notification.BookingPayload {
	return notification.BookingPayload{
		ShiftID:         sh.ID,
		EventID:         e.ID,
		StaffID:         e.StaffID,
		StaffName:       e.StaffName,
		DepartmentID:    sh.DepartmentID,
		DepartmentName:  sh.DepartmentName,
		Date:            sh.Date.Format(dateLayout),
		StartTime:       sh.StartTime,
		EndTime:         sh.EndTime,
		Status:          string(e.Status),
		RejectionReason: e.RejectionReason,
	}
}
