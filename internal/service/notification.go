package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/logger"
	"rentalhub-backend/internal/repository"
)

const defaultDeliveryTimeout = 10 * time.Second

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	page, pageSize = normalizePage(page, pageSize)
	offset := (page - 1) * pageSize
	notes, total, err := s.noteRepo.List(ctx, userID, pageSize, offset)
	if err != nil {
		return nil, 0, domain.DependencyFailure(err, "failed to list notifications")
	}
	return notes, total, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	err := s.noteRepo.MarkAsRead(ctx, notificationID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NotFound("notification %d not found", notificationID)
	}
	if err != nil {
		return domain.DependencyFailure(err, "failed to mark notification %d as read", notificationID)
	}
	return nil
}

type notificationDispatcher struct {
	noteRepo repository.NotificationRepository
	userRepo repository.UserRepository
	email    EmailService
	timeout  time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewNotificationDispatcher returns a dispatcher that stores each notification in-app and,
// when email is non-nil, mails it to the recipient.
func NewNotificationDispatcher(
	noteRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	email EmailService,
	timeout time.Duration,
) NotificationDispatcher {
	if timeout <= 0 {
		timeout = defaultDeliveryTimeout
	}
	return &notificationDispatcher{
		noteRepo: noteRepo,
		userRepo: userRepo,
		email:    email,
		timeout:  timeout,
	}
}

// Notify schedules delivery and returns at once. The delivery outlives the caller's
// context cancellation but not the dispatcher timeout.
func (d *notificationDispatcher) Notify(ctx context.Context, note domain.Notification) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		logger.Warn("Notification dropped, dispatcher closed", "userID", note.UserID, "type", note.Type)
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Notification delivery panicked", "userID", note.UserID, "type", note.Type, "panic", r)
			}
		}()

		deliverCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()
		d.deliver(deliverCtx, note)
	}()
}

// Close stops accepting notifications and waits for in-flight deliveries.
func (d *notificationDispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *notificationDispatcher) deliver(ctx context.Context, note domain.Notification) {
	if err := d.noteRepo.Create(ctx, &note); err != nil {
		logger.Error("Failed to store notification", "userID", note.UserID, "type", note.Type, "error", err)
	}

	if d.email == nil || d.userRepo == nil {
		return
	}
	user, err := d.userRepo.GetByID(ctx, note.UserID)
	if err != nil {
		logger.Error("Failed to look up notification recipient", "userID", note.UserID, "error", err)
		return
	}
	if user.Email == "" {
		return
	}
	if err := d.email.SendEmail(ctx, user.Email, user.Name, note.Title, note.Message); err != nil {
		logger.Error("Failed to email notification", "userID", note.UserID, "type", note.Type, "error", err)
	}
}
