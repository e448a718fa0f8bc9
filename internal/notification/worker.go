package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"lodge-dining-backend/internal/model"
)

// EventKind names the dining events that trigger a staff push.
type EventKind string

const (
	EventOrderFired    EventKind = "order_fired"
	EventMessagePosted EventKind = "message_posted"
)

// Event is one unit of work for the pool.
type Event struct {
	Kind          EventKind
	ReservationID int64
	OrderID       int64
}

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool manages a pool of workers that push dining events to registered
// staff devices.
type WorkerPool struct {
	size    int
	jobs    chan Event
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Event, size),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Notification worker %d started", id)
	for {
		select {
		case event := <-wp.jobs:
			wp.process(ctx, event)
		case <-ctx.Done():
			log.Printf("Notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues an event without blocking the request path. When the queue
// is full the event is dropped; push delivery is best-effort.
func (wp *WorkerPool) Dispatch(event Event) {
	select {
	case wp.jobs <- event:
	default:
		log.Printf("Notification queue full, dropping %s for reservation %d", event.Kind, event.ReservationID)
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Event {
	return wp.jobs
}

func (wp *WorkerPool) process(ctx context.Context, event Event) {
	payload, err := wp.buildPayload(ctx, event)
	if err != nil {
		log.Printf("Error building payload for %s: %v", event.Kind, err)
		return
	}

	subscriptions, err := wp.staffSubscriptions(ctx)
	if err != nil {
		log.Printf("Error fetching staff subscriptions: %v", err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d notifications for %s", len(subscriptions), event.Kind)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

// buildPayload resolves the event into a human-readable message using the
// reservation code where one exists.
func (wp *WorkerPool) buildPayload(ctx context.Context, event Event) ([]byte, error) {
	var reservation model.Reservation
	if err := wp.db.WithContext(ctx).
		Select("id", "user_id", "dining_room_id", "date", "start_time", "reservation_code").
		First(&reservation, event.ReservationID).Error; err != nil {
		return nil, err
	}

	label := reservation.ReservationCode
	if label == "" {
		label = fmt.Sprintf("reservation %d", reservation.ID)
	}

	switch event.Kind {
	case EventOrderFired:
		return []byte(fmt.Sprintf("Order %d fired for %s", event.OrderID, label)), nil
	case EventMessagePosted:
		return []byte(fmt.Sprintf("New message on %s", label)), nil
	}
	return nil, fmt.Errorf("unknown event kind %q", event.Kind)
}

// staffSubscriptions returns the push subscriptions of staff and admin users.
func (wp *WorkerPool) staffSubscriptions(ctx context.Context) ([]model.PushSubscription, error) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN users ON users.id = push_subscriptions.user_id").
		Where("users.role IN ?", []string{string(model.RoleStaff), string(model.RoleAdmin)}).
		Find(&subscriptions).Error
	return subscriptions, err
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
