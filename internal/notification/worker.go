package notification

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"gilnokie-backend/internal/logger"
	"gilnokie-backend/internal/metrics"
	"gilnokie-backend/internal/model"
)

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

// Subscriptions is the part of the store the workers need.
type Subscriptions interface {
	SubscriptionsForJobCard(ctx context.Context, jobCardID string) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// Event announces that a job card moved to a new status.
type Event struct {
	JobCardID     string
	JobCardNumber string
	Status        string
}

// Message is the push payload for e.
func (e Event) Message() string {
	label := e.Status
	if info, ok := model.LookupStatus(e.Status); ok {
		label = info.Label
	}
	return fmt.Sprintf("Job card %s is now %s", e.JobCardNumber, label)
}

// Dispatcher accepts job card status events.
type Dispatcher interface {
	Dispatch(e Event)
}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size    int
	jobs    chan Event
	subs    Subscriptions
	webpush *webpush.Options
	sender  NotificationSender
	log     *logger.Logger
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, subs Subscriptions, webpushOptions *webpush.Options, log *logger.Logger) *WorkerPool {
	if size < 1 {
		size = 1
	}
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Event, size*16),
		subs:    subs,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		log:     log,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	wp.log.Debug("notification worker started", "worker", id)
	for {
		select {
		case e := <-wp.jobs:
			wp.sendForJobCard(ctx, e)
		case <-ctx.Done():
			wp.log.Debug("notification worker stopped", "worker", id)
			return
		}
	}
}

// Dispatch queues e without blocking. Events are dropped when the queue is full.
func (wp *WorkerPool) Dispatch(e Event) {
	select {
	case wp.jobs <- e:
	default:
		metrics.Notifications.WithLabelValues("dropped").Inc()
		wp.log.Warn("notification queue full, dropping event", "jobCardId", e.JobCardID)
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan Event {
	return wp.jobs
}

func (wp *WorkerPool) sendForJobCard(ctx context.Context, e Event) {
	subscriptions, err := wp.subs.SubscriptionsForJobCard(ctx, e.JobCardID)
	if err != nil {
		wp.log.Error("failed to load subscriptions", "jobCardId", e.JobCardID, "error", err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	wp.log.Info("sending job card notifications", "jobCardId", e.JobCardID, "count", len(subscriptions))
	payload := []byte(e.Message())
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

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
		metrics.Notifications.WithLabelValues("error").Inc()
		wp.log.Warn("push send failed", "endpoint", sub.Endpoint, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		metrics.Notifications.WithLabelValues("expired").Inc()
		wp.log.Info("subscription expired, deleting", "endpoint", sub.Endpoint)
		if err := wp.subs.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			wp.log.Error("failed to delete expired subscription", "endpoint", sub.Endpoint, "error", err)
		}
		return
	}
	metrics.Notifications.WithLabelValues("sent").Inc()
}
