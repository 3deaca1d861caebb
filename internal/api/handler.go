package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"gilnokie-backend/internal/logger"
	"gilnokie-backend/internal/model"
	"gilnokie-backend/internal/notification"
	"gilnokie-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	log      *logger.Logger
	notifier notification.Dispatcher
	webpush  *webpush.Options
	now      func() time.Time
}

// NewHandler creates a new API handler. notifier may be nil when push is disabled.
func NewHandler(s store.Store, log *logger.Logger, notifier notification.Dispatcher, webpushOptions *webpush.Options) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		store:    s,
		log:      log,
		notifier: notifier,
		webpush:  webpushOptions,
		now:      time.Now,
	}
}

// notifyStatus queues a push notification for a job card's new status.
func (h *Handler) notifyStatus(card model.CustomerOrder) {
	if h.notifier == nil {
		return
	}
	h.notifier.Dispatch(notification.Event{
		JobCardID:     card.ID,
		JobCardNumber: card.JobCardNumber,
		Status:        card.Status,
	})
}
