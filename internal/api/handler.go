package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"lodge-dining-backend/internal/notification"
	"lodge-dining-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store     store.Store
	webpush   *webpush.Options
	pool      *notification.WorkerPool
	jwtSecret string
	accessTTL time.Duration
}

// NewHandler creates a new API handler. pool may be nil when push
// notifications are disabled.
func NewHandler(s store.Store, webpushOptions *webpush.Options, pool *notification.WorkerPool, jwtSecret string, accessTTL time.Duration) *Handler {
	return &Handler{
		store:     s,
		webpush:   webpushOptions,
		pool:      pool,
		jwtSecret: jwtSecret,
		accessTTL: accessTTL,
	}
}

func (h *Handler) dispatch(event notification.Event) {
	if h.pool != nil {
		h.pool.Dispatch(event)
	}
}
