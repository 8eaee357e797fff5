package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nr6/internal/admin"
	"nr6/internal/domain"
	"nr6/internal/metrics"
	"nr6/internal/port"
)

const (
	streamHeartbeat  = 25 * time.Second
	streamRetryDelay = 2 * time.Second
)

// StreamHandler pushes live admin table updates as server-sent events.
type StreamHandler struct {
	feed      port.ChangeFeed
	backend   admin.Backend
	log       *zap.Logger
	heartbeat time.Duration
	retry     time.Duration
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(feed port.ChangeFeed, backend admin.Backend, log *zap.Logger) *StreamHandler {
	return &StreamHandler{
		feed:      feed,
		backend:   backend,
		log:       log,
		heartbeat: streamHeartbeat,
		retry:     streamRetryDelay,
	}
}

// WithTiming overrides the heartbeat interval and the delay before a failed
// reload is retried.
func (h *StreamHandler) WithTiming(heartbeat, retry time.Duration) *StreamHandler {
	h.heartbeat = heartbeat
	h.retry = retry
	return h
}

// Stream handles GET /api/v1/admin/stream. It sends a "snapshot" event with
// both tables, then a "filings" or "contacts" event per change. The view is
// released when the client disconnects.
// @Summary Live admin updates
// @Description Server-sent events: snapshot, filings, contacts, ping, error
// @Tags admin
// @Produce text/event-stream
// @Param access_token query string false "Access token for EventSource clients"
// @Success 200 {string} string "event stream"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /admin/stream [get]
func (h *StreamHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	view, err := admin.Open(ctx, h.feed, h.backend, h.log)
	if err != nil {
		HandleError(c, err)
		return
	}
	defer view.Close()

	metrics.LiveViews.Inc()
	defer metrics.LiveViews.Dec()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("snapshot", gin.H{"filings": view.Filings(), "contacts": view.Contacts()})
	c.Writer.Flush()

	for {
		waitCtx, cancel := context.WithTimeout(ctx, h.heartbeat)
		topic, err := view.Wait(waitCtx)
		cancel()

		switch {
		case ctx.Err() != nil, errors.Is(err, admin.ErrViewClosed):
			return
		case errors.Is(err, context.DeadlineExceeded):
			c.SSEvent("ping", time.Now().Unix())
			c.Writer.Flush()
			continue
		case err != nil:
			h.log.Warn("admin stream wait failed", zap.Error(err))
			return
		}

		// The reload runs on the request context; a failed topic stays
		// pending in the view and is retried on the next pass.
		change, err := view.Reload(ctx, topic)
		switch {
		case err == nil:
			if change.Topic == domain.TopicFilings {
				c.SSEvent(string(change.Topic), change.Filings)
			} else {
				c.SSEvent(string(change.Topic), change.Contacts)
			}
			c.Writer.Flush()
		case ctx.Err() != nil, errors.Is(err, admin.ErrViewClosed):
			return
		default:
			h.log.Warn("admin stream reload failed", zap.String("topic", string(topic)), zap.Error(err))
			c.SSEvent("error", gin.H{"message": "failed to refresh, retrying"})
			c.Writer.Flush()
			select {
			case <-ctx.Done():
				return
			case <-time.After(h.retry):
			}
		}
	}
}
