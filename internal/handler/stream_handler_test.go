package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"nr6/internal/domain"
	"nr6/internal/feed"
	"nr6/internal/handler"
	"nr6/mocks"
)

func TestStreamHandler_SnapshotThenChanges(t *testing.T) {
	svc := new(mocks.MockAdminService)
	hub := feed.NewHub()
	h := handler.NewStreamHandler(hub, svc, zap.NewNop())
	id := uuid.New()

	svc.On("ListFilings", mock.Anything).Return([]domain.Filing{{ID: id, Status: domain.FilingStatusNew}}, nil).Once()
	reloaded := make(chan struct{}, 1)
	svc.On("ListFilings", mock.Anything).Return([]domain.Filing{{ID: id, Status: domain.FilingStatusPaid}}, nil).
		Run(func(mock.Arguments) { reloaded <- struct{}{} })
	svc.On("ListContacts", mock.Anything).Return([]domain.ContactSubmission{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequestWithContext(ctx, http.MethodGet, "/api/v1/admin/stream", http.NoBody)

	done := make(chan struct{})
	go func() {
		h.Stream(c)
		close(done)
	}()

	assert.Eventually(t, func() bool { return hub.Subscribers(domain.TopicFilings) == 1 }, time.Second, 5*time.Millisecond)
	assert.NoError(t, hub.Publish(context.Background(), domain.Event{Topic: domain.TopicFilings, ID: id}))
	select {
	case <-reloaded:
	case <-time.After(time.Second):
		t.Fatal("filings were not reloaded")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream did not stop after disconnect")
	}

	body := w.Body.String()
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, body, "event:snapshot")
	assert.Contains(t, body, "event:filings")
	assert.Contains(t, body, `"status":"paid"`)
	assert.Equal(t, 0, hub.Subscribers(domain.TopicFilings))
}

func runStream(t *testing.T, h *handler.StreamHandler) (*httptest.ResponseRecorder, context.CancelFunc, <-chan struct{}) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequestWithContext(ctx, http.MethodGet, "/api/v1/admin/stream", http.NoBody)

	done := make(chan struct{})
	go func() {
		h.Stream(c)
		close(done)
	}()
	return w, cancel, done
}

func TestStreamHandler_RetriesFailedReload(t *testing.T) {
	svc := new(mocks.MockAdminService)
	hub := feed.NewHub()
	h := handler.NewStreamHandler(hub, svc, zap.NewNop()).WithTiming(time.Second, 10*time.Millisecond)
	id := uuid.New()

	svc.On("ListFilings", mock.Anything).Return([]domain.Filing{{ID: id, Status: domain.FilingStatusNew}}, nil).Once()
	svc.On("ListFilings", mock.Anything).Return(nil, errors.New("db down")).Once()
	reloaded := make(chan struct{}, 1)
	svc.On("ListFilings", mock.Anything).Return([]domain.Filing{{ID: id, Status: domain.FilingStatusPaid}}, nil).
		Run(func(mock.Arguments) { reloaded <- struct{}{} })
	svc.On("ListContacts", mock.Anything).Return([]domain.ContactSubmission{}, nil)

	w, cancel, done := runStream(t, h)
	defer cancel()

	assert.Eventually(t, func() bool { return hub.Subscribers(domain.TopicFilings) == 1 }, time.Second, 5*time.Millisecond)
	assert.NoError(t, hub.Publish(context.Background(), domain.Event{Topic: domain.TopicFilings, ID: id}))
	select {
	case <-reloaded:
	case <-time.After(time.Second):
		t.Fatal("failed reload was not retried")
	}

	cancel()
	<-done
	body := w.Body.String()
	assert.Contains(t, body, "event:error")
	assert.Contains(t, body, "event:filings")
	assert.Contains(t, body, `"status":"paid"`)
	svc.AssertNumberOfCalls(t, "ListFilings", 3)
}

func TestStreamHandler_Heartbeat(t *testing.T) {
	svc := new(mocks.MockAdminService)
	hub := feed.NewHub()
	h := handler.NewStreamHandler(hub, svc, zap.NewNop()).WithTiming(10*time.Millisecond, time.Second)

	svc.On("ListFilings", mock.Anything).Return([]domain.Filing{}, nil)
	svc.On("ListContacts", mock.Anything).Return([]domain.ContactSubmission{}, nil)

	w, cancel, done := runStream(t, h)
	time.Sleep(60 * time.Millisecond)
	cancel()
	<-done

	assert.Contains(t, w.Body.String(), "event:ping")
	svc.AssertNumberOfCalls(t, "ListFilings", 1)
}
