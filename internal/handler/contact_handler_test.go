package handler_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"nr6/internal/domain"
	"nr6/internal/handler"
	"nr6/internal/service"
	"nr6/mocks"
)

func postContact(h *handler.ContactHandler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/contact", bytes.NewReader([]byte(body)))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Submit(c)
	return w
}

func TestContactHandler_Submit(t *testing.T) {
	contacts := new(mocks.MockContactService)
	h := handler.NewContactHandler(contacts)
	id := uuid.New()
	contacts.On("Submit", mock.Anything, service.ContactInput{
		Name: "Sam", Email: "sam@example.com", Subject: "Deadline", Message: "When is it?",
	}).Return(&domain.ContactSubmission{ID: id}, nil)

	w := postContact(h, `{"name":"Sam","email":"sam@example.com","subject":"Deadline","message":"When is it?"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), id.String())
}

func TestContactHandler_ValidationError(t *testing.T) {
	contacts := new(mocks.MockContactService)
	h := handler.NewContactHandler(contacts)

	w := postContact(h, `{"name":"Sam","email":"not-an-email","subject":"x","message":"y"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	contacts.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}
