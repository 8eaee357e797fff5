package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nr6/internal/domain"
	"nr6/internal/sanitize"
)

func TestRender_CustomerConfirmation(t *testing.T) {
	msg, err := Render(domain.Notification{
		Kind: domain.NotificationCustomerConfirmation,
		To:   "jane@example.com",
		Data: domain.NotificationData{OrderID: "3F2A9C1B7D4E4A6B", CustomerName: "Jane <b>Doe</b>", PropertyAddress: "1 Bay St"},
	}, "https://nr6.ca")
	require.NoError(t, err)

	assert.Equal(t, "NR6 Filing Confirmation - Order 3F2A9C1B7D4E4A6B", msg.Subject)
	assert.Contains(t, msg.HTML, "Jane &lt;b&gt;Doe&lt;/b&gt;")
	assert.Contains(t, msg.Text, "1 Bay St")
}

func TestRender_AdminNotification(t *testing.T) {
	savings := 3750.5
	msg, err := Render(domain.Notification{
		Kind: domain.NotificationAdminNotification,
		Data: domain.NotificationData{OrderID: "ABC", CustomerName: "Jane Doe", PropertyAddress: "1 Bay St", EstimatedSavings: &savings},
	}, "https://nr6.ca/")
	require.NoError(t, err)

	assert.Equal(t, "New NR6 Filing - Jane Doe", msg.Subject)
	assert.Contains(t, msg.HTML, "$3,750.50")
	assert.Contains(t, msg.HTML, `href="https://nr6.ca/admin"`)
}

func TestRender_StatusUpdate(t *testing.T) {
	msg, err := Render(domain.Notification{
		Kind: domain.NotificationStatusUpdate,
		Data: domain.NotificationData{CustomerName: "Jane", PropertyAddress: "1 Bay St", Status: "in_progress"},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "NR6 Filing Status Update - In Progress", msg.Subject)
}

func TestRender_ContactReceived(t *testing.T) {
	msg, err := Render(domain.Notification{
		Kind: domain.NotificationContactReceived,
		Data: domain.NotificationData{CustomerName: "Sam", Email: "sam@example.com", Subject: "Deadline", Message: "When is it?\nThanks"},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "New Contact Message - Deadline", msg.Subject)
	assert.Contains(t, msg.HTML, "When is it?<br>Thanks")
	assert.Contains(t, msg.Text, "sam@example.com")
}

func TestRender_ContactReceived_EscapesDecodedText(t *testing.T) {
	msg, err := Render(domain.Notification{
		Kind: domain.NotificationContactReceived,
		Data: domain.NotificationData{
			CustomerName: "Sam",
			Email:        "sam@example.com",
			Subject:      "Markup",
			Message:      sanitize.Text("I typed &lt;b&gt;bold&lt;/b&gt;"),
		},
	}, "")
	require.NoError(t, err)

	assert.NotContains(t, msg.HTML, "<b>bold")
	assert.Contains(t, msg.HTML, "I typed &lt;b&gt;bold&lt;/b&gt;")
}

func TestRender_UnknownKind(t *testing.T) {
	_, err := Render(domain.Notification{Kind: "weekly_digest"}, "")
	assert.Error(t, err)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0.00", Money(0))
	assert.Equal(t, "$1,234,567.89", Money(1234567.891))
	assert.Equal(t, "-$10.00", Money(-10))
}
