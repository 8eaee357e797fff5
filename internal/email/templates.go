// Package email renders notifications into subject and body text. Delivery
// lives in the ses, smtp and noop subpackages.
package email

import (
	"fmt"
	"html"
	"strings"

	"github.com/dustin/go-humanize"

	"nr6/internal/domain"
)

// Message is a rendered notification.
type Message struct {
	Subject string
	HTML    string
	Text    string
}

// Render builds the message for n. adminURL is linked from admin notifications.
func Render(n domain.Notification, adminURL string) (Message, error) {
	d := n.Data
	name := html.EscapeString(d.CustomerName)
	property := html.EscapeString(d.PropertyAddress)
	order := html.EscapeString(d.OrderID)

	switch n.Kind {
	case domain.NotificationCustomerConfirmation:
		return Message{
			Subject: fmt.Sprintf("NR6 Filing Confirmation - Order %s", d.OrderID),
			HTML: layout("Thank You for Your Submission!", fmt.Sprintf(`<p>Dear %s,</p>
  <p>We have received your NR6 filing request for:</p>
  <p><strong>%s</strong></p>
  <p>Your order reference is: <strong>%s</strong></p>
  <p>We will prepare and submit your NR6 within 1-2 business days.</p>
  <h3>What Happens Next?</h3>
  <ul>
    <li>We review your information</li>
    <li>We prepare your NR6 form</li>
    <li>We submit to CRA on your behalf</li>
    <li>We notify you of the submission status</li>
  </ul>
  <p>If you have any questions, please contact us at support@nr6.ca</p>`, name, property, order)),
			Text: fmt.Sprintf("Dear %s,\n\nWe have received your NR6 filing request for:\n%s\n\nYour order reference is: %s\n\nWe will prepare and submit your NR6 within 1-2 business days.\n\nIf you have any questions, please contact us at support@nr6.ca\n\nBest regards,\nThe NR6.ca Team",
				d.CustomerName, d.PropertyAddress, d.OrderID),
		}, nil

	case domain.NotificationAdminNotification:
		savings := "n/a"
		if d.EstimatedSavings != nil {
			savings = Money(*d.EstimatedSavings)
		}
		link := strings.TrimRight(adminURL, "/") + "/admin"
		return Message{
			Subject: fmt.Sprintf("New NR6 Filing - %s", d.CustomerName),
			HTML: layout("New Filing Received", fmt.Sprintf(`<p><strong>Customer:</strong> %s</p>
  <p><strong>Property:</strong> %s</p>
  <p><strong>Order ID:</strong> %s</p>
  <p><strong>Est. Savings:</strong> %s</p>
  <p><a href="%s">View in Admin Panel</a></p>`, name, property, order, savings, html.EscapeString(link))),
			Text: fmt.Sprintf("New filing received\n\nCustomer: %s\nProperty: %s\nOrder ID: %s\nEst. Savings: %s\n\n%s",
				d.CustomerName, d.PropertyAddress, d.OrderID, savings, link),
		}, nil

	case domain.NotificationStatusUpdate:
		status := StatusLabel(d.Status)
		return Message{
			Subject: fmt.Sprintf("NR6 Filing Status Update - %s", status),
			HTML: layout("Your NR6 Filing Status Has Been Updated", fmt.Sprintf(`<p>Dear %s,</p>
  <p>Your NR6 filing for <strong>%s</strong> has been updated.</p>
  <p>New Status: <strong>%s</strong></p>
  <p>If you have any questions, please contact us at support@nr6.ca</p>`, name, property, html.EscapeString(status))),
			Text: fmt.Sprintf("Dear %s,\n\nYour NR6 filing for %s has been updated.\n\nNew Status: %s\n\nIf you have any questions, please contact us at support@nr6.ca\n\nBest regards,\nThe NR6.ca Team",
				d.CustomerName, d.PropertyAddress, status),
		}, nil

	case domain.NotificationContactReceived:
		return Message{
			Subject: fmt.Sprintf("New Contact Message - %s", d.Subject),
			HTML: layout("New Contact Message", fmt.Sprintf(`<p><strong>From:</strong> %s &lt;%s&gt;</p>
  <p><strong>Subject:</strong> %s</p>
  <p>%s</p>`, name, html.EscapeString(d.Email), html.EscapeString(d.Subject),
				strings.ReplaceAll(html.EscapeString(d.Message), "\n", "<br>"))),
			Text: fmt.Sprintf("From: %s <%s>\nSubject: %s\n\n%s", d.CustomerName, d.Email, d.Subject, d.Message),
		}, nil
	}
	return Message{}, fmt.Errorf("unknown notification kind %q", n.Kind)
}

// Money formats an amount as dollars with thousands separators.
func Money(v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// StatusLabel turns a workflow status such as in_progress into "In Progress".
func StatusLabel(status string) string {
	words := strings.Fields(strings.ReplaceAll(status, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func layout(title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #1e3a5f;">%s</h1>
  %s
  <p>Best regards,<br>The NR6.ca Team</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">NR6.ca - Non-resident rental tax filing</p>
</body>
</html>`, title, body)
}
