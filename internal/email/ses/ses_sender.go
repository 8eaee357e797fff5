package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"nr6/internal/domain"
	"nr6/internal/email"
	"nr6/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	from        string
	frontendURL string
}

// NewSESSender creates a new SES-backed Notifier.
func NewSESSender(ctx context.Context, region, fromAddress, fromName, frontendURL string) (port.Notifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesSender{
		client:      sesv2.NewFromConfig(cfg),
		from:        fmt.Sprintf("%s <%s>", fromName, fromAddress),
		frontendURL: frontendURL,
	}, nil
}

func (s *sesSender) Send(ctx context.Context, n domain.Notification) error {
	msg, err := email.Render(n, s.frontendURL)
	if err != nil {
		return err
	}

	_, err = s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &s.from,
		Destination: &types.Destination{
			ToAddresses: []string{n.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &msg.Subject},
				Body: &types.Body{
					Html: &types.Content{Data: &msg.HTML},
					Text: &types.Content{Data: &msg.Text},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail %s: %w", n.Kind, err)
	}
	return nil
}
