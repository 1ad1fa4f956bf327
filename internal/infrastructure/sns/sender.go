package sns

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/civictrust-api/internal/config"
)

// SMSSender sends SMS messages via AWS SNS. It is the out-of-band channel
// for verification codes: when a sender is configured the code travels only
// over SMS, never in the HTTP response.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type sender struct {
	client *sns.Client
}

func NewSender(cfg *config.Config) (SMSSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &sender{client: sns.NewFromConfig(awsCfg)}, nil
}

func (s *sender) SendSMS(ctx context.Context, to, message string) error {
	// SNS expects E.164; the stored numbers are bare 10-digit US numbers.
	e164 := "+1" + to
	_, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: &e164,
		Message:     &message,
	})
	if err != nil {
		return fmt.Errorf("publish sms: %w", err)
	}
	return nil
}
