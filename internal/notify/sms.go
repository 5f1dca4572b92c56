package notify

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/verify-api/internal/config"
)

// SMSDispatcher sends verification codes as text messages via AWS SNS.
type SMSDispatcher struct {
	client *sns.Client
}

func NewSMSDispatcher(cfg *config.Config) (*SMSDispatcher, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &SMSDispatcher{client: sns.NewFromConfig(awsCfg)}, nil
}

func (d *SMSDispatcher) Send(ctx context.Context, receiver, code string, ttl time.Duration) error {
	msg := smsText(code, int(ttl.Minutes()))
	_, err := d.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: &receiver,
		Message:     &msg,
	})
	if err != nil {
		return fmt.Errorf("publish verification SMS: %w", err)
	}
	return nil
}

func smsText(code string, minutes int) string {
	return fmt.Sprintf(
		"Your verification code is: %s. This code expires in %d minutes. If you didn't request it, ignore this message.",
		code, minutes,
	)
}
