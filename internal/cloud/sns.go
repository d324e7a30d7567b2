package cloud

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/domain"
)

// Publisher is the subset of the SNS client used here.
type Publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSClient publishes newly created alerts to an SNS topic
type SNSClient struct {
	svc      Publisher
	topicArn string
}

// NewSNSClient creates a new SNS client instance
func NewSNSClient(ctx context.Context, region, topicArn string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return NewSNSClientWith(sns.NewFromConfig(cfg), topicArn), nil
}

func NewSNSClientWith(svc Publisher, topicArn string) *SNSClient {
	return &SNSClient{svc: svc, topicArn: topicArn}
}

// SendAlert sends an alert notification via SNS
func (c *SNSClient) SendAlert(ctx context.Context, subject, message string, attrs map[string]string) error {
	input := &sns.PublishInput{
		TopicArn: aws.String(c.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	}
	if len(attrs) > 0 {
		input.MessageAttributes = make(map[string]types.MessageAttributeValue, len(attrs))
		for k, v := range attrs {
			input.MessageAttributes[k] = types.MessageAttributeValue{
				DataType:    aws.String("String"),
				StringValue: aws.String(v),
			}
		}
	}

	if _, err := c.svc.Publish(ctx, input); err != nil {
		return fmt.Errorf("failed to publish to SNS: %w", err)
	}
	return nil
}

// AlertRaised formats and sends a parking alert
func (c *SNSClient) AlertRaised(ctx context.Context, a domain.Alert) error {
	subject := fmt.Sprintf("Parking Alert: %s %s", a.Severity, a.AlertType)
	message := fmt.Sprintf(
		"Parking Device Alert\n\n"+
			"Device: %s\n"+
			"Type: %s\n"+
			"Severity: %s\n"+
			"Message: %s\n"+
			"First triggered: %s\n",
		a.DeviceCode,
		a.AlertType,
		a.Severity,
		a.Message,
		a.FirstTriggeredAt.Format(time.RFC3339),
	)
	return c.SendAlert(ctx, subject, message, map[string]string{
		"alert_type": string(a.AlertType),
		"severity":   string(a.Severity),
	})
}
