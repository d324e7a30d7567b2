package cloud

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/domain"
)

type fakePublisher struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-1")}, nil
}

func TestAlertRaised_PublishesToTopic(t *testing.T) {
	pub := &fakePublisher{}
	c := NewSNSClientWith(pub, "arn:aws:sns:us-east-1:123:parking")

	err := c.AlertRaised(context.Background(), domain.Alert{
		DeviceCode:       "PARK-B1-S005",
		AlertType:        domain.AlertDeviceOffline,
		Severity:         domain.SeverityCritical,
		Message:          "Device PARK-B1-S005 is offline. last_seen=never",
		FirstTriggeredAt: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	require.Len(t, pub.inputs, 1)
	in := pub.inputs[0]
	assert.Equal(t, "arn:aws:sns:us-east-1:123:parking", aws.ToString(in.TopicArn))
	assert.Equal(t, "Parking Alert: CRITICAL DEVICE_OFFLINE", aws.ToString(in.Subject))
	assert.Contains(t, aws.ToString(in.Message), "PARK-B1-S005")
	assert.Equal(t, "DEVICE_OFFLINE", aws.ToString(in.MessageAttributes["alert_type"].StringValue))
}

func TestAlertRaised_WrapsPublishError(t *testing.T) {
	boom := errors.New("throttled")
	c := NewSNSClientWith(&fakePublisher{err: boom}, "arn")

	err := c.AlertRaised(context.Background(), domain.Alert{DeviceCode: "D1"})

	assert.ErrorIs(t, err, boom)
}

type fakeBucket struct {
	key  string
	body []byte
	ttl  time.Duration
}

func (f *fakeBucket) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.key = aws.ToString(in.Key)
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeBucket) PresignGetObject(_ context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*PresignedURL, error) {
	opts := s3.PresignOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	f.ttl = opts.Expires
	return &PresignedURL{URL: "https://bucket.example/" + aws.ToString(in.Key)}, nil
}

func TestExportSummary_UploadsAndPresigns(t *testing.T) {
	b := &fakeBucket{}
	c := NewS3ClientWith(b, b, "parking-dashboard-exports")

	url, err := c.ExportSummary(context.Background(), "dashboard/all/x.json", []byte(`{"total_parking_events":3}`))

	require.NoError(t, err)
	assert.Equal(t, "https://bucket.example/dashboard/all/x.json", url)
	assert.Equal(t, "dashboard/all/x.json", b.key)
	assert.JSONEq(t, `{"total_parking_events":3}`, string(b.body))
	assert.Equal(t, time.Hour, b.ttl)
}
