// Package metrics counts checkout outcomes in CloudWatch.
package metrics

import (
	"context"
	"log/slog"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/imrishuroy/donation-checkout/internal/aws"
)

// Metric names.
const (
	CheckoutStarted       = "CheckoutStarted"
	CheckoutLaunched      = "CheckoutLaunched"
	OrderCreationFailed   = "OrderCreationFailed"
	RecordWriteFailed     = "RecordWriteFailed"
	DonationSucceeded     = "DonationSucceeded"
	DonationFailed        = "DonationFailed"
	ReferenceLookupFailed = "ReferenceLookupFailed"
	DuplicateOutcome      = "DuplicateOutcome"
)

// Recorder counts named events. Implementations must not fail the caller.
type Recorder interface {
	Count(ctx context.Context, name string)
}

// Nop discards every count.
type Nop struct{}

// Count implements Recorder.
func (Nop) Count(context.Context, string) {}

// CloudWatch publishes each count as a single datum under a namespace.
type CloudWatch struct {
	client    aws.CloudWatchAPI
	namespace string
	log       *slog.Logger
	nowFunc   func() time.Time
}

// NewCloudWatch returns a Recorder writing to namespace.
func NewCloudWatch(client aws.CloudWatchAPI, namespace string, log *slog.Logger) *CloudWatch {
	return &CloudWatch{
		client:    client,
		namespace: namespace,
		log:       log,
		nowFunc:   time.Now,
	}
}

// Count publishes name=1. Errors are logged and dropped.
func (c *CloudWatch) Count(ctx context.Context, name string) {
	_, err := c.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: sdkaws.String(c.namespace),
		MetricData: []types.MetricDatum{{
			MetricName: sdkaws.String(name),
			Unit:       types.StandardUnitCount,
			Value:      sdkaws.Float64(1),
			Timestamp:  sdkaws.Time(c.nowFunc()),
		}},
	})
	if err != nil {
		c.log.WarnContext(ctx, "put metric failed", "metric", name, "error", err)
	}
}
