package aws

import (
	"context"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// AWSClients holds the clients the donation service talks to: the donations
// table, the outcome queue and the checkout metrics namespace.
type AWSClients struct {
	DynamoDB   DynamoDBAPI
	SQS        SQSAPI
	CloudWatch CloudWatchAPI
}

// NewAWSClients loads the shared AWS config once for both binaries.
func NewAWSClients(ctx context.Context) (*AWSClients, error) {
	cfg, err := LoadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}
	return clientsFromConfig(cfg), nil
}

func clientsFromConfig(cfg sdkaws.Config) *AWSClients {
	return &AWSClients{
		DynamoDB:   dynamodb.NewFromConfig(cfg),
		SQS:        sqs.NewFromConfig(cfg),
		CloudWatch: cloudwatch.NewFromConfig(cfg),
	}
}

// OutcomePublisher returns a Publisher for the payment outcome queue, or nil
// when no queue is configured and outcomes are settled inline.
func (c *AWSClients) OutcomePublisher(queueURL string) *Publisher {
	if queueURL == "" {
		return nil
	}
	return NewPublisher(c.SQS, queueURL)
}
