package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/imrishuroy/donation-checkout/internal/aws"
	"github.com/imrishuroy/donation-checkout/internal/checkout"
	"github.com/imrishuroy/donation-checkout/internal/config"
	"github.com/imrishuroy/donation-checkout/internal/donations"
	"github.com/imrishuroy/donation-checkout/internal/gateway"
	"github.com/imrishuroy/donation-checkout/internal/logging"
	"github.com/imrishuroy/donation-checkout/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := logging.New(cfg.LogLevel)

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	gw := gateway.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	var verifier checkout.SignatureVerifier
	if cfg.VerifySignatures {
		verifier = gw
	}
	orchestrator := checkout.New(checkout.Deps{
		Orders:     gw,
		References: gw,
		Store:      donations.NewStore(clients.DynamoDB, cfg.DonationsTable),
		Verifier:   verifier,
		Metrics:    metrics.NewCloudWatch(clients.CloudWatch, cfg.MetricsNamespace, logger),
		Log:        logger,
	})
	p := NewProcessor(orchestrator, logger)

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if cfg.RunLocal {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			log.Fatalf("LOCAL_SQS_BODY is required when RUN_LOCAL=true")
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{MessageId: "local-1", Body: testBody},
			},
		}
		resp, err := p.Handle(context.Background(), event)
		if err != nil || len(resp.BatchItemFailures) > 0 {
			log.Fatalf("local handler failed: %v %+v", err, resp.BatchItemFailures)
		}
		return
	}

	lambda.Start(p.Handle)
}
