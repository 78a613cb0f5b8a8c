package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"github.com/imrishuroy/donation-checkout/internal/aws"
	"github.com/imrishuroy/donation-checkout/internal/checkout"
	"github.com/imrishuroy/donation-checkout/internal/config"
	"github.com/imrishuroy/donation-checkout/internal/donations"
	"github.com/imrishuroy/donation-checkout/internal/gateway"
	"github.com/imrishuroy/donation-checkout/internal/handlers"
	"github.com/imrishuroy/donation-checkout/internal/logging"
	"github.com/imrishuroy/donation-checkout/internal/metrics"
	"github.com/imrishuroy/donation-checkout/internal/validation"
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
	store := donations.NewStore(clients.DynamoDB, cfg.DonationsTable)

	var verifier checkout.SignatureVerifier
	if cfg.VerifySignatures {
		verifier = gw
	}
	recorder := metrics.NewCloudWatch(clients.CloudWatch, cfg.MetricsNamespace, logger)
	orchestrator := checkout.New(checkout.Deps{
		Orders:     gw,
		References: gw,
		Store:      store,
		Launcher:   checkout.WidgetLauncher{KeyID: cfg.RazorpayKeyID, Metrics: recorder},
		Verifier:   verifier,
		Metrics:    recorder,
		Log:        logger,
	})

	hcfg := handlers.HandlerConfig{
		Gateway:        gw,
		Checkout:       orchestrator,
		Verifier:       verifier,
		Ledger:         store,
		Validator:      validation.New(),
		KeyID:          cfg.RazorpayKeyID,
		AllowedOrigins: cfg.AllowedOrigins,
		PageSize:       cfg.LedgerPageSize,
		PollInterval:   cfg.LedgerPollInterval,
		Streaming:      cfg.RunLocal,
		Log:            logger,
	}
	// with a queue configured the worker settles outcomes
	if pub := clients.OutcomePublisher(cfg.OutcomeQueueURL); pub != nil {
		hcfg.Queue = checkout.NewOutcomeQueue(pub)
	}

	r := handlers.NewRouter(hcfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if cfg.RunLocal {
		logger.Info("running local server", "addr", cfg.ListenAddr)
		if err := r.Run(cfg.ListenAddr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
