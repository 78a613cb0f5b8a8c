package handlers

import (
	"context"
	"iter"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/imrishuroy/donation-checkout/internal/checkout"
	"github.com/imrishuroy/donation-checkout/internal/donations"
	"github.com/imrishuroy/donation-checkout/internal/gateway"
	"github.com/imrishuroy/donation-checkout/internal/ledger"
	"github.com/imrishuroy/donation-checkout/internal/validation"
)

// Gateway is the payment gateway surface exposed over HTTP.
type Gateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal) (gateway.Order, error)
	LookupReference(ctx context.Context, paymentID string) (gateway.Payment, error)
}

// Checkout runs donation checkouts.
type Checkout interface {
	Begin(ctx context.Context, sub checkout.Submission) (*checkout.Session, error)
	Complete(ctx context.Context, key checkout.Key, paymentID, signature string) (checkout.Outcome, error)
	Dismiss(ctx context.Context, key checkout.Key) error
}

// OutcomeQueue hands payment outcomes to the worker.
type OutcomeQueue interface {
	Enqueue(ctx context.Context, msg checkout.OutcomeMessage) error
}

// LedgerSource reads donation records for the ledger views.
type LedgerSource interface {
	List(ctx context.Context) ([]donations.Donation, error)
	Snapshots(ctx context.Context, interval time.Duration) iter.Seq2[[]donations.Donation, error]
}

// HandlerConfig groups dependencies for the HTTP routes. Queue is optional:
// without it payment outcomes are applied inline. Verifier, when set, rejects
// bad checkout signatures before an outcome is queued. Streaming enables the
// SSE ledger route; it needs a writer that can flush, which the API Gateway
// adapter does not provide.
type HandlerConfig struct {
	Gateway        Gateway
	Checkout       Checkout
	Queue          OutcomeQueue
	Verifier       checkout.SignatureVerifier
	Ledger         LedgerSource
	Validator      *validatorv10.Validate
	KeyID          string
	AllowedOrigins []string
	PageSize       int
	PollInterval   time.Duration
	Streaming      bool
	Log            *slog.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(cfg HandlerConfig) *gin.Engine {
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	if cfg.Validator == nil {
		cfg.Validator = validation.New()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = ledger.DefaultPageSize
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(CORS(cfg.AllowedOrigins, cfg.Log))

	RegisterHealthRoutes(r, time.Now)
	RegisterGatewayRoutes(r, cfg)
	RegisterDonationRoutes(r, cfg)
	RegisterLedgerRoutes(r, cfg)
	return r
}

// CORS allows browser calls from the listed origins only. Requests without
// an Origin header pass; other origins get 403.
func CORS(origins []string, log *slog.Logger) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			if _, ok := allowed[origin]; ok {
				return true
			}
			log.Warn("origin blocked by cors", "origin", origin)
			return false
		},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// RegisterHealthRoutes registers the liveness payload on / and /health.
func RegisterHealthRoutes(r *gin.Engine, now func() time.Time) {
	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Donation API is running",
			"time":    now().UTC().Format(time.RFC3339),
		})
	}
	r.GET("/", health)
	r.GET("/health", health)
}
