package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adhouse/config"
	"adhouse/handlers"
	"adhouse/internal/provider"
	"adhouse/models"
	"adhouse/monitoring"
	"adhouse/security"
	"adhouse/services"
	"adhouse/utils"

	"github.com/joho/godotenv"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	pubnub "github.com/pubnub/go"

	_ "adhouse/migrations"
)

func main() {
	// Load .env if present; real deployments use process env directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	app := pocketbase.New()

	cfg := config.LoadConfig()

	redisClient := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	// Initialize PubNub
	pnConfig := pubnub.NewConfig()
	pnConfig.PublishKey = cfg.PubNubPublishKey
	pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
	pnConfig.SecretKey = cfg.PubNubSecretKey

	pn := pubnub.NewPubNub(pnConfig)
	notifier := services.NewPubNubPublisher(pn)

	var monitor *monitoring.Monitor
	if cfg.EnableMetrics {
		monitor = monitoring.NewMonitor(redisClient)
		monitoring.StartMetricsServer(cfg.MetricsPort)
	}

	// Initialize services
	factory := provider.NewFactory(cfg)
	adService := services.NewAdService(app)
	adService.SetAutoActivate(!cfg.PaymentsEnabled)
	orgService := services.NewOrganizationService(app)
	messageService := services.NewMessageService(app, notifier)
	paymentService := services.NewPaymentService(redisClient, notifier, factory, cfg, monitor, adService)
	paymentService.SetArchive(app)

	callbackToken := cfg.MomoCallbackToken
	if callbackToken == "" {
		generated, err := utils.GenerateCode(16)
		if err != nil {
			log.Fatal(err)
		}
		callbackToken = generated
		log.Printf("MOMO_CALLBACK_TOKEN not set, generated one for this run: %s", callbackToken)
	}
	hash, err := utils.HashToken(callbackToken)
	if err != nil {
		log.Fatal(err)
	}
	paymentService.SetCallbackTokenHash(hash)

	// Initialize handlers
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	adHandler := handlers.NewAdHandler(adService)
	orgHandler := handlers.NewOrganizationHandler(orgService)
	messageHandler := handlers.NewMessageHandler(messageService)

	rateLimiter := security.NewRateLimiter(redisClient)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go restorePendingPayments(ctx, paymentService)

	go handleShutdown(cancel)

	if cfg.DevelopmentMode() {
		log.Println("MoMo credentials not configured, payments run in development mode")
	}

	// Register routes
	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		// Payment endpoints
		e.Router.POST("/api/momo/pay", paymentHandler.Pay).
			BindFunc(rateLimiter.PaymentRateLimit(10, time.Minute))
		e.Router.GET("/api/momo/status/{referenceId}", paymentHandler.Status)
		e.Router.GET("/api/momo/payment/{referenceId}", paymentHandler.Details)
		e.Router.POST("/api/momo/create-user", paymentHandler.CreateUser)
		e.Router.PUT("/api/momo/callback/{referenceId}", paymentHandler.Callback)

		// Ad endpoints
		e.Router.GET("/api/ads", adHandler.List)
		e.Router.GET("/api/ads/mine", adHandler.Mine)
		e.Router.GET("/api/ads/{adId}", adHandler.Get)
		e.Router.POST("/api/ads", adHandler.Create)
		e.Router.PUT("/api/ads/{adId}", adHandler.Update)
		e.Router.DELETE("/api/ads/{adId}", adHandler.Delete)
		e.Router.POST("/api/ads/{adId}/sold", adHandler.MarkSold)

		// Organization endpoints
		e.Router.GET("/api/organizations", orgHandler.List)
		e.Router.GET("/api/organizations/{orgId}", orgHandler.Get)
		e.Router.POST("/api/organizations", orgHandler.Create)
		e.Router.PUT("/api/organizations/{orgId}", orgHandler.Update)
		e.Router.DELETE("/api/organizations/{orgId}", orgHandler.Delete)
		e.Router.POST("/api/organizations/{orgId}/verify", orgHandler.Verify)

		// Message endpoints
		e.Router.POST("/api/messages", messageHandler.Send)
		e.Router.GET("/api/messages/inbox", messageHandler.Inbox)
		e.Router.GET("/api/messages/conversation/{peerId}", messageHandler.Conversation)
		e.Router.POST("/api/messages/{messageId}/read", messageHandler.MarkRead)

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(200, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		return e.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

// restorePendingPayments resumes status pollers for payments that were still
// pending when the server last stopped.
func restorePendingPayments(ctx context.Context, paymentService *services.PaymentService) {
	pending := paymentService.PendingSessions(ctx)
	if len(pending) == 0 {
		return
	}

	log.Printf("Resuming %d pending payment(s)", len(pending))

	for _, p := range pending {
		prov := p.Provider
		if prov == "" {
			prov = models.ProviderMTN
		}
		go paymentService.ResolvePayment(ctx, p.ReferenceID, prov)
	}
}

func handleShutdown(cancel context.CancelFunc) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down background tasks...")
	cancel()
}
