package cmd

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"event-manager/config"
	"event-manager/handlers"
	_ "event-manager/migrations"
	"event-manager/monitoring"
	"event-manager/security"
	"event-manager/services"
	"event-manager/utils"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v5"
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go"
	"github.com/redis/go-redis/v9"
)

func Start() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Continuing...")
	}

	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	// Initialize PubNub for payment notifications
	var pn *pubnub.PubNub
	if cfg.PubNubSubscribeKey != "" {
		pnConfig := pubnub.NewConfig()
		pnConfig.PublishKey = cfg.PubNubPublishKey
		pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
		pnConfig.SecretKey = cfg.PubNubSecretKey

		pn = pubnub.NewPubNub(pnConfig)
	} else {
		log.Println("PubNub keys not configured, payment notifications disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize services
	var rateSource services.RateSource
	if cfg.ExchangeRateURL != "" {
		rateSource = services.NewHTTPRateSource(cfg.ExchangeRateURL, cfg.RateFetchTimeout)
	}
	rateService := services.NewRateService(redisClient, rateSource, cfg)
	allocatorService := services.NewAllocatorService(cfg)
	inventoryService := services.NewInventoryService()
	reportService := services.NewReportService()
	paymentService := services.NewPaymentNotifyService(app, pn, rateService)

	monitor := monitoring.NewMonitor(redisClient)
	limiter := security.NewRateLimiter(redisClient, cfg.ReportRateLimit)

	// Initialize handlers
	ticketHandler := handlers.NewTicketHandler(app, allocatorService, inventoryService, monitor)
	reportHandler := handlers.NewReportHandler(app, reportService, inventoryService, rateService, limiter, monitor)
	bookingHandler := handlers.NewBookingHandler(app, paymentService)
	venueHandler := handlers.NewVenueHandler(app)
	adminHandler := handlers.NewAdminHandler(app, rateService)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	// Keep the cached exchange rate warm
	go rateService.RefreshLoop(ctx)

	// Setup graceful shutdown
	go handleShutdown(cancel)

	// Expose prometheus metrics on a separate port
	if cfg.EnableMetrics {
		go serveMetrics(cfg.MetricsPort, redisClient)
	}

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		syncActiveEventsToRedis(app, redisClient)

		// Ticket endpoints
		e.Router.POST("/api/tickets/allocate", ticketHandler.AllocatePreview)
		e.Router.POST("/api/tickets/clamp", ticketHandler.ClampCount)
		e.Router.POST("/api/tickets", ticketHandler.CreateBlock)
		e.Router.GET("/api/tickets", ticketHandler.ListBlocks)
		e.Router.GET("/api/events/{eventId}/tickets", ticketHandler.ListForEvent)
		e.Router.GET("/api/events/{eventId}/utilization", ticketHandler.Utilization)

		// Report endpoints
		e.Router.GET("/api/reports/payments", reportHandler.PaymentReport)
		e.Router.GET("/api/reports/inventory", reportHandler.InventoryReport)

		// Booking endpoints
		e.Router.POST("/api/bookings", bookingHandler.CreateBooking)
		e.Router.GET("/api/bookings", bookingHandler.ListBookings)
		e.Router.POST("/api/bookings/{bookingId}/payments", bookingHandler.RecordPayment)

		// Venue request endpoints
		e.Router.POST("/api/venue-requests", venueHandler.CreateRequest)
		e.Router.GET("/api/venue-requests", venueHandler.ListRequests)
		e.Router.POST("/api/venue-requests/{requestId}/approve", venueHandler.Approve)
		e.Router.POST("/api/venue-requests/{requestId}/deposit", venueHandler.ConfirmDeposit)

		// Admin endpoints
		e.Router.GET("/api/admin/report-dashboard", adminHandler.ReportDashboard)
		e.Router.POST("/api/admin/refresh-rate", adminHandler.RefreshRate)

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

		setupEventHooks(app, redisClient)

		return e.Next()
	})

	// Start server
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
	return nil
}

func serveMetrics(port string, redisClient *redis.Client) {
	e := echo.New()
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", func(c echo.Context) error {
		if err := utils.RedisHealthCheck(redisClient); err != nil {
			return c.JSON(503, map[string]string{"status": "unhealthy"})
		}
		return c.JSON(200, map[string]string{"status": "healthy"})
	})

	srv := &http.Server{Addr: ":" + port, Handler: e}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("metrics server stopped: %v", err)
	}
}

// syncActiveEventsToRedis rebuilds the active_events set the metrics
// collector reads.
func syncActiveEventsToRedis(app *pocketbase.PocketBase, redisClient *redis.Client) {
	ctx := context.Background()

	var records []dbx.NullStringMap
	if err := app.DB().NewQuery(
		"SELECT id FROM events WHERE status = 'published'",
	).All(&records); err != nil {
		log.Printf("Error fetching active events: %v", err)
		return
	}

	redisClient.Del(ctx, "active_events")

	if len(records) > 0 {
		var eventIDs []interface{}
		for _, record := range records {
			if id := record["id"].String; id != "" {
				eventIDs = append(eventIDs, id)
			}
		}

		if len(eventIDs) > 0 {
			redisClient.SAdd(ctx, "active_events", eventIDs...)
			log.Printf("Synced %d active events to Redis", len(eventIDs))
		}
	}
}

func setupEventHooks(app *pocketbase.PocketBase, redisClient *redis.Client) {
	app.OnRecordCreateRequest("events").BindFunc(func(e *core.RecordRequestEvent) error {
		ctx := e.Request.Context()

		if e.Record.GetString("status") == "published" {
			if err := redisClient.SAdd(ctx, "active_events", e.Record.Id).Err(); err != nil {
				slog.Error("Failed to add active event to Redis", "eventID", e.Record.Id, "error", err)
				// Don't block the request if Redis sync fails
				return e.Next()
			}
			slog.Info("Added active event to Redis", "eventID", e.Record.Id)
		}
		return e.Next()
	})

	app.OnRecordUpdateRequest("events").BindFunc(func(e *core.RecordRequestEvent) error {
		ctx := e.Request.Context()

		if e.Record.GetString("status") == "published" {
			if err := redisClient.SAdd(ctx, "active_events", e.Record.Id).Err(); err != nil {
				slog.Error("Failed to sync active event to Redis", "eventID", e.Record.Id, "error", err)
			}
		} else {
			if err := redisClient.SRem(ctx, "active_events", e.Record.Id).Err(); err != nil {
				slog.Error("Failed to remove inactive event from Redis", "eventID", e.Record.Id, "error", err)
			}
		}
		return e.Next()
	})

	app.OnRecordDeleteRequest("events").BindFunc(func(e *core.RecordRequestEvent) error {
		ctx := e.Request.Context()

		if err := redisClient.SRem(ctx, "active_events", e.Record.Id).Err(); err != nil {
			slog.Error("Failed to remove deleted event from Redis", "eventID", e.Record.Id, "error", err)
		}
		return e.Next()
	})
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
	cancel()
}
