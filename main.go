package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"villastay/config"
	"villastay/cron"
	"villastay/database"
	bookingRepo "villastay/database/repository/booking"
	counterRepo "villastay/database/repository/counter"
	requestRepo "villastay/database/repository/request"
	villaRepo "villastay/database/repository/villa"
	"villastay/handlers"
	"villastay/middleware"
	"villastay/models"
	"villastay/routes"
	"villastay/services/auth"
	"villastay/services/booking"
	"villastay/services/events"
	"villastay/services/notification"
	"villastay/services/storage"
	"villastay/services/villa"
	"villastay/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()
	cfg := config.AppConfig

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := utils.RegisterValidators(); err != nil {
		logger.Fatal("main: failed to register validators", zap.Error(err))
	}

	database.InitDB()
	utils.InitCache()
	db := database.DB()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()
	utils.StartHealthMonitor(rootCtx, 30*time.Second, utils.GetCacheClient(), database.MongoClient)

	// repositories.
	villas := villaRepo.NewMongoVillaRepo(db)
	requests := requestRepo.NewMongoRequestRepo(db)
	bookings := bookingRepo.NewMongoBookingRepo(db)
	counters := counterRepo.NewMongoCounterRepo(db)
	for name, ensure := range map[string]func(context.Context) error{
		"villas":            villas.EnsureIndexes,
		"booking_requests":  requests.EnsureIndexes,
		"bookings":          bookings.EnsureIndexes,
		"reference_counter": counters.EnsureIndexes,
	} {
		if err := ensure(rootCtx); err != nil {
			logger.Fatal("main: failed to ensure indexes", zap.String("collection", name), zap.Error(err))
		}
	}

	// notifications: producer here, consumer in cron.
	var queue *asynq.Client
	var worker *asynq.Server
	if cfg.RedisAddr != "" {
		queue = asynq.NewClient(cron.QueueRedisOpt())
		defer queue.Close()

		var sender notification.Sender = notification.LogSender{Logger: logger}
		fcm, err := utils.FirebaseInit(rootCtx)
		if err != nil {
			logger.Error("main: firebase unavailable, push notifications will be logged only", zap.Error(err))
		} else if fcm != nil {
			sender = notification.NewFCMSender(fcm, logger)
		}
		worker = cron.InitNotificationWorker(sender, logger)
	}
	notifier := notification.NewQueueNotifier(queue, cfg.SalesTopic, logger)

	publisher, err := events.NewPublisher(cfg, logger)
	if err != nil {
		logger.Fatal("main: failed to set up event publisher", zap.Error(err))
	}
	defer publisher.Close()

	// services.
	var payments booking.PaymentGateway
	if cfg.StripeKey != "" {
		payments = booking.NewStripeGateway(cfg.StripeKey)
	}
	bookingService := booking.NewBookingService(booking.Deps{
		Villas:         villas,
		Requests:       requests,
		Bookings:       bookings,
		References:     booking.NewReferenceGenerator(counters, cfg.ReferenceLocation()),
		Cache:          utils.NewStatusCache(utils.GetCacheClient(), cfg.StatusCacheTTL),
		Notifier:       notifier,
		Events:         publisher,
		Payments:       payments,
		Logger:         logger,
		Currency:       cfg.Currency,
		OfferValidDays: cfg.OfferValidDays,
	})
	logger.Info("main: payments", zap.Bool("enabled", bookingService.PaymentsEnabled()))

	villaService := villa.NewDefaultVillaService(villas, logger, cfg.Currency)
	authService := auth.NewStaticAuthService([]auth.Credential{
		{Email: cfg.SalesEmail, PasswordHash: cfg.SalesPasswordHash, Role: models.RoleSales},
		{Email: cfg.AdminEmail, PasswordHash: cfg.AdminPasswordHash, Role: models.RoleAdmin},
	}, cfg.StaffTokenTTL, logger)

	var backend storage.StorageService
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		backend, err = storage.NewCloudinaryStorage(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
	} else {
		backend, err = storage.NewLocalStorage(cfg.UploadDir)
	}
	if err != nil {
		logger.Fatal("main: failed to initialize upload storage", zap.Error(err))
	}
	uploader := storage.NewImageUploader(backend, cfg.UploadMaxBytes, logger)

	handlerBundle := &handlers.HandlerBundle{
		Booking: handlers.NewBookingHandler(bookingService),
		Sales:   handlers.NewSalesHandler(bookingService),
		Villa:   handlers.NewVillaHandler(villaService),
		Upload:  handlers.NewUploadHandler(uploader),
		Auth:    handlers.NewAuthHandler(authService),
		Admin:   handlers.NewAdminHandler(bookingService),
		Health:  &handlers.HealthHandler{},
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.UploadMaxBytes
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if worker != nil {
		worker.Shutdown()
	}
	stop()
	if err := database.CloseDB(ctx); err != nil {
		logger.Error("main: failed to disconnect from MongoDB", zap.Error(err))
	}
	logger.Sugar().Info("main: server stopped gracefully")
}
