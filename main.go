// File: agendai/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"agendai/config"
	"agendai/cron"
	credentialRepo "agendai/database/repository/credential"
	sessionRepo "agendai/database/repository/session"
	"agendai/handlers"
	"agendai/middleware"
	"agendai/routes"
	"agendai/services/calendar"
	"agendai/services/conversation"
	"agendai/services/messaging"
	"agendai/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	cfg := config.AppConfig

	// Stores: in-memory by default, Redis when configured.
	var (
		sessionStore sessionRepo.SessionStore
		credStore    credentialRepo.CredentialStore
		redisClients []*redis.Client
	)
	if cfg.StoreBackend == "redis" {
		utils.InitSessionCache()
		utils.InitCredentialCache()
		sessionStore = sessionRepo.NewRedisSessionStore(utils.GetSessionCacheClient())
		credStore = credentialRepo.NewRedisCredentialStore(utils.GetCredentialCacheClient())
		redisClients = []*redis.Client{utils.GetSessionCacheClient(), utils.GetCredentialCacheClient()}
	} else {
		sessionStore = sessionRepo.NewMemorySessionStore()
		credStore = credentialRepo.NewMemoryCredentialStore()
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// services.
	catalog := conversation.NewSlotCatalog(conversation.DefaultSlots(time.Now()))
	engine := &conversation.Engine{
		Catalog:      catalog,
		NotifyNumber: cfg.NotifyNumber,
		ConnectURL:   cfg.ConnectURL,
	}
	messenger := messaging.NewWhatsAppMessenger(cfg.WhatsAppAPIBase, cfg.WhatsAppPhoneID, cfg.WhatsAppToken)

	var calendarSvc calendar.CalendarService
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		calendarSvc = calendar.NewGoogleCalendarService(
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.GoogleRedirectURL,
			cfg.CalendarID,
		)
	} else {
		logger.Sugar().Warn("main: Google OAuth client not configured, calendar connect disabled")
	}

	conversationSvc, err := conversation.NewDefaultConversationService(
		sessionStore, credStore, engine, messenger, calendarSvc,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize conversation service: %v", err)
	}

	if cfg.RemindersEnabled {
		conversationSvc.Reminders = cron.NewScheduler()
		cron.InitReminderWorker(messenger)
	}

	webhookHandler := handlers.NewWebhookHandler(conversationSvc)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		VerifyWebhookHandler:  webhookHandler.VerifyHandler,
		ReceiveWebhookHandler: webhookHandler.ReceiveHandler,

		CalendarConnectHandler:  handlers.CalendarDisabledHandler,
		CalendarCallbackHandler: handlers.CalendarDisabledHandler,
	}
	if calendarSvc != nil {
		calendarHandler := handlers.NewCalendarHandler(calendarSvc, credStore)
		handlerBundle.CalendarConnectHandler = calendarHandler.ConnectHandler
		handlerBundle.CalendarCallbackHandler = calendarHandler.CallbackHandler
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(redisClients)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
