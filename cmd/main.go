package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beyoung-commerce/admin-console/internal/api"
	"github.com/beyoung-commerce/admin-console/internal/events"
	"github.com/beyoung-commerce/admin-console/internal/handler"
	"github.com/beyoung-commerce/admin-console/internal/service"
	"github.com/beyoung-commerce/admin-console/internal/session"
	"github.com/beyoung-commerce/admin-console/pkg/config"
	"github.com/beyoung-commerce/admin-console/pkg/middleware"
	pkgtls "github.com/beyoung-commerce/admin-console/pkg/tls"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	var tlsCfg pkgtls.TLSConfig
	if err := envconfig.Process("", &tlsCfg); err != nil {
		log.Fatal("Failed to load TLS config:", err)
	}
	clientTLS, err := pkgtls.LoadClientTLSConfig(&tlsCfg, logger)
	if err != nil {
		log.Fatal("Failed to load TLS configuration:", err)
	}
	if clientTLS != nil {
		go pkgtls.WatchCertificates(logger)
		defer pkgtls.Cleanup()
	}

	backend := api.NewClient(cfg.BackendURL, clientTLS, logger)

	sess := session.NewStore(cfg.SessionFile, logger)
	if err := sess.Load(); err != nil {
		logger.Warn("Could not restore session", zap.Error(err))
	}

	var audit service.Auditor
	if cfg.KafkaBrokers != "" {
		producer := events.NewAuditProducer(cfg.KafkaBrokers, logger)
		defer producer.Close()
		audit = producer
	}

	console := service.NewConsoleService(backend, sess, audit, logger)
	consoleHandler := handler.NewConsoleHandler(console, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.RequestID())

	admin := router.Group("/admin")
	{
		admin.POST("/login", consoleHandler.Login)
		admin.POST("/logout", consoleHandler.Logout)

		admin.GET("/products", consoleHandler.ListProducts)
		admin.DELETE("/products/:id", consoleHandler.DeleteProduct)

		admin.POST("/drafts", consoleHandler.OpenDraft)
		admin.GET("/drafts/:id", consoleHandler.GetDraft)
		admin.DELETE("/drafts/:id", consoleHandler.CloseDraft)
		admin.POST("/drafts/:id/ops", consoleHandler.DraftOp)
		admin.PUT("/drafts/:id/images/:slot", consoleHandler.UploadImage)
		admin.POST("/drafts/:id/submit", consoleHandler.SubmitDraft)
	}
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting admin console",
			zap.String("port", cfg.Port),
			zap.String("backend_url", cfg.BackendURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}
