package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/TripDesk-Travel/Attachment-Service/cmd/middleware"
	"github.com/TripDesk-Travel/Attachment-Service/internal/api"
	"github.com/TripDesk-Travel/Attachment-Service/internal/api/handlers/attachment"
	"github.com/TripDesk-Travel/Attachment-Service/internal/configuration"
	natsrouter "github.com/TripDesk-Travel/Attachment-Service/internal/nats"
	"github.com/TripDesk-Travel/Attachment-Service/internal/services"
	"github.com/TripDesk-Travel/Attachment-Service/internal/staging"
	"github.com/TripDesk-Travel/Attachment-Service/internal/uploader"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

func main() {
	cfg := configuration.Load()

	tracer.Start(tracer.WithService("attachment-service"))
	defer tracer.Stop()

	if err := services.InitializePostgres(cfg.Database.ConnectionString()); err != nil {
		log.Fatalf("Failed to initialize PostgreSQL: %v", err)
	}

	if err := services.InitializeMinio(
		cfg.MinIO.Endpoint,
		cfg.MinIO.AccessKey,
		cfg.MinIO.SecretKey,
		cfg.MinIO.BucketName,
		cfg.MinIO.UseSSL,
	); err != nil {
		log.Fatalf("Failed to initialize MinIO: %v", err)
	}

	services.InitializeFunctions(cfg.Functions.BaseURL, cfg.Functions.ServiceToken)

	if err := middleware.InitAuth(cfg.IssuerURL); err != nil {
		log.Fatalf("Failed to initialize OIDC auth: %v", err)
	}

	if _, err := services.ConnectNATS(cfg.NATSURL); err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}

	natsClient, err := natsrouter.NewClient(cfg.NATSURL)
	if err != nil {
		log.Fatalf("Failed to create NATS subscriber: %v", err)
	}
	if err := natsClient.SubscribeAll(natsrouter.Routes(cfg)); err != nil {
		log.Fatalf("Failed to subscribe to NATS routes: %v", err)
	}

	setupGracefulShutdown()

	r := gin.Default()

	handler := attachment.NewHandler(staging.NewArea(), uploader.NewTracker(), uploader.NewDriver())
	api.RegisterRoutes(r, handler)

	log.Infof("Server starting on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupGracefulShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Shutting down gracefully...")
		services.CloseNATS()
		os.Exit(0)
	}()
}
