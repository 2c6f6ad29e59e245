package main

import (
	"context"
	"log"

	"github.com/diegova8/food-manager-backend/config"
	"github.com/diegova8/food-manager-backend/controllers"
	"github.com/diegova8/food-manager-backend/database"
	"github.com/diegova8/food-manager-backend/models"
	"github.com/diegova8/food-manager-backend/repository"
	"github.com/diegova8/food-manager-backend/routes"
	"github.com/diegova8/food-manager-backend/sender"
	"github.com/diegova8/food-manager-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[Checkout] failed to load config: ", err)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatal("[Checkout] failed to initialize logger: ", err)
	}
	defer logger.Sync()

	db, err := database.ConnectPostgres(cfg, logger,
		&models.Order{}, &models.OrderItem{}, &models.NotificationLog{},
	)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	orderRepo := repository.NewGormOrderRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	gateway := services.NewPayPalService(cfg.PayPalBaseURL, cfg.PayPalClientID, cfg.PayPalClientSecret, logger)

	var emailSender sender.EmailSender
	if smtp, serr := sender.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass); serr != nil {
		logger.Warn("SMTP not configured, email side effects disabled", zap.Error(serr))
	} else {
		emailSender = smtp
	}

	var events services.EventPublisher
	if cfg.OrderEventsTopicARN != "" {
		sns, serr := services.NewSNSPublisher(context.Background(), cfg.OrderEventsTopicARN)
		if serr != nil {
			logger.Warn("SNS not configured, order event publishing disabled", zap.Error(serr))
		} else {
			events = sns
		}
	}

	checkoutSvc := services.NewCheckoutService(orderRepo, notifRepo, gateway, emailSender, events, cfg, logger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	checkoutCtrl := controllers.NewCheckoutController(checkoutSvc, logger)
	notifCtrl := controllers.NewNotificationController(notifRepo, logger)
	routes.Register(r, checkoutCtrl, notifCtrl, cfg.JWTSecret, logger)

	logger.Info("checkout service running", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
