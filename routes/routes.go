package routes

import (
	"net/http"

	"github.com/diegova8/food-manager-backend/controllers"
	"github.com/diegova8/food-manager-backend/metrics"
	"github.com/diegova8/food-manager-backend/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func Register(
	r *gin.Engine,
	checkout *controllers.CheckoutController,
	notifications *controllers.NotificationController,
	jwtSecret string,
	logger *zap.Logger,
) {
	// Wrong-method requests on the checkout endpoints must answer 405, not 404.
	r.HandleMethodNotAllowed = true

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(metrics.PrometheusMiddleware("checkout"))

	co := api.Group("/checkout")
	co.Use(middleware.OptionalAuth(jwtSecret, logger))
	co.POST("/orders", checkout.CreateOrder)
	co.POST("/orders/capture", checkout.CaptureOrder)

	api.GET("/notifications", notifications.GetNotifications)
}
