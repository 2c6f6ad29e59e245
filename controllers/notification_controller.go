package controllers

import (
	"net/http"
	"strconv"

	"github.com/diegova8/food-manager-backend/models"
	"github.com/diegova8/food-manager-backend/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationController struct {
	repo   repository.NotificationRepository
	logger *zap.Logger
}

func NewNotificationController(repo repository.NotificationRepository, logger *zap.Logger) *NotificationController {
	return &NotificationController{repo: repo, logger: logger}
}

// GetNotifications returns the paginated admin notification log.
func (nc *NotificationController) GetNotifications(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	filter := models.NotificationFilter{
		Status:   c.Query("status"),
		Channel:  c.Query("channel"),
		Page:     page,
		PageSize: pageSize,
	}

	logs, total, err := nc.repo.GetLogs(c.Request.Context(), filter)
	if err != nil {
		nc.logger.Error("failed to fetch notifications", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": logs,
		"total":         total,
		"page":          filter.Page,
		"page_size":     filter.PageSize,
	})
}
