package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Rakshaharsha/transport-management-system/internal/models"
)

// ListMyNotifications returns the caller's notifications, newest first
func ListMyNotifications(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		query := db.Where("user_id = ?", userID).Order("created_at DESC")
		if c.Query("unseen") == "true" {
			query = query.Where("is_seen = ?", false)
		}

		var notifications []models.Notification
		if result := query.Find(&notifications); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch notifications"})
			return
		}

		var unseen int64
		db.Model(&models.Notification{}).
			Where("user_id = ? AND is_seen = ?", userID, false).
			Count(&unseen)

		c.JSON(200, gin.H{
			"notifications": notifications,
			"count":         len(notifications),
			"unseenCount":   unseen,
		})
	}
}

// MarkNotificationSeen marks one of the caller's notifications as seen
func MarkNotificationSeen(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		notificationID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid notification ID"})
			return
		}

		result := db.Model(&models.Notification{}).
			Where("id = ? AND user_id = ?", notificationID, userID).
			Update("is_seen", true)
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update notification"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(404, gin.H{"error": "Notification not found"})
			return
		}

		c.JSON(200, gin.H{"message": "Notification marked as seen"})
	}
}

// MarkAllNotificationsSeen marks every unseen notification of the caller
func MarkAllNotificationsSeen(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		result := db.Model(&models.Notification{}).
			Where("user_id = ? AND is_seen = ?", userID, false).
			Update("is_seen", true)
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update notifications"})
			return
		}

		c.JSON(200, gin.H{
			"message": "All notifications marked as seen",
			"updated": result.RowsAffected,
		})
	}
}
