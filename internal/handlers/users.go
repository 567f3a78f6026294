package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Rakshaharsha/transport-management-system/internal/models"
	"github.com/Rakshaharsha/transport-management-system/internal/services"
	"github.com/Rakshaharsha/transport-management-system/pkg/utils"
)

func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var user models.User
		if result := db.First(&user, userID); result.Error != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		if user.ProfilePhoto != "" {
			user.ProfilePhoto = services.GetImageURL(user.ProfilePhoto)
		}
		c.JSON(200, gin.H{"user": user})
	}
}

type UpdateProfileInput struct {
	FirstName     string   `json:"firstName"`
	LastName      string   `json:"lastName"`
	Phone         string   `json:"phone"`
	Address       string   `json:"address"`
	HomeLocation  string   `json:"homeLocation"`
	HomeLatitude  *float64 `json:"homeLatitude"`
	HomeLongitude *float64 `json:"homeLongitude"`
}

func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input UpdateProfileInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if input.HomeLatitude != nil && !utils.ValidLatitude(*input.HomeLatitude) {
			c.JSON(400, gin.H{"error": "Invalid home latitude"})
			return
		}
		if input.HomeLongitude != nil && !utils.ValidLongitude(*input.HomeLongitude) {
			c.JSON(400, gin.H{"error": "Invalid home longitude"})
			return
		}

		var user models.User
		if result := db.First(&user, userID); result.Error != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		updates := map[string]interface{}{}
		if input.FirstName != "" {
			updates["first_name"] = input.FirstName
		}
		if input.LastName != "" {
			updates["last_name"] = input.LastName
		}
		if input.Phone != "" {
			updates["phone"] = input.Phone
		}
		if input.Address != "" {
			updates["address"] = input.Address
		}
		if input.HomeLocation != "" {
			updates["home_location"] = input.HomeLocation
		}
		if input.HomeLatitude != nil {
			updates["home_latitude"] = *input.HomeLatitude
		}
		if input.HomeLongitude != nil {
			updates["home_longitude"] = *input.HomeLongitude
		}

		if len(updates) > 0 {
			if result := db.Model(&user).Updates(updates); result.Error != nil {
				c.JSON(500, gin.H{"error": "Failed to update profile"})
				return
			}
		}

		c.JSON(200, gin.H{"message": "Profile updated successfully", "user": user})
	}
}

func UploadProfilePhoto(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		file, err := c.FormFile("photo")
		if err != nil {
			c.JSON(400, gin.H{"error": "Photo file required"})
			return
		}

		var user models.User
		if result := db.First(&user, userID); result.Error != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		path, err := services.UploadImage(file, "profiles")
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upload photo: " + err.Error()})
			return
		}

		if user.ProfilePhoto != "" {
			services.DeleteImage(services.GetImageURL(user.ProfilePhoto))
		}

		if result := db.Model(&user).Update("profile_photo", path); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to save photo"})
			return
		}

		c.JSON(200, gin.H{
			"message":      "Photo uploaded successfully",
			"profilePhoto": services.GetImageURL(path),
		})
	}
}

type FCMTokenInput struct {
	Token string `json:"token" binding:"required"`
}

func UpdateFCMToken(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input FCMTokenInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if result := db.Model(&models.User{}).Where("id = ?", userID).
			Update("fcm_token", input.Token); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update FCM token"})
			return
		}

		c.JSON(200, gin.H{"message": "FCM token updated"})
	}
}

// ListUsers returns users filtered by role, admin only
func ListUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Order("id ASC")
		if role := c.Query("role"); role != "" {
			query = query.Where("role = ?", role)
		}

		var users []models.User
		if result := query.Find(&users); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch users"})
			return
		}

		c.JSON(200, gin.H{"users": users, "count": len(users)})
	}
}

// ListUnassignedRiders returns students and teachers without a seat
func ListUnassignedRiders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		result := db.Where("role IN ?", []string{string(models.RoleStudent), string(models.RoleTeacher)}).
			Where("id NOT IN (SELECT assigned_user_id FROM seats WHERE assigned_user_id IS NOT NULL)").
			Order("id ASC").
			Find(&users)
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch unassigned riders"})
			return
		}

		c.JSON(200, gin.H{"riders": users, "count": len(users)})
	}
}
