package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Rakshaharsha/transport-management-system/internal/models"
	"github.com/Rakshaharsha/transport-management-system/pkg/utils"
)

type RegisterInput struct {
	Username  string   `json:"username" binding:"required"`
	Email     string   `json:"email" binding:"required,email"`
	Password  string   `json:"password" binding:"required,min=6"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Phone     string   `json:"phone"`
	Address   string   `json:"address"`
	Role      string   `json:"role" binding:"required,oneof=ADMIN DRIVER TEACHER STUDENT"`
	Gender    string   `json:"gender" binding:"omitempty,oneof=MALE FEMALE OTHER"`

	// Rider fields
	CollegeName   string   `json:"collegeName"`
	Year          string   `json:"year"`
	Course        string   `json:"course"`
	Semester      *int     `json:"semester"`
	AcademicYear  string   `json:"academicYear"`
	HomeLocation  string   `json:"homeLocation"`
	HomeLatitude  *float64 `json:"homeLatitude"`
	HomeLongitude *float64 `json:"homeLongitude"`

	// Driver fields
	LicenseNumber string `json:"licenseNumber"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
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

		user := models.User{
			Username:      input.Username,
			Email:         input.Email,
			Password:      input.Password,
			FirstName:     input.FirstName,
			LastName:      input.LastName,
			Phone:         input.Phone,
			Address:       input.Address,
			Role:          models.Role(input.Role),
			Gender:        models.Gender(input.Gender),
			CollegeName:   input.CollegeName,
			Year:          input.Year,
			Course:        input.Course,
			Semester:      input.Semester,
			AcademicYear:  input.AcademicYear,
			HomeLocation:  input.HomeLocation,
			HomeLatitude:  input.HomeLatitude,
			HomeLongitude: input.HomeLongitude,
			LicenseNumber: input.LicenseNumber,
		}
		if user.Role == models.RoleDriver {
			user.DriverStatus = models.DriverAvailable
		}

		if err := user.HashPassword(); err != nil {
			c.JSON(500, gin.H{"error": "Failed to hash password"})
			return
		}

		if result := db.Create(&user); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to create user: " + result.Error.Error()})
			return
		}

		c.JSON(201, gin.H{
			"message": "User created successfully",
			"user": gin.H{
				"id":       user.ID,
				"username": user.Username,
				"email":    user.Email,
				"role":     user.Role,
			},
		})
	}
}

func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if result := db.Where("username = ? OR email = ?", input.Username, input.Username).First(&user); result.Error != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		if err := user.CheckPassword(input.Password); err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		token, err := utils.GenerateToken(&user)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(200, gin.H{
			"token": token,
			"user": gin.H{
				"id":        user.ID,
				"username":  user.Username,
				"email":     user.Email,
				"firstName": user.FirstName,
				"lastName":  user.LastName,
				"role":      user.Role,
			},
		})
	}
}
