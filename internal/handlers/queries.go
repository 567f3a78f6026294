package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Rakshaharsha/transport-management-system/internal/assignment"
	"github.com/Rakshaharsha/transport-management-system/internal/models"
)

type SubmitQueryInput struct {
	Subject   string `json:"subject" binding:"required"`
	Message   string `json:"message" binding:"required"`
	Anonymous bool   `json:"anonymous"`
}

// SubmitQuery files a complaint about the caller's bus. Requires a seat:
// the query is pinned to the bus and seat the student holds.
func SubmitQuery(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input SubmitQueryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var seat models.Seat
		result := db.Where("assigned_user_id = ?", userID).First(&seat)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				c.JSON(400, gin.H{"error": "You need a seat assignment to raise a query"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to look up seat"})
			return
		}

		query := models.StudentQuery{
			StudentID:  userID,
			BusID:      seat.BusID,
			SeatNumber: seat.SeatNumber,
			Subject:    input.Subject,
			Message:    input.Message,
			Anonymous:  input.Anonymous,
		}
		if result := db.Create(&query); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to submit query"})
			return
		}

		c.JSON(201, gin.H{"message": "Query submitted", "query": query})
	}
}

// GetMyQueries returns the caller's queries
func GetMyQueries(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var queries []models.StudentQuery
		result := db.Preload("Bus").Where("student_id = ?", userID).
			Order("created_at DESC").Find(&queries)
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch queries"})
			return
		}

		c.JSON(200, gin.H{"queries": queries, "count": len(queries)})
	}
}

// ListQueries returns queries across students, admin only. Anonymous
// queries come back without the student record.
func ListQueries(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Student").Preload("Bus").Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if busParam := c.Query("busId"); busParam != "" {
			query = query.Where("bus_id = ?", busParam)
		}

		var queries []models.StudentQuery
		if result := query.Find(&queries); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch queries"})
			return
		}

		for i := range queries {
			if queries[i].Anonymous {
				queries[i].Student = nil
				queries[i].StudentID = 0
			}
		}

		c.JSON(200, gin.H{"queries": queries, "count": len(queries)})
	}
}

type ReplyQueryInput struct {
	Reply string `json:"reply" binding:"required"`
}

// ReplyQuery answers a query, admin only
func ReplyQuery(db *gorm.DB, notifier assignment.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetUint("userId")

		queryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid query ID"})
			return
		}

		var input ReplyQueryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var query models.StudentQuery
		if result := db.First(&query, queryID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Query not found"})
			return
		}
		if query.Status == models.QueryClosed {
			c.JSON(409, gin.H{"error": "Query is closed"})
			return
		}

		if result := db.Model(&query).Updates(map[string]interface{}{
			"admin_reply":   input.Reply,
			"replied_by_id": actorID,
			"status":        models.QueryReplied,
		}); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to reply to query"})
			return
		}

		notifier.Notify(assignment.Notice{
			RecipientID: query.StudentID,
			Message:     "Your query \"" + query.Subject + "\" has a reply",
			OriginID:    &actorID,
		})

		c.JSON(200, gin.H{"message": "Reply sent"})
	}
}

type QueryFeedbackInput struct {
	IsSatisfied bool   `json:"isSatisfied"`
	Feedback    string `json:"feedback"`
}

// SubmitQueryFeedback records whether the student is satisfied with the
// reply; satisfied closes the query, unsatisfied reopens it.
func SubmitQueryFeedback(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		queryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid query ID"})
			return
		}

		var input QueryFeedbackInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var query models.StudentQuery
		if result := db.Where("id = ? AND student_id = ?", queryID, userID).
			First(&query); result.Error != nil {
			c.JSON(404, gin.H{"error": "Query not found"})
			return
		}
		if query.Status != models.QueryReplied {
			c.JSON(409, gin.H{"error": "Query has no reply to rate"})
			return
		}

		status := models.QueryClosed
		if !input.IsSatisfied {
			status = models.QueryReopened
		}

		if result := db.Model(&query).Updates(map[string]interface{}{
			"is_satisfied":          input.IsSatisfied,
			"satisfaction_feedback": input.Feedback,
			"status":                status,
		}); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to record feedback"})
			return
		}

		c.JSON(200, gin.H{"message": "Feedback recorded", "status": status})
	}
}
