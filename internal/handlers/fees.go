package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Rakshaharsha/transport-management-system/internal/assignment"
	"github.com/Rakshaharsha/transport-management-system/internal/models"
	"github.com/Rakshaharsha/transport-management-system/pkg/utils"
)

// GetMyFees returns the caller's fee records, newest first
func GetMyFees(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var fees []models.Fee
		result := db.Where("user_id = ?", userID).
			Order("year DESC, id DESC").
			Find(&fees)
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch fees"})
			return
		}

		var totalPending float64
		for _, f := range fees {
			totalPending += f.PendingAmount
		}

		c.JSON(200, gin.H{
			"fees":         fees,
			"count":        len(fees),
			"totalPending": utils.FormatAmount(totalPending),
		})
	}
}

// ListFees returns fee records across users, admin only
func ListFees(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("User").Order("year DESC, id DESC")
		if status := c.Query("status"); status != "" {
			query = query.Where("payment_status = ?", status)
		}
		if month := c.Query("month"); month != "" {
			query = query.Where("month = ?", month)
		}
		if year := c.Query("year"); year != "" {
			query = query.Where("year = ?", year)
		}

		var fees []models.Fee
		if result := query.Find(&fees); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch fees"})
			return
		}

		c.JSON(200, gin.H{"fees": fees, "count": len(fees)})
	}
}

type RecordPaymentInput struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethod string  `json:"paymentMethod" binding:"omitempty,oneof=ONLINE CASH CHEQUE"`
	TransactionID string  `json:"transactionId"`
}

// RecordPayment applies a full or partial payment to a fee, admin only.
// The model hook rederives pending amount and status on save.
func RecordPayment(db *gorm.DB, notifier assignment.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetUint("userId")

		feeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid fee ID"})
			return
		}

		var input RecordPaymentInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var fee models.Fee
		if result := db.First(&fee, feeID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Fee not found"})
			return
		}

		if fee.PaymentStatus == models.PaymentPaid {
			c.JSON(409, gin.H{"error": "Fee is already fully paid"})
			return
		}
		if input.Amount > fee.PendingAmount {
			c.JSON(400, gin.H{"error": "Payment exceeds pending amount"})
			return
		}

		now := time.Now()
		fee.PaidAmount += input.Amount
		fee.PaidDate = &now
		if input.PaymentMethod != "" {
			fee.PaymentMethod = input.PaymentMethod
		}
		if input.TransactionID != "" {
			fee.TransactionID = input.TransactionID
		}

		if result := db.Save(&fee); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to record payment"})
			return
		}

		notifier.Notify(assignment.Notice{
			RecipientID: fee.UserID,
			Message: "Payment of ₹" + utils.FormatAmount(input.Amount) + " received for " +
				fee.Month + " " + strconv.Itoa(fee.Year) + ". Pending: ₹" + utils.FormatAmount(fee.PendingAmount),
			OriginID: &actorID,
		})

		c.JSON(200, gin.H{"message": "Payment recorded successfully", "fee": fee})
	}
}

// SendFeeReminder notifies a rider about an unpaid fee, admin only
func SendFeeReminder(db *gorm.DB, notifier assignment.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetUint("userId")

		feeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid fee ID"})
			return
		}

		var fee models.Fee
		if result := db.First(&fee, feeID); result.Error != nil {
			c.JSON(404, gin.H{"error": "Fee not found"})
			return
		}

		if fee.PaymentStatus == models.PaymentPaid {
			c.JSON(409, gin.H{"error": "Fee is already fully paid"})
			return
		}

		now := time.Now()
		result := db.Model(&fee).Updates(map[string]interface{}{
			"reminder_sent_count": gorm.Expr("reminder_sent_count + 1"),
			"last_reminder_sent":  now,
		})
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update reminder count"})
			return
		}

		notifier.Notify(assignment.Notice{
			RecipientID: fee.UserID,
			Message: "Reminder: bus fee of ₹" + utils.FormatAmount(fee.PendingAmount) +
				" for " + fee.Month + " " + strconv.Itoa(fee.Year) +
				" is due on " + fee.DueDate.Format("2006-01-02"),
			OriginID: &actorID,
		})

		c.JSON(200, gin.H{"message": "Reminder sent successfully"})
	}
}
