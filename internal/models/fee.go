package models

import (
	"time"

	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentOverdue PaymentStatus = "OVERDUE"
)

// Fee is a rider's monthly bus fee. At most one fee exists per
// (user, month, year); the amount is fixed at creation from the distance
// tier and never regenerated for a month that already has a record.
type Fee struct {
	gorm.Model
	UserID        uint          `gorm:"column:user_id;not null;uniqueIndex:idx_fee_user_month" json:"userId"`
	User          *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Amount        float64       `gorm:"column:amount;not null" json:"amount"`
	PaidAmount    float64       `gorm:"column:paid_amount;not null;default:0" json:"paidAmount"`
	PendingAmount float64       `gorm:"column:pending_amount;not null;default:0" json:"pendingAmount"`
	Month         string        `gorm:"column:month;not null;uniqueIndex:idx_fee_user_month" json:"month"` // e.g. "January"
	Year          int           `gorm:"column:year;not null;uniqueIndex:idx_fee_user_month" json:"year"`
	Semester      *int          `gorm:"column:semester" json:"semester,omitempty"`
	AcademicYear  string        `gorm:"column:academic_year" json:"academicYear,omitempty"`
	PaymentStatus PaymentStatus `gorm:"column:payment_status;not null;default:'PENDING'" json:"paymentStatus"`
	PaidDate      *time.Time    `gorm:"column:paid_date" json:"paidDate,omitempty"`
	DueDate       time.Time     `gorm:"column:due_date;not null" json:"dueDate"`
	PaymentMethod string        `gorm:"column:payment_method" json:"paymentMethod,omitempty"` // ONLINE, CASH, CHEQUE
	TransactionID string        `gorm:"column:transaction_id" json:"transactionId,omitempty"`
	DistanceKM    *float64      `gorm:"column:distance_km" json:"distanceKm,omitempty"`

	ReminderSentCount int        `gorm:"column:reminder_sent_count;not null;default:0" json:"reminderSentCount"`
	LastReminderSent  *time.Time `gorm:"column:last_reminder_sent" json:"lastReminderSent,omitempty"`
}

// TableName specifies the table name
func (Fee) TableName() string {
	return "fees"
}

// Recalculate refreshes the pending amount and derives the payment status
// from the paid amount and due date.
func (f *Fee) Recalculate(now time.Time) {
	f.PendingAmount = f.Amount - f.PaidAmount

	switch {
	case f.PaidAmount >= f.Amount:
		f.PaymentStatus = PaymentPaid
	case f.PaidAmount > 0:
		f.PaymentStatus = PaymentPartial
	case f.DueDate.Before(now):
		f.PaymentStatus = PaymentOverdue
	default:
		f.PaymentStatus = PaymentPending
	}
}

// BeforeSave keeps pending amount and payment status consistent on every write.
func (f *Fee) BeforeSave(tx *gorm.DB) error {
	f.Recalculate(time.Now())
	return nil
}
