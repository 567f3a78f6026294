package models

import (
	"gorm.io/gorm"
)

// Notification is an in-app message for a single user. CreatedByID is the
// originating user (nil for system-generated messages).
type Notification struct {
	gorm.Model
	UserID      uint   `gorm:"column:user_id;not null;index" json:"userId"`
	User        *User  `gorm:"foreignKey:UserID" json:"-"`
	Message     string `gorm:"column:message;not null" json:"message"`
	IsSeen      bool   `gorm:"column:is_seen;not null;default:false" json:"isSeen"`
	CreatedByID *uint  `gorm:"column:created_by_id" json:"createdById,omitempty"`
	CreatedBy   *User  `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
}

// TableName specifies the table name
func (Notification) TableName() string {
	return "notifications"
}
