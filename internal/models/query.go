package models

import (
	"gorm.io/gorm"
)

type QueryStatus string

const (
	QueryOpen     QueryStatus = "OPEN"
	QueryReplied  QueryStatus = "REPLIED"
	QueryClosed   QueryStatus = "CLOSED"
	QueryReopened QueryStatus = "REOPENED"
)

// StudentQuery is a complaint or question a seated student raises about
// their bus. Anonymous queries hide the student's name from listings.
type StudentQuery struct {
	gorm.Model
	StudentID            uint        `gorm:"column:student_id;not null;index" json:"studentId"`
	Student              *User       `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	BusID                uint        `gorm:"column:bus_id;not null;index" json:"busId"`
	Bus                  *Bus        `gorm:"foreignKey:BusID" json:"bus,omitempty"`
	SeatNumber           int         `gorm:"column:seat_number;not null" json:"seatNumber"`
	Subject              string      `gorm:"column:subject;not null" json:"subject"`
	Message              string      `gorm:"column:message;not null" json:"message"`
	Anonymous            bool        `gorm:"column:anonymous;not null;default:false" json:"anonymous"`
	Status               QueryStatus `gorm:"column:status;not null;default:'OPEN'" json:"status"`
	AdminReply           string      `gorm:"column:admin_reply" json:"adminReply,omitempty"`
	RepliedByID          *uint       `gorm:"column:replied_by_id" json:"repliedById,omitempty"`
	IsSatisfied          *bool       `gorm:"column:is_satisfied" json:"isSatisfied,omitempty"`
	SatisfactionFeedback string      `gorm:"column:satisfaction_feedback" json:"satisfactionFeedback,omitempty"`
}

// TableName specifies the table name
func (StudentQuery) TableName() string {
	return "student_queries"
}
