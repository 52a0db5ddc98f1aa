package model

import "time"

// Activity event types shown in student/admin feeds.
const (
	ActivityQuizPassed     = "quiz_passed"
	ActivityTicketVerified = "ticket_verified"
	ActivityTicketOverride = "ticket_override"
	ActivityPromotion      = "promotion"
)

type ActivityEvent struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID uint      `gorm:"index;not null" json:"studentId"`
	EventType string    `gorm:"size:50;not null" json:"eventType"`
	Title     string    `gorm:"size:255" json:"title"`
	Detail    string    `gorm:"size:255" json:"detail"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (ActivityEvent) TableName() string {
	return "activity_events"
}
