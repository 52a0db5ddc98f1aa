package model

import "time"

type LoginStreak struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID     uint      `gorm:"uniqueIndex;not null" json:"studentId"`
	CurrentStreak int       `gorm:"not null;default:0" json:"currentStreak"`
	LongestStreak int       `gorm:"not null;default:0" json:"longestStreak"`
	LastLogin     time.Time `json:"lastLogin"`
}

func (LoginStreak) TableName() string {
	return "login_streaks"
}
