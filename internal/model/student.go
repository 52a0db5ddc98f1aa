package model

import (
	"time"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

// swagger:model Student
type Student struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:100;unique;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"size:20;default:'student'" json:"role"`
	// Denormalized running sum of all ledger deltas. Mutated only inside
	// the same transaction that appends the ledger entry.
	TotalXP       int        `gorm:"not null;default:0" json:"totalXp"`
	CurrentRoleID *uint      `gorm:"index" json:"currentRoleId"`
	LastActiveAt  *time.Time `json:"lastActiveAt"`
	LastLogin     *time.Time `json:"lastLogin"`
}

func (Student) TableName() string {
	return "students"
}
