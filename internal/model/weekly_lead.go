package model

import "time"

// WeeklyDomainLead is the per-ISO-week badge for the top mastery student
// in a domain.
type WeeklyDomainLead struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	WeekKey   string    `gorm:"size:10;not null;uniqueIndex:uq_week_domain" json:"weekKey"` // e.g. 2026-W35
	DomainID  string    `gorm:"size:10;not null;uniqueIndex:uq_week_domain" json:"domainId"`
	StudentID uint      `gorm:"index;not null" json:"studentId"`
	BadgeName string    `gorm:"size:100" json:"badgeName"`
	XPValue   int       `gorm:"not null;default:0" json:"xpValue"`
	CreatedAt time.Time `json:"createdAt"`
}

func (WeeklyDomainLead) TableName() string {
	return "weekly_domain_leads"
}
