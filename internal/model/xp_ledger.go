package model

import "time"

// Ledger source types. Corrections are new entries, never updates.
const (
	SourceQuiz          = "quiz"
	SourceTicket        = "ticket"
	SourceAdminOverride = "admin_override"
)

// XPLedgerEntry is an append-only record of one XP change. Entries are
// never updated or deleted; sum(delta) per student equals Student.TotalXP.
type XPLedgerEntry struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID   uint      `gorm:"index;not null" json:"studentId"`
	SourceType  string    `gorm:"size:50;not null" json:"sourceType"`
	SourceID    *uint     `json:"sourceId"`
	Delta       int       `gorm:"not null" json:"delta"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
}

func (XPLedgerEntry) TableName() string {
	return "xp_ledger"
}
