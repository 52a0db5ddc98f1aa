package model

import "time"

// Gate requirement types.
const (
	GateVerifiedTicketsByDifficulty = "min_verified_tickets_by_difficulty"
	GateMasteryByDomain             = "min_mastery_by_domain"
)

// swagger:model Role
type Role struct {
	BaseModel
	Name        string `gorm:"size:100;unique;not null" json:"name"`
	RankOrder   int    `gorm:"unique;not null" json:"rankOrder"`
	Description string `gorm:"type:text" json:"description"`

	Gates []PromotionGate `gorm:"constraint:OnDelete:CASCADE" json:"gates,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// GateConfig is the typed requirement payload. Keys are difficulty tiers
// ("1".."5") for ticket gates, or domain IDs / aliases for mastery gates.
type GateConfig struct {
	Thresholds map[string]int `json:"thresholds"`
}

// PromotionGate is static configuration, read-only at evaluation time.
type PromotionGate struct {
	BaseModel
	RoleID            uint       `gorm:"index;not null" json:"roleId"`
	RequirementType   string     `gorm:"size:50;not null" json:"requirementType"`
	RequirementConfig GateConfig `gorm:"serializer:json" json:"requirementConfig"`
}

func (PromotionGate) TableName() string {
	return "promotion_gates"
}

// StudentRole records an actual promotion, which is an administrator
// action; the progression engine itself never writes these.
type StudentRole struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID      uint      `gorm:"index;not null" json:"studentId"`
	RoleID         uint      `gorm:"index;not null" json:"roleId"`
	PromotedAt     time.Time `json:"promotedAt"`
	PromotedBy     *uint     `json:"promotedBy"`
	PromotionNotes string    `gorm:"type:text" json:"promotionNotes"`
}

func (StudentRole) TableName() string {
	return "student_roles"
}
