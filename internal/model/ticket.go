package model

// RequiredEvidence describes what proof of work a ticket expects.
type RequiredEvidence struct {
	EvidenceTypes []EvidenceRequirement `json:"evidenceTypes,omitempty"`
}

type EvidenceRequirement struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// swagger:model Ticket
type Ticket struct {
	BaseModel
	Title            string           `gorm:"size:255;not null" json:"title"`
	Description      string           `gorm:"type:text;not null" json:"description"`
	Difficulty       int              `gorm:"not null" json:"difficulty"` // 1..5
	WeekNumber       int              `gorm:"not null" json:"weekNumber"`
	Category         string           `gorm:"size:100;default:'general'" json:"category"`
	DomainID         string           `gorm:"size:10;not null;default:'1.0';index" json:"domainId"`
	LessonID         *uint            `gorm:"index" json:"lessonId"`
	RootCause        string           `gorm:"type:text" json:"-"`
	RootCauseType    string           `gorm:"size:50" json:"-"`
	RequiredEvidence RequiredEvidence `gorm:"serializer:json" json:"requiredEvidence"`
	ModelAnswer      string           `gorm:"type:text" json:"-"`

	Submissions []TicketSubmission `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Ticket) TableName() string {
	return "tickets"
}
