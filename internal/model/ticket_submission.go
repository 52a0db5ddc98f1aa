package model

import "time"

// Submission states. A submission with no row is "not started". Resubmission
// is allowed while the status is not passed; passed is terminal.
const (
	SubmissionPending       = "pending"
	SubmissionPassed        = "passed"
	SubmissionNeedsRevision = "needs_revision"
)

// GradeFeedback is the structured feedback payload from the grading
// collaborator.
type GradeFeedback struct {
	Strengths  []string `json:"strengths,omitempty"`
	Weaknesses []string `json:"weaknesses,omitempty"`
	Summary    string   `json:"summary,omitempty"`
}

// TicketSubmission is the single row per (student, ticket). Grading fields
// are overwritten on resubmission while the status is not passed; once
// passed with XP granted the row is frozen except for admin overrides.
type TicketSubmission struct {
	BaseModel
	StudentID    uint   `gorm:"not null;uniqueIndex:uq_student_ticket" json:"studentId"`
	TicketID     uint   `gorm:"not null;uniqueIndex:uq_student_ticket" json:"ticketId"`
	Writeup      string `gorm:"type:text;not null" json:"writeup"`
	CommandsUsed string `gorm:"type:text" json:"commandsUsed"`

	StructureScore     int           `gorm:"not null;default:0" json:"structureScore"`
	TechnicalScore     int           `gorm:"not null;default:0" json:"technicalScore"`
	CommunicationScore int           `gorm:"not null;default:0" json:"communicationScore"`
	FinalScore         int           `gorm:"not null;default:0" json:"finalScore"` // 0..10
	Feedback           GradeFeedback `gorm:"serializer:json" json:"feedback"`

	// Per-participant XP computed at submission time. Not credited to the
	// ledger until verification flips XPGranted.
	XPAwarded int    `gorm:"not null;default:0" json:"xpAwarded"`
	XPGranted bool   `gorm:"not null;default:false" json:"xpGranted"`
	Status    string `gorm:"size:20;not null;default:'pending';index" json:"status"`

	CollaboratorIDs []uint `gorm:"serializer:json" json:"collaboratorIds"`

	EvidenceComplete   bool  `gorm:"not null;default:false" json:"evidenceComplete"`
	BeforeScreenshotID *uint `json:"beforeScreenshotId"`
	AfterScreenshotID  *uint `json:"afterScreenshotId"`

	Overridden    bool   `gorm:"not null;default:false" json:"overridden"`
	OverrideScore *int   `json:"overrideScore"`
	AdminReviewed bool   `gorm:"not null;default:false" json:"adminReviewed"`
	AdminComment  string `gorm:"type:text" json:"adminComment"`

	SubmittedAt time.Time  `json:"submittedAt"`
	GradedAt    *time.Time `json:"gradedAt"`
	VerifiedAt  *time.Time `json:"verifiedAt"`
	VerifiedBy  *uint      `json:"verifiedBy"`
}

func (TicketSubmission) TableName() string {
	return "ticket_submissions"
}

// Participants returns the submitter plus collaborators. Every participant
// receives the same per-participant XP on verification.
func (s *TicketSubmission) Participants() []uint {
	out := make([]uint, 0, len(s.CollaboratorIDs)+1)
	out = append(out, s.StudentID)
	out = append(out, s.CollaboratorIDs...)
	return out
}
