package model

import (
	"strings"
	"time"
)

// CompTIA A+ style knowledge domains.
var DomainLabels = map[string]string{
	"1.0": "Hardware",
	"2.0": "Networking",
	"3.0": "Software Troubleshooting",
	"4.0": "Security / Procedures",
}

var domainAliases = map[string]string{
	"hardware":                 "1.0",
	"networking":               "2.0",
	"software_troubleshooting": "3.0",
	"security":                 "4.0",
	"procedures":               "4.0",
}

// ResolveDomain maps human-readable aliases ("hardware") onto domain IDs
// ("1.0"). Unrecognized values pass through unchanged.
func ResolveDomain(domain string) string {
	if id, ok := domainAliases[strings.ToLower(domain)]; ok {
		return id
	}
	return domain
}

// StudentDomainMastery is the running per-(student, domain) aggregate.
// Updated incrementally on qualifying events, never rescanned in the hot
// path; see MasteryService.Rebuild for the repair path.
type StudentDomainMastery struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID        uint      `gorm:"not null;uniqueIndex:uq_student_domain" json:"studentId"`
	DomainID         string    `gorm:"size:10;not null;uniqueIndex:uq_student_domain" json:"domainId"`
	QuizScoreTotal   float64   `gorm:"not null;default:0" json:"quizScoreTotal"`
	QuizAttempts     int       `gorm:"not null;default:0" json:"quizAttempts"`
	TicketScoreTotal float64   `gorm:"not null;default:0" json:"ticketScoreTotal"`
	TicketAttempts   int       `gorm:"not null;default:0" json:"ticketAttempts"`
	MasteryPercent   float64   `gorm:"not null;default:0" json:"masteryPercent"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (StudentDomainMastery) TableName() string {
	return "student_domain_mastery"
}
