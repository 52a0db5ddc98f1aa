package model

import "strings"

// swagger:model Quiz
type Quiz struct {
	BaseModel
	Title         string   `gorm:"size:255;not null" json:"title"`
	WeekNumber    int      `gorm:"not null" json:"weekNumber"`
	QuestionCount int      `gorm:"not null;default:10" json:"questionCount"`
	DomainID      string   `gorm:"size:10;not null;default:'1.0';index" json:"domainId"`
	LessonID      *uint    `gorm:"index" json:"lessonId"`
	SourceURLs    []string `gorm:"serializer:json" json:"sourceUrls"`

	Questions []Question `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

type Question struct {
	BaseModel
	QuizID       uint   `gorm:"index;not null" json:"quizId"`
	QuestionText string `gorm:"type:text;not null" json:"questionText"`
	OptionA      string `gorm:"type:text;not null" json:"optionA"`
	OptionB      string `gorm:"type:text;not null" json:"optionB"`
	OptionC      string `gorm:"type:text;not null" json:"optionC"`
	OptionD      string `gorm:"type:text;not null" json:"optionD"`
	// Comma-separated option letters. A single letter for single-answer
	// questions, "A,C" style for multi-select.
	CorrectAnswers string `gorm:"size:20;not null" json:"-"`
	Explanation    string `gorm:"type:text" json:"explanation"`
}

func (Question) TableName() string {
	return "questions"
}

// CorrectSet returns the correct option letters, trimmed and uppercased.
func (q *Question) CorrectSet() []string {
	parts := strings.Split(q.CorrectAnswers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (q *Question) IsMultiSelect() bool {
	return len(q.CorrectSet()) > 1
}
