package model

import "time"

// QuestionResult is one entry of the per-question breakdown stored on an
// attempt. Explicit struct, not a loose JSON map.
type QuestionResult struct {
	QuestionID     uint     `json:"questionId"`
	QuestionNumber int      `json:"questionNumber"`
	StudentAnswer  []string `json:"studentAnswer"`
	CorrectAnswer  []string `json:"correctAnswer"`
	IsCorrect      bool     `json:"isCorrect"`
	Explanation    string   `json:"explanation,omitempty"`
}

// QuizAttempt holds the single row per (student, quiz). Retakes update
// Score/Results/BestScore in place; the FirstAttempt* fields and
// XPAwarded are frozen after the first submission.
type QuizAttempt struct {
	BaseModel
	StudentID         uint                `gorm:"not null;uniqueIndex:uq_student_quiz" json:"studentId"`
	QuizID            uint                `gorm:"not null;uniqueIndex:uq_student_quiz" json:"quizId"`
	Answers           map[string][]string `gorm:"serializer:json" json:"answers"`
	Results           []QuestionResult    `gorm:"serializer:json" json:"results"`
	Score             int                 `gorm:"not null" json:"score"`
	XPAwarded         int                 `gorm:"not null" json:"xpAwarded"`
	BestScore         int                 `gorm:"not null" json:"bestScore"`
	FirstAttemptScore int                 `gorm:"not null" json:"firstAttemptScore"`
	FirstAttemptXP    int                 `gorm:"not null" json:"firstAttemptXp"`
	CompletedAt       time.Time           `json:"completedAt"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
