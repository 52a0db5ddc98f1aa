package service

import (
	"errors"
	"time"

	"nexus_academy_backend/internal/model"
	"nexus_academy_backend/internal/repository"

	"gorm.io/gorm"
)

// MasteryService maintains per-(student, domain) rollups. Ticket scores
// weigh twice as much as quiz scores: real troubleshooting beats recall.
type MasteryService struct {
	DB          *gorm.DB
	MasteryRepo *repository.MasteryRepository
}

func NewMasteryService(db *gorm.DB, masteryRepo *repository.MasteryRepository) *MasteryService {
	return &MasteryService{DB: db, MasteryRepo: masteryRepo}
}

func participates(sub *model.TicketSubmission, studentID uint) bool {
	for _, id := range sub.Participants() {
		if id == studentID {
			return true
		}
	}
	return false
}

func masteryPercent(quizTotal float64, quizN int, ticketTotal float64, ticketN int) float64 {
	var quizAvg, ticketAvg float64
	if quizN > 0 {
		quizAvg = quizTotal / float64(quizN)
	}
	if ticketN > 0 {
		ticketAvg = ticketTotal / float64(ticketN)
	}
	weighted := (quizAvg*1 + ticketAvg*2) / 3
	pct := weighted * 10
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

func (s *MasteryService) record(tx *gorm.DB, studentID uint, domainID string, quizScore *float64, ticketScore *float64) error {
	var m model.StudentDomainMastery
	err := tx.Where("student_id = ? AND domain_id = ?", studentID, domainID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		m = model.StudentDomainMastery{StudentID: studentID, DomainID: domainID}
	} else if err != nil {
		return err
	}
	if quizScore != nil {
		m.QuizScoreTotal += *quizScore
		m.QuizAttempts++
	}
	if ticketScore != nil {
		m.TicketScoreTotal += *ticketScore
		m.TicketAttempts++
	}
	m.MasteryPercent = masteryPercent(m.QuizScoreTotal, m.QuizAttempts, m.TicketScoreTotal, m.TicketAttempts)
	m.UpdatedAt = time.Now()
	return tx.Save(&m).Error
}

// RecordQuizTx folds a quiz result (raw correct count) into the
// student's domain rollup inside the caller's transaction.
func (s *MasteryService) RecordQuizTx(tx *gorm.DB, studentID uint, domainID string, correct int) error {
	score := float64(correct)
	return s.record(tx, studentID, domainID, &score, nil)
}

// RecordTicketTx folds a verified ticket's final score (0-10) into the
// student's domain rollup inside the caller's transaction.
func (s *MasteryService) RecordTicketTx(tx *gorm.DB, studentID uint, domainID string, finalScore int) error {
	score := float64(finalScore)
	return s.record(tx, studentID, domainID, nil, &score)
}

// AdjustTicketScoreTx corrects a previously-recorded ticket score in
// place, used when an admin overrides a verified submission. Attempt
// counts are unchanged.
func (s *MasteryService) AdjustTicketScoreTx(tx *gorm.DB, studentID uint, domainID string, scoreDelta float64) error {
	if scoreDelta == 0 {
		return nil
	}
	var m model.StudentDomainMastery
	if err := tx.Where("student_id = ? AND domain_id = ?", studentID, domainID).First(&m).Error; err != nil {
		return err
	}
	m.TicketScoreTotal += scoreDelta
	m.MasteryPercent = masteryPercent(m.QuizScoreTotal, m.QuizAttempts, m.TicketScoreTotal, m.TicketAttempts)
	m.UpdatedAt = time.Now()
	return tx.Save(&m).Error
}

// List returns a student's mastery across all domains they have touched.
func (s *MasteryService) List(studentID uint) ([]model.StudentDomainMastery, error) {
	return s.MasteryRepo.ListByStudent(studentID)
}

// Percent returns the student's mastery for one domain, zero if untouched.
func (s *MasteryService) Percent(studentID uint, domainID string) (float64, error) {
	m, err := s.MasteryRepo.Find(studentID, domainID)
	if err != nil {
		return 0, err
	}
	if m == nil {
		return 0, nil
	}
	return m.MasteryPercent, nil
}

// Rebuild recomputes a student's rollups from scratch out of their quiz
// attempts and verified submissions. Repair path for migrated data.
func (s *MasteryService) Rebuild(studentID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", studentID).
			Delete(&model.StudentDomainMastery{}).Error; err != nil {
			return err
		}

		var attempts []model.QuizAttempt
		if err := tx.Where("student_id = ?", studentID).Find(&attempts).Error; err != nil {
			return err
		}
		for _, a := range attempts {
			var quiz model.Quiz
			if err := tx.Select("id", "domain_id").First(&quiz, a.QuizID).Error; err != nil {
				return err
			}
			// Only the first attempt ever counted; retakes never did.
			if err := s.RecordQuizTx(tx, studentID, quiz.DomainID, a.FirstAttemptScore); err != nil {
				return err
			}
		}

		// Verified tickets credit every participant, so collaborator_ids
		// has to be consulted too; the JSON column is filtered in Go.
		var subs []model.TicketSubmission
		if err := tx.
			Where("status = ? AND xp_granted = ?", model.SubmissionPassed, true).
			Find(&subs).Error; err != nil {
			return err
		}
		for _, sub := range subs {
			if !participates(&sub, studentID) {
				continue
			}
			var ticket model.Ticket
			if err := tx.Select("id", "domain_id").First(&ticket, sub.TicketID).Error; err != nil {
				return err
			}
			finalScore := sub.FinalScore
			if sub.Overridden && sub.OverrideScore != nil {
				finalScore = *sub.OverrideScore
			}
			if err := s.RecordTicketTx(tx, studentID, ticket.DomainID, finalScore); err != nil {
				return err
			}
		}
		return nil
	})
}
