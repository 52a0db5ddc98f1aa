package service

import (
	"nexus_academy_backend/internal/model"
	"nexus_academy_backend/internal/repository"
	"nexus_academy_backend/pkg/logger"
	"nexus_academy_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// XPService owns the append-only XP ledger. Every change to a student's
// total goes through AwardTx so that sum(ledger deltas) always equals
// students.total_xp.
type XPService struct {
	DB         *gorm.DB
	LedgerRepo *repository.LedgerRepository
}

func NewXPService(db *gorm.DB, ledgerRepo *repository.LedgerRepository) *XPService {
	return &XPService{DB: db, LedgerRepo: ledgerRepo}
}

// AwardTx appends a ledger entry and bumps the student's cached total in
// the caller's transaction. Delta may be negative (admin corrections).
func (s *XPService) AwardTx(tx *gorm.DB, studentID uint, delta int, sourceType string, sourceID *uint, description string) error {
	if delta == 0 {
		return nil
	}
	entry := model.XPLedgerEntry{
		StudentID:   studentID,
		SourceType:  sourceType,
		SourceID:    sourceID,
		Delta:       delta,
		Description: description,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}
	if err := tx.Model(&model.Student{}).Where("id = ?", studentID).
		Update("total_xp", gorm.Expr("total_xp + ?", delta)).Error; err != nil {
		return err
	}
	monitoring.RecordXPDelta(sourceType, delta)
	logger.Log.Info("xp awarded",
		zap.Uint("student_id", studentID),
		zap.Int("delta", delta),
		zap.String("source_type", sourceType))
	return nil
}

// Award runs AwardTx in its own transaction.
func (s *XPService) Award(studentID uint, delta int, sourceType string, sourceID *uint, description string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.AwardTx(tx, studentID, delta, sourceType, sourceID, description)
	})
}

// Ledger returns a page of a student's ledger, newest first.
func (s *XPService) Ledger(studentID uint, page, pageSize int) ([]model.XPLedgerEntry, int64, error) {
	return s.LedgerRepo.ListByStudent(studentID, page, pageSize)
}

// Reconcile recomputes a student's total from the ledger and repairs the
// cached column if it drifted. Returns the ledger sum.
func (s *XPService) Reconcile(studentID uint) (int, error) {
	sum, err := s.LedgerRepo.SumForStudent(studentID)
	if err != nil {
		return 0, err
	}
	var student model.Student
	if err := s.DB.First(&student, studentID).Error; err != nil {
		return 0, err
	}
	if student.TotalXP != sum {
		logger.Log.Warn("xp total drift repaired",
			zap.Uint("student_id", studentID),
			zap.Int("cached", student.TotalXP),
			zap.Int("ledger_sum", sum))
		if err := s.DB.Model(&model.Student{}).Where("id = ?", studentID).
			Update("total_xp", sum).Error; err != nil {
			return 0, err
		}
	}
	return sum, nil
}
