package repository

import (
	"nexus_academy_backend/internal/model"

	"gorm.io/gorm"
)

type LedgerRepository struct {
	DB *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{DB: db}
}

func (r *LedgerRepository) ListByStudent(studentID uint, page, limit int) ([]model.XPLedgerEntry, int64, error) {
	var entries []model.XPLedgerEntry
	var total int64

	query := r.DB.Model(&model.XPLedgerEntry{}).Where("student_id = ?", studentID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&entries).Error
	return entries, total, err
}

func (r *LedgerRepository) Recent(studentID uint, limit int) ([]model.XPLedgerEntry, error) {
	var entries []model.XPLedgerEntry
	err := r.DB.Where("student_id = ?", studentID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// SumForStudent recomputes a student's XP from the ledger. Used by the
// repair path and invariant checks, never by the hot path.
func (r *LedgerRepository) SumForStudent(studentID uint) (int, error) {
	var sum *int
	err := r.DB.Model(&model.XPLedgerEntry{}).
		Where("student_id = ?", studentID).
		Select("SUM(delta)").
		Scan(&sum).Error
	if err != nil || sum == nil {
		return 0, err
	}
	return *sum, nil
}
