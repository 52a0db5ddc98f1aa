package repository

import (
	"errors"

	"nexus_academy_backend/internal/model"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) Log(event *model.ActivityEvent) error {
	return r.DB.Create(event).Error
}

// LogTx records an event inside a caller-managed transaction.
func (r *ActivityRepository) LogTx(tx *gorm.DB, event *model.ActivityEvent) error {
	return tx.Create(event).Error
}

func (r *ActivityRepository) Recent(limit int) ([]model.ActivityEvent, error) {
	var events []model.ActivityEvent
	err := r.DB.Order("created_at DESC").Limit(limit).Find(&events).Error
	return events, err
}

func (r *ActivityRepository) RecentByStudent(studentID uint, limit int) ([]model.ActivityEvent, error) {
	var events []model.ActivityEvent
	err := r.DB.Where("student_id = ?", studentID).
		Order("created_at DESC").Limit(limit).Find(&events).Error
	return events, err
}

func (r *ActivityRepository) GetStreak(studentID uint) (*model.LoginStreak, error) {
	var streak model.LoginStreak
	err := r.DB.Where("student_id = ?", studentID).First(&streak).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &streak, err
}

func (r *ActivityRepository) SaveStreak(streak *model.LoginStreak) error {
	return r.DB.Save(streak).Error
}

// ReplaceWeeklyLeads swaps out a week's domain leads atomically.
func (r *ActivityRepository) ReplaceWeeklyLeads(weekKey string, leads []model.WeeklyDomainLead) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("week_key = ?", weekKey).Delete(&model.WeeklyDomainLead{}).Error; err != nil {
			return err
		}
		if len(leads) == 0 {
			return nil
		}
		return tx.Create(&leads).Error
	})
}

func (r *ActivityRepository) ListWeeklyLeads(weekKey string) ([]model.WeeklyDomainLead, error) {
	var leads []model.WeeklyDomainLead
	err := r.DB.Where("week_key = ?", weekKey).Order("domain_id ASC").Find(&leads).Error
	return leads, err
}
