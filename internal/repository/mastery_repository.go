package repository

import (
	"errors"

	"nexus_academy_backend/internal/model"

	"gorm.io/gorm"
)

type MasteryRepository struct {
	DB *gorm.DB
}

func NewMasteryRepository(db *gorm.DB) *MasteryRepository {
	return &MasteryRepository{DB: db}
}

func (r *MasteryRepository) ListByStudent(studentID uint) ([]model.StudentDomainMastery, error) {
	var rows []model.StudentDomainMastery
	err := r.DB.Where("student_id = ?", studentID).Order("domain_id ASC").Find(&rows).Error
	return rows, err
}

// Find returns nil when the student has no history in the domain.
func (r *MasteryRepository) Find(studentID uint, domainID string) (*model.StudentDomainMastery, error) {
	var row model.StudentDomainMastery
	err := r.DB.Where("student_id = ? AND domain_id = ?", studentID, domainID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// TopByDomain returns the highest-mastery row for a domain, nil when the
// domain has no activity yet.
func (r *MasteryRepository) TopByDomain(domainID string) (*model.StudentDomainMastery, error) {
	var row model.StudentDomainMastery
	err := r.DB.Where("domain_id = ?", domainID).
		Order("mastery_percent DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
