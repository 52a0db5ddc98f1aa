package repository

import (
	"errors"
	"time"

	"nexus_academy_backend/internal/model"
	"nexus_academy_backend/internal/util"

	"gorm.io/gorm"
)

type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

func (r *StudentRepository) Create(student *model.Student) error {
	return r.DB.Create(student).Error
}

func (r *StudentRepository) FindByID(id uint) (*model.Student, error) {
	var student model.Student
	err := r.DB.First(&student, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrStudentNotFound
	}
	return &student, err
}

func (r *StudentRepository) FindByEmail(email string) (*model.Student, error) {
	var student model.Student
	err := r.DB.Where("email = ?", email).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrStudentNotFound
	}
	return &student, err
}

// FindByIDs returns the subset of ids that resolve to real students.
func (r *StudentRepository) FindByIDs(ids []uint) ([]model.Student, error) {
	var students []model.Student
	if len(ids) == 0 {
		return students, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&students).Error
	return students, err
}

func (r *StudentRepository) Update(student *model.Student) error {
	return r.DB.Save(student).Error
}

func (r *StudentRepository) UpdateLastSeen(studentID uint) error {
	now := time.Now()
	return r.DB.Model(&model.Student{}).
		Where("id = ?", studentID).
		Update("last_active_at", now).
		Error
}

func (r *StudentRepository) FindTopByXP(limit int) ([]model.Student, error) {
	var students []model.Student
	err := r.DB.Order("total_xp DESC").Limit(limit).Find(&students).Error
	return students, err
}

func (r *StudentRepository) List(page, limit int) ([]model.Student, int64, error) {
	var students []model.Student
	var total int64
	if err := r.DB.Model(&model.Student{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.DB.Order("name ASC").Offset((page - 1) * limit).Limit(limit).Find(&students).Error
	return students, total, err
}
