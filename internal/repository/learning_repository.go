package repository

import (
	"errors"

	"nexus_academy_backend/internal/model"
	"nexus_academy_backend/internal/util"

	"gorm.io/gorm"
)

type LearningRepository struct {
	DB *gorm.DB
}

func NewLearningRepository(db *gorm.DB) *LearningRepository {
	return &LearningRepository{DB: db}
}

func (r *LearningRepository) ListModules() ([]model.LearningModule, error) {
	var modules []model.LearningModule
	err := r.DB.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("lessons.sort_order ASC")
	}).Order("sort_order ASC").Find(&modules).Error
	return modules, err
}

func (r *LearningRepository) FindModule(id uint) (*model.LearningModule, error) {
	var module model.LearningModule
	err := r.DB.Preload("Lessons").First(&module, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrModuleNotFound
	}
	return &module, err
}

func (r *LearningRepository) CreateModule(module *model.LearningModule) error {
	return r.DB.Create(module).Error
}

func (r *LearningRepository) CreateLesson(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LearningRepository) FindLesson(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	return &lesson, err
}

func (r *LearningRepository) SaveLesson(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

// LessonsForModule lists a module's lessons in display order.
func (r *LearningRepository) LessonsForModule(moduleID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("module_id = ?", moduleID).Order("sort_order ASC").Find(&lessons).Error
	return lessons, err
}
