package repository

import (
	"errors"

	"nexus_academy_backend/internal/model"
	"nexus_academy_backend/internal/util"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Questions").First(&quiz, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	return &quiz, err
}

func (r *QuizRepository) List(weekNumber *int) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	query := r.DB.Preload("Questions")
	if weekNumber != nil {
		query = query.Where("week_number = ?", *weekNumber)
	}
	err := query.Order("created_at DESC").Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) ListByLesson(lessonID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("lesson_id = ?", lessonID).Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) FindAttempt(studentID, quizID uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.Where("student_id = ? AND quiz_id = ?", studentID, quizID).First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, gorm.ErrRecordNotFound
	}
	return &attempt, err
}

func (r *QuizRepository) ListAttemptsByStudent(studentID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("student_id = ?", studentID).Find(&attempts).Error
	return attempts, err
}
