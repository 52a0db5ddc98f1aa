package service

import (
	"errors"
	"time"

	"nexus_academy_backend/internal/config"
	"nexus_academy_backend/internal/model"
	"nexus_academy_backend/internal/repository"
	"nexus_academy_backend/internal/util"
	"nexus_academy_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	StudentRepo  *repository.StudentRepository
	ActivityRepo *repository.ActivityRepository
	JWTConfig    config.JWTConfig
}

func NewAuthService(studentRepo *repository.StudentRepository, activityRepo *repository.ActivityRepository, jwtConfig config.JWTConfig) *AuthService {
	return &AuthService{StudentRepo: studentRepo, ActivityRepo: activityRepo, JWTConfig: jwtConfig}
}

func (s *AuthService) Register(name, email, password string) (*model.Student, error) {
	existing, err := s.StudentRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, util.ErrStudentNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, util.ErrEmailRegistered
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	student := &model.Student{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     model.RoleStudent,
	}
	if err := s.StudentRepo.Create(student); err != nil {
		return nil, err
	}
	logger.Log.Info("student registered", zap.Uint("student_id", student.ID), zap.String("email", email))
	return student, nil
}

// Login verifies credentials, refreshes the login streak, and returns a
// signed token.
func (s *AuthService) Login(email, password string) (string, *model.Student, error) {
	student, err := s.StudentRepo.FindByEmail(email)
	if err != nil {
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(student.Password), []byte(password)); err != nil {
		return "", nil, util.ErrStudentNotFound
	}

	token, err := util.GenerateJWT(student, s.JWTConfig.Secret, s.JWTConfig.ExpireTime)
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	student.LastLogin = &now
	if err := s.StudentRepo.Update(student); err != nil {
		return "", nil, err
	}
	if err := s.touchStreak(student.ID, now); err != nil {
		// A streak bookkeeping failure never blocks login.
		logger.Log.Warn("streak update failed", zap.Uint("student_id", student.ID), zap.Error(err))
	}
	return token, student, nil
}

// touchStreak extends the daily streak: consecutive calendar days grow it,
// a gap resets it, repeated logins the same day are no-ops.
func (s *AuthService) touchStreak(studentID uint, now time.Time) error {
	streak, err := s.ActivityRepo.GetStreak(studentID)
	if err != nil {
		return err
	}
	if streak == nil {
		return s.ActivityRepo.SaveStreak(&model.LoginStreak{
			StudentID:     studentID,
			CurrentStreak: 1,
			LongestStreak: 1,
			LastLogin:     now,
		})
	}

	last := streak.LastLogin
	today := now.Truncate(24 * time.Hour)
	lastDay := last.Truncate(24 * time.Hour)
	switch days := int(today.Sub(lastDay).Hours() / 24); {
	case days == 0:
		return nil
	case days == 1:
		streak.CurrentStreak++
	default:
		streak.CurrentStreak = 1
	}
	if streak.CurrentStreak > streak.LongestStreak {
		streak.LongestStreak = streak.CurrentStreak
	}
	streak.LastLogin = now
	return s.ActivityRepo.SaveStreak(streak)
}

// Streak returns a student's login streak, zero-valued when they have
// never logged in.
func (s *AuthService) Streak(studentID uint) (*model.LoginStreak, error) {
	streak, err := s.ActivityRepo.GetStreak(studentID)
	if err != nil {
		return nil, err
	}
	if streak == nil {
		return &model.LoginStreak{StudentID: studentID}, nil
	}
	return streak, nil
}
