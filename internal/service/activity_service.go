package service

import (
	"nexus_academy_backend/internal/model"
	"nexus_academy_backend/internal/repository"
)

// ActivityService serves the event feeds. Events are written by the quiz,
// ticket, and progression flows inside their own transactions; this
// service only reads.
type ActivityService struct {
	ActivityRepo *repository.ActivityRepository
}

func NewActivityService(activityRepo *repository.ActivityRepository) *ActivityService {
	return &ActivityService{ActivityRepo: activityRepo}
}

func (s *ActivityService) Feed(limit int) ([]model.ActivityEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	return s.ActivityRepo.Recent(limit)
}

func (s *ActivityService) StudentFeed(studentID uint, limit int) ([]model.ActivityEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	return s.ActivityRepo.RecentByStudent(studentID, limit)
}
