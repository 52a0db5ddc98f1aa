package service

import (
	"nexus_academy_backend/internal/model"
	"nexus_academy_backend/internal/repository"
)

// StudentService assembles the read-side views: dashboard, stats, profile.
type StudentService struct {
	StudentRepo  *repository.StudentRepository
	LedgerRepo   *repository.LedgerRepository
	QuizRepo     *repository.QuizRepository
	TicketRepo   *repository.TicketRepository
	ActivityRepo *repository.ActivityRepository
	Mastery      *MasteryService
	Progression  *ProgressionService
}

func NewStudentService(studentRepo *repository.StudentRepository, ledgerRepo *repository.LedgerRepository, quizRepo *repository.QuizRepository, ticketRepo *repository.TicketRepository, activityRepo *repository.ActivityRepository, mastery *MasteryService, progression *ProgressionService) *StudentService {
	return &StudentService{
		StudentRepo:  studentRepo,
		LedgerRepo:   ledgerRepo,
		QuizRepo:     quizRepo,
		TicketRepo:   ticketRepo,
		ActivityRepo: activityRepo,
		Mastery:      mastery,
		Progression:  progression,
	}
}

type Dashboard struct {
	Student        *model.Student               `json:"student"`
	Level          XPLevel                      `json:"level"`
	NextLevel      *XPLevel                     `json:"nextLevel"`
	Mastery        []model.StudentDomainMastery `json:"mastery"`
	Promotion      *PromotionStatus             `json:"promotion"`
	RecentXP       []model.XPLedgerEntry        `json:"recentXp"`
	RecentActivity []model.ActivityEvent        `json:"recentActivity"`
}

func (s *StudentService) Dashboard(studentID uint) (*Dashboard, error) {
	student, err := s.StudentRepo.FindByID(studentID)
	if err != nil {
		return nil, err
	}
	mastery, err := s.Mastery.List(studentID)
	if err != nil {
		return nil, err
	}
	promotion, err := s.Progression.Status(studentID)
	if err != nil {
		return nil, err
	}
	recentXP, err := s.LedgerRepo.Recent(studentID, 10)
	if err != nil {
		return nil, err
	}
	activity, err := s.ActivityRepo.RecentByStudent(studentID, 10)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Student:        student,
		Level:          LevelFromXP(student.TotalXP),
		NextLevel:      NextLevel(student.TotalXP),
		Mastery:        mastery,
		Promotion:      promotion,
		RecentXP:       recentXP,
		RecentActivity: activity,
	}, nil
}

type StudentStats struct {
	TotalXP              int         `json:"totalXp"`
	Level                XPLevel     `json:"level"`
	QuizzesTaken         int         `json:"quizzesTaken"`
	QuizBestScoreSum     int         `json:"quizBestScoreSum"`
	TicketsSubmitted     int         `json:"ticketsSubmitted"`
	TicketsVerified      int         `json:"ticketsVerified"`
	VerifiedByDifficulty map[int]int `json:"verifiedByDifficulty"`
}

func (s *StudentService) Stats(studentID uint) (*StudentStats, error) {
	student, err := s.StudentRepo.FindByID(studentID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.QuizRepo.ListAttemptsByStudent(studentID)
	if err != nil {
		return nil, err
	}
	subs, err := s.TicketRepo.ListSubmissionsByStudent(studentID)
	if err != nil {
		return nil, err
	}
	byDifficulty, err := s.TicketRepo.CountVerifiedByDifficulty(studentID)
	if err != nil {
		return nil, err
	}

	stats := &StudentStats{
		TotalXP:              student.TotalXP,
		Level:                LevelFromXP(student.TotalXP),
		QuizzesTaken:         len(attempts),
		TicketsSubmitted:     len(subs),
		VerifiedByDifficulty: byDifficulty,
	}
	for _, a := range attempts {
		stats.QuizBestScoreSum += a.BestScore
	}
	for _, sub := range subs {
		if sub.Status == model.SubmissionPassed {
			stats.TicketsVerified++
		}
	}
	return stats, nil
}

func (s *StudentService) Get(studentID uint) (*model.Student, error) {
	return s.StudentRepo.FindByID(studentID)
}

func (s *StudentService) List(page, limit int) ([]model.Student, int64, error) {
	return s.StudentRepo.List(page, limit)
}

// Touch updates the last-active timestamp; called from middleware on
// authenticated requests.
func (s *StudentService) Touch(studentID uint) error {
	return s.StudentRepo.UpdateLastSeen(studentID)
}
