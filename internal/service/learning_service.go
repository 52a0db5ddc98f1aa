package service

import (
	"context"
	"io"

	"nexus_academy_backend/internal/model"
	"nexus_academy_backend/internal/repository"
	"nexus_academy_backend/internal/util"
	"nexus_academy_backend/pkg/logger"

	"go.uber.org/zap"
)

// LearningService serves course content. A module unlocks once the
// student's mastery in the prerequisite module's domains clears the
// unlock threshold.
type LearningService struct {
	LearningRepo *repository.LearningRepository
	QuizRepo     *repository.QuizRepository
	Mastery      *MasteryService
	Storage      StorageProvider
}

func NewLearningService(learningRepo *repository.LearningRepository, quizRepo *repository.QuizRepository, mastery *MasteryService, storage StorageProvider) *LearningService {
	return &LearningService{LearningRepo: learningRepo, QuizRepo: quizRepo, Mastery: mastery, Storage: storage}
}

// ModuleView is a module plus the viewing student's unlock state.
type ModuleView struct {
	model.LearningModule
	Unlocked bool `json:"unlocked"`
}

// prerequisiteDomains collects the domains of the prerequisite module's
// quizzes; those are the domains whose mastery gates the unlock.
func (s *LearningService) prerequisiteDomains(moduleID uint) ([]string, error) {
	lessons, err := s.LearningRepo.LessonsForModule(moduleID)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var domains []string
	for _, lesson := range lessons {
		quizzes, err := s.QuizRepo.ListByLesson(lesson.ID)
		if err != nil {
			return nil, err
		}
		for _, q := range quizzes {
			if !seen[q.DomainID] {
				seen[q.DomainID] = true
				domains = append(domains, q.DomainID)
			}
		}
	}
	return domains, nil
}

func (s *LearningService) unlocked(studentID uint, module *model.LearningModule) (bool, error) {
	if module.PrerequisiteModuleID == nil {
		return true, nil
	}
	domains, err := s.prerequisiteDomains(*module.PrerequisiteModuleID)
	if err != nil {
		return false, err
	}
	// A prerequisite with no quiz-linked domains cannot gate anything.
	if len(domains) == 0 {
		return true, nil
	}
	for _, domainID := range domains {
		pct, err := s.Mastery.Percent(studentID, domainID)
		if err != nil {
			return false, err
		}
		if pct < float64(module.UnlockThresholdPct) {
			return false, nil
		}
	}
	return true, nil
}

// ModulesFor lists all modules annotated with the student's unlock state.
func (s *LearningService) ModulesFor(studentID uint) ([]ModuleView, error) {
	modules, err := s.LearningRepo.ListModules()
	if err != nil {
		return nil, err
	}
	views := make([]ModuleView, 0, len(modules))
	for i := range modules {
		open, err := s.unlocked(studentID, &modules[i])
		if err != nil {
			return nil, err
		}
		views = append(views, ModuleView{LearningModule: modules[i], Unlocked: open})
	}
	return views, nil
}

func (s *LearningService) GetModule(id uint) (*model.LearningModule, error) {
	return s.LearningRepo.FindModule(id)
}

func (s *LearningService) CreateModule(module *model.LearningModule) error {
	if module.PrerequisiteModuleID != nil {
		if _, err := s.LearningRepo.FindModule(*module.PrerequisiteModuleID); err != nil {
			return err
		}
	}
	return s.LearningRepo.CreateModule(module)
}

func (s *LearningService) CreateLesson(lesson *model.Lesson) error {
	if _, err := s.LearningRepo.FindModule(lesson.ModuleID); err != nil {
		return err
	}
	return s.LearningRepo.CreateLesson(lesson)
}

// AttachVideo stores a lesson video and records its probed duration.
// Probe failures are tolerated: the video is still attached, just with an
// unknown duration.
func (s *LearningService) AttachVideo(ctx context.Context, lessonID uint, filename, localPath string, reader io.Reader, size int64) (*model.Lesson, error) {
	if !util.HasAllowedExtension(filename, util.AllowedVideoExtensions) {
		return nil, util.ErrUnsupportedUpload
	}
	lesson, err := s.LearningRepo.FindLesson(lessonID)
	if err != nil {
		return nil, err
	}

	key := NewStorageKey("lessons", filename)
	if err := s.Storage.Save(ctx, key, reader, size, ""); err != nil {
		return nil, err
	}
	lesson.VideoURL = key

	if localPath != "" {
		if info, err := util.GetVideoInfo(localPath); err != nil {
			logger.Log.Warn("video probe failed",
				zap.Uint("lesson_id", lessonID), zap.Error(err))
		} else {
			lesson.DurationSeconds = int(info.Duration)
		}
	}

	if err := s.LearningRepo.SaveLesson(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}
