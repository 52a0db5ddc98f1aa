package service

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"nexus_academy_backend/internal/model"
	"nexus_academy_backend/internal/repository"
	"nexus_academy_backend/internal/util"
	"nexus_academy_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuizService struct {
	DB          *gorm.DB
	QuizRepo    *repository.QuizRepository
	StudentRepo *repository.StudentRepository
	XP          *XPService
	Mastery     *MasteryService
}

func NewQuizService(db *gorm.DB, quizRepo *repository.QuizRepository, studentRepo *repository.StudentRepository, xp *XPService, mastery *MasteryService) *QuizService {
	return &QuizService{DB: db, QuizRepo: quizRepo, StudentRepo: studentRepo, XP: xp, Mastery: mastery}
}

// SubmitResult is what a student sees right after submitting.
type SubmitResult struct {
	AttemptID    uint                  `json:"attemptId"`
	Score        int                   `json:"score"`
	Total        int                   `json:"total"`
	BestScore    int                   `json:"bestScore"`
	XPAwarded    int                   `json:"xpAwarded"`
	FirstAttempt bool                  `json:"firstAttempt"`
	Results      []model.QuestionResult `json:"results"`
}

func normalizeAnswer(answer []string) []string {
	out := make([]string, 0, len(answer))
	for _, a := range answer {
		a = strings.ToUpper(strings.TrimSpace(a))
		if a != "" {
			out = append(out, a)
		}
	}
	sort.Strings(out)
	return out
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// grade checks each question against the submitted answers. Multi-select
// questions require the exact set: extra or missing letters score zero.
func grade(questions []model.Question, answers map[string][]string) (int, []model.QuestionResult) {
	score := 0
	results := make([]model.QuestionResult, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		key := strconv.FormatUint(uint64(q.ID), 10)
		given := normalizeAnswer(answers[key])
		correct := normalizeAnswer(q.CorrectSet())
		ok := sameSet(given, correct)
		if ok {
			score++
		}
		results = append(results, model.QuestionResult{
			QuestionID:     q.ID,
			QuestionNumber: i + 1,
			StudentAnswer:  given,
			CorrectAnswer:  correct,
			IsCorrect:      ok,
			Explanation:    q.Explanation,
		})
	}
	return score, results
}

// Submit grades a quiz attempt. The first attempt per (student, quiz) is
// the only one that pays XP and feeds mastery; retakes update the stored
// answers and best score without touching the ledger.
func (s *QuizService) Submit(studentID, quizID uint, answers map[string][]string) (*SubmitResult, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	if len(quiz.Questions) == 0 {
		return nil, util.ErrInvalidQuiz
	}
	if _, err := s.StudentRepo.FindByID(studentID); err != nil {
		return nil, err
	}

	score, results := grade(quiz.Questions, answers)
	total := len(quiz.Questions)

	existing, err := s.QuizRepo.FindAttempt(studentID, quizID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return s.retake(existing, score, total, results, answers)
	}

	res, err := s.firstAttempt(studentID, quiz, score, total, results, answers)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a race against a concurrent first submission; the unique
		// index on (student, quiz) guarantees the winner already paid out.
		existing, ferr := s.QuizRepo.FindAttempt(studentID, quizID)
		if ferr != nil {
			return nil, ferr
		}
		return s.retake(existing, score, total, results, answers)
	}
	return res, err
}

func (s *QuizService) firstAttempt(studentID uint, quiz *model.Quiz, score, total int, results []model.QuestionResult, answers map[string][]string) (*SubmitResult, error) {
	xp := QuizXP(score, total)
	if quiz.QuestionCount == 0 {
		// Imported quizzes predate the stored question count and were
		// always paid a flat 10 XP per correct answer.
		xp = LegacyQuizXP(score)
	}
	attempt := model.QuizAttempt{
		StudentID:         studentID,
		QuizID:            quiz.ID,
		Answers:           answers,
		Results:           results,
		Score:             score,
		XPAwarded:         xp,
		BestScore:         score,
		FirstAttemptScore: score,
		FirstAttemptXP:    xp,
		CompletedAt:       time.Now(),
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}
		if err := s.XP.AwardTx(tx, studentID, xp, model.SourceQuiz, &attempt.ID,
			fmt.Sprintf("Quiz: %s (%d/%d)", quiz.Title, score, total)); err != nil {
			return err
		}
		if err := s.Mastery.RecordQuizTx(tx, studentID, quiz.DomainID, score); err != nil {
			return err
		}
		event := model.ActivityEvent{
			StudentID: studentID,
			EventType: model.ActivityQuizPassed,
			Title:     quiz.Title,
			Detail:    fmt.Sprintf("Scored %d/%d, earned %d XP", score, total, xp),
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("quiz first attempt",
		zap.Uint("student_id", studentID),
		zap.Uint("quiz_id", quiz.ID),
		zap.Int("score", score),
		zap.Int("xp", xp))

	return &SubmitResult{
		AttemptID:    attempt.ID,
		Score:        score,
		Total:        total,
		BestScore:    score,
		XPAwarded:    xp,
		FirstAttempt: true,
		Results:      results,
	}, nil
}

func (s *QuizService) retake(attempt *model.QuizAttempt, score, total int, results []model.QuestionResult, answers map[string][]string) (*SubmitResult, error) {
	attempt.Answers = answers
	attempt.Results = results
	attempt.Score = score
	attempt.CompletedAt = time.Now()
	if score > attempt.BestScore {
		attempt.BestScore = score
	}
	if err := s.DB.Save(attempt).Error; err != nil {
		return nil, err
	}
	return &SubmitResult{
		AttemptID:    attempt.ID,
		Score:        score,
		Total:        total,
		BestScore:    attempt.BestScore,
		XPAwarded:    0,
		FirstAttempt: false,
		Results:      results,
	}, nil
}

// Get returns a quiz with questions, stripping answer keys via the model's
// JSON tags.
func (s *QuizService) Get(quizID uint) (*model.Quiz, error) {
	return s.QuizRepo.FindByID(quizID)
}

func (s *QuizService) List(weekNumber *int) ([]model.Quiz, error) {
	return s.QuizRepo.List(weekNumber)
}

func (s *QuizService) Create(quiz *model.Quiz) error {
	quiz.DomainID = model.ResolveDomain(quiz.DomainID)
	if quiz.QuestionCount == 0 {
		quiz.QuestionCount = len(quiz.Questions)
	}
	return s.QuizRepo.Create(quiz)
}

// Attempt returns a student's stored attempt for a quiz, nil when the
// student has not taken it.
func (s *QuizService) Attempt(studentID, quizID uint) (*model.QuizAttempt, error) {
	attempt, err := s.QuizRepo.FindAttempt(studentID, quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return attempt, err
}

func (s *QuizService) AttemptsByStudent(studentID uint) ([]model.QuizAttempt, error) {
	return s.QuizRepo.ListAttemptsByStudent(studentID)
}
