package service

import (
	"context"
	"strconv"
	"testing"

	"nexus_academy_backend/internal/model"
	"nexus_academy_backend/internal/repository"
	"nexus_academy_backend/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// One connection so every query sees the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

// testServices is the fully wired service graph over one test database.
type testServices struct {
	db          *gorm.DB
	grader      *stubGrader
	xp          *XPService
	mastery     *MasteryService
	quiz        *QuizService
	ticket      *TicketService
	progression *ProgressionService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := newTestDB(t)

	studentRepo := repository.NewStudentRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	masteryRepo := repository.NewMasteryRepository(db)
	progressionRepo := repository.NewProgressionRepository(db)

	grader := &stubGrader{}
	xp := NewXPService(db, ledgerRepo)
	mastery := NewMasteryService(db, masteryRepo)

	return &testServices{
		db:          db,
		grader:      grader,
		xp:          xp,
		mastery:     mastery,
		quiz:        NewQuizService(db, quizRepo, studentRepo, xp, mastery),
		ticket:      NewTicketService(db, ticketRepo, studentRepo, xp, mastery, grader),
		progression: NewProgressionService(db, progressionRepo, studentRepo, ticketRepo, mastery),
	}
}

type stubGrader struct {
	result GradeResult
	err    error
	calls  int
}

func (g *stubGrader) Grade(_ context.Context, _ GradeRequest) (*GradeResult, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	r := g.result
	return &r, nil
}

func createStudent(t *testing.T, db *gorm.DB, name string) *model.Student {
	t.Helper()
	student := &model.Student{
		Name:     name,
		Email:    name + "@academy.test",
		Password: "not-a-real-hash",
	}
	require.NoError(t, db.Create(student).Error)
	return student
}

func createQuiz(t *testing.T, db *gorm.DB, domainID string, questions int) *model.Quiz {
	t.Helper()
	quiz := &model.Quiz{
		Title:         "Test Quiz",
		WeekNumber:    1,
		QuestionCount: questions,
		DomainID:      domainID,
	}
	for i := 0; i < questions; i++ {
		quiz.Questions = append(quiz.Questions, model.Question{
			QuestionText:   "question",
			OptionA:        "a",
			OptionB:        "b",
			OptionC:        "c",
			OptionD:        "d",
			CorrectAnswers: "A",
		})
	}
	require.NoError(t, db.Create(quiz).Error)
	return quiz
}

func createTicket(t *testing.T, db *gorm.DB, domainID string, difficulty int) *model.Ticket {
	t.Helper()
	ticket := &model.Ticket{
		Title:       "Printer offline",
		Description: "User reports the shared printer is unreachable.",
		Difficulty:  difficulty,
		WeekNumber:  1,
		DomainID:    domainID,
		RootCause:   "stale spooler",
	}
	require.NoError(t, db.Create(ticket).Error)
	return ticket
}

// answersFor builds a full answer sheet for a quiz, answering the first
// correct questions with "A" and the rest with "B" (wrong).
func answersFor(quiz *model.Quiz, correct int) map[string][]string {
	answers := make(map[string][]string, len(quiz.Questions))
	for i, q := range quiz.Questions {
		letter := "B"
		if i < correct {
			letter = "A"
		}
		answers[keyFor(q.ID)] = []string{letter}
	}
	return answers
}

func keyFor(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
