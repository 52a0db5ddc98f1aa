package service

import (
	"testing"

	"nexus_academy_backend/internal/model"
	"nexus_academy_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizFirstAttemptPaysProportionalXP(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "quinn")
	quiz := createQuiz(t, s.db, "1.0", 5)

	result, err := s.quiz.Submit(student.ID, quiz.ID, answersFor(quiz, 3))
	require.NoError(t, err)

	assert.True(t, result.FirstAttempt)
	assert.Equal(t, 3, result.Score)
	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 60, result.XPAwarded)
	assert.Len(t, result.Results, 5)

	var refreshed model.Student
	require.NoError(t, s.db.First(&refreshed, student.ID).Error)
	assert.Equal(t, 60, refreshed.TotalXP)

	var entry model.XPLedgerEntry
	require.NoError(t, s.db.Where("student_id = ?", student.ID).First(&entry).Error)
	assert.Equal(t, model.SourceQuiz, entry.SourceType)
	assert.Equal(t, 60, entry.Delta)
}

func TestQuizRetakePaysNothing(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "taylor")
	quiz := createQuiz(t, s.db, "1.0", 5)

	first, err := s.quiz.Submit(student.ID, quiz.ID, answersFor(quiz, 2))
	require.NoError(t, err)
	assert.Equal(t, 40, first.XPAwarded)

	second, err := s.quiz.Submit(student.ID, quiz.ID, answersFor(quiz, 5))
	require.NoError(t, err)
	assert.False(t, second.FirstAttempt)
	assert.Equal(t, 0, second.XPAwarded)
	assert.Equal(t, 5, second.BestScore)

	// Total XP unchanged, exactly one ledger entry.
	var refreshed model.Student
	require.NoError(t, s.db.First(&refreshed, student.ID).Error)
	assert.Equal(t, 40, refreshed.TotalXP)

	var count int64
	require.NoError(t, s.db.Model(&model.XPLedgerEntry{}).
		Where("student_id = ?", student.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Stored attempt keeps the frozen first-attempt award.
	attempt, err := s.quiz.Attempt(student.ID, quiz.ID)
	require.NoError(t, err)
	require.NotNil(t, attempt)
	assert.Equal(t, 40, attempt.FirstAttemptXP)
	assert.Equal(t, 5, attempt.Score)
}

func TestQuizWorseRetakeKeepsBestScore(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "jordan")
	quiz := createQuiz(t, s.db, "2.0", 4)

	_, err := s.quiz.Submit(student.ID, quiz.ID, answersFor(quiz, 4))
	require.NoError(t, err)

	second, err := s.quiz.Submit(student.ID, quiz.ID, answersFor(quiz, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, second.Score)
	assert.Equal(t, 4, second.BestScore)
}

func TestQuizMultiSelectNeedsExactSet(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "casey")

	quiz := &model.Quiz{Title: "Multi", WeekNumber: 1, QuestionCount: 1, DomainID: "3.0"}
	quiz.Questions = append(quiz.Questions, model.Question{
		QuestionText: "pick two", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d",
		CorrectAnswers: "A,C",
	})
	require.NoError(t, s.db.Create(quiz).Error)
	qid := keyFor(quiz.Questions[0].ID)

	// Partial selection scores zero.
	result, err := s.quiz.Submit(student.ID, quiz.ID, map[string][]string{qid: {"A"}})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)

	// Exact set, order and case insensitive.
	result, err = s.quiz.Submit(student.ID, quiz.ID, map[string][]string{qid: {"c", "a"}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Score)
}

func TestQuizFirstAttemptFeedsMastery(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "morgan")
	quiz := createQuiz(t, s.db, "1.0", 10)

	_, err := s.quiz.Submit(student.ID, quiz.ID, answersFor(quiz, 6))
	require.NoError(t, err)

	rows, err := s.mastery.List(student.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1.0", rows[0].DomainID)
	assert.Equal(t, 1, rows[0].QuizAttempts)
	assert.InDelta(t, 6.0, rows[0].QuizScoreTotal, 0.001)
	// (6*1 + 0*2)/3 * 10 = 20
	assert.InDelta(t, 20.0, rows[0].MasteryPercent, 0.001)
}

func TestQuizWithoutQuestionsRejected(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "empty")

	quiz := &model.Quiz{Title: "Empty", WeekNumber: 1, DomainID: "1.0"}
	require.NoError(t, s.db.Create(quiz).Error)

	_, err := s.quiz.Submit(student.ID, quiz.ID, map[string][]string{})
	assert.ErrorIs(t, err, util.ErrInvalidQuiz)
}

func TestQuizUnknownIDs(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "ghost")
	quiz := createQuiz(t, s.db, "1.0", 2)

	_, err := s.quiz.Submit(student.ID, 9999, map[string][]string{})
	assert.ErrorIs(t, err, util.ErrQuizNotFound)

	_, err = s.quiz.Submit(9999, quiz.ID, answersFor(quiz, 1))
	assert.ErrorIs(t, err, util.ErrStudentNotFound)
}

func TestQuizLegacyShapePaysFlatRate(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "legacy")

	// Imported quizzes have questions but no stored question count.
	quiz := createQuiz(t, s.db, "1.0", 4)
	require.NoError(t, s.db.Model(quiz).Update("question_count", 0).Error)

	res, err := s.quiz.Submit(student.ID, quiz.ID, answersFor(quiz, 3))
	require.NoError(t, err)
	assert.Equal(t, 30, res.XPAwarded)
}
