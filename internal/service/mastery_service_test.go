package service

import (
	"context"
	"testing"

	"nexus_academy_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMasteryTicketWeighsDouble(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "weights")

	require.NoError(t, s.mastery.RecordQuizTx(s.db, student.ID, "2.0", 6))
	require.NoError(t, s.mastery.RecordTicketTx(s.db, student.ID, "2.0", 9))

	// (6*1 + 9*2) / 3 = 8.0 weighted, i.e. 80%.
	pct, err := s.mastery.Percent(student.ID, "2.0")
	require.NoError(t, err)
	assert.InDelta(t, 80.0, pct, 0.001)
}

func TestMasteryAveragesAcrossAttempts(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "averages")

	require.NoError(t, s.mastery.RecordTicketTx(s.db, student.ID, "1.0", 10))
	require.NoError(t, s.mastery.RecordTicketTx(s.db, student.ID, "1.0", 4))

	// Ticket avg 7, no quiz signal: (0 + 7*2)/3 * 10 = 46.67%.
	pct, err := s.mastery.Percent(student.ID, "1.0")
	require.NoError(t, err)
	assert.InDelta(t, 46.666, pct, 0.01)

	rows, err := s.mastery.List(student.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].TicketAttempts)
	assert.Equal(t, 0, rows[0].QuizAttempts)
}

func TestMasteryClampedAtHundred(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "ceiling")

	require.NoError(t, s.mastery.RecordQuizTx(s.db, student.ID, "3.0", 10))
	require.NoError(t, s.mastery.RecordTicketTx(s.db, student.ID, "3.0", 10))

	pct, err := s.mastery.Percent(student.ID, "3.0")
	require.NoError(t, err)
	assert.Equal(t, 100.0, pct)

	// An inflated correction cannot push past the cap.
	require.NoError(t, s.mastery.AdjustTicketScoreTx(s.db, student.ID, "3.0", 5))
	pct, err = s.mastery.Percent(student.ID, "3.0")
	require.NoError(t, err)
	assert.Equal(t, 100.0, pct)
}

func TestMasteryUntouchedDomainIsZero(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "fresh")

	pct, err := s.mastery.Percent(student.ID, "4.0")
	require.NoError(t, err)
	assert.Equal(t, 0.0, pct)
}

func TestMasteryAdjustKeepsAttemptCounts(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "adjusted")

	require.NoError(t, s.mastery.RecordTicketTx(s.db, student.ID, "1.0", 6))
	require.NoError(t, s.mastery.AdjustTicketScoreTx(s.db, student.ID, "1.0", 3))

	rows, err := s.mastery.List(student.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].TicketAttempts)
	assert.InDelta(t, 9.0, rows[0].TicketScoreTotal, 0.001)

	pct, err := s.mastery.Percent(student.ID, "1.0")
	require.NoError(t, err)
	assert.InDelta(t, 60.0, pct, 0.001)
}

func TestMasteryRebuildReplaysHistory(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "repair")
	admin := createStudent(t, s.db, "admin")
	quiz := createQuiz(t, s.db, "2.0", 5)
	ticket := createTicket(t, s.db, "2.0", 2)
	s.grader.result = gradeOf(7)

	_, err := s.quiz.Submit(student.ID, quiz.ID, answersFor(quiz, 4))
	require.NoError(t, err)
	// Retakes must not leak into the rebuilt rollup.
	_, err = s.quiz.Submit(student.ID, quiz.ID, answersFor(quiz, 5))
	require.NoError(t, err)

	sub, err := s.ticket.Submit(context.Background(), student.ID, ticket.ID, goodWriteup, "", nil)
	require.NoError(t, err)
	_, err = s.ticket.Verify(admin.ID, sub.ID)
	require.NoError(t, err)

	var before model.StudentDomainMastery
	require.NoError(t, s.db.Where("student_id = ? AND domain_id = ?", student.ID, "2.0").First(&before).Error)
	wantPercent := before.MasteryPercent

	// Corrupt the rollup, then rebuild from attempts and submissions.
	require.NoError(t, s.db.Model(&model.StudentDomainMastery{}).
		Where("id = ?", before.ID).
		Updates(map[string]interface{}{
			"quiz_score_total": 999.0,
			"mastery_percent":  1.0,
		}).Error)

	require.NoError(t, s.mastery.Rebuild(student.ID))

	var after model.StudentDomainMastery
	require.NoError(t, s.db.Where("student_id = ? AND domain_id = ?", student.ID, "2.0").First(&after).Error)
	assert.Equal(t, 1, after.QuizAttempts)
	assert.InDelta(t, 4.0, after.QuizScoreTotal, 0.001)
	assert.Equal(t, 1, after.TicketAttempts)
	assert.InDelta(t, 7.0, after.TicketScoreTotal, 0.001)
	assert.InDelta(t, wantPercent, after.MasteryPercent, 0.001)
}

func TestMasteryRebuildHonorsOverrides(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "overridden")
	admin := createStudent(t, s.db, "admin")
	ticket := createTicket(t, s.db, "1.0", 1)
	s.grader.result = gradeOf(5)

	sub, err := s.ticket.Submit(context.Background(), student.ID, ticket.ID, goodWriteup, "", nil)
	require.NoError(t, err)
	_, err = s.ticket.Verify(admin.ID, sub.ID)
	require.NoError(t, err)
	_, err = s.ticket.Override(admin.ID, sub.ID, 8, "grader undershot")
	require.NoError(t, err)

	require.NoError(t, s.mastery.Rebuild(student.ID))

	rows, err := s.mastery.List(student.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.InDelta(t, 8.0, rows[0].TicketScoreTotal, 0.001)
}

func TestMasteryRebuildKeepsCollaboratorCredit(t *testing.T) {
	s := newTestServices(t)
	submitter := createStudent(t, s.db, "lead")
	partner := createStudent(t, s.db, "peer")
	admin := createStudent(t, s.db, "admin")
	ticket := createTicket(t, s.db, "3.0", 2)
	s.grader.result = gradeOf(8)

	sub, err := s.ticket.Submit(context.Background(), submitter.ID, ticket.ID, goodWriteup, "",
		[]uint{partner.ID})
	require.NoError(t, err)
	_, err = s.ticket.Verify(admin.ID, sub.ID)
	require.NoError(t, err)

	// The partner never submitted anything themselves; their only mastery
	// comes from the shared ticket, and a rebuild must not lose it.
	require.NoError(t, s.mastery.Rebuild(partner.ID))

	rows, err := s.mastery.List(partner.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].TicketAttempts)
	assert.InDelta(t, 8.0, rows[0].TicketScoreTotal, 0.001)
}
