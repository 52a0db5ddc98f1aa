package service

import (
	"testing"

	"nexus_academy_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwardAppendsLedgerAndBumpsTotal(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "riley")

	require.NoError(t, s.xp.Award(student.ID, 60, model.SourceQuiz, nil, "Quiz: intro"))
	require.NoError(t, s.xp.Award(student.ID, 80, model.SourceTicket, nil, "Ticket: printer"))

	var refreshed model.Student
	require.NoError(t, s.db.First(&refreshed, student.ID).Error)
	assert.Equal(t, 140, refreshed.TotalXP)

	entries, total, err := s.xp.Ledger(student.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, entries, 2)
}

func TestAwardNegativeDelta(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "sam")

	require.NoError(t, s.xp.Award(student.ID, 100, model.SourceTicket, nil, "Ticket: verified"))
	require.NoError(t, s.xp.Award(student.ID, -30, model.SourceAdminOverride, nil, "Admin override"))

	var refreshed model.Student
	require.NoError(t, s.db.First(&refreshed, student.ID).Error)
	assert.Equal(t, 70, refreshed.TotalXP)

	sum, err := s.xp.Reconcile(student.ID)
	require.NoError(t, err)
	assert.Equal(t, 70, sum)
}

func TestAwardZeroDeltaWritesNothing(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "noop")

	require.NoError(t, s.xp.Award(student.ID, 0, model.SourceQuiz, nil, "empty"))

	var count int64
	require.NoError(t, s.db.Model(&model.XPLedgerEntry{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestReconcileRepairsDrift(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "drift")

	require.NoError(t, s.xp.Award(student.ID, 50, model.SourceQuiz, nil, "Quiz"))

	// Corrupt the cached total out-of-band.
	require.NoError(t, s.db.Model(&model.Student{}).
		Where("id = ?", student.ID).Update("total_xp", 999).Error)

	sum, err := s.xp.Reconcile(student.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, sum)

	var refreshed model.Student
	require.NoError(t, s.db.First(&refreshed, student.ID).Error)
	assert.Equal(t, 50, refreshed.TotalXP)
}
