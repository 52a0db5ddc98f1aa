package service

import (
	"context"
	"testing"

	"nexus_academy_backend/internal/model"
	"nexus_academy_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLadder(t *testing.T, s *testServices) (trainee, helpdesk *model.Role) {
	t.Helper()
	trainee = &model.Role{Name: "Trainee", RankOrder: 1}
	require.NoError(t, s.db.Create(trainee).Error)
	helpdesk = &model.Role{Name: "Help Desk I", RankOrder: 2}
	require.NoError(t, s.db.Create(helpdesk).Error)

	require.NoError(t, s.db.Create(&model.PromotionGate{
		RoleID:          helpdesk.ID,
		RequirementType: model.GateVerifiedTicketsByDifficulty,
		RequirementConfig: model.GateConfig{
			Thresholds: map[string]int{"1": 1},
		},
	}).Error)
	require.NoError(t, s.db.Create(&model.PromotionGate{
		RoleID:          helpdesk.ID,
		RequirementType: model.GateMasteryByDomain,
		RequirementConfig: model.GateConfig{
			Thresholds: map[string]int{"1.0": 50},
		},
	}).Error)
	return trainee, helpdesk
}

// Drives a student through one verified difficulty-1 ticket, which also
// lifts their hardware mastery.
func verifyOneTicket(t *testing.T, s *testServices, studentID, adminID uint, score int) {
	t.Helper()
	ticket := createTicket(t, s.db, "1.0", 1)
	s.grader.result = gradeOf(score)
	sub, err := s.ticket.Submit(context.Background(), studentID, ticket.ID, goodWriteup, "", nil)
	require.NoError(t, err)
	_, err = s.ticket.Verify(adminID, sub.ID)
	require.NoError(t, err)
}

func TestPromotionRequiresEveryGate(t *testing.T) {
	s := newTestServices(t)
	seedLadder(t, s)
	student := createStudent(t, s.db, "climber")
	admin := createStudent(t, s.db, "admin")

	status, err := s.progression.Status(student.ID)
	require.NoError(t, err)
	assert.Equal(t, "Trainee", status.CurrentRole.Name)
	require.NotNil(t, status.NextRole)
	assert.False(t, status.Eligible)
	assert.Equal(t, 0.0, status.CompletionPercent)
	require.Len(t, status.Requirements, 2)

	// One verified ticket at score 6 gives mastery (0+12)/3*10 = 40%:
	// ticket gate met, mastery gate still short.
	verifyOneTicket(t, s, student.ID, admin.ID, 6)

	status, err = s.progression.Status(student.ID)
	require.NoError(t, err)
	assert.False(t, status.Eligible)
	assert.InDelta(t, 50.0, status.CompletionPercent, 0.001)

	// A second strong ticket lifts the average to 8 → 53.3% mastery.
	verifyOneTicket(t, s, student.ID, admin.ID, 10)

	status, err = s.progression.Status(student.ID)
	require.NoError(t, err)
	assert.True(t, status.Eligible)
	assert.Equal(t, 100.0, status.CompletionPercent)
	for _, r := range status.Requirements {
		assert.True(t, r.Met, r.Label)
	}
}

func TestPromoteIneligibleRefused(t *testing.T) {
	s := newTestServices(t)
	seedLadder(t, s)
	student := createStudent(t, s.db, "eager")
	admin := createStudent(t, s.db, "admin")

	_, err := s.progression.Promote(admin.ID, student.ID, "manager insisted")
	assert.ErrorIs(t, err, util.ErrConflictingTransition)
}

func TestPromoteRecordsRoleAndHistory(t *testing.T) {
	s := newTestServices(t)
	_, helpdesk := seedLadder(t, s)
	student := createStudent(t, s.db, "ready")
	admin := createStudent(t, s.db, "admin")

	verifyOneTicket(t, s, student.ID, admin.ID, 8)
	verifyOneTicket(t, s, student.ID, admin.ID, 8)

	role, err := s.progression.Promote(admin.ID, student.ID, "solid quarter")
	require.NoError(t, err)
	assert.Equal(t, helpdesk.ID, role.ID)

	var refreshed model.Student
	require.NoError(t, s.db.First(&refreshed, student.ID).Error)
	require.NotNil(t, refreshed.CurrentRoleID)
	assert.Equal(t, helpdesk.ID, *refreshed.CurrentRoleID)

	var history model.StudentRole
	require.NoError(t, s.db.Where("student_id = ?", student.ID).First(&history).Error)
	assert.Equal(t, helpdesk.ID, history.RoleID)
	require.NotNil(t, history.PromotedBy)
	assert.Equal(t, admin.ID, *history.PromotedBy)
	assert.Equal(t, "solid quarter", history.PromotionNotes)

	// Top of the ladder: no next role, never eligible.
	status, err := s.progression.Status(student.ID)
	require.NoError(t, err)
	assert.Equal(t, helpdesk.ID, status.CurrentRole.ID)
	assert.Nil(t, status.NextRole)
	assert.False(t, status.Eligible)
}

func TestUnknownGateTypeFailsClosed(t *testing.T) {
	s := newTestServices(t)
	_, helpdesk := seedLadder(t, s)
	require.NoError(t, s.db.Create(&model.PromotionGate{
		RoleID:          helpdesk.ID,
		RequirementType: "min_vibes",
		RequirementConfig: model.GateConfig{
			Thresholds: map[string]int{"good": 1},
		},
	}).Error)
	student := createStudent(t, s.db, "blocked")
	admin := createStudent(t, s.db, "admin")

	verifyOneTicket(t, s, student.ID, admin.ID, 10)
	verifyOneTicket(t, s, student.ID, admin.ID, 10)

	status, err := s.progression.Status(student.ID)
	require.NoError(t, err)
	assert.False(t, status.Eligible)

	_, err = s.progression.Promote(admin.ID, student.ID, "")
	assert.ErrorIs(t, err, util.ErrConflictingTransition)
}

func TestMasteryGateAcceptsDomainAliases(t *testing.T) {
	s := newTestServices(t)
	trainee := &model.Role{Name: "Trainee", RankOrder: 1}
	require.NoError(t, s.db.Create(trainee).Error)
	next := &model.Role{Name: "Help Desk I", RankOrder: 2}
	require.NoError(t, s.db.Create(next).Error)
	require.NoError(t, s.db.Create(&model.PromotionGate{
		RoleID:          next.ID,
		RequirementType: model.GateMasteryByDomain,
		RequirementConfig: model.GateConfig{
			Thresholds: map[string]int{"networking": 40},
		},
	}).Error)
	student := createStudent(t, s.db, "aliased")

	require.NoError(t, s.mastery.RecordTicketTx(s.db, student.ID, "2.0", 7))

	status, err := s.progression.Status(student.ID)
	require.NoError(t, err)
	require.Len(t, status.Requirements, 1)
	assert.Equal(t, "2.0", status.Requirements[0].Key)
	assert.True(t, status.Requirements[0].Met)
	assert.True(t, status.Eligible)
}

func TestCompletionCountsGatesNotThresholds(t *testing.T) {
	s := newTestServices(t)
	trainee := &model.Role{Name: "Trainee", RankOrder: 1}
	require.NoError(t, s.db.Create(trainee).Error)
	next := &model.Role{Name: "Help Desk I", RankOrder: 2}
	require.NoError(t, s.db.Create(next).Error)

	// One gate with several tiers, one single-tier gate.
	require.NoError(t, s.db.Create(&model.PromotionGate{
		RoleID:          next.ID,
		RequirementType: model.GateVerifiedTicketsByDifficulty,
		RequirementConfig: model.GateConfig{
			Thresholds: map[string]int{"1": 1, "2": 1, "3": 1},
		},
	}).Error)
	require.NoError(t, s.db.Create(&model.PromotionGate{
		RoleID:          next.ID,
		RequirementType: model.GateMasteryByDomain,
		RequirementConfig: model.GateConfig{
			Thresholds: map[string]int{"1.0": 40},
		},
	}).Error)
	student := createStudent(t, s.db, "tiered")
	admin := createStudent(t, s.db, "admin")

	// Mastery clears 40% but only one of the three ticket tiers is
	// verified: one gate of two met, so 50%, not 2/4 requirements.
	verifyOneTicket(t, s, student.ID, admin.ID, 8)

	status, err := s.progression.Status(student.ID)
	require.NoError(t, err)
	require.Len(t, status.Requirements, 4)
	assert.False(t, status.Eligible)
	assert.InDelta(t, 50.0, status.CompletionPercent, 0.001)
}

func TestRoleWithoutGatesIsOpen(t *testing.T) {
	s := newTestServices(t)
	trainee := &model.Role{Name: "Trainee", RankOrder: 1}
	require.NoError(t, s.db.Create(trainee).Error)
	next := &model.Role{Name: "Help Desk I", RankOrder: 2}
	require.NoError(t, s.db.Create(next).Error)
	student := createStudent(t, s.db, "walkup")
	admin := createStudent(t, s.db, "admin")

	status, err := s.progression.Status(student.ID)
	require.NoError(t, err)
	assert.True(t, status.Eligible)
	assert.Equal(t, 100.0, status.CompletionPercent)

	role, err := s.progression.Promote(admin.ID, student.ID, "open tier")
	require.NoError(t, err)
	assert.Equal(t, next.ID, role.ID)
}
