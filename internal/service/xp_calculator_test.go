package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuizXPProportional(t *testing.T) {
	assert.Equal(t, 60, QuizXP(3, 5))
	assert.Equal(t, 100, QuizXP(10, 10))
	assert.Equal(t, 100, QuizXP(7, 7))
	assert.Equal(t, 0, QuizXP(0, 10))
	assert.Equal(t, 33, QuizXP(1, 3)) // rounds 33.33 down
	assert.Equal(t, 67, QuizXP(2, 3)) // rounds 66.67 up
}

func TestQuizXPClampsBadInput(t *testing.T) {
	assert.Equal(t, 0, QuizXP(5, 0))
	assert.Equal(t, 0, QuizXP(-2, 10))
	assert.Equal(t, 100, QuizXP(12, 10))
}

func TestLegacyQuizXP(t *testing.T) {
	assert.Equal(t, 70, LegacyQuizXP(7))
	assert.Equal(t, 0, LegacyQuizXP(-1))
}

func TestTicketXP(t *testing.T) {
	assert.Equal(t, 80, TicketXP(8))
	assert.Equal(t, 0, TicketXP(0))
	assert.Equal(t, 0, TicketXP(-3))
}

func TestCollabMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, CollabMultiplier(0))
	assert.Equal(t, 1.0, CollabMultiplier(1))
	assert.Equal(t, 0.8, CollabMultiplier(2))
	assert.Equal(t, 0.6, CollabMultiplier(3))
	assert.Equal(t, 0.6, CollabMultiplier(7))
}

func TestPerParticipantXPFloors(t *testing.T) {
	assert.Equal(t, 80, PerParticipantXP(80, 1))
	assert.Equal(t, 64, PerParticipantXP(80, 2))
	assert.Equal(t, 48, PerParticipantXP(80, 3))
	// 70*0.8 = 56, 70*0.6 = 42
	assert.Equal(t, 56, PerParticipantXP(70, 2))
	assert.Equal(t, 42, PerParticipantXP(70, 3))
	// 55*0.6 = 33.0 exactly; 45*0.8 = 36.0; 35*0.6 = 21.0
	assert.Equal(t, 21, PerParticipantXP(35, 4))
	assert.Equal(t, 0, PerParticipantXP(0, 2))
}

func TestLevelFromXP(t *testing.T) {
	assert.Equal(t, "Trainee", LevelFromXP(0).Title)
	assert.Equal(t, "Trainee", LevelFromXP(499).Title)
	assert.Equal(t, "Help Desk I", LevelFromXP(500).Title)
	assert.Equal(t, "Help Desk II", LevelFromXP(1999).Title)
	assert.Equal(t, "Junior SysAdmin", LevelFromXP(2000).Title)
	assert.Equal(t, "SysAdmin", LevelFromXP(9000).Title)
}

func TestNextLevel(t *testing.T) {
	next := NextLevel(0)
	if assert.NotNil(t, next) {
		assert.Equal(t, 500, next.Threshold)
	}
	assert.Nil(t, NextLevel(3500))
}
