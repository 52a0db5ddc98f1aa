package service

import (
	"testing"
	"time"

	"nexus_academy_backend/internal/config"
	"nexus_academy_backend/internal/repository"
	"nexus_academy_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *testServices) {
	t.Helper()
	s := newTestServices(t)
	auth := NewAuthService(
		repository.NewStudentRepository(s.db),
		repository.NewActivityRepository(s.db),
		config.JWTConfig{Secret: "test-secret", ExpireTime: 72 * time.Hour},
	)
	return auth, s
}

func TestRegisterAndLogin(t *testing.T) {
	auth, _ := newAuthService(t)

	student, err := auth.Register("Dana", "dana@academy.test", "hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", student.Password)

	token, logged, err := auth.Login("dana@academy.test", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, student.ID, logged.ID)

	// Wrong password looks identical to an unknown account.
	_, _, err = auth.Login("dana@academy.test", "wrong")
	assert.ErrorIs(t, err, util.ErrStudentNotFound)
	_, _, err = auth.Login("nobody@academy.test", "hunter22")
	assert.ErrorIs(t, err, util.ErrStudentNotFound)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth, _ := newAuthService(t)

	_, err := auth.Register("Dana", "dana@academy.test", "hunter22")
	require.NoError(t, err)
	_, err = auth.Register("Other Dana", "dana@academy.test", "different")
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLoginStreakLifecycle(t *testing.T) {
	auth, s := newAuthService(t)
	student := createStudent(t, s.db, "streaker")

	day := func(n int) time.Time {
		return time.Date(2026, 8, n, 9, 0, 0, 0, time.UTC)
	}

	require.NoError(t, auth.touchStreak(student.ID, day(10)))
	require.NoError(t, auth.touchStreak(student.ID, day(11)))
	require.NoError(t, auth.touchStreak(student.ID, day(12)))
	// Evening login the same day changes nothing.
	require.NoError(t, auth.touchStreak(student.ID, day(12).Add(10*time.Hour)))

	streak, err := auth.Streak(student.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, streak.CurrentStreak)
	assert.Equal(t, 3, streak.LongestStreak)

	// Skipping a day resets the run but keeps the record.
	require.NoError(t, auth.touchStreak(student.ID, day(15)))
	streak, err = auth.Streak(student.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 3, streak.LongestStreak)
}

func TestStreakForNeverLoggedIn(t *testing.T) {
	auth, s := newAuthService(t)
	student := createStudent(t, s.db, "ghost")

	streak, err := auth.Streak(student.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, streak.CurrentStreak)
	assert.Equal(t, 0, streak.LongestStreak)
}
