package service

import (
	"context"
	"testing"

	"nexus_academy_backend/internal/model"
	"nexus_academy_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodWriteup = "Symptom: printer offline. Diagnosis: stale spooler. Fix: restarted the service and verified the queue drained."

func gradeOf(score int) GradeResult {
	return GradeResult{
		StructureScore:     score,
		TechnicalScore:     score,
		CommunicationScore: score,
		FinalScore:         score,
	}
}

func TestTicketSubmitHoldsXPUntilVerification(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "alex")
	ticket := createTicket(t, s.db, "1.0", 2)
	s.grader.result = gradeOf(8)

	sub, err := s.ticket.Submit(context.Background(), student.ID, ticket.ID, goodWriteup, "systemctl restart cups", nil)
	require.NoError(t, err)

	assert.Equal(t, model.SubmissionPending, sub.Status)
	assert.Equal(t, 80, sub.XPAwarded)
	assert.False(t, sub.XPGranted)

	// Nothing in the ledger until an admin verifies.
	var count int64
	require.NoError(t, s.db.Model(&model.XPLedgerEntry{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestTicketVerifyPaysOutOnce(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "blair")
	admin := createStudent(t, s.db, "admin")
	ticket := createTicket(t, s.db, "2.0", 3)
	s.grader.result = gradeOf(8)

	sub, err := s.ticket.Submit(context.Background(), student.ID, ticket.ID, goodWriteup, "", nil)
	require.NoError(t, err)

	verified, err := s.ticket.Verify(admin.ID, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionPassed, verified.Status)
	assert.True(t, verified.XPGranted)
	require.NotNil(t, verified.VerifiedBy)
	assert.Equal(t, admin.ID, *verified.VerifiedBy)

	var refreshed model.Student
	require.NoError(t, s.db.First(&refreshed, student.ID).Error)
	assert.Equal(t, 80, refreshed.TotalXP)

	// Mastery credited for the ticket's domain.
	rows, err := s.mastery.List(student.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].TicketAttempts)

	// Re-verify is a no-op, not a double payout.
	_, err = s.ticket.Verify(admin.ID, sub.ID)
	require.NoError(t, err)

	require.NoError(t, s.db.First(&refreshed, student.ID).Error)
	assert.Equal(t, 80, refreshed.TotalXP)

	var entries int64
	require.NoError(t, s.db.Model(&model.XPLedgerEntry{}).Count(&entries).Error)
	assert.EqualValues(t, 1, entries)
}

func TestTicketCollaborationSplitsEvenly(t *testing.T) {
	s := newTestServices(t)
	submitter := createStudent(t, s.db, "lead")
	partnerA := createStudent(t, s.db, "peer-a")
	partnerB := createStudent(t, s.db, "peer-b")
	admin := createStudent(t, s.db, "admin")
	ticket := createTicket(t, s.db, "1.0", 2)
	s.grader.result = gradeOf(8)

	sub, err := s.ticket.Submit(context.Background(), submitter.ID, ticket.ID, goodWriteup, "",
		[]uint{partnerA.ID, partnerB.ID})
	require.NoError(t, err)
	// Base 80, three participants: floor(80*0.6) = 48 each.
	assert.Equal(t, 48, sub.XPAwarded)

	_, err = s.ticket.Verify(admin.ID, sub.ID)
	require.NoError(t, err)

	for _, id := range []uint{submitter.ID, partnerA.ID, partnerB.ID} {
		var st model.Student
		require.NoError(t, s.db.First(&st, id).Error)
		assert.Equal(t, 48, st.TotalXP)

		rows, err := s.mastery.List(id)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, 1, rows[0].TicketAttempts)
	}
}

func TestTicketPairMultiplier(t *testing.T) {
	s := newTestServices(t)
	submitter := createStudent(t, s.db, "duo")
	partner := createStudent(t, s.db, "buddy")
	ticket := createTicket(t, s.db, "1.0", 1)
	s.grader.result = gradeOf(8)

	sub, err := s.ticket.Submit(context.Background(), submitter.ID, ticket.ID, goodWriteup, "",
		[]uint{partner.ID})
	require.NoError(t, err)
	assert.Equal(t, 64, sub.XPAwarded)
}

func TestTicketInvalidCollaborators(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "solo")
	ticket := createTicket(t, s.db, "1.0", 1)
	s.grader.result = gradeOf(5)

	// Self-listing.
	_, err := s.ticket.Submit(context.Background(), student.ID, ticket.ID, goodWriteup, "",
		[]uint{student.ID})
	assert.ErrorIs(t, err, util.ErrInvalidParticipant)

	// Unknown student.
	_, err = s.ticket.Submit(context.Background(), student.ID, ticket.ID, goodWriteup, "",
		[]uint{4242})
	assert.ErrorIs(t, err, util.ErrInvalidParticipant)

	// Duplicate collaborator.
	peer := createStudent(t, s.db, "peer")
	_, err = s.ticket.Submit(context.Background(), student.ID, ticket.ID, goodWriteup, "",
		[]uint{peer.ID, peer.ID})
	assert.ErrorIs(t, err, util.ErrInvalidParticipant)
}

func TestTicketResubmissionAllowedUntilPassed(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "retry")
	admin := createStudent(t, s.db, "admin")
	ticket := createTicket(t, s.db, "1.0", 1)

	s.grader.result = gradeOf(4)
	sub, err := s.ticket.Submit(context.Background(), student.ID, ticket.ID, goodWriteup, "", nil)
	require.NoError(t, err)

	_, err = s.ticket.Reject(admin.ID, sub.ID, "needs more diagnostic detail")
	require.NoError(t, err)

	s.grader.result = gradeOf(9)
	resub, err := s.ticket.Submit(context.Background(), student.ID, ticket.ID, goodWriteup+" Added vlan checks.", "", nil)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, resub.ID)
	assert.Equal(t, model.SubmissionPending, resub.Status)
	assert.Equal(t, 90, resub.XPAwarded)

	_, err = s.ticket.Verify(admin.ID, resub.ID)
	require.NoError(t, err)

	// Passed is terminal.
	_, err = s.ticket.Submit(context.Background(), student.ID, ticket.ID, goodWriteup, "", nil)
	assert.ErrorIs(t, err, util.ErrAlreadyFinalized)
}

func TestTicketRejectAfterGrantRefused(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "granted")
	admin := createStudent(t, s.db, "admin")
	ticket := createTicket(t, s.db, "1.0", 1)
	s.grader.result = gradeOf(7)

	sub, err := s.ticket.Submit(context.Background(), student.ID, ticket.ID, goodWriteup, "", nil)
	require.NoError(t, err)
	_, err = s.ticket.Verify(admin.ID, sub.ID)
	require.NoError(t, err)

	_, err = s.ticket.Reject(admin.ID, sub.ID, "changed my mind")
	assert.ErrorIs(t, err, util.ErrConflictingTransition)
}

func TestTicketRejectBeforeGrant(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "revise")
	admin := createStudent(t, s.db, "admin")
	ticket := createTicket(t, s.db, "1.0", 1)
	s.grader.result = gradeOf(3)

	sub, err := s.ticket.Submit(context.Background(), student.ID, ticket.ID, goodWriteup, "", nil)
	require.NoError(t, err)

	rejected, err := s.ticket.Reject(admin.ID, sub.ID, "missing verification step")
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionNeedsRevision, rejected.Status)
	assert.Equal(t, "missing verification step", rejected.AdminComment)

	var count int64
	require.NoError(t, s.db.Model(&model.XPLedgerEntry{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestTicketOverrideAfterGrantCreditsDelta(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "adjust")
	admin := createStudent(t, s.db, "admin")
	ticket := createTicket(t, s.db, "1.0", 1)
	s.grader.result = gradeOf(6)

	sub, err := s.ticket.Submit(context.Background(), student.ID, ticket.ID, goodWriteup, "", nil)
	require.NoError(t, err)
	_, err = s.ticket.Verify(admin.ID, sub.ID)
	require.NoError(t, err)

	// 60 paid; override to 9 should add 30 via a correcting entry.
	overridden, err := s.ticket.Override(admin.ID, sub.ID, 9, "undercounted the diagnosis")
	require.NoError(t, err)
	assert.True(t, overridden.Overridden)
	assert.Equal(t, 9, overridden.FinalScore)
	assert.Equal(t, 90, overridden.XPAwarded)

	var refreshed model.Student
	require.NoError(t, s.db.First(&refreshed, student.ID).Error)
	assert.Equal(t, 90, refreshed.TotalXP)

	var correction model.XPLedgerEntry
	require.NoError(t, s.db.Where("source_type = ?", model.SourceAdminOverride).First(&correction).Error)
	assert.Equal(t, 30, correction.Delta)

	// Downward override debits the difference.
	_, err = s.ticket.Override(admin.ID, sub.ID, 5, "too generous")
	require.NoError(t, err)
	require.NoError(t, s.db.First(&refreshed, student.ID).Error)
	assert.Equal(t, 50, refreshed.TotalXP)
}

func TestTicketOverrideBeforeGrantJustRescores(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "pregrade")
	admin := createStudent(t, s.db, "admin")
	ticket := createTicket(t, s.db, "1.0", 1)
	s.grader.result = gradeOf(4)

	sub, err := s.ticket.Submit(context.Background(), student.ID, ticket.ID, goodWriteup, "", nil)
	require.NoError(t, err)

	overridden, err := s.ticket.Override(admin.ID, sub.ID, 7, "rubric misfire")
	require.NoError(t, err)
	assert.Equal(t, 70, overridden.XPAwarded)

	var count int64
	require.NoError(t, s.db.Model(&model.XPLedgerEntry{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestTicketWriteupTooShort(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "terse")
	ticket := createTicket(t, s.db, "1.0", 1)

	_, err := s.ticket.Submit(context.Background(), student.ID, ticket.ID, "fixed it", "", nil)
	assert.ErrorIs(t, err, util.ErrWriteupTooShort)
	assert.Equal(t, 0, s.grader.calls)
}

func TestTicketFirstSubmissionStoresOwnRow(t *testing.T) {
	s := newTestServices(t)
	alex := createStudent(t, s.db, "alex")
	blair := createStudent(t, s.db, "blair")
	ticket := createTicket(t, s.db, "1.0", 1)
	s.grader.result = gradeOf(7)

	first, err := s.ticket.Submit(context.Background(), alex.ID, ticket.ID, goodWriteup, "", nil)
	require.NoError(t, err)

	var stored model.TicketSubmission
	require.NoError(t, s.db.First(&stored, first.ID).Error)
	assert.Equal(t, alex.ID, stored.StudentID)
	assert.Equal(t, ticket.ID, stored.TicketID)

	// A second student's first submission is an independent row.
	second, err := s.ticket.Submit(context.Background(), blair.ID, ticket.ID, goodWriteup, "", nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, blair.ID, second.StudentID)

	var count int64
	require.NoError(t, s.db.Model(&model.TicketSubmission{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestTicketOverrideAfterRejectReturnsToPending(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "appealed")
	admin := createStudent(t, s.db, "admin")
	ticket := createTicket(t, s.db, "1.0", 1)
	s.grader.result = gradeOf(3)

	sub, err := s.ticket.Submit(context.Background(), student.ID, ticket.ID, goodWriteup, "", nil)
	require.NoError(t, err)
	_, err = s.ticket.Reject(admin.ID, sub.ID, "too thin")
	require.NoError(t, err)

	overridden, err := s.ticket.Override(admin.ID, sub.ID, 7, "appeal upheld")
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionPending, overridden.Status)

	queue, err := s.ticket.ReviewQueue()
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, sub.ID, queue[0].ID)

	verified, err := s.ticket.Verify(admin.ID, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionPassed, verified.Status)
}

func TestTicketVerifyRejectedSubmissionRefused(t *testing.T) {
	s := newTestServices(t)
	student := createStudent(t, s.db, "bounced")
	admin := createStudent(t, s.db, "admin")
	ticket := createTicket(t, s.db, "1.0", 1)
	s.grader.result = gradeOf(2)

	sub, err := s.ticket.Submit(context.Background(), student.ID, ticket.ID, goodWriteup, "", nil)
	require.NoError(t, err)
	_, err = s.ticket.Reject(admin.ID, sub.ID, "no diagnosis")
	require.NoError(t, err)

	_, err = s.ticket.Verify(admin.ID, sub.ID)
	assert.ErrorIs(t, err, util.ErrConflictingTransition)

	var count int64
	require.NoError(t, s.db.Model(&model.XPLedgerEntry{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
