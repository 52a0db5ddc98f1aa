package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nexus_academy_backend/internal/model"
	"nexus_academy_backend/internal/repository"
	"nexus_academy_backend/internal/util"
	"nexus_academy_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const minWriteupLength = 20

// TicketService runs the submission lifecycle: submit → grade → pending →
// verify (pays XP) or reject (back to revision). Passed submissions are
// terminal; corrections after payout go through Override.
type TicketService struct {
	DB          *gorm.DB
	TicketRepo  *repository.TicketRepository
	StudentRepo *repository.StudentRepository
	XP          *XPService
	Mastery     *MasteryService
	Grader      TicketGrader
}

func NewTicketService(db *gorm.DB, ticketRepo *repository.TicketRepository, studentRepo *repository.StudentRepository, xp *XPService, mastery *MasteryService, grader TicketGrader) *TicketService {
	return &TicketService{DB: db, TicketRepo: ticketRepo, StudentRepo: studentRepo, XP: xp, Mastery: mastery, Grader: grader}
}

// validateCollaborators rejects self-listing, duplicates, and IDs that do
// not resolve to real students.
func (s *TicketService) validateCollaborators(submitterID uint, collaboratorIDs []uint) error {
	if len(collaboratorIDs) == 0 {
		return nil
	}
	seen := map[uint]bool{submitterID: true}
	for _, id := range collaboratorIDs {
		if seen[id] {
			return util.ErrInvalidParticipant
		}
		seen[id] = true
	}
	students, err := s.StudentRepo.FindByIDs(collaboratorIDs)
	if err != nil {
		return err
	}
	if len(students) != len(collaboratorIDs) {
		return util.ErrInvalidParticipant
	}
	return nil
}

// Submit grades a writeup and stores (or refreshes) the single submission
// row per (student, ticket). Resubmission is allowed until the submission
// passes.
func (s *TicketService) Submit(ctx context.Context, studentID, ticketID uint, writeup, commandsUsed string, collaboratorIDs []uint) (*model.TicketSubmission, error) {
	if len(writeup) < minWriteupLength {
		return nil, util.ErrWriteupTooShort
	}
	ticket, err := s.TicketRepo.FindByID(ticketID)
	if err != nil {
		return nil, err
	}
	if _, err := s.StudentRepo.FindByID(studentID); err != nil {
		return nil, err
	}
	if err := s.validateCollaborators(studentID, collaboratorIDs); err != nil {
		return nil, err
	}

	existing, err := s.TicketRepo.FindSubmission(studentID, ticketID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil && existing.Status == model.SubmissionPassed {
		return nil, util.ErrAlreadyFinalized
	}

	result, err := s.Grader.Grade(ctx, GradeRequest{
		TicketTitle:       ticket.Title,
		TicketDescription: ticket.Description,
		RootCause:         ticket.RootCause,
		ModelAnswer:       ticket.ModelAnswer,
		Writeup:           writeup,
		CommandsUsed:      commandsUsed,
	})
	if err != nil {
		return nil, err
	}

	participants := 1 + len(collaboratorIDs)
	perParticipantXP := PerParticipantXP(TicketXP(result.FinalScore), participants)
	now := time.Now()

	if existing != nil {
		existing.Writeup = writeup
		existing.CommandsUsed = commandsUsed
		existing.CollaboratorIDs = collaboratorIDs
		s.applyGrade(existing, result, perParticipantXP, now)
		if err := s.DB.Save(existing).Error; err != nil {
			return nil, err
		}
		return existing, nil
	}

	sub := &model.TicketSubmission{
		StudentID:       studentID,
		TicketID:        ticketID,
		Writeup:         writeup,
		CommandsUsed:    commandsUsed,
		CollaboratorIDs: collaboratorIDs,
		SubmittedAt:     now,
	}
	s.applyGrade(sub, result, perParticipantXP, now)

	if err := s.DB.Create(sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Concurrent first submission; retry through the update path.
			winner, ferr := s.TicketRepo.FindSubmission(studentID, ticketID)
			if ferr != nil {
				return nil, ferr
			}
			if winner.Status == model.SubmissionPassed {
				return nil, util.ErrAlreadyFinalized
			}
			winner.Writeup = writeup
			winner.CommandsUsed = commandsUsed
			winner.CollaboratorIDs = collaboratorIDs
			s.applyGrade(winner, result, perParticipantXP, now)
			if err := s.DB.Save(winner).Error; err != nil {
				return nil, err
			}
			return winner, nil
		}
		return nil, err
	}

	logger.Log.Info("ticket submitted",
		zap.Uint("student_id", studentID),
		zap.Uint("ticket_id", ticketID),
		zap.Int("final_score", result.FinalScore),
		zap.Int("participants", participants))
	return sub, nil
}

func (s *TicketService) applyGrade(sub *model.TicketSubmission, result *GradeResult, perParticipantXP int, gradedAt time.Time) {
	sub.StructureScore = result.StructureScore
	sub.TechnicalScore = result.TechnicalScore
	sub.CommunicationScore = result.CommunicationScore
	sub.FinalScore = result.FinalScore
	sub.Feedback = result.Feedback
	sub.XPAwarded = perParticipantXP
	sub.Status = model.SubmissionPending
	sub.XPGranted = false
	sub.AdminReviewed = false
	sub.SubmittedAt = gradedAt
	sub.GradedAt = &gradedAt
}

// Verify marks a pending submission as passed and pays every participant
// their per-participant XP. Calling it again on an already-granted
// submission is a no-op, so double-clicks never double-pay.
func (s *TicketService) Verify(adminID, submissionID uint) (*model.TicketSubmission, error) {
	sub, err := s.TicketRepo.FindSubmissionByID(submissionID)
	if err != nil {
		return nil, err
	}
	if sub.XPGranted {
		return sub, nil
	}
	if sub.Status != model.SubmissionPending {
		// Rejected submissions re-enter the queue via resubmission or
		// an admin override, never by direct verification.
		return nil, util.ErrConflictingTransition
	}
	ticket, err := s.TicketRepo.FindByID(sub.TicketID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, participantID := range sub.Participants() {
			if err := s.XP.AwardTx(tx, participantID, sub.XPAwarded, model.SourceTicket, &sub.ID,
				fmt.Sprintf("Ticket: %s (verified)", ticket.Title)); err != nil {
				return err
			}
			if err := s.Mastery.RecordTicketTx(tx, participantID, ticket.DomainID, sub.FinalScore); err != nil {
				return err
			}
			event := model.ActivityEvent{
				StudentID: participantID,
				EventType: model.ActivityTicketVerified,
				Title:     ticket.Title,
				Detail:    fmt.Sprintf("Verified with score %d/10, earned %d XP", sub.FinalScore, sub.XPAwarded),
			}
			if err := tx.Create(&event).Error; err != nil {
				return err
			}
		}
		return tx.Model(sub).Updates(map[string]interface{}{
			"status":         model.SubmissionPassed,
			"xp_granted":     true,
			"admin_reviewed": true,
			"verified_at":    now,
			"verified_by":    adminID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	sub.Status = model.SubmissionPassed
	sub.XPGranted = true
	sub.AdminReviewed = true
	sub.VerifiedAt = &now
	sub.VerifiedBy = &adminID

	logger.Log.Info("ticket verified",
		zap.Uint("submission_id", sub.ID),
		zap.Uint("admin_id", adminID),
		zap.Int("xp_per_participant", sub.XPAwarded),
		zap.Int("participants", len(sub.Participants())))
	return sub, nil
}

// Reject sends a pending submission back for revision. Rejecting after XP
// was granted is refused; corrections to paid-out work go through
// Override instead.
func (s *TicketService) Reject(adminID, submissionID uint, comment string) (*model.TicketSubmission, error) {
	sub, err := s.TicketRepo.FindSubmissionByID(submissionID)
	if err != nil {
		return nil, err
	}
	if sub.XPGranted {
		return nil, util.ErrConflictingTransition
	}
	err = s.DB.Model(sub).Updates(map[string]interface{}{
		"status":         model.SubmissionNeedsRevision,
		"admin_reviewed": true,
		"admin_comment":  comment,
	}).Error
	if err != nil {
		return nil, err
	}
	sub.Status = model.SubmissionNeedsRevision
	sub.AdminReviewed = true
	sub.AdminComment = comment
	return sub, nil
}

// Override replaces a submission's final score. If XP was already
// granted, each participant's ledger gets a correcting entry for the
// difference rather than a rewrite of history.
func (s *TicketService) Override(adminID, submissionID uint, newScore int, comment string) (*model.TicketSubmission, error) {
	if newScore < 0 {
		newScore = 0
	}
	if newScore > 10 {
		newScore = 10
	}
	sub, err := s.TicketRepo.FindSubmissionByID(submissionID)
	if err != nil {
		return nil, err
	}
	ticket, err := s.TicketRepo.FindByID(sub.TicketID)
	if err != nil {
		return nil, err
	}

	participants := sub.Participants()
	oldScore := sub.FinalScore
	oldXP := sub.XPAwarded
	newXP := PerParticipantXP(TicketXP(newScore), len(participants))

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if sub.XPGranted {
			delta := newXP - oldXP
			for _, participantID := range participants {
				if err := s.XP.AwardTx(tx, participantID, delta, model.SourceAdminOverride, &sub.ID,
					fmt.Sprintf("Admin override: %s (%d -> %d)", ticket.Title, oldScore, newScore)); err != nil {
					return err
				}
				if err := s.Mastery.AdjustTicketScoreTx(tx, participantID, ticket.DomainID,
					float64(newScore-oldScore)); err != nil {
					return err
				}
				event := model.ActivityEvent{
					StudentID: participantID,
					EventType: model.ActivityTicketOverride,
					Title:     ticket.Title,
					Detail:    fmt.Sprintf("Score adjusted %d -> %d", oldScore, newScore),
				}
				if err := tx.Create(&event).Error; err != nil {
					return err
				}
			}
		}
		updates := map[string]interface{}{
			"final_score":    newScore,
			"xp_awarded":     newXP,
			"overridden":     true,
			"override_score": newScore,
			"admin_reviewed": true,
			"admin_comment":  comment,
		}
		if !sub.XPGranted {
			// Rescoring an unpaid submission puts it back in the review queue.
			updates["status"] = model.SubmissionPending
		}
		return tx.Model(sub).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	sub.FinalScore = newScore
	sub.XPAwarded = newXP
	sub.Overridden = true
	sub.OverrideScore = &newScore
	sub.AdminReviewed = true
	sub.AdminComment = comment
	if !sub.XPGranted {
		sub.Status = model.SubmissionPending
	}

	logger.Log.Info("ticket override",
		zap.Uint("submission_id", sub.ID),
		zap.Uint("admin_id", adminID),
		zap.Int("old_score", oldScore),
		zap.Int("new_score", newScore))
	return sub, nil
}

func (s *TicketService) Get(ticketID uint) (*model.Ticket, error) {
	return s.TicketRepo.FindByID(ticketID)
}

func (s *TicketService) List(weekNumber *int) ([]model.Ticket, error) {
	return s.TicketRepo.List(weekNumber)
}

func (s *TicketService) Create(ticket *model.Ticket) error {
	ticket.DomainID = model.ResolveDomain(ticket.DomainID)
	return s.TicketRepo.Create(ticket)
}

func (s *TicketService) Submission(studentID, ticketID uint) (*model.TicketSubmission, error) {
	sub, err := s.TicketRepo.FindSubmission(studentID, ticketID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return sub, err
}

func (s *TicketService) SubmissionsByStudent(studentID uint) ([]model.TicketSubmission, error) {
	return s.TicketRepo.ListSubmissionsByStudent(studentID)
}

// ReviewQueue lists submissions waiting on an admin decision.
func (s *TicketService) ReviewQueue() ([]model.TicketSubmission, error) {
	return s.TicketRepo.ListSubmissionsByStatus(model.SubmissionPending)
}
