package util

import "errors"

// Sentinel errors surfaced by the accounting core. Controllers map these
// onto HTTP status codes; nothing here is retried internally.
var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrModuleNotFound     = errors.New("module not found")
	ErrArtifactNotFound   = errors.New("evidence artifact not found")

	// Resubmitting a passed ticket, or re-granting already-credited XP.
	ErrAlreadyFinalized = errors.New("submission already finalized")

	// A collaborator ID does not resolve to a real student, or the
	// submitter listed themselves.
	ErrInvalidParticipant = errors.New("invalid participant")

	// Rejecting a submission after XP was granted; the override path must
	// be used instead.
	ErrConflictingTransition = errors.New("conflicting state transition")

	ErrEmailRegistered   = errors.New("email already registered")
	ErrInvalidQuiz       = errors.New("quiz has no questions")
	ErrWriteupTooShort   = errors.New("writeup too short (minimum 20 characters)")
	ErrUnsupportedUpload = errors.New("unsupported file type")
)
