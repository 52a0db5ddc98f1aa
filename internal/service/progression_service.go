package service

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"nexus_academy_backend/internal/model"
	"nexus_academy_backend/internal/repository"
	"nexus_academy_backend/internal/util"
	"nexus_academy_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProgressionService evaluates promotion readiness against a role's
// gates. All gates must pass (AND semantics); completion percent is the
// share of gates currently satisfied.
type ProgressionService struct {
	DB              *gorm.DB
	ProgressionRepo *repository.ProgressionRepository
	StudentRepo     *repository.StudentRepository
	TicketRepo      *repository.TicketRepository
	Mastery         *MasteryService
}

func NewProgressionService(db *gorm.DB, progressionRepo *repository.ProgressionRepository, studentRepo *repository.StudentRepository, ticketRepo *repository.TicketRepository, mastery *MasteryService) *ProgressionService {
	return &ProgressionService{DB: db, ProgressionRepo: progressionRepo, StudentRepo: studentRepo, TicketRepo: ticketRepo, Mastery: mastery}
}

// RequirementStatus is one line of the promotion checklist.
type RequirementStatus struct {
	Type     string  `json:"type"`
	Key      string  `json:"key"`
	Label    string  `json:"label"`
	Required int     `json:"required"`
	Current  float64 `json:"current"`
	Met      bool    `json:"met"`
}

// PromotionStatus is the full readiness report shown on the dashboard.
type PromotionStatus struct {
	CurrentRole       *model.Role         `json:"currentRole"`
	NextRole          *model.Role         `json:"nextRole"`
	Eligible          bool                `json:"eligible"`
	CompletionPercent float64             `json:"completionPercent"`
	Requirements      []RequirementStatus `json:"requirements"`
}

// currentRole resolves the student's role, falling back to the lowest
// rung for students enrolled before roles were assigned.
func (s *ProgressionService) currentRole(student *model.Student) (*model.Role, error) {
	if student.CurrentRoleID != nil {
		return s.ProgressionRepo.FindRoleByID(*student.CurrentRoleID)
	}
	return s.ProgressionRepo.LowestRole()
}

func (s *ProgressionService) evaluateGate(studentID uint, gate model.PromotionGate) ([]RequirementStatus, error) {
	switch gate.RequirementType {
	case model.GateVerifiedTicketsByDifficulty:
		counts, err := s.TicketRepo.CountVerifiedByDifficulty(studentID)
		if err != nil {
			return nil, err
		}
		out := make([]RequirementStatus, 0, len(gate.RequirementConfig.Thresholds))
		for key, required := range gate.RequirementConfig.Thresholds {
			difficulty, err := strconv.Atoi(key)
			if err != nil {
				logger.Log.Warn("bad difficulty key in gate config",
					zap.Uint("gate_id", gate.ID), zap.String("key", key))
				continue
			}
			current := counts[difficulty]
			out = append(out, RequirementStatus{
				Type:     gate.RequirementType,
				Key:      key,
				Label:    fmt.Sprintf("Verified difficulty-%d tickets", difficulty),
				Required: required,
				Current:  float64(current),
				Met:      current >= required,
			})
		}
		return out, nil

	case model.GateMasteryByDomain:
		out := make([]RequirementStatus, 0, len(gate.RequirementConfig.Thresholds))
		for key, required := range gate.RequirementConfig.Thresholds {
			domainID := model.ResolveDomain(key)
			pct, err := s.Mastery.Percent(studentID, domainID)
			if err != nil {
				return nil, err
			}
			label := model.DomainLabels[domainID]
			if label == "" {
				label = domainID
			}
			out = append(out, RequirementStatus{
				Type:     gate.RequirementType,
				Key:      domainID,
				Label:    fmt.Sprintf("%s mastery", label),
				Required: required,
				Current:  pct,
				Met:      pct >= float64(required),
			})
		}
		return out, nil

	default:
		// Unknown gate types fail closed so a config typo never promotes.
		logger.Log.Warn("unknown gate requirement type",
			zap.Uint("gate_id", gate.ID), zap.String("type", gate.RequirementType))
		return []RequirementStatus{{
			Type:  gate.RequirementType,
			Label: "Unrecognized requirement",
			Met:   false,
		}}, nil
	}
}

// Status builds the readiness report toward the student's next role.
// At the top of the ladder there is no next role, and Eligible is false.
func (s *ProgressionService) Status(studentID uint) (*PromotionStatus, error) {
	student, err := s.StudentRepo.FindByID(studentID)
	if err != nil {
		return nil, err
	}
	current, err := s.currentRole(student)
	if err != nil {
		return nil, err
	}
	next, err := s.ProgressionRepo.NextRole(current.RankOrder)
	if err != nil {
		return nil, err
	}
	status := &PromotionStatus{CurrentRole: current, NextRole: next}
	if next == nil {
		return status, nil
	}

	gates, err := s.ProgressionRepo.GatesForRole(next.ID)
	if err != nil {
		return nil, err
	}
	metGates := 0
	for _, gate := range gates {
		reqs, err := s.evaluateGate(studentID, gate)
		if err != nil {
			return nil, err
		}
		// A gate counts once toward completion, met only when every one
		// of its thresholds passes. A gate that yields no requirements
		// is misconfigured and fails closed.
		gateMet := len(reqs) > 0
		for _, r := range reqs {
			if !r.Met {
				gateMet = false
			}
		}
		if gateMet {
			metGates++
		}
		status.Requirements = append(status.Requirements, reqs...)
	}

	sort.SliceStable(status.Requirements, func(i, j int) bool {
		if status.Requirements[i].Type != status.Requirements[j].Type {
			return status.Requirements[i].Type < status.Requirements[j].Type
		}
		return status.Requirements[i].Key < status.Requirements[j].Key
	})

	if len(gates) > 0 {
		status.CompletionPercent = float64(metGates) / float64(len(gates)) * 100
	} else {
		status.CompletionPercent = 100
	}
	status.Eligible = metGates == len(gates)
	return status, nil
}

// CheckEligibility answers only the yes/no question.
func (s *ProgressionService) CheckEligibility(studentID uint) (bool, error) {
	status, err := s.Status(studentID)
	if err != nil {
		return false, err
	}
	return status.Eligible, nil
}

// Promote moves an eligible student to their next role. Promotion is an
// explicit admin action, never automatic.
func (s *ProgressionService) Promote(adminID, studentID uint, notes string) (*model.Role, error) {
	status, err := s.Status(studentID)
	if err != nil {
		return nil, err
	}
	if status.NextRole == nil || !status.Eligible {
		return nil, util.ErrConflictingTransition
	}

	next := status.NextRole
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Student{}).Where("id = ?", studentID).
			Update("current_role_id", next.ID).Error; err != nil {
			return err
		}
		promotion := model.StudentRole{
			StudentID:      studentID,
			RoleID:         next.ID,
			PromotedAt:     time.Now(),
			PromotedBy:     &adminID,
			PromotionNotes: notes,
		}
		if err := tx.Create(&promotion).Error; err != nil {
			return err
		}
		event := model.ActivityEvent{
			StudentID: studentID,
			EventType: model.ActivityPromotion,
			Title:     next.Name,
			Detail:    fmt.Sprintf("Promoted to %s", next.Name),
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("student promoted",
		zap.Uint("student_id", studentID),
		zap.Uint("admin_id", adminID),
		zap.String("role", next.Name))
	return next, nil
}

func (s *ProgressionService) Roles() ([]model.Role, error) {
	return s.ProgressionRepo.ListRoles()
}

func (s *ProgressionService) CreateRole(role *model.Role) error {
	return s.ProgressionRepo.CreateRole(role)
}

func (s *ProgressionService) CreateGate(gate *model.PromotionGate) error {
	if _, err := s.ProgressionRepo.FindRoleByID(gate.RoleID); err != nil {
		return err
	}
	return s.ProgressionRepo.CreateGate(gate)
}
