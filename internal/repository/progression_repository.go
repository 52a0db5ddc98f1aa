package repository

import (
	"errors"

	"nexus_academy_backend/internal/model"
	"nexus_academy_backend/internal/util"

	"gorm.io/gorm"
)

type ProgressionRepository struct {
	DB *gorm.DB
}

func NewProgressionRepository(db *gorm.DB) *ProgressionRepository {
	return &ProgressionRepository{DB: db}
}

func (r *ProgressionRepository) ListRoles() ([]model.Role, error) {
	var roles []model.Role
	err := r.DB.Order("rank_order ASC").Find(&roles).Error
	return roles, err
}

func (r *ProgressionRepository) FindRoleByID(id uint) (*model.Role, error) {
	var role model.Role
	err := r.DB.First(&role, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrRoleNotFound
	}
	return &role, err
}

// LowestRole is the default "current role" for students with no explicit
// role assignment.
func (r *ProgressionRepository) LowestRole() (*model.Role, error) {
	var role model.Role
	err := r.DB.Order("rank_order ASC").First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrRoleNotFound
	}
	return &role, err
}

// NextRole returns the role one rank above, or nil at the top of the
// ladder.
func (r *ProgressionRepository) NextRole(rankOrder int) (*model.Role, error) {
	var role model.Role
	err := r.DB.Where("rank_order = ?", rankOrder+1).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *ProgressionRepository) GatesForRole(roleID uint) ([]model.PromotionGate, error) {
	var gates []model.PromotionGate
	err := r.DB.Where("role_id = ?", roleID).Find(&gates).Error
	return gates, err
}

func (r *ProgressionRepository) CreateRole(role *model.Role) error {
	return r.DB.Create(role).Error
}

func (r *ProgressionRepository) CreateGate(gate *model.PromotionGate) error {
	return r.DB.Create(gate).Error
}

func (r *ProgressionRepository) RecordPromotion(promotion *model.StudentRole) error {
	return r.DB.Create(promotion).Error
}
