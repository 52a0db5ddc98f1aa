package repository

import (
	"errors"

	"nexus_academy_backend/internal/model"
	"nexus_academy_backend/internal/util"

	"gorm.io/gorm"
)

type EvidenceRepository struct {
	DB *gorm.DB
}

func NewEvidenceRepository(db *gorm.DB) *EvidenceRepository {
	return &EvidenceRepository{DB: db}
}

func (r *EvidenceRepository) Create(artifact *model.EvidenceArtifact) error {
	return r.DB.Create(artifact).Error
}

func (r *EvidenceRepository) FindByID(id uint) (*model.EvidenceArtifact, error) {
	var artifact model.EvidenceArtifact
	err := r.DB.First(&artifact, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrArtifactNotFound
	}
	return &artifact, err
}

func (r *EvidenceRepository) Update(artifact *model.EvidenceArtifact) error {
	return r.DB.Save(artifact).Error
}

func (r *EvidenceRepository) FindByIDs(ids []uint) ([]model.EvidenceArtifact, error) {
	var artifacts []model.EvidenceArtifact
	if len(ids) == 0 {
		return artifacts, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&artifacts).Error
	return artifacts, err
}
