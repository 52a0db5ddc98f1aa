package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"nexus_academy_backend/internal/model"
	"nexus_academy_backend/internal/repository"
	"nexus_academy_backend/internal/util"
	"nexus_academy_backend/pkg/logger"

	"go.uber.org/zap"
)

// Evidence uploads above this size are refused outright.
const maxEvidenceBytes = 10 << 20 // 10 MiB

var allowedEvidenceMimes = []string{"image/", "text/plain", "application/octet-stream"}

// EvidenceService validates and stores proof-of-work uploads. Artifacts
// are opaque to the accounting core; it only ever references their IDs.
type EvidenceService struct {
	EvidenceRepo *repository.EvidenceRepository
	TicketRepo   *repository.TicketRepository
	Storage      StorageProvider
}

func NewEvidenceService(evidenceRepo *repository.EvidenceRepository, ticketRepo *repository.TicketRepository, storage StorageProvider) *EvidenceService {
	return &EvidenceService{EvidenceRepo: evidenceRepo, TicketRepo: ticketRepo, Storage: storage}
}

// Upload checks the file against the evidence whitelist, stores the
// bytes, and records the artifact with its checksum.
func (s *EvidenceService) Upload(ctx context.Context, ticketID uint, artifactType, filename string, reader io.Reader, size int64) (*model.EvidenceArtifact, error) {
	if size > maxEvidenceBytes {
		return nil, util.ErrUnsupportedUpload
	}
	if !util.HasAllowedExtension(filename, util.AllowedEvidenceExtensions) {
		return nil, util.ErrUnsupportedUpload
	}
	if _, err := s.TicketRepo.FindByID(ticketID); err != nil {
		return nil, err
	}

	// Buffer the upload so we can sniff, checksum, and store in one pass.
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(reader, maxEvidenceBytes+1)); err != nil {
		return nil, err
	}
	if int64(buf.Len()) > maxEvidenceBytes {
		return nil, util.ErrUnsupportedUpload
	}
	data := buf.Bytes()

	mimeType, err := util.DetectMimeType(bytes.NewReader(data), allowedEvidenceMimes)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	checksum := hex.EncodeToString(sum[:])

	key := NewStorageKey(fmt.Sprintf("evidence/%d", ticketID), filename)
	if err := s.Storage.Save(ctx, key, bytes.NewReader(data), int64(len(data)), mimeType); err != nil {
		return nil, err
	}

	artifact := &model.EvidenceArtifact{
		TicketID:         ticketID,
		ArtifactType:     artifactType,
		StorageKey:       key,
		OriginalFilename: filename,
		FileSizeBytes:    int64(len(data)),
		MimeType:         mimeType,
		Checksum:         checksum,
		ValidationStatus: model.EvidenceValid,
	}
	if err := s.EvidenceRepo.Create(artifact); err != nil {
		return nil, err
	}

	logger.Log.Info("evidence uploaded",
		zap.Uint("ticket_id", ticketID),
		zap.String("type", artifactType),
		zap.Int64("size", artifact.FileSizeBytes))
	return artifact, nil
}

// Open streams an artifact's bytes back out of storage.
func (s *EvidenceService) Open(ctx context.Context, artifactID uint) (*model.EvidenceArtifact, io.ReadCloser, error) {
	artifact, err := s.EvidenceRepo.FindByID(artifactID)
	if err != nil {
		return nil, nil, err
	}
	reader, err := s.Storage.Open(ctx, artifact.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return artifact, reader, nil
}

// Flag marks an artifact suspicious without deleting it; admins review
// flagged evidence before verifying the submission.
func (s *EvidenceService) Flag(artifactID uint, notes string) (*model.EvidenceArtifact, error) {
	artifact, err := s.EvidenceRepo.FindByID(artifactID)
	if err != nil {
		return nil, err
	}
	artifact.ValidationStatus = model.EvidenceSuspicious
	artifact.ValidationNotes = notes
	if err := s.EvidenceRepo.Update(artifact); err != nil {
		return nil, err
	}
	return artifact, nil
}
