package controller

import (
	"io"
	"strconv"

	"nexus_academy_backend/internal/service"
	"nexus_academy_backend/internal/util"
	"nexus_academy_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EvidenceController struct {
	EvidenceService *service.EvidenceService
}

func NewEvidenceController(evidenceService *service.EvidenceService) *EvidenceController {
	return &EvidenceController{EvidenceService: evidenceService}
}

// Upload godoc
// @Summary Upload an evidence artifact for a ticket
// @Tags evidence
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ticket id"
// @Param type formData string true "artifact type: before_screenshot, after_screenshot, log"
// @Param file formData file true "evidence file"
// @Success 201 {object} util.Response{data=model.EvidenceArtifact}
// @Failure 400 {object} util.Response
// @Router /api/tickets/{id}/evidence [post]
func (c *EvidenceController) Upload(ctx *gin.Context) {
	ticketID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid ticket id")
		return
	}
	artifactType := ctx.PostForm("type")
	if artifactType == "" {
		util.BadRequest(ctx, "artifact type is required")
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	artifact, err := c.EvidenceService.Upload(ctx.Request.Context(), uint(ticketID),
		artifactType, fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, artifact)
}

// Download godoc
// @Summary Stream an evidence artifact
// @Tags evidence
// @Produce octet-stream
// @Security ApiKeyAuth
// @Param id path int true "artifact id"
// @Success 200 {file} binary
// @Failure 404 {object} util.Response
// @Router /api/evidence/{id} [get]
func (c *EvidenceController) Download(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid artifact id")
		return
	}
	artifact, reader, err := c.EvidenceService.Open(ctx.Request.Context(), uint(id))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	defer reader.Close()

	ctx.Header("Content-Disposition", "attachment; filename="+strconv.Quote(artifact.OriginalFilename))
	ctx.Header("Content-Type", artifact.MimeType)
	if _, err := io.Copy(ctx.Writer, reader); err != nil {
		// Headers already sent; nothing to do but log.
		logger.Log.Warn("evidence stream interrupted", zap.Error(err))
	}
}

// swagger:model FlagEvidenceRequest
type FlagEvidenceRequest struct {
	Notes string `json:"notes"`
}

// Flag godoc
// @Summary Mark an artifact suspicious (admin)
// @Tags evidence
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "artifact id"
// @Param body body FlagEvidenceRequest false "review notes"
// @Success 200 {object} util.Response{data=model.EvidenceArtifact}
// @Router /api/admin/evidence/{id}/flag [post]
func (c *EvidenceController) Flag(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid artifact id")
		return
	}
	var req FlagEvidenceRequest
	_ = ctx.ShouldBindJSON(&req)

	artifact, err := c.EvidenceService.Flag(uint(id), req.Notes)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, artifact)
}
