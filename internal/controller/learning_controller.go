package controller

import (
	"os"
	"path/filepath"
	"strconv"

	"nexus_academy_backend/internal/service"
	"nexus_academy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LearningController struct {
	Learning *service.LearningService
}

func NewLearningController(learning *service.LearningService) *LearningController {
	return &LearningController{Learning: learning}
}

// Modules godoc
// @Summary Course modules with the caller's unlock state
// @Tags learning
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.ModuleView}
// @Router /api/modules [get]
func (c *LearningController) Modules(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	views, err := c.Learning.ModulesFor(claims.StudentID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, views)
}

// GetModule godoc
// @Summary One module with its lessons
// @Tags learning
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "module id"
// @Success 200 {object} util.Response{data=model.LearningModule}
// @Failure 404 {object} util.Response
// @Router /api/modules/{id} [get]
func (c *LearningController) GetModule(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}
	module, err := c.Learning.GetModule(uint(id))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, module)
}

// UploadVideo godoc
// @Summary Attach a video to a lesson (admin)
// @Description Stores the video and probes its duration.
// @Tags learning
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "lesson id"
// @Param file formData file true "video file"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 400 {object} util.Response
// @Router /api/admin/lessons/{id}/video [post]
func (c *LearningController) UploadVideo(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	// Spool to a temp file so ffprobe can inspect it before storage.
	tmp := filepath.Join(os.TempDir(), filepath.Base(fileHeader.Filename))
	if err := ctx.SaveUploadedFile(fileHeader, tmp); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(tmp)

	f, err := os.Open(tmp)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer f.Close()

	lesson, err := c.Learning.AttachVideo(ctx.Request.Context(), uint(id),
		fileHeader.Filename, tmp, f, fileHeader.Size)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}
