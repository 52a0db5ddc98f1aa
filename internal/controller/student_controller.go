package controller

import (
	"strconv"

	"nexus_academy_backend/internal/service"
	"nexus_academy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StudentController struct {
	StudentService  *service.StudentService
	XPService       *service.XPService
	ActivityService *service.ActivityService
	MasteryService  *service.MasteryService
	Progression     *service.ProgressionService
}

func NewStudentController(studentService *service.StudentService, xpService *service.XPService, activityService *service.ActivityService, masteryService *service.MasteryService, progression *service.ProgressionService) *StudentController {
	return &StudentController{
		StudentService:  studentService,
		XPService:       xpService,
		ActivityService: activityService,
		MasteryService:  masteryService,
		Progression:     progression,
	}
}

// Dashboard godoc
// @Summary Student dashboard
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.Dashboard}
// @Router /api/me/dashboard [get]
func (c *StudentController) Dashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	dashboard, err := c.StudentService.Dashboard(claims.StudentID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}

// Stats godoc
// @Summary Aggregate counters for the logged-in student
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.StudentStats}
// @Router /api/me/stats [get]
func (c *StudentController) Stats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	stats, err := c.StudentService.Stats(claims.StudentID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// Ledger godoc
// @Summary XP ledger, newest first
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page, 1-based"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/me/xp [get]
func (c *StudentController) Ledger(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	entries, total, err := c.XPService.Ledger(claims.StudentID, page, limit)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: entries, Total: total, Page: page, Limit: limit})
}

// Mastery godoc
// @Summary Per-domain mastery for the logged-in student
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.StudentDomainMastery}
// @Router /api/me/mastery [get]
func (c *StudentController) Mastery(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	rows, err := c.MasteryService.List(claims.StudentID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// Promotion godoc
// @Summary Promotion readiness toward the next role
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.PromotionStatus}
// @Router /api/me/promotion [get]
func (c *StudentController) Promotion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	status, err := c.Progression.Status(claims.StudentID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, status)
}

// Activity godoc
// @Summary Recent activity for the logged-in student
// @Tags students
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "max events"
// @Success 200 {object} util.Response{data=[]model.ActivityEvent}
// @Router /api/me/activity [get]
func (c *StudentController) Activity(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "25"))
	events, err := c.ActivityService.StudentFeed(claims.StudentID, limit)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, events)
}
