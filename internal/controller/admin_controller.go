package controller

import (
	"strconv"
	"time"

	"nexus_academy_backend/internal/model"
	"nexus_academy_backend/internal/service"
	"nexus_academy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AdminController groups the instructor/admin operations: content
// authoring, the review queue, verification, overrides, and promotions.
type AdminController struct {
	QuizService    *service.QuizService
	TicketService  *service.TicketService
	StudentService *service.StudentService
	XPService      *service.XPService
	MasteryService *service.MasteryService
	Progression    *service.ProgressionService
	Leaderboard    *service.LeaderboardService
	Learning       *service.LearningService
	Activity       *service.ActivityService
}

func NewAdminController(quizService *service.QuizService, ticketService *service.TicketService, studentService *service.StudentService, xpService *service.XPService, masteryService *service.MasteryService, progression *service.ProgressionService, leaderboard *service.LeaderboardService, learning *service.LearningService, activity *service.ActivityService) *AdminController {
	return &AdminController{
		QuizService:    quizService,
		TicketService:  ticketService,
		StudentService: studentService,
		XPService:      xpService,
		MasteryService: masteryService,
		Progression:    progression,
		Leaderboard:    leaderboard,
		Learning:       learning,
		Activity:       activity,
	}
}

// Feed godoc
// @Summary Academy-wide activity feed
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "max events"
// @Success 200 {object} util.Response{data=[]model.ActivityEvent}
// @Router /api/admin/activity [get]
func (c *AdminController) Feed(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "25"))
	events, err := c.Activity.Feed(limit)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, events)
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// CreateQuiz godoc
// @Summary Create a quiz with its questions
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body model.Quiz true "quiz"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Router /api/admin/quizzes [post]
func (c *AdminController) CreateQuiz(ctx *gin.Context) {
	var quiz model.Quiz
	if err := ctx.ShouldBindJSON(&quiz); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.QuizService.Create(&quiz); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// CreateTicket godoc
// @Summary Create a practice ticket
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body model.Ticket true "ticket"
// @Success 201 {object} util.Response{data=model.Ticket}
// @Router /api/admin/tickets [post]
func (c *AdminController) CreateTicket(ctx *gin.Context) {
	var ticket model.Ticket
	if err := ctx.ShouldBindJSON(&ticket); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if ticket.Difficulty < 1 || ticket.Difficulty > 5 {
		util.BadRequest(ctx, "difficulty must be between 1 and 5")
		return
	}
	if err := c.TicketService.Create(&ticket); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, ticket)
}

// ReviewQueue godoc
// @Summary Submissions awaiting verification, oldest first
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.TicketSubmission}
// @Router /api/admin/review-queue [get]
func (c *AdminController) ReviewQueue(ctx *gin.Context) {
	subs, err := c.TicketService.ReviewQueue()
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, subs)
}

// Verify godoc
// @Summary Verify a submission and pay out XP
// @Description Idempotent: verifying an already-verified submission
// @Description changes nothing.
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "submission id"
// @Success 200 {object} util.Response{data=model.TicketSubmission}
// @Failure 404 {object} util.Response
// @Router /api/admin/submissions/{id}/verify [post]
func (c *AdminController) Verify(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	sub, err := c.TicketService.Verify(claims.StudentID, id)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}

// swagger:model ReviewCommentRequest
type ReviewCommentRequest struct {
	Comment string `json:"comment"`
}

// Reject godoc
// @Summary Send a submission back for revision
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "submission id"
// @Param body body ReviewCommentRequest false "review comment"
// @Success 200 {object} util.Response{data=model.TicketSubmission}
// @Failure 409 {object} util.Response "XP already granted; use override"
// @Router /api/admin/submissions/{id}/reject [post]
func (c *AdminController) Reject(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req ReviewCommentRequest
	_ = ctx.ShouldBindJSON(&req)

	sub, err := c.TicketService.Reject(claims.StudentID, id, req.Comment)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}

// swagger:model OverrideRequest
type OverrideRequest struct {
	Score   int    `json:"score" binding:"min=0,max=10"`
	Comment string `json:"comment"`
}

// Override godoc
// @Summary Override a submission's final score
// @Description If XP was already paid, each participant's ledger receives
// @Description a correcting entry for the difference.
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "submission id"
// @Param body body OverrideRequest true "new score"
// @Success 200 {object} util.Response{data=model.TicketSubmission}
// @Router /api/admin/submissions/{id}/override [post]
func (c *AdminController) Override(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req OverrideRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sub, err := c.TicketService.Override(claims.StudentID, id, req.Score, req.Comment)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}

// Students godoc
// @Summary Paged student roster
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page, 1-based"
// @Param limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/students [get]
func (c *AdminController) Students(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	students, total, err := c.StudentService.List(page, limit)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: students, Total: total, Page: page, Limit: limit})
}

// swagger:model PromoteRequest
type PromoteRequest struct {
	Notes string `json:"notes"`
}

// Promote godoc
// @Summary Promote an eligible student to the next role
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "student id"
// @Param body body PromoteRequest false "promotion notes"
// @Success 200 {object} util.Response{data=model.Role}
// @Failure 409 {object} util.Response "gates not met"
// @Router /api/admin/students/{id}/promote [post]
func (c *AdminController) Promote(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req PromoteRequest
	_ = ctx.ShouldBindJSON(&req)

	role, err := c.Progression.Promote(claims.StudentID, id, req.Notes)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, role)
}

// StudentPromotion godoc
// @Summary Promotion readiness for any student
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "student id"
// @Success 200 {object} util.Response{data=service.PromotionStatus}
// @Router /api/admin/students/{id}/promotion [get]
func (c *AdminController) StudentPromotion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	status, err := c.Progression.Status(id)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, status)
}

// Roles godoc
// @Summary Role ladder with gates
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Role}
// @Router /api/admin/roles [get]
func (c *AdminController) Roles(ctx *gin.Context) {
	roles, err := c.Progression.Roles()
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, roles)
}

// CreateRole godoc
// @Summary Add a role to the ladder
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body model.Role true "role"
// @Success 201 {object} util.Response{data=model.Role}
// @Router /api/admin/roles [post]
func (c *AdminController) CreateRole(ctx *gin.Context) {
	var role model.Role
	if err := ctx.ShouldBindJSON(&role); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.Progression.CreateRole(&role); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, role)
}

// CreateGate godoc
// @Summary Attach a promotion gate to a role
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body model.PromotionGate true "gate"
// @Success 201 {object} util.Response{data=model.PromotionGate}
// @Router /api/admin/gates [post]
func (c *AdminController) CreateGate(ctx *gin.Context) {
	var gate model.PromotionGate
	if err := ctx.ShouldBindJSON(&gate); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.Progression.CreateGate(&gate); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, gate)
}

// RebuildMastery godoc
// @Summary Rebuild a student's mastery rollups from raw attempts
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "student id"
// @Success 200 {object} util.Response
// @Router /api/admin/students/{id}/rebuild-mastery [post]
func (c *AdminController) RebuildMastery(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.MasteryService.Rebuild(id); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"rebuilt": true})
}

// ReconcileXP godoc
// @Summary Recompute a student's XP total from the ledger
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "student id"
// @Success 200 {object} util.Response{data=object}
// @Router /api/admin/students/{id}/reconcile-xp [post]
func (c *AdminController) ReconcileXP(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	sum, err := c.XPService.Reconcile(id)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"totalXp": sum})
}

// RecomputeWeeklyLeads godoc
// @Summary Recompute this week's domain-lead badges
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.WeeklyDomainLead}
// @Router /api/admin/weekly-leads/recompute [post]
func (c *AdminController) RecomputeWeeklyLeads(ctx *gin.Context) {
	leads, err := c.Leaderboard.RecomputeWeeklyLeads(time.Now())
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, leads)
}

// CreateModule godoc
// @Summary Create a learning module
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body model.LearningModule true "module"
// @Success 201 {object} util.Response{data=model.LearningModule}
// @Router /api/admin/modules [post]
func (c *AdminController) CreateModule(ctx *gin.Context) {
	var module model.LearningModule
	if err := ctx.ShouldBindJSON(&module); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.Learning.CreateModule(&module); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, module)
}

// CreateLesson godoc
// @Summary Create a lesson inside a module
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body model.Lesson true "lesson"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Router /api/admin/lessons [post]
func (c *AdminController) CreateLesson(ctx *gin.Context) {
	var lesson model.Lesson
	if err := ctx.ShouldBindJSON(&lesson); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.Learning.CreateLesson(&lesson); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}
