package controller

import (
	"strconv"

	"nexus_academy_backend/internal/service"
	"nexus_academy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TicketController struct {
	TicketService *service.TicketService
}

func NewTicketController(ticketService *service.TicketService) *TicketController {
	return &TicketController{TicketService: ticketService}
}

// List godoc
// @Summary List practice tickets, optionally filtered by week
// @Tags tickets
// @Produce json
// @Security ApiKeyAuth
// @Param week query int false "week number"
// @Success 200 {object} util.Response{data=[]model.Ticket}
// @Router /api/tickets [get]
func (c *TicketController) List(ctx *gin.Context) {
	var week *int
	if raw := ctx.Query("week"); raw != "" {
		w, err := strconv.Atoi(raw)
		if err != nil {
			util.BadRequest(ctx, "week must be an integer")
			return
		}
		week = &w
	}
	tickets, err := c.TicketService.List(week)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, tickets)
}

// Get godoc
// @Summary Fetch one ticket
// @Tags tickets
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ticket id"
// @Success 200 {object} util.Response{data=model.Ticket}
// @Failure 404 {object} util.Response
// @Router /api/tickets/{id} [get]
func (c *TicketController) Get(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid ticket id")
		return
	}
	ticket, err := c.TicketService.Get(uint(id))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, ticket)
}

// swagger:model SubmitTicketRequest
type SubmitTicketRequest struct {
	Writeup         string `json:"writeup" binding:"required"`
	CommandsUsed    string `json:"commandsUsed"`
	CollaboratorIDs []uint `json:"collaboratorIds"`
}

// Submit godoc
// @Summary Submit a ticket writeup for grading
// @Description Grades the writeup and queues it for admin verification.
// @Description Collaborators share the award under the group multiplier.
// @Tags tickets
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ticket id"
// @Param body body SubmitTicketRequest true "writeup"
// @Success 200 {object} util.Response{data=model.TicketSubmission}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/tickets/{id}/submit [post]
func (c *TicketController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid ticket id")
		return
	}
	var req SubmitTicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sub, err := c.TicketService.Submit(ctx.Request.Context(), claims.StudentID, uint(id),
		req.Writeup, req.CommandsUsed, req.CollaboratorIDs)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}

// MySubmission godoc
// @Summary The logged-in student's submission for a ticket
// @Tags tickets
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ticket id"
// @Success 200 {object} util.Response{data=model.TicketSubmission}
// @Router /api/tickets/{id}/submission [get]
func (c *TicketController) MySubmission(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid ticket id")
		return
	}
	sub, err := c.TicketService.Submission(claims.StudentID, uint(id))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}

// MySubmissions godoc
// @Summary All submissions by the logged-in student
// @Tags tickets
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.TicketSubmission}
// @Router /api/me/submissions [get]
func (c *TicketController) MySubmissions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	subs, err := c.TicketService.SubmissionsByStudent(claims.StudentID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, subs)
}
