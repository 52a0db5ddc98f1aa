package controller

import (
	"strconv"
	"time"

	"nexus_academy_backend/internal/service"
	"nexus_academy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	Leaderboard *service.LeaderboardService
}

func NewLeaderboardController(leaderboard *service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{Leaderboard: leaderboard}
}

// Top godoc
// @Summary XP leaderboard
// @Tags leaderboard
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "max entries, default 20"
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry}
// @Router /api/leaderboard [get]
func (c *LeaderboardController) Top(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	entries, err := c.Leaderboard.Top(ctx.Request.Context(), limit)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// WeeklyLeads godoc
// @Summary This week's domain-lead badges
// @Tags leaderboard
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.WeeklyDomainLead}
// @Router /api/leaderboard/weekly [get]
func (c *LeaderboardController) WeeklyLeads(ctx *gin.Context) {
	leads, err := c.Leaderboard.WeeklyLeads(time.Now())
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, leads)
}
