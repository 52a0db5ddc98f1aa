package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"nexus_academy_backend/internal/model"
	"nexus_academy_backend/internal/repository"
	"nexus_academy_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	leaderboardCacheKey = "academy:leaderboard:top"
	leaderboardCacheTTL = 60 * time.Second
)

type LeaderboardService struct {
	StudentRepo  *repository.StudentRepository
	MasteryRepo  *repository.MasteryRepository
	ActivityRepo *repository.ActivityRepository
	Redis        *redis.Client
}

func NewLeaderboardService(studentRepo *repository.StudentRepository, masteryRepo *repository.MasteryRepository, activityRepo *repository.ActivityRepository, redisClient *redis.Client) *LeaderboardService {
	return &LeaderboardService{StudentRepo: studentRepo, MasteryRepo: masteryRepo, ActivityRepo: activityRepo, Redis: redisClient}
}

type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	StudentID uint   `json:"studentId"`
	Name      string `json:"name"`
	TotalXP   int    `json:"totalXp"`
	Level     string `json:"level"`
}

// Top returns the XP leaderboard, served from Redis when the cache is
// warm. Runs without Redis; the cache is an optimization, not a
// dependency.
func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, leaderboardCacheKey).Result()
		if err == nil {
			var entries []LeaderboardEntry
			if json.Unmarshal([]byte(cached), &entries) == nil && len(entries) >= limit {
				return entries[:limit], nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("leaderboard cache read failed", zap.Error(err))
		}
	}

	students, err := s.StudentRepo.FindTopByXP(100)
	if err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, 0, len(students))
	for i, st := range students {
		entries = append(entries, LeaderboardEntry{
			Rank:      i + 1,
			StudentID: st.ID,
			Name:      st.Name,
			TotalXP:   st.TotalXP,
			Level:     LevelFromXP(st.TotalXP).Title,
		})
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.Redis.Set(ctx, leaderboardCacheKey, payload, leaderboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("leaderboard cache write failed", zap.Error(err))
			}
		}
	}

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// WeekKey formats a time as an ISO-week badge key, e.g. "2026-W35".
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// RecomputeWeeklyLeads awards the current week's domain-lead badges to
// the top mastery student in each domain. Idempotent; later runs within
// the same week replace earlier ones.
func (s *LeaderboardService) RecomputeWeeklyLeads(now time.Time) ([]model.WeeklyDomainLead, error) {
	weekKey := WeekKey(now)
	leads := make([]model.WeeklyDomainLead, 0, len(model.DomainLabels))

	domainIDs := make([]string, 0, len(model.DomainLabels))
	for id := range model.DomainLabels {
		domainIDs = append(domainIDs, id)
	}
	sort.Strings(domainIDs)

	for _, domainID := range domainIDs {
		top, err := s.MasteryRepo.TopByDomain(domainID)
		if err != nil {
			return nil, err
		}
		if top == nil || top.MasteryPercent <= 0 {
			continue
		}
		student, err := s.StudentRepo.FindByID(top.StudentID)
		if err != nil {
			return nil, err
		}
		leads = append(leads, model.WeeklyDomainLead{
			WeekKey:   weekKey,
			DomainID:  domainID,
			StudentID: student.ID,
			BadgeName: fmt.Sprintf("%s Lead", model.DomainLabels[domainID]),
			XPValue:   student.TotalXP,
		})
	}

	if err := s.ActivityRepo.ReplaceWeeklyLeads(weekKey, leads); err != nil {
		return nil, err
	}
	logger.Log.Info("weekly domain leads recomputed",
		zap.String("week", weekKey), zap.Int("leads", len(leads)))
	return leads, nil
}

// WeeklyLeads returns the stored badges for the week containing t.
func (s *LeaderboardService) WeeklyLeads(t time.Time) ([]model.WeeklyDomainLead, error) {
	return s.ActivityRepo.ListWeeklyLeads(WeekKey(t))
}

// Invalidate drops the cached leaderboard, called after bulk XP changes.
func (s *LeaderboardService) Invalidate(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, leaderboardCacheKey).Err(); err != nil {
		logger.Log.Warn("leaderboard cache invalidation failed", zap.Error(err))
	}
}
