package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"nexus_academy_backend/internal/config"
	"nexus_academy_backend/internal/model"
	"nexus_academy_backend/pkg/logger"

	"go.uber.org/zap"
)

// GradeRequest carries everything the grading backend needs to score a
// writeup against the ticket's hidden rubric.
type GradeRequest struct {
	TicketTitle       string `json:"ticketTitle"`
	TicketDescription string `json:"ticketDescription"`
	RootCause         string `json:"rootCause"`
	ModelAnswer       string `json:"modelAnswer"`
	Writeup           string `json:"writeup"`
	CommandsUsed      string `json:"commandsUsed"`
}

// GradeResult is the rubric breakdown. All scores are 0-10; FinalScore is
// the grader's overall judgment, not a recomputation of the parts.
type GradeResult struct {
	StructureScore     int                 `json:"structureScore"`
	TechnicalScore     int                 `json:"technicalScore"`
	CommunicationScore int                 `json:"communicationScore"`
	FinalScore         int                 `json:"finalScore"`
	Feedback           model.GradeFeedback `json:"feedback"`
}

// TicketGrader scores ticket writeups. The production implementation calls
// an external grading API; tests plug in a stub.
type TicketGrader interface {
	Grade(ctx context.Context, req GradeRequest) (*GradeResult, error)
}

// HTTPGrader talks to the grading API configured under grader.* settings.
type HTTPGrader struct {
	cfg    config.GraderConfig
	client *http.Client
}

func NewHTTPGrader(cfg config.GraderConfig) *HTTPGrader {
	return &HTTPGrader{
		cfg:    cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (g *HTTPGrader) Grade(ctx context.Context, req GradeRequest) (*GradeResult, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"model":   g.cfg.Model,
		"request": req,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(g.cfg.BaseURL, "/")+"/v1/grade", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("grader request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.Error("grader returned non-200", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("grader returned status %d", resp.StatusCode)
	}

	var result GradeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("grader response decode failed: %w", err)
	}
	clampScore(&result.StructureScore)
	clampScore(&result.TechnicalScore)
	clampScore(&result.CommunicationScore)
	clampScore(&result.FinalScore)
	return &result, nil
}

func clampScore(s *int) {
	if *s < 0 {
		*s = 0
	}
	if *s > 10 {
		*s = 10
	}
}

// RubricGrader is the offline fallback used when no grading API is
// configured. It rewards writeups that follow the expected structure and
// mention the ticket's root cause.
type RubricGrader struct{}

var structureMarkers = []string{"symptom", "diagnos", "cause", "fix", "resolution", "verif"}

func (RubricGrader) Grade(_ context.Context, req GradeRequest) (*GradeResult, error) {
	lower := strings.ToLower(req.Writeup)

	structure := 0
	for _, marker := range structureMarkers {
		if strings.Contains(lower, marker) {
			structure += 2
		}
	}
	if structure > 10 {
		structure = 10
	}

	technical := 3
	if req.RootCause != "" && strings.Contains(lower, strings.ToLower(req.RootCause)) {
		technical = 9
	} else if req.CommandsUsed != "" {
		technical = 6
	}

	communication := 4
	if len(req.Writeup) > 200 {
		communication = 7
	}
	if len(req.Writeup) > 500 {
		communication = 8
	}

	final := (structure + technical*2 + communication) / 4
	return &GradeResult{
		StructureScore:     structure,
		TechnicalScore:     technical,
		CommunicationScore: communication,
		FinalScore:         final,
		Feedback: model.GradeFeedback{
			Summary: "Auto-graded offline; request an instructor review for detailed feedback.",
		},
	}, nil
}
