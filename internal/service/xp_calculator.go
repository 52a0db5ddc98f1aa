package service

import "math"

// XP levels, lowest threshold first. A student's level is the highest
// threshold not exceeding their total XP.
type XPLevel struct {
	Threshold int    `json:"threshold"`
	Title     string `json:"title"`
}

var XPLadder = []XPLevel{
	{0, "Trainee"},
	{500, "Help Desk I"},
	{1000, "Help Desk II"},
	{2000, "Junior SysAdmin"},
	{3500, "SysAdmin"},
}

// QuizXP converts a quiz score into XP proportional to the fraction of
// questions answered correctly. A perfect quiz is worth 100 XP no matter
// how many questions it has.
func QuizXP(correct, total int) int {
	if total <= 0 {
		return 0
	}
	if correct < 0 {
		correct = 0
	}
	if correct > total {
		correct = total
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// LegacyQuizXP is the flat 10-XP-per-question formula used for quizzes
// whose question count is unknown.
func LegacyQuizXP(correct int) int {
	if correct < 0 {
		return 0
	}
	return correct * 10
}

// TicketXP converts a verified ticket's final score (0-10) into XP.
func TicketXP(finalScore int) int {
	if finalScore < 0 {
		return 0
	}
	return finalScore * 10
}

// CollabMultiplier encourages small teams: solo work keeps full credit,
// pairs keep 80%, and larger groups keep 60%.
func CollabMultiplier(participants int) float64 {
	switch {
	case participants <= 1:
		return 1.0
	case participants == 2:
		return 0.8
	default:
		return 0.6
	}
}

// PerParticipantXP is the XP each participant receives for a shared
// ticket: the base award scaled by the collaboration multiplier,
// floored. Every participant receives the same amount.
func PerParticipantXP(baseXP, participants int) int {
	if baseXP <= 0 {
		return 0
	}
	return int(math.Floor(float64(baseXP) * CollabMultiplier(participants)))
}

// LevelFromXP maps total XP onto the ladder.
func LevelFromXP(totalXP int) XPLevel {
	level := XPLadder[0]
	for _, l := range XPLadder {
		if totalXP >= l.Threshold {
			level = l
		}
	}
	return level
}

// NextLevel returns the next rung above totalXP, or nil at the top.
func NextLevel(totalXP int) *XPLevel {
	for i := range XPLadder {
		if totalXP < XPLadder[i].Threshold {
			return &XPLadder[i]
		}
	}
	return nil
}
