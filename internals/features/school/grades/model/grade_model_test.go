package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecalculateLetterGrades(t *testing.T) {
	cases := []struct {
		score      float64
		maxScore   float64
		percentage float64
		letter     string
	}{
		{92, 100, 92, "A"},
		{90, 100, 90, "A"},
		{85, 100, 85, "B"},
		{80, 100, 80, "B"},
		{75, 100, 75, "C"},
		{60, 100, 60, "D"},
		{55, 100, 55, "F"},
		{0, 100, 0, "F"},
		{17, 20, 85, "B"},
		{46, 50, 92, "A"},
	}

	for _, tc := range cases {
		g := GradeModel{Score: tc.score, MaxScore: tc.maxScore}
		g.Recalculate()
		assert.InDelta(t, tc.percentage, g.Percentage, 0.001, "score %v/%v", tc.score, tc.maxScore)
		assert.Equal(t, tc.letter, g.LetterGrade, "score %v/%v", tc.score, tc.maxScore)
	}
}

func TestRecalculateRoundsToTwoDecimals(t *testing.T) {
	g := GradeModel{Score: 1, MaxScore: 3}
	g.Recalculate()
	assert.InDelta(t, 33.33, g.Percentage, 0.001)
}

func TestRecalculateZeroMaxScore(t *testing.T) {
	g := GradeModel{Score: 10, MaxScore: 0}
	g.Recalculate()
	assert.Equal(t, 0.0, g.Percentage)
	assert.Equal(t, "F", g.LetterGrade)
}

// A score update must recompute the derived fields, never leave them stale.
func TestRecalculateAfterScoreChange(t *testing.T) {
	g := GradeModel{Score: 55, MaxScore: 100}
	g.Recalculate()
	assert.Equal(t, "F", g.LetterGrade)

	g.Score = 85
	g.Recalculate()
	assert.Equal(t, "B", g.LetterGrade)
	assert.InDelta(t, 85, g.Percentage, 0.001)
}

func TestGradePointAndPassing(t *testing.T) {
	cases := []struct {
		letter  string
		point   float64
		passing bool
	}{
		{"A", 4.0, true},
		{"B", 3.0, true},
		{"C", 2.0, true},
		{"D", 1.0, true},
		{"F", 0.0, false},
	}
	for _, tc := range cases {
		g := GradeModel{LetterGrade: tc.letter}
		assert.Equal(t, tc.point, g.GradePoint())
		assert.Equal(t, tc.passing, g.IsPassing())
	}
}

func TestPerformanceLevel(t *testing.T) {
	g := GradeModel{Percentage: 95}
	assert.Equal(t, "Excellent", g.PerformanceLevel())
	g.Percentage = 85
	assert.Equal(t, "Good", g.PerformanceLevel())
	g.Percentage = 72
	assert.Equal(t, "Satisfactory", g.PerformanceLevel())
	g.Percentage = 61
	assert.Equal(t, "Needs Improvement", g.PerformanceLevel())
	g.Percentage = 10
	assert.Equal(t, "Failing", g.PerformanceLevel())
}
