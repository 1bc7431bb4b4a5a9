package planner

import (
	"math"
	"testing"
	"time"

	e "github.com/RainCode98/simbiz101/internal/company/errors"
	"github.com/RainCode98/simbiz101/internal/company/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func landingPage() models.ProjectTemplate {
	return models.ProjectTemplate{
		ID:               "proj_001",
		RequiredSkills:   map[models.Role]int{models.Developer: 20, models.Designer: 10},
		BaseReward:       decimal.NewFromInt(30000),
		EstimatedMinutes: 30,
	}
}

func team(skills ...int) []models.Employee {
	roles := []models.Role{models.Developer, models.Designer}
	out := make([]models.Employee, len(skills))
	for i, s := range skills {
		out[i] = models.Employee{Role: roles[i%len(roles)], Skill: s}
	}
	return out
}

func TestSkillFactor(t *testing.T) {
	tests := []struct {
		avg  float64
		want float64
	}{
		{avg: 0, want: 2.0},
		{avg: -3, want: 2.0},
		{avg: math.NaN(), want: 2.0},
		{avg: 1, want: 2.0},
		{avg: 25, want: 2.0},
		{avg: 40, want: 1.25},
		{avg: 50, want: 1.0},
		{avg: 100, want: 0.5},
		{avg: 1000, want: 0.5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, SkillFactor(tt.avg), 1e-12, "avg=%v", tt.avg)
	}
}

func TestSkillFactor_AlwaysBounded(t *testing.T) {
	for avg := 0.0; avg <= 200; avg += 0.5 {
		f := SkillFactor(avg)
		assert.GreaterOrEqual(t, f, MinSkillFactor)
		assert.LessOrEqual(t, f, MaxSkillFactor)
	}
}

func TestPlan_LowSkillStretchesAndForfeitsBonus(t *testing.T) {
	start := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	s, err := Plan(landingPage(), team(25, 25), start)
	require.NoError(t, err)

	assert.Equal(t, 2.0, s.SkillFactor)
	assert.Equal(t, 60*time.Minute, s.ActualDuration)
	assert.Equal(t, start.Add(60*time.Minute), s.EndTime)
	assert.Equal(t, start.Add(30*time.Minute), s.Deadline)
	assert.True(t, s.Bonus.IsZero())
}

func TestPlan_HighSkillShrinksAndEarnsBonus(t *testing.T) {
	start := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	s, err := Plan(landingPage(), team(100, 100), start)
	require.NoError(t, err)

	assert.Equal(t, 0.5, s.SkillFactor)
	assert.Equal(t, 15*time.Minute, s.ActualDuration)
	assert.True(t, s.Bonus.Equal(decimal.NewFromInt(6000)), "bonus %s", s.Bonus)
}

func TestPlan_OnEstimateEarnsBonus(t *testing.T) {
	start := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	s, err := Plan(landingPage(), team(50, 50), start)
	require.NoError(t, err)
	assert.Equal(t, s.Deadline, s.EndTime)
	assert.True(t, s.Bonus.Equal(decimal.NewFromInt(6000)))
}

func TestPlan_SkillMismatch(t *testing.T) {
	start := time.Now()

	_, err := Plan(landingPage(), team(19, 90), start)
	assert.ErrorIs(t, err, e.ErrSkillMismatch)

	// A role with nobody assigned counts as skill zero.
	_, err = Plan(landingPage(), []models.Employee{{Role: models.Developer, Skill: 90}}, start)
	assert.ErrorIs(t, err, e.ErrSkillMismatch)
}

func TestPlan_UsesBestEmployeePerRole(t *testing.T) {
	tm := []models.Employee{
		{Role: models.Developer, Skill: 5},
		{Role: models.Developer, Skill: 20},
		{Role: models.Designer, Skill: 10},
	}
	_, err := Plan(landingPage(), tm, time.Now())
	assert.NoError(t, err)
}

func TestPlan_InvalidInput(t *testing.T) {
	_, err := Plan(landingPage(), nil, time.Now())
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	tpl := landingPage()
	tpl.EstimatedMinutes = 0
	_, err = Plan(tpl, team(50, 50), time.Now())
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}
