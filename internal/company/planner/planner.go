// Package planner decides how long a project takes for a given team and
// whether the team earns the on-time bonus.
package planner

import (
	"fmt"
	"math"
	"sort"
	"time"

	e "github.com/RainCode98/simbiz101/internal/company/errors"
	"github.com/RainCode98/simbiz101/internal/company/models"
	"github.com/shopspring/decimal"
)

const (
	MinSkillFactor = 0.5
	MaxSkillFactor = 2.0

	// referenceSkill is the average skill at which a team finishes exactly
	// on the estimate.
	referenceSkill = 50.0
)

var bonusRate = decimal.RequireFromString("0.2")

// Schedule is the time window and bonus fixed when a project starts.
type Schedule struct {
	StartTime      time.Time
	EndTime        time.Time
	Deadline       time.Time
	ActualDuration time.Duration
	SkillFactor    float64
	AverageSkill   float64
	Bonus          decimal.Decimal
}

// CheckSkills verifies that for every role the template requires, the best
// assigned employee of that role meets the required level.
func CheckSkills(tpl models.ProjectTemplate, team []models.Employee) error {
	best := make(map[models.Role]int, len(team))
	for _, emp := range team {
		if emp.Skill > best[emp.Role] {
			best[emp.Role] = emp.Skill
		}
	}

	roles := make([]string, 0, len(tpl.RequiredSkills))
	for role := range tpl.RequiredSkills {
		roles = append(roles, string(role))
	}
	sort.Strings(roles)

	for _, r := range roles {
		role := models.Role(r)
		required := tpl.RequiredSkills[role]
		if best[role] < required {
			return fmt.Errorf("%w: %s requires skill %d, best assigned is %d",
				e.ErrSkillMismatch, role, required, best[role])
		}
	}
	return nil
}

// AverageSkill is the mean skill of the team, 0 for an empty team.
func AverageSkill(team []models.Employee) float64 {
	if len(team) == 0 {
		return 0
	}
	sum := 0
	for _, emp := range team {
		sum += emp.Skill
	}
	return float64(sum) / float64(len(team))
}

// SkillFactor returns clamp(0.5, 2.0, 50/avgSkill). Skilled teams shrink the
// duration, weak teams stretch it.
func SkillFactor(avgSkill float64) float64 {
	if avgSkill <= 0 || math.IsNaN(avgSkill) {
		return MaxSkillFactor
	}
	return math.Max(MinSkillFactor, math.Min(MaxSkillFactor, referenceSkill/avgSkill))
}

// Plan validates the team against the template and computes the schedule of
// a project starting at start.
func Plan(tpl models.ProjectTemplate, team []models.Employee, start time.Time) (Schedule, error) {
	if len(team) == 0 {
		return Schedule{}, fmt.Errorf("%w: no employees assigned", e.ErrInvalidInput)
	}
	if tpl.EstimatedMinutes <= 0 {
		return Schedule{}, fmt.Errorf("%w: template %s has no estimate", e.ErrInvalidInput, tpl.ID)
	}
	if err := CheckSkills(tpl, team); err != nil {
		return Schedule{}, err
	}

	avg := AverageSkill(team)
	factor := SkillFactor(avg)

	estimate := time.Duration(tpl.EstimatedMinutes) * time.Minute
	actual := time.Duration(float64(estimate) * factor)

	s := Schedule{
		StartTime:      start,
		EndTime:        start.Add(actual),
		Deadline:       start.Add(estimate),
		ActualDuration: actual,
		SkillFactor:    factor,
		AverageSkill:   avg,
		Bonus:          decimal.Zero,
	}
	if !s.EndTime.After(s.Deadline) {
		s.Bonus = tpl.BaseReward.Mul(bonusRate)
	}
	return s, nil
}
