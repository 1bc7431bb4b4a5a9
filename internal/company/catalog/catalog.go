// Package catalog holds the fixed list of project templates a company can
// start. Templates are plain data; only started projects are persisted.
package catalog

import (
	"github.com/RainCode98/simbiz101/internal/company/models"
	"github.com/shopspring/decimal"
)

var templates = []models.ProjectTemplate{
	{
		ID:                "proj_001",
		Name:              "Simple Landing Page",
		Description:       "Build a basic landing page for a small business",
		Type:              "Development",
		RequiredSkills:    map[models.Role]int{models.Developer: 20, models.Designer: 10},
		RequiredEmployees: 2,
		BaseReward:        decimal.NewFromInt(30000),
		EstimatedMinutes:  30,
		Difficulty:        "Easy",
	},
	{
		ID:                "proj_002",
		Name:              "Mobile App UI",
		Description:       "Design user interface for a mobile application",
		Type:              "Design",
		RequiredSkills:    map[models.Role]int{models.Designer: 15, models.Developer: 10},
		RequiredEmployees: 2,
		BaseReward:        decimal.NewFromInt(45000),
		EstimatedMinutes:  45,
		Difficulty:        "Easy",
	},
	{
		ID:                "proj_003",
		Name:              "E-commerce Website",
		Description:       "Build a modern e-commerce platform with payment integration",
		Type:              "Development",
		RequiredSkills:    map[models.Role]int{models.Developer: 35, models.Designer: 20, models.QA: 15},
		RequiredEmployees: 3,
		BaseReward:        decimal.NewFromInt(150000),
		EstimatedMinutes:  120,
		Difficulty:        "Medium",
	},
	{
		ID:                "proj_004",
		Name:              "SaaS Dashboard",
		Description:       "Create a comprehensive SaaS analytics dashboard",
		Type:              "Development",
		RequiredSkills:    map[models.Role]int{models.Developer: 50, models.Designer: 25, models.Manager: 20},
		RequiredEmployees: 4,
		BaseReward:        decimal.NewFromInt(500000),
		EstimatedMinutes:  240,
		Difficulty:        "Medium",
	},
	{
		ID:                "proj_005",
		Name:              "Enterprise CRM",
		Description:       "Build a full-featured customer relationship management system",
		Type:              "Development",
		RequiredSkills:    map[models.Role]int{models.Developer: 70, models.Designer: 30, models.Manager: 35, models.QA: 25},
		RequiredEmployees: 5,
		BaseReward:        decimal.NewFromInt(1500000),
		EstimatedMinutes:  480,
		Difficulty:        "Hard",
	},
	{
		ID:                "proj_006",
		Name:              "FinTech Platform",
		Description:       "Develop a complete financial technology platform with trading features",
		Type:              "Development",
		RequiredSkills:    map[models.Role]int{models.Developer: 85, models.Designer: 40, models.Manager: 45, models.QA: 35},
		RequiredEmployees: 6,
		BaseReward:        decimal.NewFromInt(5000000),
		EstimatedMinutes:  720,
		Difficulty:        "Hard",
	},
	{
		ID:                "proj_007",
		Name:              "AI-Powered Analytics",
		Description:       "Create an advanced AI-powered business analytics platform",
		Type:              "Development",
		RequiredSkills:    map[models.Role]int{models.Developer: 95, models.Designer: 50, models.Manager: 55, models.QA: 45},
		RequiredEmployees: 7,
		BaseReward:        decimal.NewFromInt(15000000),
		EstimatedMinutes:  900,
		Difficulty:        "Expert",
	},
	{
		ID:                "proj_008",
		Name:              "Global Marketplace",
		Description:       "Build a large-scale global marketplace with multi-vendor support",
		Type:              "Development",
		RequiredSkills:    map[models.Role]int{models.Developer: 100, models.Designer: 60, models.Manager: 70, models.QA: 50},
		RequiredEmployees: 8,
		BaseReward:        decimal.NewFromInt(50000000),
		EstimatedMinutes:  1080,
		Difficulty:        "Expert",
	},
}

// All returns every template in catalog order. The slice is a copy.
func All() []models.ProjectTemplate {
	out := make([]models.ProjectTemplate, len(templates))
	copy(out, templates)
	return out
}

// Get looks up a template by id.
func Get(id string) (models.ProjectTemplate, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return models.ProjectTemplate{}, false
}

// Available returns the templates whose ids are not in taken, in catalog order.
func Available(taken map[string]bool) []models.ProjectTemplate {
	out := make([]models.ProjectTemplate, 0, len(templates))
	for _, t := range templates {
		if !taken[t.ID] {
			out = append(out, t)
		}
	}
	return out
}
