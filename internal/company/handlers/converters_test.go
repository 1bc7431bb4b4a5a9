package handlers

import (
	"errors"
	"fmt"
	"testing"
	"time"

	e "github.com/RainCode98/simbiz101/internal/company/errors"
	"github.com/RainCode98/simbiz101/internal/company/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   codes.Code
		wantReason string
	}{
		{"not found", fmt.Errorf("%w: company", e.ErrNotFound), codes.NotFound, ReasonNotFound},
		{"invalid input", fmt.Errorf("%w: skill", e.ErrInvalidInput), codes.InvalidArgument, ReasonInvalidInput},
		{"duplicate", e.ErrDuplicateName, codes.AlreadyExists, ReasonDuplicateName},
		{"skill mismatch", fmt.Errorf("%w: Developer", e.ErrSkillMismatch), codes.FailedPrecondition, ReasonSkillMismatch},
		{"not in progress", e.ErrNotInProgress, codes.FailedPrecondition, ReasonNotInProgress},
		{"negative balance", e.ErrNegativeBalance, codes.FailedPrecondition, ReasonNegativeBalance},
		{"state conflict", fmt.Errorf("%w: busy", e.ErrStateConflict), codes.FailedPrecondition, ReasonStateConflict},
		{"cas conflict", e.ErrConflict, codes.Aborted, ReasonConflict},
		{"unknown", errors.New("boom"), codes.Internal, ReasonInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, reason := classify(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestMapServiceError(t *testing.T) {
	h := NewCompanyHandler(&mockCompanyController{}, zaptest.NewLogger(t))

	err := h.mapServiceError(fmt.Errorf("%w: employee x", e.ErrSkillMismatch))
	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.FailedPrecondition, st.Code())
	assert.Equal(t, ReasonSkillMismatch, ErrorReason(err))

	// status errors pass through untouched
	orig := status.Error(codes.InvalidArgument, "bad")
	assert.Equal(t, orig, h.mapServiceError(orig))
	assert.Empty(t, ErrorReason(errors.New("plain")))
}

func TestParseID(t *testing.T) {
	id := uuid.New()
	got, err := parseID("company ID", id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	for _, raw := range []string{"", "nope", uuid.Nil.String()} {
		_, err := parseID("company ID", raw)
		assert.Equal(t, codes.InvalidArgument, status.Code(err), raw)
	}

	_, err = parseIDs("employee ID", []string{id.String(), "bad"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestEmployeeToAPI(t *testing.T) {
	projectID := uuid.New()
	emp := &models.Employee{
		ID:        uuid.New(),
		CompanyID: uuid.New(),
		Name:      "Ada",
		Role:      models.Developer,
		Skill:     80,
		Salary:    decimal.NewFromInt(3000),
		ProjectID: &projectID,
	}

	out := employeeToAPI(emp)
	assert.Equal(t, "Developer", out.Role)
	assert.Equal(t, int32(80), out.Skill)
	assert.Equal(t, "4.109589", out.HourlyCost.String())
	assert.Equal(t, projectID.String(), out.ProjectID)

	emp.ProjectID = nil
	assert.Empty(t, employeeToAPI(emp).ProjectID)
}

func TestProjectViewToAPI(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	view := models.ProjectView{
		Project: models.Project{
			ID:         uuid.New(),
			CompanyID:  uuid.New(),
			TemplateID: "proj_001",
			Name:       "Simple Landing Page",
			Status:     models.StatusInProgress,
			BaseReward: decimal.NewFromInt(30000),
			Bonus:      decimal.NewFromInt(6000),
			AmountPaid: decimal.NewFromInt(5000),
			Progress:   10,
			StartTime:  start,
			EndTime:    start.Add(30 * time.Minute),
			Deadline:   start.Add(30 * time.Minute),
		},
		LiveProgress:  33.5,
		TimeRemaining: 90 * time.Second,
		Overdue:       true,
		Employees:     []models.Employee{{ID: uuid.New(), Role: models.QA, Salary: decimal.NewFromInt(2000)}},
	}

	out := projectViewToAPI(view)
	assert.Equal(t, "in_progress", out.Status)
	assert.Equal(t, 33.5, out.Progress)
	assert.Equal(t, int64(90), out.TimeRemainingSeconds)
	assert.True(t, out.Overdue)
	assert.Equal(t, "6000", out.Bonus.String())
	require.Len(t, out.Employees, 1)
	assert.Equal(t, "QA", out.Employees[0].Role)
}

func TestTemplateToAPI(t *testing.T) {
	tpl := models.ProjectTemplate{
		ID:                "proj_001",
		RequiredSkills:    map[models.Role]int{models.Developer: 20, models.Designer: 10},
		RequiredEmployees: 2,
		BaseReward:        decimal.NewFromInt(30000),
		EstimatedMinutes:  30,
	}
	out := templateToAPI(tpl)
	assert.Equal(t, map[string]int32{"Developer": 20, "Designer": 10}, out.RequiredSkills)
	assert.Equal(t, int32(30), out.EstimatedMinutes)
	assert.Equal(t, "30000", out.BaseReward.String())
}
