package handlers

import (
	"errors"
	"fmt"

	v1 "github.com/RainCode98/simbiz101/api/v1"
	e "github.com/RainCode98/simbiz101/internal/company/errors"
	"github.com/RainCode98/simbiz101/internal/company/models"
	"github.com/RainCode98/simbiz101/internal/company/payroll"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// errorDomain is the ErrorInfo domain attached to service errors.
const errorDomain = "simbiz"

// Machine-readable reasons carried in errdetails.ErrorInfo.
const (
	ReasonNotFound        = "NOT_FOUND"
	ReasonInvalidInput    = "INVALID_INPUT"
	ReasonDuplicateName   = "DUPLICATE_NAME"
	ReasonSkillMismatch   = "SKILL_MISMATCH"
	ReasonNotInProgress   = "NOT_IN_PROGRESS"
	ReasonNegativeBalance = "NEGATIVE_BALANCE"
	ReasonStateConflict   = "STATE_CONFLICT"
	ReasonConflict        = "CONCURRENT_MODIFICATION"
	ReasonInternal        = "INTERNAL"
)

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid %s", field)
	}
	return id, nil
}

func parseIDs(field string, raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := parseID(field, r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func companyToAPI(c *models.Company) *v1.Company {
	return &v1.Company{
		ID:        c.ID.String(),
		Name:      c.Name,
		Country:   c.Country,
		Money:     c.Money,
		Revenue:   c.Revenue,
		Expenses:  c.Expenses,
		CreatedAt: c.CreatedAt,
	}
}

func employeeToAPI(emp *models.Employee) *v1.Employee {
	out := &v1.Employee{
		ID:         emp.ID.String(),
		CompanyID:  emp.CompanyID.String(),
		Name:       emp.Name,
		Role:       string(emp.Role),
		Skill:      int32(emp.Skill),
		Salary:     emp.Salary,
		HourlyCost: payroll.HourlyRate(emp.Salary),
	}
	if emp.Assigned() {
		out.ProjectID = emp.ProjectID.String()
	}
	return out
}

func employeesToAPI(list []models.Employee) []*v1.Employee {
	out := make([]*v1.Employee, 0, len(list))
	for i := range list {
		out = append(out, employeeToAPI(&list[i]))
	}
	return out
}

func templateToAPI(t models.ProjectTemplate) *v1.ProjectTemplate {
	skills := make(map[string]int32, len(t.RequiredSkills))
	for role, level := range t.RequiredSkills {
		skills[string(role)] = int32(level)
	}
	return &v1.ProjectTemplate{
		ID:                t.ID,
		Name:              t.Name,
		Description:       t.Description,
		Type:              t.Type,
		RequiredSkills:    skills,
		RequiredEmployees: int32(t.RequiredEmployees),
		BaseReward:        t.BaseReward,
		EstimatedMinutes:  int32(t.EstimatedMinutes),
		Difficulty:        t.Difficulty,
	}
}

func projectToAPI(p *models.Project) *v1.Project {
	return &v1.Project{
		ID:              p.ID.String(),
		CompanyID:       p.CompanyID.String(),
		TemplateID:      p.TemplateID,
		Name:            p.Name,
		Status:          string(p.Status),
		BaseReward:      p.BaseReward,
		Bonus:           p.Bonus,
		AmountPaid:      p.AmountPaid,
		Progress:        p.Progress,
		StartTime:       p.StartTime,
		EndTime:         p.EndTime,
		Deadline:        p.Deadline,
		LastPaymentTime: p.LastPaymentTime,
	}
}

func projectViewToAPI(v models.ProjectView) *v1.Project {
	out := projectToAPI(&v.Project)
	out.Progress = v.LiveProgress
	out.TimeRemainingSeconds = int64(v.TimeRemaining.Seconds())
	out.Overdue = v.Overdue
	out.Employees = employeesToAPI(v.Employees)
	return out
}

func paymentToAPI(p models.PaymentEvent) *v1.Payment {
	return &v1.Payment{
		ProjectID:        p.ProjectID.String(),
		ProjectName:      p.ProjectName,
		CompanyID:        p.CompanyID.String(),
		Amount:           p.Amount,
		TotalPaid:        p.TotalPaid,
		MinutesProcessed: p.MinutesProcessed,
		Checkpoint:       p.Checkpoint,
		Progress:         p.Progress,
	}
}

func completionToAPI(c models.CompletionResult) *v1.Completion {
	return &v1.Completion{
		ProjectID:         c.ProjectID.String(),
		ProjectName:       c.ProjectName,
		FinalPayment:      c.FinalPayment,
		TotalReward:       c.TotalReward,
		AmountAlreadyPaid: c.AmountAlreadyPaid,
		BaseReward:        c.BaseReward,
		Bonus:             c.Bonus,
		CompletedAt:       c.CompletedAt,
	}
}

func completionsToAPI(list []models.CompletionResult) []*v1.Completion {
	out := make([]*v1.Completion, 0, len(list))
	for _, c := range list {
		out = append(out, completionToAPI(c))
	}
	return out
}

func deductionToAPI(d models.DeductionEvent) *v1.Deduction {
	return &v1.Deduction{
		CompanyID:     d.CompanyID.String(),
		CompanyName:   d.CompanyName,
		Amount:        d.Amount,
		NewBalance:    d.NewBalance,
		EmployeeCount: int32(d.EmployeeCount),
		At:            d.At,
	}
}

func paymentStatusToAPI(s models.PaymentStatus) *v1.PaymentStatus {
	return &v1.PaymentStatus{
		ProjectID:            s.ProjectID.String(),
		ProjectName:          s.ProjectName,
		BaseReward:           s.BaseReward,
		AmountPaid:           s.AmountPaid,
		Remaining:            s.Remaining,
		PaymentProgress:      s.PaymentProgress,
		RatePerMinute:        s.RatePerMinute,
		NextPaymentInSeconds: int64(s.NextPaymentIn.Seconds()),
		LastPaymentTime:      s.LastPaymentTime,
	}
}

// classify maps a service error to its gRPC code and ErrorInfo reason.
// Specific sentinels are matched before the ones they wrap.
func classify(err error) (codes.Code, string) {
	switch {
	case errors.Is(err, e.ErrNotFound):
		return codes.NotFound, ReasonNotFound
	case errors.Is(err, e.ErrInvalidInput):
		return codes.InvalidArgument, ReasonInvalidInput
	case errors.Is(err, e.ErrDuplicateName):
		return codes.AlreadyExists, ReasonDuplicateName
	case errors.Is(err, e.ErrSkillMismatch):
		return codes.FailedPrecondition, ReasonSkillMismatch
	case errors.Is(err, e.ErrNotInProgress):
		return codes.FailedPrecondition, ReasonNotInProgress
	case errors.Is(err, e.ErrNegativeBalance):
		return codes.FailedPrecondition, ReasonNegativeBalance
	case errors.Is(err, e.ErrStateConflict):
		return codes.FailedPrecondition, ReasonStateConflict
	case errors.Is(err, e.ErrConflict):
		return codes.Aborted, ReasonConflict
	default:
		return codes.Internal, ReasonInternal
	}
}

// mapServiceError maps domain or repository errors to gRPC status errors
// carrying an errdetails.ErrorInfo.
func (h *CompanyHandler) mapServiceError(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}

	code, reason := classify(err)
	msg := err.Error()
	if code == codes.Internal {
		h.logger.Error("Internal server error", zap.Error(err))
		msg = fmt.Sprintf("internal server error: %v", err)
	}

	st := status.New(code, msg)
	detailed, derr := st.WithDetails(&errdetails.ErrorInfo{
		Reason: reason,
		Domain: errorDomain,
	})
	if derr != nil {
		return st.Err()
	}
	return detailed.Err()
}

// ErrorReason extracts the ErrorInfo reason from a status error, or "".
func ErrorReason(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return ""
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			return info.GetReason()
		}
	}
	return ""
}
