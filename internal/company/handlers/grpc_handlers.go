package handlers

import (
	"context"
	"strings"

	v1 "github.com/RainCode98/simbiz101/api/v1"
	"github.com/RainCode98/simbiz101/internal/company/auth"
	"github.com/RainCode98/simbiz101/internal/company/controller"
	"github.com/RainCode98/simbiz101/internal/company/models"
	"github.com/RainCode98/simbiz101/internal/company/payroll"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CompanyHandler provides the CompanyService methods, mapping requests to a
// CompanyController. The gRPC server and the HTTP gateway share it.
type CompanyHandler struct {
	v1.UnimplementedCompanyServiceServer
	service CompanyController
	logger  *zap.Logger
}

// NewCompanyHandler constructs a new CompanyHandler with the given service and logger.
func NewCompanyHandler(service CompanyController, logger *zap.Logger) *CompanyHandler {
	return &CompanyHandler{
		service: service,
		logger:  logger.Named("grpc_handler"),
	}
}

func (h *CompanyHandler) CreateCompany(ctx context.Context, req *v1.CreateCompanyRequest) (*v1.CompanyResponse, error) {
	created, err := h.service.CreateCompany(ctx, req.Name, req.Country)
	if err != nil {
		h.logger.Error("Create company failed", zap.Error(err))
		return nil, h.mapServiceError(err)
	}
	h.logger.Info("Company created",
		zap.String("company_id", created.ID.String()),
		zap.String("actor", auth.Subject(ctx)),
	)
	return &v1.CompanyResponse{Company: companyToAPI(created)}, nil
}

func (h *CompanyHandler) GetCompany(ctx context.Context, req *v1.GetCompanyRequest) (*v1.CompanyResponse, error) {
	id, err := parseID("company ID", req.CompanyID)
	if err != nil {
		return nil, err
	}
	company, err := h.service.GetCompany(ctx, id)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &v1.CompanyResponse{Company: companyToAPI(company)}, nil
}

func (h *CompanyHandler) HireEmployee(ctx context.Context, req *v1.HireEmployeeRequest) (*v1.HireEmployeeResponse, error) {
	companyID, err := parseID("company ID", req.CompanyID)
	if err != nil {
		return nil, err
	}
	emp, err := h.service.HireEmployee(ctx, controller.Hire{
		CompanyID: companyID,
		Name:      req.Name,
		Role:      models.Role(req.Role),
		Skill:     int(req.Skill),
		Salary:    req.Salary,
	})
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &v1.HireEmployeeResponse{Employee: employeeToAPI(emp)}, nil
}

func (h *CompanyHandler) FireEmployee(ctx context.Context, req *v1.FireEmployeeRequest) (*v1.FireEmployeeResponse, error) {
	companyID, err := parseID("company ID", req.CompanyID)
	if err != nil {
		return nil, err
	}
	employeeID, err := parseID("employee ID", req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if err := h.service.FireEmployee(ctx, companyID, employeeID); err != nil {
		return nil, h.mapServiceError(err)
	}
	return &v1.FireEmployeeResponse{}, nil
}

func (h *CompanyHandler) ListEmployees(ctx context.Context, req *v1.ListEmployeesRequest) (*v1.ListEmployeesResponse, error) {
	companyID, err := parseID("company ID", req.CompanyID)
	if err != nil {
		return nil, err
	}
	list, err := h.service.ListEmployees(ctx, companyID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &v1.ListEmployeesResponse{
		Employees:  employeesToAPI(list),
		HourlyCost: payroll.HourlyCost(list),
	}, nil
}

func (h *CompanyHandler) ListAvailableProjects(ctx context.Context, req *v1.ListAvailableProjectsRequest) (*v1.ListAvailableProjectsResponse, error) {
	companyID, err := parseID("company ID", req.CompanyID)
	if err != nil {
		return nil, err
	}
	templates, err := h.service.ListAvailableProjects(ctx, companyID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	out := make([]*v1.ProjectTemplate, 0, len(templates))
	for _, t := range templates {
		out = append(out, templateToAPI(t))
	}
	return &v1.ListAvailableProjectsResponse{Projects: out}, nil
}

// StartProject commits a team to a catalog project.
func (h *CompanyHandler) StartProject(ctx context.Context, req *v1.StartProjectRequest) (*v1.StartProjectResponse, error) {
	companyID, err := parseID("company ID", req.CompanyID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.TemplateID) == "" {
		return nil, status.Error(codes.InvalidArgument, "template ID required")
	}
	employeeIDs, err := parseIDs("employee ID", req.EmployeeIDs)
	if err != nil {
		return nil, err
	}

	project, err := h.service.StartProject(ctx, companyID, req.TemplateID, employeeIDs)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	h.logger.Info("Project started",
		zap.String("project_id", project.ID.String()),
		zap.String("actor", auth.Subject(ctx)),
	)
	return &v1.StartProjectResponse{Project: projectToAPI(project)}, nil
}

// CompleteProject closes a project and pays what is still owed on it.
func (h *CompanyHandler) CompleteProject(ctx context.Context, req *v1.CompleteProjectRequest) (*v1.CompleteProjectResponse, error) {
	companyID, err := parseID("company ID", req.CompanyID)
	if err != nil {
		return nil, err
	}
	projectID, err := parseID("project ID", req.ProjectID)
	if err != nil {
		return nil, err
	}
	result, err := h.service.CompleteProject(ctx, companyID, projectID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	return &v1.CompleteProjectResponse{Result: completionToAPI(*result)}, nil
}

// GetActiveProjects settles and returns the company's running projects.
func (h *CompanyHandler) GetActiveProjects(ctx context.Context, req *v1.GetActiveProjectsRequest) (*v1.GetActiveProjectsResponse, error) {
	companyID, err := parseID("company ID", req.CompanyID)
	if err != nil {
		return nil, err
	}
	active, err := h.service.GetActiveProjects(ctx, companyID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	projects := make([]*v1.Project, 0, len(active.Projects))
	for _, v := range active.Projects {
		projects = append(projects, projectViewToAPI(v))
	}
	return &v1.GetActiveProjectsResponse{
		Company:   companyToAPI(&active.Company),
		Projects:  projects,
		Completed: completionsToAPI(active.Completed),
	}, nil
}

func (h *CompanyHandler) ProcessPayments(ctx context.Context, req *v1.ProcessPaymentsRequest) (*v1.ProcessPaymentsResponse, error) {
	companyID, err := parseID("company ID", req.CompanyID)
	if err != nil {
		return nil, err
	}
	settled, err := h.service.ProcessPayments(ctx, companyID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	payments := make([]*v1.Payment, 0, len(settled.Payments))
	for _, p := range settled.Payments {
		payments = append(payments, paymentToAPI(p))
	}
	return &v1.ProcessPaymentsResponse{
		Payments:  payments,
		Completed: completionsToAPI(settled.Completed),
	}, nil
}

func (h *CompanyHandler) GetPaymentStatus(ctx context.Context, req *v1.GetPaymentStatusRequest) (*v1.GetPaymentStatusResponse, error) {
	companyID, err := parseID("company ID", req.CompanyID)
	if err != nil {
		return nil, err
	}
	statuses, err := h.service.GetPaymentStatus(ctx, companyID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	out := make([]*v1.PaymentStatus, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, paymentStatusToAPI(s))
	}
	return &v1.GetPaymentStatusResponse{Projects: out}, nil
}

// DeductSalaries charges one hour of salaries to one company, or to all of
// them when no company ID is given.
func (h *CompanyHandler) DeductSalaries(ctx context.Context, req *v1.DeductSalariesRequest) (*v1.DeductSalariesResponse, error) {
	companyID := uuid.Nil
	if req.CompanyID != "" {
		id, err := parseID("company ID", req.CompanyID)
		if err != nil {
			return nil, err
		}
		companyID = id
	}
	deductions, err := h.service.DeductSalaries(ctx, companyID)
	if err != nil {
		return nil, h.mapServiceError(err)
	}
	out := make([]*v1.Deduction, 0, len(deductions))
	for _, d := range deductions {
		out = append(out, deductionToAPI(d))
	}
	return &v1.DeductSalariesResponse{Deductions: out}, nil
}
