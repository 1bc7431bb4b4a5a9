// Package v1 defines the wire contract of simbiz.v1.CompanyService: the
// request and response messages, the gRPC service descriptor and a client.
// Messages travel as JSON, both over gRPC and over the HTTP gateway.
package v1

import (
	"time"

	"github.com/shopspring/decimal"
)

type Company struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Country   string          `json:"country"`
	Money     decimal.Decimal `json:"money"`
	Revenue   decimal.Decimal `json:"revenue"`
	Expenses  decimal.Decimal `json:"expenses"`
	CreatedAt time.Time       `json:"created_at"`
}

type Employee struct {
	ID         string          `json:"id"`
	CompanyID  string          `json:"company_id"`
	Name       string          `json:"name"`
	Role       string          `json:"role"`
	Skill      int32           `json:"skill"`
	Salary     decimal.Decimal `json:"salary"`
	HourlyCost decimal.Decimal `json:"hourly_cost"`
	ProjectID  string          `json:"project_id,omitempty"`
}

type ProjectTemplate struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	Type              string           `json:"type"`
	RequiredSkills    map[string]int32 `json:"required_skills"`
	RequiredEmployees int32            `json:"required_employees"`
	BaseReward        decimal.Decimal  `json:"base_reward"`
	EstimatedMinutes  int32            `json:"estimated_minutes"`
	Difficulty        string           `json:"difficulty"`
}

type Project struct {
	ID                   string          `json:"id"`
	CompanyID            string          `json:"company_id"`
	TemplateID           string          `json:"template_id"`
	Name                 string          `json:"name"`
	Status               string          `json:"status"`
	BaseReward           decimal.Decimal `json:"base_reward"`
	Bonus                decimal.Decimal `json:"bonus"`
	AmountPaid           decimal.Decimal `json:"amount_paid"`
	Progress             float64         `json:"progress"`
	StartTime            time.Time       `json:"start_time"`
	EndTime              time.Time       `json:"end_time"`
	Deadline             time.Time       `json:"deadline"`
	LastPaymentTime      time.Time       `json:"last_payment_time"`
	TimeRemainingSeconds int64           `json:"time_remaining_seconds"`
	Overdue              bool            `json:"overdue"`
	Employees            []*Employee     `json:"employees,omitempty"`
}

type Payment struct {
	ProjectID        string          `json:"project_id"`
	ProjectName      string          `json:"project_name"`
	CompanyID        string          `json:"company_id"`
	Amount           decimal.Decimal `json:"amount"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	MinutesProcessed int64           `json:"minutes_processed"`
	Checkpoint       time.Time       `json:"checkpoint"`
	Progress         float64         `json:"progress"`
}

type Completion struct {
	ProjectID         string          `json:"project_id"`
	ProjectName       string          `json:"project_name"`
	FinalPayment      decimal.Decimal `json:"final_payment"`
	TotalReward       decimal.Decimal `json:"total_reward"`
	AmountAlreadyPaid decimal.Decimal `json:"amount_already_paid"`
	BaseReward        decimal.Decimal `json:"base_reward"`
	Bonus             decimal.Decimal `json:"bonus"`
	CompletedAt       time.Time       `json:"completed_at"`
}

type Deduction struct {
	CompanyID     string          `json:"company_id"`
	CompanyName   string          `json:"company_name"`
	Amount        decimal.Decimal `json:"amount"`
	NewBalance    decimal.Decimal `json:"new_balance"`
	EmployeeCount int32           `json:"employee_count"`
	At            time.Time       `json:"at"`
}

type PaymentStatus struct {
	ProjectID            string          `json:"project_id"`
	ProjectName          string          `json:"project_name"`
	BaseReward           decimal.Decimal `json:"base_reward"`
	AmountPaid           decimal.Decimal `json:"amount_paid"`
	Remaining            decimal.Decimal `json:"remaining"`
	PaymentProgress      float64         `json:"payment_progress"`
	RatePerMinute        decimal.Decimal `json:"rate_per_minute"`
	NextPaymentInSeconds int64           `json:"next_payment_in_seconds"`
	LastPaymentTime      time.Time       `json:"last_payment_time"`
}

type CreateCompanyRequest struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

type GetCompanyRequest struct {
	CompanyID string `json:"company_id"`
}

type CompanyResponse struct {
	Company *Company `json:"company"`
}

type HireEmployeeRequest struct {
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Skill     int32  `json:"skill"`
	// Salary defaults to the role's standard salary when omitted.
	Salary *decimal.Decimal `json:"salary,omitempty"`
}

type HireEmployeeResponse struct {
	Employee *Employee `json:"employee"`
}

type FireEmployeeRequest struct {
	CompanyID  string `json:"company_id"`
	EmployeeID string `json:"employee_id"`
}

type FireEmployeeResponse struct{}

type ListEmployeesRequest struct {
	CompanyID string `json:"company_id"`
}

type ListEmployeesResponse struct {
	Employees  []*Employee     `json:"employees"`
	HourlyCost decimal.Decimal `json:"hourly_cost"`
}

type ListAvailableProjectsRequest struct {
	CompanyID string `json:"company_id"`
}

type ListAvailableProjectsResponse struct {
	Projects []*ProjectTemplate `json:"projects"`
}

type StartProjectRequest struct {
	CompanyID   string   `json:"company_id"`
	TemplateID  string   `json:"template_id"`
	EmployeeIDs []string `json:"employee_ids"`
}

type StartProjectResponse struct {
	Project *Project `json:"project"`
}

type CompleteProjectRequest struct {
	CompanyID string `json:"company_id"`
	ProjectID string `json:"project_id"`
}

type CompleteProjectResponse struct {
	Result *Completion `json:"result"`
}

type GetActiveProjectsRequest struct {
	CompanyID string `json:"company_id"`
}

type GetActiveProjectsResponse struct {
	Company   *Company      `json:"company"`
	Projects  []*Project    `json:"projects"`
	Completed []*Completion `json:"completed"`
}

type ProcessPaymentsRequest struct {
	CompanyID string `json:"company_id"`
}

type ProcessPaymentsResponse struct {
	Payments  []*Payment    `json:"payments"`
	Completed []*Completion `json:"completed"`
}

type GetPaymentStatusRequest struct {
	CompanyID string `json:"company_id"`
}

type GetPaymentStatusResponse struct {
	Projects []*PaymentStatus `json:"projects"`
}

type DeductSalariesRequest struct {
	// CompanyID limits the deduction to one company; empty means all.
	CompanyID string `json:"company_id,omitempty"`
}

type DeductSalariesResponse struct {
	Deductions []*Deduction `json:"deductions"`
}
