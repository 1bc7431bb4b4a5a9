package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	v1 "github.com/RainCode98/simbiz101/api/v1"
	"github.com/RainCode98/simbiz101/internal/company/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	bodyMarshaler  runtime.Marshaler = &runtime.JSONBuiltin{}
	errorMarshaler runtime.Marshaler = &runtime.JSONPb{}
)

// gatewayHandler serves one route by decoding the body, binding the path
// parameters and calling the handler in-process.
func gatewayHandler[Req, Resp any](
	mux *runtime.ServeMux,
	withBody bool,
	bind func(req *Req, params map[string]string),
	call func(context.Context, *Req) (*Resp, error),
	okStatus int,
) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		ctx := r.Context()
		req := new(Req)
		if withBody && r.Body != nil {
			if err := bodyMarshaler.NewDecoder(r.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
				runtime.HTTPError(ctx, mux, errorMarshaler, w, r,
					status.Errorf(codes.InvalidArgument, "malformed request body: %v", err))
				return
			}
		}
		if bind != nil {
			bind(req, params)
		}

		resp, err := call(ctx, req)
		if err != nil {
			runtime.HTTPError(ctx, mux, errorMarshaler, w, r, err)
			return
		}

		w.Header().Set("Content-Type", bodyMarshaler.ContentType(resp))
		w.WriteHeader(okStatus)
		_ = bodyMarshaler.NewEncoder(w).Encode(resp)
	}
}

// NewGatewayMux mirrors CompanyService onto the /v1 HTTP routes.
func NewGatewayMux(h *CompanyHandler) (*runtime.ServeMux, error) {
	mux := runtime.NewServeMux()

	routes := []struct {
		method  string
		pattern string
		handler runtime.HandlerFunc
	}{
		{http.MethodPost, "/v1/companies",
			gatewayHandler(mux, true, nil, h.CreateCompany, http.StatusCreated)},
		{http.MethodGet, "/v1/companies/{company_id}",
			gatewayHandler(mux, false, func(req *v1.GetCompanyRequest, p map[string]string) {
				req.CompanyID = p["company_id"]
			}, h.GetCompany, http.StatusOK)},
		{http.MethodPost, "/v1/companies/{company_id}/employees",
			gatewayHandler(mux, true, func(req *v1.HireEmployeeRequest, p map[string]string) {
				req.CompanyID = p["company_id"]
			}, h.HireEmployee, http.StatusCreated)},
		{http.MethodGet, "/v1/companies/{company_id}/employees",
			gatewayHandler(mux, false, func(req *v1.ListEmployeesRequest, p map[string]string) {
				req.CompanyID = p["company_id"]
			}, h.ListEmployees, http.StatusOK)},
		{http.MethodDelete, "/v1/companies/{company_id}/employees/{employee_id}",
			gatewayHandler(mux, false, func(req *v1.FireEmployeeRequest, p map[string]string) {
				req.CompanyID = p["company_id"]
				req.EmployeeID = p["employee_id"]
			}, h.FireEmployee, http.StatusOK)},
		{http.MethodGet, "/v1/companies/{company_id}/projects/available",
			gatewayHandler(mux, false, func(req *v1.ListAvailableProjectsRequest, p map[string]string) {
				req.CompanyID = p["company_id"]
			}, h.ListAvailableProjects, http.StatusOK)},
		{http.MethodGet, "/v1/companies/{company_id}/projects/active",
			gatewayHandler(mux, false, func(req *v1.GetActiveProjectsRequest, p map[string]string) {
				req.CompanyID = p["company_id"]
			}, h.GetActiveProjects, http.StatusOK)},
		{http.MethodPost, "/v1/companies/{company_id}/projects",
			gatewayHandler(mux, true, func(req *v1.StartProjectRequest, p map[string]string) {
				req.CompanyID = p["company_id"]
			}, h.StartProject, http.StatusCreated)},
		{http.MethodPost, "/v1/companies/{company_id}/projects/{project_id}/complete",
			gatewayHandler(mux, false, func(req *v1.CompleteProjectRequest, p map[string]string) {
				req.CompanyID = p["company_id"]
				req.ProjectID = p["project_id"]
			}, h.CompleteProject, http.StatusOK)},
		{http.MethodPost, "/v1/companies/{company_id}/payments",
			gatewayHandler(mux, false, func(req *v1.ProcessPaymentsRequest, p map[string]string) {
				req.CompanyID = p["company_id"]
			}, h.ProcessPayments, http.StatusOK)},
		{http.MethodGet, "/v1/companies/{company_id}/payments",
			gatewayHandler(mux, false, func(req *v1.GetPaymentStatusRequest, p map[string]string) {
				req.CompanyID = p["company_id"]
			}, h.GetPaymentStatus, http.StatusOK)},
		{http.MethodPost, "/v1/salaries/deduct",
			gatewayHandler(mux, true, nil, h.DeductSalaries, http.StatusOK)},
	}

	for _, rt := range routes {
		if err := mux.HandlePath(rt.method, rt.pattern, rt.handler); err != nil {
			return nil, fmt.Errorf("register %s %s: %w", rt.method, rt.pattern, err)
		}
	}
	return mux, nil
}

// RouterConfig configures the HTTP front of the service.
type RouterConfig struct {
	JWTSecret      string
	AllowedOrigins []string
}

// NewRouter builds the HTTP handler: the gateway routes behind the token
// middleware, plus /healthz and /metrics.
func NewRouter(h *CompanyHandler, cfg RouterConfig) (http.Handler, error) {
	gw, err := NewGatewayMux(h)
	if err != nil {
		return nil, err
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/v1/*", auth.HTTPMiddleware(gw, cfg.JWTSecret))
	return r, nil
}
