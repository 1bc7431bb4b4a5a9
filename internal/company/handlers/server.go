// Package handlers serves CompanyService over gRPC and over an HTTP gateway,
// bridging the transport layer and the service layer and translating between
// wire messages and domain models.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	v1 "github.com/RainCode98/simbiz101/api/v1"
	"github.com/RainCode98/simbiz101/internal/company/controller"
	"github.com/RainCode98/simbiz101/internal/company/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// CompanyController defines the business logic interface
// that the gRPC/HTTP handlers will invoke.
type CompanyController interface {
	CreateCompany(ctx context.Context, name, country string) (*models.Company, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	HireEmployee(ctx context.Context, h controller.Hire) (*models.Employee, error)
	FireEmployee(ctx context.Context, companyID, employeeID uuid.UUID) error
	ListEmployees(ctx context.Context, companyID uuid.UUID) ([]models.Employee, error)
	ListAvailableProjects(ctx context.Context, companyID uuid.UUID) ([]models.ProjectTemplate, error)
	StartProject(ctx context.Context, companyID uuid.UUID, templateID string, employeeIDs []uuid.UUID) (*models.Project, error)
	CompleteProject(ctx context.Context, companyID, projectID uuid.UUID) (*models.CompletionResult, error)
	GetActiveProjects(ctx context.Context, companyID uuid.UUID) (*models.ActiveProjects, error)
	ProcessPayments(ctx context.Context, companyID uuid.UUID) (*models.Settlement, error)
	GetPaymentStatus(ctx context.Context, companyID uuid.UUID) ([]models.PaymentStatus, error)
	DeductSalaries(ctx context.Context, companyID uuid.UUID) ([]models.DeductionEvent, error)
}

// Server holds references to both a gRPC server and an HTTP server.
type Server struct {
	grpcServer   *grpc.Server
	httpServer   *http.Server
	logger       *zap.Logger
	grpcEndpoint string
	httpEndpoint string
	stopOnce     sync.Once
}

const shutdownTimeout = 5 * time.Second

// NewServer constructs a Server with separate endpoints for gRPC and HTTP.
func NewServer(
	grpcPort int,
	httpPort int,
	logger *zap.Logger,
	grpcOpts ...grpc.ServerOption,
) *Server {
	return &Server{
		grpcServer: grpc.NewServer(grpcOpts...),
		httpServer: &http.Server{
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger:       logger.Named("server"),
		grpcEndpoint: fmt.Sprintf(":%d", grpcPort),
		httpEndpoint: fmt.Sprintf(":%d", httpPort),
	}
}

// RegisterGRPCHandler registers the gRPC handler for the CompanyService.
func (s *Server) RegisterGRPCHandler(h *CompanyHandler) {
	v1.RegisterCompanyServiceServer(s.grpcServer, h)
}

// RegisterHTTPGateway mounts the HTTP gateway for h. The gateway calls the
// handler in-process; authentication happens in the HTTP middleware.
func (s *Server) RegisterHTTPGateway(h *CompanyHandler, cfg RouterConfig) error {
	router, err := NewRouter(h, cfg)
	if err != nil {
		return err
	}
	s.httpServer.Handler = router
	s.httpServer.Addr = s.httpEndpoint
	return nil
}

// Start binds both listeners, then serves until Stop or the first serve
// failure. A bind error is returned before anything is served.
func (s *Server) Start() error {
	grpcLis, err := net.Listen("tcp", s.grpcEndpoint)
	if err != nil {
		return fmt.Errorf("gRPC listen error: %w", err)
	}
	httpLis, err := net.Listen("tcp", s.httpEndpoint)
	if err != nil {
		_ = grpcLis.Close()
		return fmt.Errorf("HTTP listen error: %w", err)
	}

	s.logger.Info("serving",
		zap.String("grpc", grpcLis.Addr().String()),
		zap.String("http", httpLis.Addr().String()),
	)

	errs := make(chan error, 2)
	go func() {
		if err := s.grpcServer.Serve(grpcLis); err != nil {
			errs <- fmt.Errorf("gRPC serve error: %w", err)
			return
		}
		errs <- nil
	}()
	go func() {
		if err := s.httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("HTTP serve error: %w", err)
			return
		}
		errs <- nil
	}()

	var first error
	for range 2 {
		if err := <-errs; err != nil && first == nil {
			first = err
			s.Stop()
		}
	}
	return first
}

// Stop drains in-flight calls on both servers. gRPC streams still open after
// shutdownTimeout are cut.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("HTTP server shutdown error", zap.Error(err))
		}

		drained := make(chan struct{})
		go func() {
			s.grpcServer.GracefulStop()
			close(drained)
		}()
		select {
		case <-drained:
		case <-ctx.Done():
			s.logger.Warn("gRPC drain timed out; closing connections")
			s.grpcServer.Stop()
		}

		s.logger.Info("servers stopped")
	})
}
