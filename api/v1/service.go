package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "simbiz.v1.CompanyService"

const (
	MethodCreateCompany         = "CreateCompany"
	MethodGetCompany            = "GetCompany"
	MethodHireEmployee          = "HireEmployee"
	MethodFireEmployee          = "FireEmployee"
	MethodListEmployees         = "ListEmployees"
	MethodListAvailableProjects = "ListAvailableProjects"
	MethodStartProject          = "StartProject"
	MethodCompleteProject       = "CompleteProject"
	MethodGetActiveProjects     = "GetActiveProjects"
	MethodProcessPayments       = "ProcessPayments"
	MethodGetPaymentStatus      = "GetPaymentStatus"
	MethodDeductSalaries        = "DeductSalaries"
)

// FullMethod returns the gRPC full method name, e.g.
// "/simbiz.v1.CompanyService/StartProject".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// CompanyServiceServer is the server API for CompanyService.
type CompanyServiceServer interface {
	CreateCompany(context.Context, *CreateCompanyRequest) (*CompanyResponse, error)
	GetCompany(context.Context, *GetCompanyRequest) (*CompanyResponse, error)
	HireEmployee(context.Context, *HireEmployeeRequest) (*HireEmployeeResponse, error)
	FireEmployee(context.Context, *FireEmployeeRequest) (*FireEmployeeResponse, error)
	ListEmployees(context.Context, *ListEmployeesRequest) (*ListEmployeesResponse, error)
	ListAvailableProjects(context.Context, *ListAvailableProjectsRequest) (*ListAvailableProjectsResponse, error)
	StartProject(context.Context, *StartProjectRequest) (*StartProjectResponse, error)
	CompleteProject(context.Context, *CompleteProjectRequest) (*CompleteProjectResponse, error)
	GetActiveProjects(context.Context, *GetActiveProjectsRequest) (*GetActiveProjectsResponse, error)
	ProcessPayments(context.Context, *ProcessPaymentsRequest) (*ProcessPaymentsResponse, error)
	GetPaymentStatus(context.Context, *GetPaymentStatusRequest) (*GetPaymentStatusResponse, error)
	DeductSalaries(context.Context, *DeductSalariesRequest) (*DeductSalariesResponse, error)
}

// UnimplementedCompanyServiceServer can be embedded to stay forward
// compatible with methods added to the service.
type UnimplementedCompanyServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedCompanyServiceServer) CreateCompany(context.Context, *CreateCompanyRequest) (*CompanyResponse, error) {
	return nil, unimplemented(MethodCreateCompany)
}
func (UnimplementedCompanyServiceServer) GetCompany(context.Context, *GetCompanyRequest) (*CompanyResponse, error) {
	return nil, unimplemented(MethodGetCompany)
}
func (UnimplementedCompanyServiceServer) HireEmployee(context.Context, *HireEmployeeRequest) (*HireEmployeeResponse, error) {
	return nil, unimplemented(MethodHireEmployee)
}
func (UnimplementedCompanyServiceServer) FireEmployee(context.Context, *FireEmployeeRequest) (*FireEmployeeResponse, error) {
	return nil, unimplemented(MethodFireEmployee)
}
func (UnimplementedCompanyServiceServer) ListEmployees(context.Context, *ListEmployeesRequest) (*ListEmployeesResponse, error) {
	return nil, unimplemented(MethodListEmployees)
}
func (UnimplementedCompanyServiceServer) ListAvailableProjects(context.Context, *ListAvailableProjectsRequest) (*ListAvailableProjectsResponse, error) {
	return nil, unimplemented(MethodListAvailableProjects)
}
func (UnimplementedCompanyServiceServer) StartProject(context.Context, *StartProjectRequest) (*StartProjectResponse, error) {
	return nil, unimplemented(MethodStartProject)
}
func (UnimplementedCompanyServiceServer) CompleteProject(context.Context, *CompleteProjectRequest) (*CompleteProjectResponse, error) {
	return nil, unimplemented(MethodCompleteProject)
}
func (UnimplementedCompanyServiceServer) GetActiveProjects(context.Context, *GetActiveProjectsRequest) (*GetActiveProjectsResponse, error) {
	return nil, unimplemented(MethodGetActiveProjects)
}
func (UnimplementedCompanyServiceServer) ProcessPayments(context.Context, *ProcessPaymentsRequest) (*ProcessPaymentsResponse, error) {
	return nil, unimplemented(MethodProcessPayments)
}
func (UnimplementedCompanyServiceServer) GetPaymentStatus(context.Context, *GetPaymentStatusRequest) (*GetPaymentStatusResponse, error) {
	return nil, unimplemented(MethodGetPaymentStatus)
}
func (UnimplementedCompanyServiceServer) DeductSalaries(context.Context, *DeductSalariesRequest) (*DeductSalariesResponse, error) {
	return nil, unimplemented(MethodDeductSalaries)
}

// unary adapts a typed server method to a grpc.MethodDesc, running it
// through the server's interceptor chain.
func unary[Req, Resp any](name string, call func(CompanyServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CompanyServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(CompanyServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// CompanyService_ServiceDesc is the grpc.ServiceDesc for CompanyService.
var CompanyService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CompanyServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodCreateCompany, CompanyServiceServer.CreateCompany),
		unary(MethodGetCompany, CompanyServiceServer.GetCompany),
		unary(MethodHireEmployee, CompanyServiceServer.HireEmployee),
		unary(MethodFireEmployee, CompanyServiceServer.FireEmployee),
		unary(MethodListEmployees, CompanyServiceServer.ListEmployees),
		unary(MethodListAvailableProjects, CompanyServiceServer.ListAvailableProjects),
		unary(MethodStartProject, CompanyServiceServer.StartProject),
		unary(MethodCompleteProject, CompanyServiceServer.CompleteProject),
		unary(MethodGetActiveProjects, CompanyServiceServer.GetActiveProjects),
		unary(MethodProcessPayments, CompanyServiceServer.ProcessPayments),
		unary(MethodGetPaymentStatus, CompanyServiceServer.GetPaymentStatus),
		unary(MethodDeductSalaries, CompanyServiceServer.DeductSalaries),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "simbiz/v1/company.proto",
}

func RegisterCompanyServiceServer(s grpc.ServiceRegistrar, srv CompanyServiceServer) {
	s.RegisterService(&CompanyService_ServiceDesc, srv)
}

// CompanyServiceClient calls CompanyService using the JSON codec.
type CompanyServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCompanyServiceClient(cc grpc.ClientConnInterface) *CompanyServiceClient {
	return &CompanyServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CompanyServiceClient) CreateCompany(ctx context.Context, in *CreateCompanyRequest, opts ...grpc.CallOption) (*CompanyResponse, error) {
	return invoke[CompanyResponse](ctx, c.cc, MethodCreateCompany, in, opts)
}

func (c *CompanyServiceClient) GetCompany(ctx context.Context, in *GetCompanyRequest, opts ...grpc.CallOption) (*CompanyResponse, error) {
	return invoke[CompanyResponse](ctx, c.cc, MethodGetCompany, in, opts)
}

func (c *CompanyServiceClient) HireEmployee(ctx context.Context, in *HireEmployeeRequest, opts ...grpc.CallOption) (*HireEmployeeResponse, error) {
	return invoke[HireEmployeeResponse](ctx, c.cc, MethodHireEmployee, in, opts)
}

func (c *CompanyServiceClient) FireEmployee(ctx context.Context, in *FireEmployeeRequest, opts ...grpc.CallOption) (*FireEmployeeResponse, error) {
	return invoke[FireEmployeeResponse](ctx, c.cc, MethodFireEmployee, in, opts)
}

func (c *CompanyServiceClient) ListEmployees(ctx context.Context, in *ListEmployeesRequest, opts ...grpc.CallOption) (*ListEmployeesResponse, error) {
	return invoke[ListEmployeesResponse](ctx, c.cc, MethodListEmployees, in, opts)
}

func (c *CompanyServiceClient) ListAvailableProjects(ctx context.Context, in *ListAvailableProjectsRequest, opts ...grpc.CallOption) (*ListAvailableProjectsResponse, error) {
	return invoke[ListAvailableProjectsResponse](ctx, c.cc, MethodListAvailableProjects, in, opts)
}

func (c *CompanyServiceClient) StartProject(ctx context.Context, in *StartProjectRequest, opts ...grpc.CallOption) (*StartProjectResponse, error) {
	return invoke[StartProjectResponse](ctx, c.cc, MethodStartProject, in, opts)
}

func (c *CompanyServiceClient) CompleteProject(ctx context.Context, in *CompleteProjectRequest, opts ...grpc.CallOption) (*CompleteProjectResponse, error) {
	return invoke[CompleteProjectResponse](ctx, c.cc, MethodCompleteProject, in, opts)
}

func (c *CompanyServiceClient) GetActiveProjects(ctx context.Context, in *GetActiveProjectsRequest, opts ...grpc.CallOption) (*GetActiveProjectsResponse, error) {
	return invoke[GetActiveProjectsResponse](ctx, c.cc, MethodGetActiveProjects, in, opts)
}

func (c *CompanyServiceClient) ProcessPayments(ctx context.Context, in *ProcessPaymentsRequest, opts ...grpc.CallOption) (*ProcessPaymentsResponse, error) {
	return invoke[ProcessPaymentsResponse](ctx, c.cc, MethodProcessPayments, in, opts)
}

func (c *CompanyServiceClient) GetPaymentStatus(ctx context.Context, in *GetPaymentStatusRequest, opts ...grpc.CallOption) (*GetPaymentStatusResponse, error) {
	return invoke[GetPaymentStatusResponse](ctx, c.cc, MethodGetPaymentStatus, in, opts)
}

func (c *CompanyServiceClient) DeductSalaries(ctx context.Context, in *DeductSalariesRequest, opts ...grpc.CallOption) (*DeductSalariesResponse, error) {
	return invoke[DeductSalariesResponse](ctx, c.cc, MethodDeductSalaries, in, opts)
}
