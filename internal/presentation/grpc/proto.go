package grpc

// proto.go holds the hand-written service descriptor for creditrisk.v1.CreditRiskService.
// Messages travel with the JSON codec registered in json_codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CreditRiskServiceServer is the server API for CreditRiskService.
type CreditRiskServiceServer interface {
	BuildProxyTarget(context.Context, *BuildProxyTargetRequest) (*BuildProxyTargetResponse, error)
	GetSegmentationRun(context.Context, *GetSegmentationRunRequest) (*GetSegmentationRunResponse, error)
	mustEmbedUnimplementedCreditRiskServiceServer()
}

// UnimplementedCreditRiskServiceServer provides forward-compatible default implementations.
type UnimplementedCreditRiskServiceServer struct{}

func (UnimplementedCreditRiskServiceServer) BuildProxyTarget(context.Context, *BuildProxyTargetRequest) (*BuildProxyTargetResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method BuildProxyTarget not implemented")
}
func (UnimplementedCreditRiskServiceServer) GetSegmentationRun(context.Context, *GetSegmentationRunRequest) (*GetSegmentationRunResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetSegmentationRun not implemented")
}
func (UnimplementedCreditRiskServiceServer) mustEmbedUnimplementedCreditRiskServiceServer() {}

// RegisterCreditRiskServiceServer registers the CreditRiskServiceServer with the gRPC server.
func RegisterCreditRiskServiceServer(s *grpclib.Server, srv CreditRiskServiceServer) {
	s.RegisterService(&_CreditRiskService_serviceDesc, srv)
}

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "creditrisk.v1.CreditRiskService"

var _CreditRiskService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CreditRiskServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "BuildProxyTarget", Handler: _CreditRiskService_BuildProxyTarget_Handler},
		{MethodName: "GetSegmentationRun", Handler: _CreditRiskService_GetSegmentationRun_Handler},
	},
	Streams: []grpclib.StreamDesc{},
}

func _CreditRiskService_BuildProxyTarget_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(BuildProxyTargetRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CreditRiskServiceServer).BuildProxyTarget(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + ServiceName + "/BuildProxyTarget",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CreditRiskServiceServer).BuildProxyTarget(ctx, req.(*BuildProxyTargetRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _CreditRiskService_GetSegmentationRun_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(GetSegmentationRunRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CreditRiskServiceServer).GetSegmentationRun(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + ServiceName + "/GetSegmentationRun",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CreditRiskServiceServer).GetSegmentationRun(ctx, req.(*GetSegmentationRunRequest))
	}
	return interceptor(ctx, req, info, handler)
}
