package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const echoMethod = "/test.Echo/Echo"

// echoDesc registers a single unary method that forwards to scriptedService.echo.
var echoDesc = grpc.ServiceDesc{
	ServiceName: "test.Echo",
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{{
		MethodName: "Echo",
		Handler: func(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
			in := &wrapperspb.StringValue{}
			if err := dec(in); err != nil {
				return nil, err
			}
			return srv.(*scriptedService).echo(ctx, in)
		},
	}},
}

// scriptedService answers with a pre-configured sequence of codes.
// Not thread-safe, should be used in sequential tests only.
type scriptedService struct {
	callCount int32
	// responses - a queue of gRPC codes to return for each call.
	responses []codes.Code
	delay     time.Duration
}

func (s *scriptedService) echo(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	s.callCount++
	if s.delay > 0 {
		time.Sleep(s.delay)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	if len(s.responses) > 0 {
		code := s.responses[0]
		s.responses = s.responses[1:]
		if code != codes.OK {
			return nil, status.Error(code, "mock error")
		}
	}
	return in, nil
}

// setResponses configures the sequence of responses for the test server.
func (s *scriptedService) setResponses(responses ...codes.Code) {
	s.responses = responses
	s.callCount = 0
}

func callEcho(ctx context.Context, conn *grpc.ClientConn) error {
	return conn.Invoke(ctx, echoMethod, wrapperspb.String("ping"), &wrapperspb.StringValue{})
}
