package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

// UnaryClientTimeoutInterceptor bounds every catalog RPC attempt by timeout.
// Placed after the retry interceptor, each retry gets a fresh budget.
// A zero timeout leaves the caller's context as is.
func UnaryClientTimeoutInterceptor(timeout time.Duration) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if timeout <= 0 {
			return invoker(ctx, method, req, reply, cc, opts...)
		}
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return invoker(attemptCtx, method, req, reply, cc, opts...)
	}
}
