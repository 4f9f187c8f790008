package grpcapi

import (
	"context"
	"errors"
	"log/slog"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToStatus converts a domain error into a gRPC status error by kind.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	var code codes.Code
	switch domain.Kind(err) {
	case domain.KindValidation:
		code = codes.InvalidArgument
	case domain.KindNotFound:
		code = codes.NotFound
	case domain.KindConflict:
		code = codes.AlreadyExists
	case domain.KindState:
		code = codes.FailedPrecondition
	case domain.KindExternal:
		code = codes.Unavailable
	default:
		if errors.Is(err, context.DeadlineExceeded) {
			code = codes.DeadlineExceeded
		} else if errors.Is(err, context.Canceled) {
			code = codes.Canceled
		} else {
			code = codes.Internal
		}
	}
	return status.Error(code, err.Error())
}

func errorInterceptor(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	return resp, ToStatus(err)
}

func recoveryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "grpc handler panicked", "method", info.FullMethod, "panic", r)
			err = status.Error(codes.Internal, "internal error")
		}
	}()
	return handler(ctx, req)
}
