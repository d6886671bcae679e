package interceptor

import (
	"context"
	"strconv"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// UserIDKey is the incoming metadata key carrying the authenticated user. The
// interceptor replaces whatever the client sent under it.
const UserIDKey = "user-id"

// UserIDFromContext returns the user the interceptor authenticated for this call.
func UserIDFromContext(ctx context.Context) (int32, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return 0, status.Error(codes.Unauthenticated, "metadata is not provided")
	}
	values := md.Get(UserIDKey)
	if len(values) == 0 {
		return 0, status.Error(codes.Unauthenticated, "caller is not authenticated")
	}
	id, err := strconv.ParseInt(values[0], 10, 32)
	if err != nil || id <= 0 {
		return 0, status.Errorf(codes.Unauthenticated, "invalid %s %q", UserIDKey, values[0])
	}
	return int32(id), nil
}
