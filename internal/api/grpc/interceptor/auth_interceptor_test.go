package interceptor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"rentalhub-backend/internal/security"
)

func TestAuthInterceptor_Unary(t *testing.T) {
	tm := security.NewTokenManager("0123456789abcdef0123456789abcdef", "", time.Hour)
	unary := NewAuthInterceptor(tm).Unary()
	protected := &grpc.UnaryServerInfo{FullMethod: "/rentalhub.RentalService/GetRental"}

	var seen metadata.MD
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		seen, _ = metadata.FromIncomingContext(ctx)
		return "ok", nil
	}

	t.Run("Public method", func(t *testing.T) {
		resp, err := unary(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, handler)
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
	})

	t.Run("Missing token", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.New(nil))
		_, err := unary(ctx, nil, protected, handler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("Valid token overrides user id", func(t *testing.T) {
		token, err := tm.GenerateAccessToken(7, "", nil)
		require.NoError(t, err)
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
			"authorization", "Bearer "+token,
			"user-id", "999",
		))
		_, err = unary(ctx, nil, protected, handler)
		require.NoError(t, err)
		id, err := UserIDFromContext(metadata.NewIncomingContext(context.Background(), seen))
		require.NoError(t, err)
		assert.Equal(t, int32(7), id)
	})

	t.Run("Invalid token", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer junk"))
		_, err := unary(ctx, nil, protected, handler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})
}

func TestUserIDFromContext(t *testing.T) {
	_, err := UserIDFromContext(context.Background())
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = UserIDFromContext(metadata.NewIncomingContext(context.Background(), metadata.New(nil)))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = UserIDFromContext(metadata.NewIncomingContext(context.Background(), metadata.Pairs(UserIDKey, "seven")))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	id, err := UserIDFromContext(metadata.NewIncomingContext(context.Background(), metadata.Pairs(UserIDKey, "12")))
	require.NoError(t, err)
	assert.Equal(t, int32(12), id)
}
