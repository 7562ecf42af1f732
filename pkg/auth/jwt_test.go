package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestJWTService(t *testing.T, secret string, expiration time.Duration) *JWTService {
	t.Helper()
	svc, err := NewJWTService(JWTConfig{
		Secret:     secret,
		Issuer:     "credit-risk-test",
		Expiration: expiration,
	})
	require.NoError(t, err)
	return svc
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestJWTService(t, "test-secret-key-for-unit-tests", 15*time.Minute)
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, []string{RoleAdmin, RoleAnalyst})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, []string{RoleAdmin, RoleAnalyst}, claims.Roles)
	assert.Equal(t, "credit-risk-test", claims.Issuer)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestValidateToken_Rejections(t *testing.T) {
	t.Run("expired", func(t *testing.T) {
		svc := newTestJWTService(t, "secret", -time.Hour)
		token, err := svc.GenerateToken(uuid.New(), []string{RoleOperator})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := newTestJWTService(t, "secret-one", time.Minute).GenerateToken(uuid.New(), nil)
		require.NoError(t, err)

		_, err = newTestJWTService(t, "secret-two", time.Minute).ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		issuer, err := NewJWTService(JWTConfig{Secret: "s", Issuer: "other", Expiration: time.Minute})
		require.NoError(t, err)
		token, err := issuer.GenerateToken(uuid.New(), nil)
		require.NoError(t, err)

		_, err = newTestJWTService(t, "s", time.Minute).ValidateToken(token)
		assert.Error(t, err)
	})
}

func TestNewJWTService_RequiresKey(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	assert.Error(t, err)

	_, err = NewJWTService(JWTConfig{PublicKeyPEM: "not a key"})
	assert.Error(t, err)
}

func TestHasRole(t *testing.T) {
	claims := Claims{Roles: []string{RoleAdmin, RoleAuditor}}

	assert.True(t, claims.HasRole(RoleAdmin))
	assert.True(t, claims.HasRole(RoleAuditor))
	assert.False(t, claims.HasRole(RoleOperator))
}

func TestClaimsFromContext(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	expected := &Claims{UserID: uuid.New(), Roles: []string{RoleOperator}}
	got, ok := ClaimsFromContext(ContextWithClaims(context.Background(), expected))
	require.True(t, ok)
	assert.Equal(t, expected, got)
}

func TestUnaryAuthInterceptor(t *testing.T) {
	svc := newTestJWTService(t, "secret", time.Minute)
	interceptor := UnaryAuthInterceptor(svc, []string{"/grpc.health.v1.Health/Check"})

	var seen *Claims
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		seen, _ = ClaimsFromContext(ctx)
		return "ok", nil
	}
	info := &grpc.UnaryServerInfo{FullMethod: "/creditrisk.v1.CreditRiskService/GetSegmentationRun"}

	t.Run("valid bearer token", func(t *testing.T) {
		token, err := svc.GenerateToken(uuid.New(), []string{RoleAuditor})
		require.NoError(t, err)
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))

		resp, err := interceptor(ctx, nil, info, handler)

		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
		require.NotNil(t, seen)
		assert.True(t, seen.HasRole(RoleAuditor))
	})

	t.Run("missing header", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.MD{})

		_, err := interceptor(ctx, nil, info, handler)

		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("skipped method", func(t *testing.T) {
		resp, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, handler)

		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
	})
}
