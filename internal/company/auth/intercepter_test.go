package auth

import (
	"context"
	"testing"
	"time"

	v1 "github.com/RainCode98/simbiz101/api/v1"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const testSecret = "test-secret"

func signed(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return raw
}

func hs256(t *testing.T, secret string, exp time.Time) string {
	return signed(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
		"sub": "founder",
		"exp": exp.Unix(),
	})
}

func TestUnaryInterceptor(t *testing.T) {
	hour := time.Hour
	start := v1.FullMethod(v1.MethodStartProject)
	active := v1.FullMethod(v1.MethodGetActiveProjects)

	tests := []struct {
		name        string
		method      string
		header      string
		wantCode    codes.Code
		wantSubject string
	}{
		{"start project with token", start, "Bearer " + hs256(t, testSecret, time.Now().Add(hour)), codes.OK, "founder"},
		{"start project wrong secret", start, "Bearer " + hs256(t, "wrong-secret", time.Now().Add(hour)), codes.Unauthenticated, ""},
		{"start project expired", start, "Bearer " + hs256(t, testSecret, time.Now().Add(-hour)), codes.Unauthenticated, ""},
		{"start project anonymous", start, "", codes.Unauthenticated, ""},
		{"active projects anonymous", active, "", codes.OK, ""},
		{"active projects ignores bad token", active, "Bearer junk", codes.OK, ""},
	}

	interceptor := NewAuthInterceptor(testSecret).Unary()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.header != "" {
				ctx = metadata.NewIncomingContext(ctx, metadata.Pairs("authorization", tt.header))
			}

			var called bool
			var subject string
			handler := func(ctx context.Context, req any) (any, error) {
				called = true
				subject = Subject(ctx)
				return req, nil
			}

			resp, err := interceptor(ctx, "req", &grpc.UnaryServerInfo{FullMethod: tt.method}, handler)

			assert.Equal(t, tt.wantCode, status.Code(err))
			assert.Equal(t, tt.wantCode == codes.OK, called)
			if tt.wantCode == codes.OK {
				assert.Equal(t, "req", resp)
			}
			assert.Equal(t, tt.wantSubject, subject)
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"Bearer   padded  ", "padded", nil},
		{"", "", errNoCredentials},
		{"Basic dXNlcg==", "", errNotBearer},
		{"bearer lower", "", errNotBearer},
		{"Bearer ", "", errEmptyToken},
	}
	for _, tt := range tests {
		got, err := bearerToken(tt.header)
		assert.ErrorIs(t, err, tt.wantErr, tt.header)
		assert.Equal(t, tt.want, got, tt.header)
	}
}

func TestParseToken(t *testing.T) {
	secret := []byte(testSecret)
	future := time.Now().Add(time.Hour).Unix()

	t.Run("valid", func(t *testing.T) {
		claims, err := parseToken(hs256(t, testSecret, time.Now().Add(time.Hour)), secret)
		require.NoError(t, err)
		sub, err := claims.GetSubject()
		require.NoError(t, err)
		assert.Equal(t, "founder", sub)
	})

	rejected := map[string]string{
		"wrong secret": hs256(t, "other", time.Now().Add(time.Hour)),
		"expired":      hs256(t, testSecret, time.Now().Add(-time.Minute)),
		"no expiry":    signed(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{"sub": "founder"}),
		"hs512":        signed(t, jwt.SigningMethodHS512, secret, jwt.MapClaims{"sub": "founder", "exp": future}),
		"unsigned":     signed(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"exp": future}),
		"garbage":      "invalid.token.string",
	}
	for name, raw := range rejected {
		t.Run(name, func(t *testing.T) {
			_, err := parseToken(raw, secret)
			assert.Error(t, err)
		})
	}
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	raw, err := GenerateToken("ops", testSecret)
	require.NoError(t, err)

	claims, err := authenticate("Bearer "+raw, []byte(testSecret))
	require.NoError(t, err)

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), exp.Time, time.Minute)
	assert.Equal(t, "ops", Subject(withClaims(context.Background(), claims)))
}

func TestMethodClassification(t *testing.T) {
	interceptor := NewAuthInterceptor(testSecret)

	for _, m := range MutatingMethods {
		assert.True(t, interceptor.Requires(v1.FullMethod(m)), m)
	}

	for _, m := range []string{
		v1.MethodGetCompany,
		v1.MethodListEmployees,
		v1.MethodListAvailableProjects,
		v1.MethodGetActiveProjects,
		v1.MethodGetPaymentStatus,
	} {
		assert.False(t, interceptor.Requires(v1.FullMethod(m)), m)
	}

	assert.False(t, interceptor.Requires(v1.MethodStartProject), "bare method names are not full methods")
}

func TestSubjectAnonymous(t *testing.T) {
	assert.Empty(t, Subject(context.Background()))
	assert.Empty(t, Subject(withClaims(context.Background(), jwt.MapClaims{"exp": 1})))
}
