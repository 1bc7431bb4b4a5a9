// Package auth guards the mutating operations of the company service with
// HS256 bearer tokens, for both gRPC and the HTTP gateway.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	v1 "github.com/RainCode98/simbiz101/api/v1"
	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type contextKey string

const claimsKey contextKey = "claims"

const bearerPrefix = "Bearer "

var (
	errNoCredentials = errors.New("authorization header missing")
	errNotBearer     = errors.New("invalid authorization format: missing Bearer prefix")
	errEmptyToken    = errors.New("invalid authorization format: empty token")
)

// MutatingMethods are the CompanyService methods that move money or change
// company state. They require a token.
var MutatingMethods = []string{
	v1.MethodCreateCompany,
	v1.MethodHireEmployee,
	v1.MethodFireEmployee,
	v1.MethodStartProject,
	v1.MethodCompleteProject,
	v1.MethodProcessPayments,
	v1.MethodDeductSalaries,
}

// Interceptor authenticates calls to MutatingMethods.
type Interceptor struct {
	secret    []byte
	protected map[string]bool
}

func NewAuthInterceptor(jwtSecret string) *Interceptor {
	protected := make(map[string]bool, len(MutatingMethods))
	for _, m := range MutatingMethods {
		protected[v1.FullMethod(m)] = true
	}
	return &Interceptor{secret: []byte(jwtSecret), protected: protected}
}

// Requires reports whether fullMethod needs a token.
func (i *Interceptor) Requires(fullMethod string) bool {
	return i.protected[fullMethod]
}

// Unary returns the server interceptor. Anonymous calls pass through to read
// methods untouched.
func (i *Interceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !i.Requires(info.FullMethod) {
			return handler(ctx, req)
		}

		var header string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if values := md.Get("authorization"); len(values) > 0 {
				header = values[0]
			}
		}

		claims, err := authenticate(header, i.secret)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		return handler(withClaims(ctx, claims), req)
	}
}

// Subject returns the "sub" claim of the caller authenticated on ctx, or ""
// for anonymous calls.
func Subject(ctx context.Context) string {
	claims, ok := ctx.Value(claimsKey).(jwt.MapClaims)
	if !ok {
		return ""
	}
	sub, _ := claims.GetSubject()
	return sub
}

func withClaims(ctx context.Context, claims jwt.MapClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// authenticate turns an Authorization header value into verified claims.
func authenticate(header string, secret []byte) (jwt.MapClaims, error) {
	raw, err := bearerToken(header)
	if err != nil {
		return nil, err
	}
	return parseToken(raw, secret)
}

func bearerToken(header string) (string, error) {
	switch {
	case header == "":
		return "", errNoCredentials
	case !strings.HasPrefix(header, bearerPrefix):
		return "", errNotBearer
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if raw == "" {
		return "", errEmptyToken
	}
	return raw, nil
}

// parseToken accepts only HS256 tokens that carry an expiry.
func parseToken(raw string, secret []byte) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}
