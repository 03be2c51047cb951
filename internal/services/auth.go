package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/dsaquest-backend/internal/platform/apierr"
	"github.com/yungbote/dsaquest-backend/internal/platform/ctxutil"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
)

const RoleAdmin = "admin"

// JWTClaims is the bearer token shape. Tokens are issued elsewhere.
type JWTClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// SetContextFromToken verifies tokenString and attaches the caller to ctx.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	log          *logger.Logger
	jwtSecretKey []byte
	issuer       string
}

func NewAuthService(baseLog *logger.Logger, jwtSecretKey, issuer string) AuthService {
	return &authService{
		log:          baseLog.With("service", "AuthService"),
		jwtSecretKey: []byte(jwtSecretKey),
		issuer:       strings.TrimSpace(issuer),
	}
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, fmt.Errorf("missing token: %w", apierr.ErrUnauthorized)
	}
	if len(as.jwtSecretKey) == 0 {
		return ctx, fmt.Errorf("token verification not configured: %w", apierr.ErrUnauthorized)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if as.issuer != "" {
		opts = append(opts, jwt.WithIssuer(as.issuer))
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(*jwt.Token) (interface{}, error) {
		return as.jwtSecretKey, nil
	}, opts...)
	if err != nil {
		as.log.Debug("token rejected", "error", err)
		return ctx, fmt.Errorf("parse token: %w", apierr.ErrUnauthorized)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, fmt.Errorf("invalid or expired token: %w", apierr.ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid subject in token: %w", apierr.ErrUnauthorized)
	}

	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID: userID,
		Role:   strings.ToLower(strings.TrimSpace(claims.Role)),
	}), nil
}
