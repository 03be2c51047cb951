package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/dsaquest-backend/internal/platform/apierr"
	"github.com/yungbote/dsaquest-backend/internal/platform/ctxutil"
	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
)

func signTestToken(t *testing.T, secret string, claims JWTClaims, method jwt.SigningMethod) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func TestAuthServiceSetContextFromToken(t *testing.T) {
	svc := NewAuthService(logger.Nop(), "secret", "")
	userID := uuid.New()
	valid := JWTClaims{
		Role: "Admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	token := signTestToken(t, "secret", valid, jwt.SigningMethodHS256)
	ctx, err := svc.SetContextFromToken(context.Background(), token)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID != userID || rd.Role != RoleAdmin {
		t.Fatalf("request data: unexpected %+v", rd)
	}

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	noSubject := valid
	noSubject.Subject = "not-a-uuid"

	bad := map[string]string{
		"empty":        "",
		"wrong secret": signTestToken(t, "other", valid, jwt.SigningMethodHS256),
		"expired":      signTestToken(t, "secret", expired, jwt.SigningMethodHS256),
		"wrong alg":    signTestToken(t, "secret", valid, jwt.SigningMethodHS512),
		"bad subject":  signTestToken(t, "secret", noSubject, jwt.SigningMethodHS256),
	}
	for name, tok := range bad {
		_, err := svc.SetContextFromToken(context.Background(), tok)
		if !errors.Is(err, apierr.ErrUnauthorized) {
			t.Fatalf("%s: expected ErrUnauthorized, got %v", name, err)
		}
	}
}
