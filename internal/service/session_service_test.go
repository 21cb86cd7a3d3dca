package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/psds-microservice/citypeople-service/internal/errs"
	"go.uber.org/zap"
)

type loginFunc func(ctx context.Context, phone, token string) error

func (f loginFunc) Login(ctx context.Context, phone, token string) error { return f(ctx, phone, token) }

func TestSessionLogin(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	svc := NewSessionService(loginFunc(func(context.Context, string, string) error { return nil }), zap.NewNop())

	info, err := svc.Login(context.Background(), " +15550100 ", tok)
	if err != nil {
		t.Fatal(err)
	}
	if info.Phone != "+15550100" {
		t.Errorf("phone = %q", info.Phone)
	}
	if info.ExpiresAt == nil || !info.ExpiresAt.Equal(exp) {
		t.Errorf("expires = %v, want %v", info.ExpiresAt, exp)
	}

	opaque, err := svc.Login(context.Background(), "+1", "not-a-jwt")
	if err != nil || opaque.ExpiresAt != nil {
		t.Errorf("opaque token: %+v %v", opaque, err)
	}
}

func TestSessionLogin_Error(t *testing.T) {
	svc := NewSessionService(loginFunc(func(context.Context, string, string) error { return errs.ErrPhoneEmpty }), zap.NewNop())
	if _, err := svc.Login(context.Background(), "", "x"); !errors.Is(err, errs.ErrPhoneEmpty) {
		t.Fatalf("err = %v", err)
	}
}
