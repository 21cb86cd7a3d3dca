// Package auth keeps the signed-in user's phone and bearer token.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/psds-microservice/citypeople-service/internal/errs"
	"github.com/psds-microservice/citypeople-service/internal/model"
)

// CredentialStore persists the last credential.
type CredentialStore interface {
	Latest(ctx context.Context) (*model.Credential, error)
	Save(ctx context.Context, phone, token string) error
}

// TokenSource serves the cached credential to the API client.
// There is no refresh: an absent or expired token is an error.
type TokenSource struct {
	store CredentialStore
	now   func() time.Time
}

// NewTokenSource creates a TokenSource over store.
func NewTokenSource(store CredentialStore) *TokenSource {
	return &TokenSource{store: store, now: time.Now}
}

// Login stores a credential obtained from the identity provider.
func (s *TokenSource) Login(ctx context.Context, phone, token string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return errs.ErrPhoneEmpty
	}
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return errs.ErrTokenExpired
	}
	if Expired(token, s.now()) {
		return errs.ErrTokenExpired
	}
	return s.store.Save(ctx, phone, token)
}

// Credential implements api.CredentialSource.
func (s *TokenSource) Credential(ctx context.Context) (string, string, error) {
	cred, err := s.store.Latest(ctx)
	if err != nil {
		if errors.Is(err, errs.ErrCredentialAbsent) {
			return "", "", errs.ErrTokenExpired
		}
		return "", "", err
	}
	if cred == nil || cred.Token == "" || Expired(cred.Token, s.now()) {
		return "", "", errs.ErrTokenExpired
	}
	return cred.Phone, cred.Token, nil
}

// Expired reports whether token is a JWT whose exp claim is before now.
// Tokens that are not JWTs, or carry no exp, never expire locally; the
// signature is not checked here, the backend does that.
func Expired(token string, now time.Time) bool {
	exp := ExpiresAt(token)
	return exp != nil && !now.Before(*exp)
}

// ExpiresAt returns the exp claim of a JWT, or nil.
func ExpiresAt(token string) *time.Time {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time
	return &t
}
