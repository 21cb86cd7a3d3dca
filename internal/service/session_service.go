package service

import (
	"context"
	"strings"
	"time"

	"github.com/psds-microservice/citypeople-service/internal/auth"
	"go.uber.org/zap"
)

// CredentialLogin stores a credential.
type CredentialLogin interface {
	Login(ctx context.Context, phone, token string) error
}

// SessionInfo describes the stored credential.
type SessionInfo struct {
	Phone     string     `json:"phone"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// SessionService keeps the signed-in user's credential.
type SessionService struct {
	login CredentialLogin
	log   *zap.Logger
}

// NewSessionService creates a session service.
func NewSessionService(login CredentialLogin, log *zap.Logger) *SessionService {
	return &SessionService{login: login, log: log}
}

// Login stores phone and token. The OTP exchange that produced the token
// happens in the UI against the identity provider.
func (s *SessionService) Login(ctx context.Context, phone, token string) (SessionInfo, error) {
	if err := s.login.Login(ctx, phone, token); err != nil {
		return SessionInfo{}, err
	}
	phone = strings.TrimSpace(phone)
	info := SessionInfo{Phone: phone, ExpiresAt: auth.ExpiresAt(token)}
	s.log.Info("session stored", zap.String("phone", phone))
	return info, nil
}
