package auth

import (
	"context"
	"strings"
	"time"

	"villastay/models"
	"villastay/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Credential is one static staff login.
type Credential struct {
	Email        string
	PasswordHash string
	Role         string
}

// AuthService issues staff tokens.
type AuthService interface {
	Login(ctx context.Context, input models.LoginInput, role string) (*models.StaffToken, error)
}

// StaticAuthService checks logins against configured bcrypt credentials,
// one per role.
type StaticAuthService struct {
	creds  map[string]Credential
	ttl    time.Duration
	logger *zap.Logger
}

func NewStaticAuthService(creds []Credential, ttl time.Duration, logger *zap.Logger) *StaticAuthService {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	byRole := make(map[string]Credential, len(creds))
	for _, c := range creds {
		if c.Email == "" || c.PasswordHash == "" {
			logger.Warn("staff login disabled, no credentials configured", zap.String("role", c.Role))
			continue
		}
		byRole[c.Role] = c
	}
	return &StaticAuthService{creds: byRole, ttl: ttl, logger: logger}
}

func (s *StaticAuthService) Login(_ context.Context, input models.LoginInput, role string) (*models.StaffToken, error) {
	invalid := utils.Unauthorized("Invalid email or password")

	cred, ok := s.creds[role]
	if !ok {
		return nil, invalid
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !strings.EqualFold(email, cred.Email) {
		return nil, invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(input.Password)); err != nil {
		s.logger.Info("staff login rejected", zap.String("role", role), zap.String("email", email))
		return nil, invalid
	}

	token, err := utils.GenerateToken(email, email, role, s.ttl)
	if err != nil {
		return nil, utils.Internal("failed to issue token", err)
	}
	s.logger.Info("staff login",
		zap.String("role", role),
		zap.String("email", email),
		zap.String("token", utils.HashToken(token)[:12]),
	)
	return &models.StaffToken{
		Token:     token,
		Role:      role,
		Email:     email,
		ExpiresIn: int64(s.ttl.Seconds()),
	}, nil
}
