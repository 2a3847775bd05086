package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/evrenos-dev/vaxtrack/internal/app/models"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/apperrors"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/auth"
)

type AuthServiceTestSuite struct {
	suite.Suite
	stores  *memStores
	tokens  *memTokenStore
	service *AuthService
	ctx     context.Context
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.stores = newMemStores()
	s.tokens = &memTokenStore{s: s.stores}
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "vaxtrack.test",
	})
	s.service = NewAuthService(&memUserStore{s: s.stores}, s.tokens, jwtService)
	s.ctx = context.Background()
}

func (s *AuthServiceTestSuite) seedUser(username, password string, active bool) *models.User {
	hash, err := auth.HashPassword(password)
	s.Require().NoError(err)

	s.stores.mu.Lock()
	defer s.stores.mu.Unlock()

	id := int64(len(s.stores.users) + 1)
	user := &models.User{
		ID:       id,
		Username: username,
		Password: hash,
		Name:     "School Coordinator",
		RoleType: models.RoleCoordinator,
		IsActive: active,
	}
	s.stores.users[id] = user
	return user
}

func (s *AuthServiceTestSuite) TestLogin() {
	user := s.seedUser("admin", "admin123", true)

	response, err := s.service.Login(s.ctx, "admin", "admin123")
	s.Require().NoError(err)
	s.Equal(user.ID, response.UserID)
	s.Equal("admin", response.Username)
	s.Equal(string(models.RoleCoordinator), response.RoleType)
	s.NotEmpty(response.AccessToken)
	s.NotEmpty(response.RefreshToken)
	s.Equal("Bearer", response.TokenType)

	// The refresh token is persisted for later exchange
	stored, err := s.tokens.Get(s.ctx, response.RefreshToken)
	s.Require().NoError(err)
	s.Equal(user.ID, stored.UserID)

	// Login stamps the last login time
	updated, err := (&memUserStore{s: s.stores}).GetByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.NotNil(updated.LastLoginAt)
}

func (s *AuthServiceTestSuite) TestLoginWrongPassword() {
	s.seedUser("admin", "admin123", true)

	_, err := s.service.Login(s.ctx, "admin", "wrong")
	s.ErrorIs(err, apperrors.ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestLoginUnknownUser() {
	_, err := s.service.Login(s.ctx, "ghost", "admin123")
	s.ErrorIs(err, apperrors.ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestLoginDisabledAccount() {
	s.seedUser("admin", "admin123", false)

	_, err := s.service.Login(s.ctx, "admin", "admin123")
	s.ErrorIs(err, apperrors.ErrAccountDisabled)
}

func (s *AuthServiceTestSuite) TestRefreshTokenRotates() {
	s.seedUser("admin", "admin123", true)

	login, err := s.service.Login(s.ctx, "admin", "admin123")
	s.Require().NoError(err)

	refreshed, err := s.service.RefreshToken(s.ctx, login.RefreshToken)
	s.Require().NoError(err)
	s.NotEmpty(refreshed.AccessToken)
	s.NotEqual(login.RefreshToken, refreshed.RefreshToken)

	// The spent token cannot be replayed
	_, err = s.service.RefreshToken(s.ctx, login.RefreshToken)
	s.ErrorIs(err, apperrors.ErrTokenNotFound)
}

func (s *AuthServiceTestSuite) TestRefreshTokenExpired() {
	user := s.seedUser("admin", "admin123", true)

	s.Require().NoError(s.tokens.Save(s.ctx, user.ID, "stale-token", time.Now().Add(-time.Hour)))

	_, err := s.service.RefreshToken(s.ctx, "stale-token")
	s.ErrorIs(err, apperrors.ErrTokenExpired)

	// Expired tokens are purged on use
	_, err = s.tokens.Get(s.ctx, "stale-token")
	s.ErrorIs(err, apperrors.ErrTokenNotFound)
}

func (s *AuthServiceTestSuite) TestRefreshTokenUnknown() {
	_, err := s.service.RefreshToken(s.ctx, "never-issued")
	s.ErrorIs(err, apperrors.ErrTokenNotFound)
}
