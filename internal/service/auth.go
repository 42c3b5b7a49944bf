package service

import (
	"context"

	"commonground-backend/internal/domain"
	"commonground-backend/internal/repository"
	"commonground-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

func (s *authService) Signup(ctx context.Context, loginName, email, password string) (*domain.User, string, string, error) {
	if loginName == "" {
		return nil, "", "", domain.InvalidError("login name is required")
	}
	if len(password) < 8 {
		return nil, "", "", domain.InvalidError("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}

	user := &domain.User{
		LoginName:    loginName,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", "", err
	}

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return nil, "", "", err
	}
	return user, access, refresh, nil
}

func (s *authService) Login(ctx context.Context, loginName, password string) (*domain.User, string, string, error) {
	user, err := s.userRepo.GetByLoginName(ctx, loginName)
	if err != nil || user.Deleted() {
		return nil, "", "", domain.ForbiddenError("invalid login name or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", "", domain.ForbiddenError("invalid login name or password")
	}

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return nil, "", "", err
	}
	return user, access, refresh, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refreshToken, security.TokenTypeRefresh)
	if err != nil {
		return "", "", domain.ForbiddenError("invalid refresh token")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil || user.Deleted() {
		return "", "", domain.ForbiddenError("invalid refresh token")
	}

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *authService) issueTokens(user *domain.User) (string, string, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.LoginName)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
