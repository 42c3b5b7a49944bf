package service

import (
	"context"
	"time"

	"commonground-backend/internal/domain"
	"commonground-backend/internal/security"

	"github.com/stretchr/testify/mock"
)

// stubTxManager runs the function directly, without a database.
type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByLoginName(ctx context.Context, loginName string) (*domain.User, error) {
	args := m.Called(ctx, loginName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockCommunityRepo
type MockCommunityRepo struct {
	mock.Mock
}

func (m *MockCommunityRepo) Create(ctx context.Context, community *domain.Community) error {
	args := m.Called(ctx, community)
	return args.Error(0)
}
func (m *MockCommunityRepo) GetByID(ctx context.Context, id int32) (*domain.Community, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Community), args.Error(1)
}
func (m *MockCommunityRepo) GetBySlug(ctx context.Context, slug string) (*domain.Community, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Community), args.Error(1)
}
func (m *MockCommunityRepo) List(ctx context.Context) ([]domain.Community, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Community), args.Error(1)
}

// MockApplicationRepo
type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}
func (m *MockApplicationRepo) GetByID(ctx context.Context, id int32) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) GetPendingByUserAndCommunity(ctx context.Context, userID, communityID int32) (*domain.Application, error) {
	args := m.Called(ctx, userID, communityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) PendingUsernameExists(ctx context.Context, communityID int32, username string, excludeID int32) (bool, error) {
	args := m.Called(ctx, communityID, username, excludeID)
	return args.Bool(0), args.Error(1)
}
func (m *MockApplicationRepo) Update(ctx context.Context, app *domain.Application) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}
func (m *MockApplicationRepo) ListByCommunity(ctx context.Context, communityID int32, status domain.ApplicationStatus) ([]domain.Application, error) {
	args := m.Called(ctx, communityID, status)
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) ListStalePendingCommunities(ctx context.Context, cutoff time.Time) (map[int32]int32, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(map[int32]int32), args.Error(1)
}

// MockMembershipRepo
type MockMembershipRepo struct {
	mock.Mock
}

func (m *MockMembershipRepo) Create(ctx context.Context, membership *domain.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}
func (m *MockMembershipRepo) GetByID(ctx context.Context, id int32) (*domain.Membership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}
func (m *MockMembershipRepo) GetByUserAndCommunity(ctx context.Context, userID, communityID int32) (*domain.Membership, error) {
	args := m.Called(ctx, userID, communityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}
func (m *MockMembershipRepo) Update(ctx context.Context, membership *domain.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}
func (m *MockMembershipRepo) ListByCommunity(ctx context.Context, communityID int32, activeOnly bool) ([]domain.Membership, error) {
	args := m.Called(ctx, communityID, activeOnly)
	return args.Get(0).([]domain.Membership), args.Error(1)
}
func (m *MockMembershipRepo) ListActiveReviewers(ctx context.Context, communityID int32) ([]domain.Membership, error) {
	args := m.Called(ctx, communityID)
	return args.Get(0).([]domain.Membership), args.Error(1)
}

// MockProfileRepo
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockProfileRepo) GetByID(ctx context.Context, id int32) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}
func (m *MockProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockProfileRepo) UsernameExists(ctx context.Context, communityID int32, username string, excludeUserID int32) (bool, error) {
	args := m.Called(ctx, communityID, username, excludeUserID)
	return args.Bool(0), args.Error(1)
}
func (m *MockProfileRepo) GetActiveByUsername(ctx context.Context, communityID int32, username string) (*domain.Profile, error) {
	args := m.Called(ctx, communityID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}
func (m *MockProfileRepo) GetOwnedByUsername(ctx context.Context, userID, communityID int32, username string) (*domain.Profile, error) {
	args := m.Called(ctx, userID, communityID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}
func (m *MockProfileRepo) ListByUser(ctx context.Context, userID, communityID int32) ([]domain.Profile, error) {
	args := m.Called(ctx, userID, communityID)
	return args.Get(0).([]domain.Profile), args.Error(1)
}
func (m *MockProfileRepo) DeactivateOwnedByUser(ctx context.Context, userID, communityID int32) error {
	args := m.Called(ctx, userID, communityID)
	return args.Error(0)
}
func (m *MockProfileRepo) GetPrimaryForUser(ctx context.Context, userID, communityID int32) (*domain.Profile, error) {
	args := m.Called(ctx, userID, communityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}
func (m *MockProfileRepo) ClearPrimaryForUser(ctx context.Context, userID, communityID int32) error {
	args := m.Called(ctx, userID, communityID)
	return args.Error(0)
}
func (m *MockProfileRepo) CreateOwnership(ctx context.Context, o *domain.ProfileOwnership) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockProfileRepo) GetOwnership(ctx context.Context, profileID, userID int32) (*domain.ProfileOwnership, error) {
	args := m.Called(ctx, profileID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProfileOwnership), args.Error(1)
}
func (m *MockProfileRepo) ListOwnershipsByProfile(ctx context.Context, profileID int32) ([]domain.ProfileOwnership, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).([]domain.ProfileOwnership), args.Error(1)
}
func (m *MockProfileRepo) DeleteOwnership(ctx context.Context, profileID, userID int32) error {
	args := m.Called(ctx, profileID, userID)
	return args.Error(0)
}
func (m *MockProfileRepo) DeleteAdminOwnershipsInCommunity(ctx context.Context, userID, communityID int32) error {
	args := m.Called(ctx, userID, communityID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendApplicationApproved(ctx context.Context, to, loginName, communityName string) error {
	args := m.Called(ctx, to, loginName, communityName)
	return args.Error(0)
}
func (m *MockEmailService) SendApplicationRejected(ctx context.Context, to, loginName, communityName, reason string) error {
	args := m.Called(ctx, to, loginName, communityName, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendPendingApplicationsReminder(ctx context.Context, to, loginName, communityName string, count int32) error {
	args := m.Called(ctx, to, loginName, communityName, count)
	return args.Error(0)
}

// MockTokenManager
type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) GenerateAccessToken(userID int32, loginName string) (string, error) {
	args := m.Called(userID, loginName)
	return args.String(0), args.Error(1)
}
func (m *MockTokenManager) GenerateRefreshToken(userID int32) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}
func (m *MockTokenManager) ValidateToken(tokenString string, expected security.TokenType) (*security.UserClaims, error) {
	args := m.Called(tokenString, expected)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.UserClaims), args.Error(1)
}
