package jobs

import (
	"context"
	"testing"
	"time"

	"commonground-backend/internal/config"
	"commonground-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type mockApplicationRepo struct{ mock.Mock }

func (m *mockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}
func (m *mockApplicationRepo) GetByID(ctx context.Context, id int32) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *mockApplicationRepo) GetPendingByUserAndCommunity(ctx context.Context, userID, communityID int32) (*domain.Application, error) {
	args := m.Called(ctx, userID, communityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *mockApplicationRepo) PendingUsernameExists(ctx context.Context, communityID int32, username string, excludeID int32) (bool, error) {
	args := m.Called(ctx, communityID, username, excludeID)
	return args.Bool(0), args.Error(1)
}
func (m *mockApplicationRepo) Update(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}
func (m *mockApplicationRepo) ListByCommunity(ctx context.Context, communityID int32, status domain.ApplicationStatus) ([]domain.Application, error) {
	args := m.Called(ctx, communityID, status)
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *mockApplicationRepo) ListStalePendingCommunities(ctx context.Context, cutoff time.Time) (map[int32]int32, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(map[int32]int32), args.Error(1)
}

type mockMembershipRepo struct{ mock.Mock }

func (m *mockMembershipRepo) Create(ctx context.Context, membership *domain.Membership) error {
	return m.Called(ctx, membership).Error(0)
}
func (m *mockMembershipRepo) GetByID(ctx context.Context, id int32) (*domain.Membership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}
func (m *mockMembershipRepo) GetByUserAndCommunity(ctx context.Context, userID, communityID int32) (*domain.Membership, error) {
	args := m.Called(ctx, userID, communityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}
func (m *mockMembershipRepo) Update(ctx context.Context, membership *domain.Membership) error {
	return m.Called(ctx, membership).Error(0)
}
func (m *mockMembershipRepo) ListByCommunity(ctx context.Context, communityID int32, activeOnly bool) ([]domain.Membership, error) {
	args := m.Called(ctx, communityID, activeOnly)
	return args.Get(0).([]domain.Membership), args.Error(1)
}
func (m *mockMembershipRepo) ListActiveReviewers(ctx context.Context, communityID int32) ([]domain.Membership, error) {
	args := m.Called(ctx, communityID)
	return args.Get(0).([]domain.Membership), args.Error(1)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *mockUserRepo) GetByLoginName(ctx context.Context, loginName string) (*domain.User, error) {
	args := m.Called(ctx, loginName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockCommunityRepo struct{ mock.Mock }

func (m *mockCommunityRepo) Create(ctx context.Context, community *domain.Community) error {
	return m.Called(ctx, community).Error(0)
}
func (m *mockCommunityRepo) GetByID(ctx context.Context, id int32) (*domain.Community, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Community), args.Error(1)
}
func (m *mockCommunityRepo) GetBySlug(ctx context.Context, slug string) (*domain.Community, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Community), args.Error(1)
}
func (m *mockCommunityRepo) List(ctx context.Context) ([]domain.Community, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Community), args.Error(1)
}

type mockEmailService struct{ mock.Mock }

func (m *mockEmailService) SendApplicationApproved(ctx context.Context, email, name, communityName string) error {
	return m.Called(ctx, email, name, communityName).Error(0)
}
func (m *mockEmailService) SendApplicationRejected(ctx context.Context, email, name, communityName, reason string) error {
	return m.Called(ctx, email, name, communityName, reason).Error(0)
}
func (m *mockEmailService) SendPendingApplicationsReminder(ctx context.Context, email, name, communityName string, count int32) error {
	return m.Called(ctx, email, name, communityName, count).Error(0)
}

func TestJobRunner_SendPendingApplicationReminders(t *testing.T) {
	appRepo := new(mockApplicationRepo)
	membershipRepo := new(mockMembershipRepo)
	userRepo := new(mockUserRepo)
	communityRepo := new(mockCommunityRepo)
	emailSvc := new(mockEmailService)

	cfg := &config.Config{}
	cfg.Jobs.PendingReminderAfterHours = 48

	jr := NewJobRunner(appRepo, membershipRepo, userRepo, communityRepo, emailSvc, cfg)

	appRepo.On("ListStalePendingCommunities", mock.Anything, mock.AnythingOfType("time.Time")).
		Return(map[int32]int32{1: 3}, nil)
	communityRepo.On("GetByID", mock.Anything, int32(1)).
		Return(&domain.Community{ID: 1, Name: "Chess Club"}, nil)
	membershipRepo.On("ListActiveReviewers", mock.Anything, int32(1)).
		Return([]domain.Membership{
			{ID: 1, UserID: 9, CommunityID: 1, Role: domain.MembershipRoleOwner, Status: domain.MembershipStatusActive},
			{ID: 3, UserID: 4, CommunityID: 1, Role: domain.MembershipRoleModerator, Status: domain.MembershipStatusActive},
		}, nil)
	userRepo.On("GetByID", mock.Anything, int32(9)).
		Return(&domain.User{ID: 9, LoginName: "owner", Email: "owner@example.com"}, nil)
	// Reviewers without an email address are skipped.
	userRepo.On("GetByID", mock.Anything, int32(4)).
		Return(&domain.User{ID: 4, LoginName: "mod"}, nil)
	emailSvc.On("SendPendingApplicationsReminder", mock.Anything, "owner@example.com", "owner", "Chess Club", int32(3)).
		Return(nil)

	jr.SendPendingApplicationReminders()

	emailSvc.AssertExpectations(t)
	emailSvc.AssertNumberOfCalls(t, "SendPendingApplicationsReminder", 1)
}
