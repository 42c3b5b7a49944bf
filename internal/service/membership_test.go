package service

import (
	"context"
	"testing"
	"time"

	"commonground-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMembershipFixture() (*membershipService, *MockMembershipRepo, *MockProfileRepo) {
	membershipRepo := new(MockMembershipRepo)
	profileRepo := new(MockProfileRepo)
	svc := NewMembershipService(stubTxManager{}, membershipRepo, profileRepo).(*membershipService)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, membershipRepo, profileRepo
}

func activeOwner(id, userID, communityID int32) *domain.Membership {
	return &domain.Membership{ID: id, UserID: userID, CommunityID: communityID, Role: domain.MembershipRoleOwner, Status: domain.MembershipStatusActive}
}

func TestMembershipService_Leave(t *testing.T) {
	ctx := context.Background()

	t.Run("DeactivatesMembershipAndOwnedProfiles", func(t *testing.T) {
		svc, membershipRepo, profileRepo := newMembershipFixture()
		membership := &domain.Membership{ID: 7, UserID: 2, CommunityID: 1, Role: domain.MembershipRoleMember, Status: domain.MembershipStatusActive}

		membershipRepo.On("GetByUserAndCommunity", mock.Anything, int32(2), int32(1)).Return(membership, nil)
		membershipRepo.On("Update", mock.Anything, membership).Return(nil)
		profileRepo.On("DeactivateOwnedByUser", mock.Anything, int32(2), int32(1)).Return(nil)

		err := svc.Leave(ctx, 2, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.MembershipStatusInactive, membership.Status)
		assert.Nil(t, membership.ActivatedOn)
		// The role survives deactivation so a rejoin restores it.
		assert.Equal(t, domain.MembershipRoleMember, membership.Role)
		profileRepo.AssertExpectations(t)
	})

	t.Run("OwnerCannotLeave", func(t *testing.T) {
		svc, membershipRepo, _ := newMembershipFixture()

		membershipRepo.On("GetByUserAndCommunity", mock.Anything, int32(9), int32(1)).Return(activeOwner(1, 9, 1), nil)

		err := svc.Leave(ctx, 9, 1)
		assert.True(t, domain.IsCode(err, domain.CodeForbidden))
	})

	t.Run("NotAMember", func(t *testing.T) {
		svc, membershipRepo, _ := newMembershipFixture()

		membershipRepo.On("GetByUserAndCommunity", mock.Anything, int32(2), int32(1)).Return(nil, nil)

		err := svc.Leave(ctx, 2, 1)
		assert.True(t, domain.IsCode(err, domain.CodeNotFound))
	})
}

func TestMembershipService_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("OwnerRemovesMember", func(t *testing.T) {
		svc, membershipRepo, profileRepo := newMembershipFixture()
		target := &domain.Membership{ID: 7, UserID: 2, CommunityID: 1, Role: domain.MembershipRoleMember, Status: domain.MembershipStatusActive}

		membershipRepo.On("GetByUserAndCommunity", mock.Anything, int32(9), int32(1)).Return(activeOwner(1, 9, 1), nil)
		membershipRepo.On("GetByID", mock.Anything, int32(7)).Return(target, nil)
		membershipRepo.On("Update", mock.Anything, target).Return(nil)
		profileRepo.On("DeactivateOwnedByUser", mock.Anything, int32(2), int32(1)).Return(nil)

		err := svc.Remove(ctx, 1, 7, 9)
		require.NoError(t, err)
		assert.Equal(t, domain.MembershipStatusInactive, target.Status)
	})

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		svc, membershipRepo, _ := newMembershipFixture()
		moderator := &domain.Membership{ID: 3, UserID: 4, CommunityID: 1, Role: domain.MembershipRoleModerator, Status: domain.MembershipStatusActive}

		membershipRepo.On("GetByUserAndCommunity", mock.Anything, int32(4), int32(1)).Return(moderator, nil)

		err := svc.Remove(ctx, 1, 7, 4)
		assert.True(t, domain.IsCode(err, domain.CodeForbidden))
	})

	t.Run("OwnerCannotBeRemoved", func(t *testing.T) {
		svc, membershipRepo, _ := newMembershipFixture()

		membershipRepo.On("GetByUserAndCommunity", mock.Anything, int32(9), int32(1)).Return(activeOwner(1, 9, 1), nil)
		membershipRepo.On("GetByID", mock.Anything, int32(1)).Return(activeOwner(1, 9, 1), nil)

		err := svc.Remove(ctx, 1, 1, 9)
		assert.True(t, domain.IsCode(err, domain.CodeForbidden))
	})

	t.Run("WrongCommunity", func(t *testing.T) {
		svc, membershipRepo, _ := newMembershipFixture()
		target := &domain.Membership{ID: 7, UserID: 2, CommunityID: 2, Role: domain.MembershipRoleMember, Status: domain.MembershipStatusActive}

		membershipRepo.On("GetByUserAndCommunity", mock.Anything, int32(9), int32(1)).Return(activeOwner(1, 9, 1), nil)
		membershipRepo.On("GetByID", mock.Anything, int32(7)).Return(target, nil)

		err := svc.Remove(ctx, 1, 7, 9)
		assert.True(t, domain.IsCode(err, domain.CodeNotFound))
	})
}

func TestMembershipService_UpdateRole(t *testing.T) {
	ctx := context.Background()

	t.Run("PromoteToModerator", func(t *testing.T) {
		svc, membershipRepo, _ := newMembershipFixture()
		target := &domain.Membership{ID: 7, UserID: 2, CommunityID: 1, Role: domain.MembershipRoleMember, Status: domain.MembershipStatusActive}

		membershipRepo.On("GetByUserAndCommunity", mock.Anything, int32(9), int32(1)).Return(activeOwner(1, 9, 1), nil)
		membershipRepo.On("GetByID", mock.Anything, int32(7)).Return(target, nil)
		membershipRepo.On("Update", mock.Anything, target).Return(nil)

		updated, err := svc.UpdateRole(ctx, 1, 7, domain.MembershipRoleModerator, 9)
		require.NoError(t, err)
		assert.Equal(t, domain.MembershipRoleModerator, updated.Role)
	})

	t.Run("TransferOwnershipDemotesActingOwnerFirst", func(t *testing.T) {
		svc, membershipRepo, _ := newMembershipFixture()
		acting := activeOwner(1, 9, 1)
		target := &domain.Membership{ID: 7, UserID: 2, CommunityID: 1, Role: domain.MembershipRoleModerator, Status: domain.MembershipStatusActive}

		membershipRepo.On("GetByUserAndCommunity", mock.Anything, int32(9), int32(1)).Return(acting, nil)
		membershipRepo.On("GetByID", mock.Anything, int32(7)).Return(target, nil)
		// The demotion must land before the promotion so there is never a
		// moment with two active owners.
		membershipRepo.On("Update", mock.Anything, acting).Run(func(mock.Arguments) {
			assert.Equal(t, domain.MembershipRoleModerator, target.Role)
		}).Return(nil)
		membershipRepo.On("Update", mock.Anything, target).Return(nil)

		updated, err := svc.UpdateRole(ctx, 1, 7, domain.MembershipRoleOwner, 9)
		require.NoError(t, err)
		assert.Equal(t, domain.MembershipRoleOwner, updated.Role)
		assert.Equal(t, domain.MembershipRoleModerator, acting.Role)
	})

	t.Run("DemotingModeratorRevokesAdminGrants", func(t *testing.T) {
		svc, membershipRepo, profileRepo := newMembershipFixture()
		target := &domain.Membership{ID: 7, UserID: 2, CommunityID: 1, Role: domain.MembershipRoleModerator, Status: domain.MembershipStatusActive}

		membershipRepo.On("GetByUserAndCommunity", mock.Anything, int32(9), int32(1)).Return(activeOwner(1, 9, 1), nil)
		membershipRepo.On("GetByID", mock.Anything, int32(7)).Return(target, nil)
		membershipRepo.On("Update", mock.Anything, target).Return(nil)
		profileRepo.On("DeleteAdminOwnershipsInCommunity", mock.Anything, int32(2), int32(1)).Return(nil)

		updated, err := svc.UpdateRole(ctx, 1, 7, domain.MembershipRoleMember, 9)
		require.NoError(t, err)
		assert.Equal(t, domain.MembershipRoleMember, updated.Role)
		profileRepo.AssertExpectations(t)
	})

	t.Run("MemberToMemberKeepsGrants", func(t *testing.T) {
		svc, membershipRepo, profileRepo := newMembershipFixture()
		target := &domain.Membership{ID: 7, UserID: 2, CommunityID: 1, Role: domain.MembershipRoleMember, Status: domain.MembershipStatusActive}

		membershipRepo.On("GetByUserAndCommunity", mock.Anything, int32(9), int32(1)).Return(activeOwner(1, 9, 1), nil)
		membershipRepo.On("GetByID", mock.Anything, int32(7)).Return(target, nil)
		membershipRepo.On("Update", mock.Anything, target).Return(nil)

		_, err := svc.UpdateRole(ctx, 1, 7, domain.MembershipRoleMember, 9)
		require.NoError(t, err)
		profileRepo.AssertNotCalled(t, "DeleteAdminOwnershipsInCommunity", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("CannotChangeOwnerRoleDirectly", func(t *testing.T) {
		svc, membershipRepo, _ := newMembershipFixture()

		membershipRepo.On("GetByUserAndCommunity", mock.Anything, int32(9), int32(1)).Return(activeOwner(1, 9, 1), nil)
		membershipRepo.On("GetByID", mock.Anything, int32(1)).Return(activeOwner(1, 9, 1), nil)

		_, err := svc.UpdateRole(ctx, 1, 1, domain.MembershipRoleMember, 9)
		assert.True(t, domain.IsCode(err, domain.CodeForbidden))
	})

	t.Run("InactiveTarget", func(t *testing.T) {
		svc, membershipRepo, _ := newMembershipFixture()
		target := &domain.Membership{ID: 7, UserID: 2, CommunityID: 1, Role: domain.MembershipRoleMember, Status: domain.MembershipStatusInactive}

		membershipRepo.On("GetByUserAndCommunity", mock.Anything, int32(9), int32(1)).Return(activeOwner(1, 9, 1), nil)
		membershipRepo.On("GetByID", mock.Anything, int32(7)).Return(target, nil)

		_, err := svc.UpdateRole(ctx, 1, 7, domain.MembershipRoleModerator, 9)
		assert.True(t, domain.IsCode(err, domain.CodeInvalidState))
	})

	t.Run("UnknownRole", func(t *testing.T) {
		svc, _, _ := newMembershipFixture()

		_, err := svc.UpdateRole(ctx, 1, 7, domain.MembershipRole("SUPERUSER"), 9)
		assert.True(t, domain.IsCode(err, domain.CodeInvalid))
	})
}
