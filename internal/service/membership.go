package service

import (
	"context"
	"time"

	"commonground-backend/internal/domain"
	"commonground-backend/internal/repository"
)

type membershipService struct {
	tx             repository.TxManager
	membershipRepo repository.MembershipRepository
	profileRepo    repository.ProfileRepository
	now            func() time.Time
}

func NewMembershipService(
	tx repository.TxManager,
	membershipRepo repository.MembershipRepository,
	profileRepo repository.ProfileRepository,
) MembershipService {
	return &membershipService{
		tx:             tx,
		membershipRepo: membershipRepo,
		profileRepo:    profileRepo,
		now:            time.Now,
	}
}

func (s *membershipService) Deactivate(ctx context.Context, membershipID int32) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		membership, err := s.membershipRepo.GetByID(ctx, membershipID)
		if err != nil {
			return err
		}
		return s.deactivate(ctx, membership)
	})
}

// deactivate turns the membership off and deactivates every profile the
// member owns in the community. Sharing a profile with others does not
// keep it active when its owner leaves.
func (s *membershipService) deactivate(ctx context.Context, membership *domain.Membership) error {
	membership.Status = domain.MembershipStatusInactive
	membership.ActivatedOn = nil
	if err := s.membershipRepo.Update(ctx, membership); err != nil {
		return err
	}
	return s.profileRepo.DeactivateOwnedByUser(ctx, membership.UserID, membership.CommunityID)
}

func (s *membershipService) Leave(ctx context.Context, userID, communityID int32) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		membership, err := s.membershipRepo.GetByUserAndCommunity(ctx, userID, communityID)
		if err != nil {
			return err
		}
		if membership == nil || !membership.Active() {
			return domain.NotFoundError("user %d is not an active member of community %d", userID, communityID)
		}
		if membership.Role == domain.MembershipRoleOwner {
			return domain.ForbiddenError("the owner must transfer ownership before leaving")
		}
		return s.deactivate(ctx, membership)
	})
}

func (s *membershipService) Remove(ctx context.Context, communityID, membershipID, actingUserID int32) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.requireActiveOwner(ctx, communityID, actingUserID); err != nil {
			return err
		}
		target, err := s.membershipRepo.GetByID(ctx, membershipID)
		if err != nil {
			return err
		}
		if target.CommunityID != communityID {
			return domain.NotFoundError("membership %d not found in community %d", membershipID, communityID)
		}
		if target.Role == domain.MembershipRoleOwner {
			return domain.ForbiddenError("the owner cannot be removed")
		}
		return s.deactivate(ctx, target)
	})
}

func (s *membershipService) UpdateRole(ctx context.Context, communityID, membershipID int32, newRole domain.MembershipRole, actingUserID int32) (*domain.Membership, error) {
	if !domain.ValidMembershipRole(string(newRole)) {
		return nil, domain.InvalidError("unknown role %q", newRole)
	}

	var target *domain.Membership
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		acting, err := s.requireActiveOwner(ctx, communityID, actingUserID)
		if err != nil {
			return err
		}

		target, err = s.membershipRepo.GetByID(ctx, membershipID)
		if err != nil {
			return err
		}
		if target.CommunityID != communityID {
			return domain.NotFoundError("membership %d not found in community %d", membershipID, communityID)
		}
		if !target.Active() {
			return domain.InvalidStateError("membership %d is not active", target.ID)
		}
		if target.Role == domain.MembershipRoleOwner {
			// The single active owner is the acting user; the owner role
			// only changes by transferring it to someone else.
			return domain.ForbiddenError("ownership can only be transferred to another membership")
		}

		switch newRole {
		case domain.MembershipRoleOwner:
			// Ownership transfer: demote the acting owner first so the
			// one-active-owner index never sees two owners.
			acting.Role = domain.MembershipRoleModerator
			if err := s.membershipRepo.Update(ctx, acting); err != nil {
				return err
			}
			target.Role = domain.MembershipRoleOwner
			return s.membershipRepo.Update(ctx, target)

		case domain.MembershipRoleMember:
			demotedFromModerator := target.Role == domain.MembershipRoleModerator
			target.Role = domain.MembershipRoleMember
			if err := s.membershipRepo.Update(ctx, target); err != nil {
				return err
			}
			if demotedFromModerator {
				// Sharing grants do not survive a moderator's demotion.
				return s.profileRepo.DeleteAdminOwnershipsInCommunity(ctx, target.UserID, communityID)
			}
			return nil

		default:
			target.Role = newRole
			return s.membershipRepo.Update(ctx, target)
		}
	})
	if err != nil {
		return nil, err
	}
	return target, nil
}

func (s *membershipService) Get(ctx context.Context, userID, communityID int32) (*domain.Membership, error) {
	membership, err := s.membershipRepo.GetByUserAndCommunity(ctx, userID, communityID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, domain.NotFoundError("user %d has no membership in community %d", userID, communityID)
	}
	return membership, nil
}

func (s *membershipService) ListMembers(ctx context.Context, communityID int32) ([]domain.Membership, error) {
	return s.membershipRepo.ListByCommunity(ctx, communityID, true)
}

// requireActiveOwner loads the acting user's membership and checks they
// are the community's active owner. The read happens inside the same
// transaction as the write it gates.
func (s *membershipService) requireActiveOwner(ctx context.Context, communityID, userID int32) (*domain.Membership, error) {
	membership, err := s.membershipRepo.GetByUserAndCommunity(ctx, userID, communityID)
	if err != nil {
		return nil, err
	}
	if membership == nil || !membership.Active() || membership.Role != domain.MembershipRoleOwner {
		return nil, domain.ForbiddenError("user %d is not the active owner of community %d", userID, communityID)
	}
	return membership, nil
}
