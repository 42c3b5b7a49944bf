package service

import (
	"context"

	"commonground-backend/internal/domain"
	"commonground-backend/internal/repository"
)

type profileService struct {
	tx             repository.TxManager
	profileRepo    repository.ProfileRepository
	membershipRepo repository.MembershipRepository
}

func NewProfileService(
	tx repository.TxManager,
	profileRepo repository.ProfileRepository,
	membershipRepo repository.MembershipRepository,
) ProfileService {
	return &profileService{
		tx:             tx,
		profileRepo:    profileRepo,
		membershipRepo: membershipRepo,
	}
}

func (s *profileService) Share(ctx context.Context, ownerUserID, profileID, communityID int32, targetUsername string, role domain.OwnershipRole) (*domain.ProfileOwnership, error) {
	if role == "" {
		role = domain.OwnershipRoleAdmin
	}
	if role != domain.OwnershipRoleAdmin {
		return nil, domain.InvalidError("only admin access can be granted, not %q", role)
	}

	var grant *domain.ProfileOwnership
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		profile, err := s.profileRepo.GetByID(ctx, profileID)
		if err != nil {
			return err
		}
		if profile.CommunityID != communityID || profile.DeletedOn != nil {
			return domain.NotFoundError("profile %d not found in community %d", profileID, communityID)
		}
		if err := s.requireManager(ctx, ownerUserID, profileID); err != nil {
			return err
		}
		if profile.IsPrimary {
			return domain.ForbiddenError("primary profiles cannot be shared")
		}

		// The grantee is addressed by their own active profile username
		// in the community.
		targetProfile, err := s.profileRepo.GetActiveByUsername(ctx, communityID, targetUsername)
		if err != nil {
			return err
		}
		if targetProfile == nil {
			return domain.NotFoundError("no active profile %q in community %d", targetUsername, communityID)
		}
		targetUserID, err := s.ownerOf(ctx, targetProfile.ID)
		if err != nil {
			return err
		}

		targetMembership, err := s.membershipRepo.GetByUserAndCommunity(ctx, targetUserID, communityID)
		if err != nil {
			return err
		}
		if targetMembership == nil || !targetMembership.Active() {
			return domain.InvalidStateError("user %q is not an active member of community %d", targetUsername, communityID)
		}

		existing, err := s.profileRepo.GetOwnership(ctx, profileID, targetUserID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ConflictError("user %q already has access to this profile", targetUsername)
		}

		grant = &domain.ProfileOwnership{
			ProfileID: profileID,
			UserID:    targetUserID,
			Role:      domain.OwnershipRoleAdmin,
		}
		return s.profileRepo.CreateOwnership(ctx, grant)
	})
	if err != nil {
		return nil, err
	}
	return grant, nil
}

func (s *profileService) RemoveSharing(ctx context.Context, actingUserID, profileID, targetUserID int32) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.profileRepo.GetByID(ctx, profileID); err != nil {
			return err
		}
		if err := s.requireManager(ctx, actingUserID, profileID); err != nil {
			return err
		}

		target, err := s.profileRepo.GetOwnership(ctx, profileID, targetUserID)
		if err != nil {
			return err
		}
		if target == nil {
			return domain.NotFoundError("user %d has no access to profile %d", targetUserID, profileID)
		}
		if target.Role == domain.OwnershipRoleOwner {
			ownerships, err := s.profileRepo.ListOwnershipsByProfile(ctx, profileID)
			if err != nil {
				return err
			}
			if len(ownerships) == 1 {
				// Keeps the profile from ending up with no owner at all.
				return domain.ForbiddenError("the sole owner cannot remove themself; share the profile first")
			}
		}
		return s.profileRepo.DeleteOwnership(ctx, profileID, targetUserID)
	})
}

func (s *profileService) Get(ctx context.Context, profileID int32) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile.DeletedOn != nil {
		return nil, domain.NotFoundError("profile %d not found", profileID)
	}
	return profile, nil
}

func (s *profileService) GetUserProfiles(ctx context.Context, userID, communityID int32) ([]domain.Profile, error) {
	return s.profileRepo.ListByUser(ctx, userID, communityID)
}

func (s *profileService) GetProfileUsers(ctx context.Context, profileID int32) ([]domain.ProfileOwnership, error) {
	if _, err := s.profileRepo.GetByID(ctx, profileID); err != nil {
		return nil, err
	}
	return s.profileRepo.ListOwnershipsByProfile(ctx, profileID)
}

func (s *profileService) CanManageProfile(ctx context.Context, userID, profileID int32) (bool, error) {
	ownership, err := s.profileRepo.GetOwnership(ctx, profileID, userID)
	if err != nil {
		return false, err
	}
	return ownership != nil && ownership.Role == domain.OwnershipRoleOwner, nil
}

func (s *profileService) CanUseProfile(ctx context.Context, userID, profileID int32) (bool, error) {
	ownership, err := s.profileRepo.GetOwnership(ctx, profileID, userID)
	if err != nil {
		return false, err
	}
	return ownership != nil, nil
}

func (s *profileService) GetPrimaryProfileID(ctx context.Context, userID, communityID int32) (int32, error) {
	profile, err := s.profileRepo.GetPrimaryForUser(ctx, userID, communityID)
	if err != nil {
		return 0, err
	}
	if profile == nil {
		return 0, nil
	}
	return profile.ID, nil
}

func (s *profileService) SetPrimaryProfile(ctx context.Context, userID, profileID int32) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		profile, err := s.profileRepo.GetByID(ctx, profileID)
		if err != nil {
			return err
		}
		if profile.DeletedOn != nil {
			return domain.NotFoundError("profile %d not found", profileID)
		}
		if err := s.requireManager(ctx, userID, profileID); err != nil {
			return err
		}
		if err := s.profileRepo.ClearPrimaryForUser(ctx, userID, profile.CommunityID); err != nil {
			return err
		}
		profile.IsPrimary = true
		return s.profileRepo.Update(ctx, profile)
	})
}

func (s *profileService) SetAvatar(ctx context.Context, userID, profileID int32, avatarKey string) (string, error) {
	var oldKey string
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		profile, err := s.profileRepo.GetByID(ctx, profileID)
		if err != nil {
			return err
		}
		if profile.DeletedOn != nil {
			return domain.NotFoundError("profile %d not found", profileID)
		}
		if err := s.requireManager(ctx, userID, profileID); err != nil {
			return err
		}
		oldKey = profile.AvatarKey
		profile.AvatarKey = avatarKey
		return s.profileRepo.Update(ctx, profile)
	})
	if err != nil {
		return "", err
	}
	return oldKey, nil
}

func (s *profileService) requireManager(ctx context.Context, userID, profileID int32) error {
	ownership, err := s.profileRepo.GetOwnership(ctx, profileID, userID)
	if err != nil {
		return err
	}
	if ownership == nil || ownership.Role != domain.OwnershipRoleOwner {
		return domain.ForbiddenError("user %d may not manage profile %d", userID, profileID)
	}
	return nil
}

// ownerOf resolves the user holding the OWNER ownership row of a profile.
func (s *profileService) ownerOf(ctx context.Context, profileID int32) (int32, error) {
	ownerships, err := s.profileRepo.ListOwnershipsByProfile(ctx, profileID)
	if err != nil {
		return 0, err
	}
	for _, o := range ownerships {
		if o.Role == domain.OwnershipRoleOwner {
			return o.UserID, nil
		}
	}
	return 0, domain.NotFoundError("profile %d has no owner", profileID)
}
