package service

import (
	"context"
	"time"

	"commonground-backend/internal/domain"
	"commonground-backend/internal/repository"
)

type communityService struct {
	tx             repository.TxManager
	communityRepo  repository.CommunityRepository
	userRepo       repository.UserRepository
	membershipRepo repository.MembershipRepository
	profileRepo    repository.ProfileRepository
	now            func() time.Time
}

func NewCommunityService(
	tx repository.TxManager,
	communityRepo repository.CommunityRepository,
	userRepo repository.UserRepository,
	membershipRepo repository.MembershipRepository,
	profileRepo repository.ProfileRepository,
) CommunityService {
	return &communityService{
		tx:             tx,
		communityRepo:  communityRepo,
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		profileRepo:    profileRepo,
		now:            time.Now,
	}
}

// Create seeds the creator as the community's single active owner with a
// primary profile. Every later member arrives through the application
// workflow.
func (s *communityService) Create(ctx context.Context, creatorUserID int32, params CreateCommunityParams) (*domain.Community, error) {
	if params.Slug == "" || params.Name == "" {
		return nil, domain.InvalidError("community slug and name are required")
	}
	if params.ProfileName == "" || params.ProfileUsername == "" {
		return nil, domain.InvalidError("owner profile name and username are required")
	}

	var community *domain.Community
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		creator, err := s.userRepo.GetByID(ctx, creatorUserID)
		if err != nil {
			return err
		}
		if creator.Deleted() {
			return domain.NotFoundError("user %d not found", creatorUserID)
		}

		now := s.now()
		community = &domain.Community{
			Slug:     params.Slug,
			Name:     params.Name,
			StartsOn: now,
		}
		if err := s.communityRepo.Create(ctx, community); err != nil {
			return err
		}

		membership := &domain.Membership{
			UserID:      creatorUserID,
			CommunityID: community.ID,
			Role:        domain.MembershipRoleOwner,
			Status:      domain.MembershipStatusActive,
			ActivatedOn: &now,
		}
		if err := s.membershipRepo.Create(ctx, membership); err != nil {
			return err
		}

		profile := &domain.Profile{
			CommunityID: community.ID,
			DisplayName: params.ProfileName,
			Username:    params.ProfileUsername,
			Status:      domain.ProfileStatusActive,
			ActivatedOn: &now,
			IsPrimary:   true,
		}
		if err := s.profileRepo.Create(ctx, profile); err != nil {
			return err
		}
		ownership := &domain.ProfileOwnership{
			ProfileID: profile.ID,
			UserID:    creatorUserID,
			Role:      domain.OwnershipRoleOwner,
		}
		return s.profileRepo.CreateOwnership(ctx, ownership)
	})
	if err != nil {
		return nil, err
	}
	return community, nil
}

func (s *communityService) Get(ctx context.Context, id int32) (*domain.Community, error) {
	return s.communityRepo.GetByID(ctx, id)
}

func (s *communityService) GetBySlug(ctx context.Context, slug string) (*domain.Community, error) {
	return s.communityRepo.GetBySlug(ctx, slug)
}

func (s *communityService) List(ctx context.Context) ([]domain.Community, error) {
	return s.communityRepo.List(ctx)
}
