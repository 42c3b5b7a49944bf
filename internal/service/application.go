package service

import (
	"context"
	"time"

	"commonground-backend/internal/domain"
	"commonground-backend/internal/logger"
	"commonground-backend/internal/repository"
)

type applicationService struct {
	tx             repository.TxManager
	appRepo        repository.ApplicationRepository
	userRepo       repository.UserRepository
	communityRepo  repository.CommunityRepository
	membershipRepo repository.MembershipRepository
	profileRepo    repository.ProfileRepository
	emailSvc       EmailService
	now            func() time.Time
}

func NewApplicationService(
	tx repository.TxManager,
	appRepo repository.ApplicationRepository,
	userRepo repository.UserRepository,
	communityRepo repository.CommunityRepository,
	membershipRepo repository.MembershipRepository,
	profileRepo repository.ProfileRepository,
	emailSvc EmailService,
) ApplicationService {
	return &applicationService{
		tx:             tx,
		appRepo:        appRepo,
		userRepo:       userRepo,
		communityRepo:  communityRepo,
		membershipRepo: membershipRepo,
		profileRepo:    profileRepo,
		emailSvc:       emailSvc,
		now:            time.Now,
	}
}

func (s *applicationService) Submit(ctx context.Context, userID, communityID int32, params SubmitApplicationParams) (*domain.Application, error) {
	if params.ProfileName == "" || params.ProfileUsername == "" {
		return nil, domain.InvalidError("profile name and username are required")
	}

	var app *domain.Application
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user.Deleted() {
			return domain.NotFoundError("user %d not found", userID)
		}

		community, err := s.communityRepo.GetByID(ctx, communityID)
		if err != nil {
			return err
		}
		if !community.ActiveAt(s.now()) {
			return domain.InvalidStateError("community %q is not active", community.Slug)
		}

		membership, err := s.membershipRepo.GetByUserAndCommunity(ctx, userID, communityID)
		if err != nil {
			return err
		}
		if membership != nil && membership.Active() {
			return domain.ConflictError("user is already an active member of %q", community.Slug)
		}

		pending, err := s.appRepo.GetPendingByUserAndCommunity(ctx, userID, communityID)
		if err != nil {
			return err
		}
		if pending != nil {
			return domain.ConflictError("an application for %q is already pending", community.Slug)
		}

		// A username claimed by anyone else, even on a deactivated
		// profile, blocks the application. The applicant's own profiles
		// are excluded so a departed member can re-apply with the
		// username they held before.
		taken, err := s.profileRepo.UsernameExists(ctx, communityID, params.ProfileUsername, userID)
		if err != nil {
			return err
		}
		if taken {
			return domain.ConflictError("username %q is already taken in this community", params.ProfileUsername)
		}
		requested, err := s.appRepo.PendingUsernameExists(ctx, communityID, params.ProfileUsername, 0)
		if err != nil {
			return err
		}
		if requested {
			return domain.ConflictError("username %q is requested by another pending application", params.ProfileUsername)
		}

		app = &domain.Application{
			CommunityID:     communityID,
			UserID:          userID,
			ProfileName:     params.ProfileName,
			ProfileUsername: params.ProfileUsername,
			Message:         params.Message,
			Status:          domain.ApplicationStatusPending,
		}
		return s.appRepo.Create(ctx, app)
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (s *applicationService) Approve(ctx context.Context, applicationID, reviewerUserID int32) (*domain.Membership, *domain.Profile, error) {
	var (
		membership *domain.Membership
		profile    *domain.Profile
		applicant  *domain.User
		community  *domain.Community
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		app, err := s.appRepo.GetByID(ctx, applicationID)
		if err != nil {
			return err
		}
		if _, err := s.requireReviewer(ctx, app.CommunityID, reviewerUserID); err != nil {
			return err
		}
		if app.Status != domain.ApplicationStatusPending {
			return domain.InvalidStateError("application %d is %s, not pending", app.ID, app.Status)
		}

		applicant, err = s.userRepo.GetByID(ctx, app.UserID)
		if err != nil {
			return err
		}
		community, err = s.communityRepo.GetByID(ctx, app.CommunityID)
		if err != nil {
			return err
		}

		// Re-validate the username against all non-deleted profiles of
		// other users, deactivated ones included. Self-conflicts are
		// allowed so re-approving the same application after a revoke
		// reuses the applicant's own profile.
		taken, err := s.profileRepo.UsernameExists(ctx, app.CommunityID, app.ProfileUsername, app.UserID)
		if err != nil {
			return err
		}
		if taken {
			return domain.ConflictError("username %q is already taken in this community", app.ProfileUsername)
		}

		now := s.now()

		// The membership row is reused across join cycles; only the very
		// first approval creates it, with the member role. Reactivation
		// keeps whatever role the member last held.
		membership, err = s.membershipRepo.GetByUserAndCommunity(ctx, app.UserID, app.CommunityID)
		if err != nil {
			return err
		}
		if membership == nil {
			membership = &domain.Membership{
				UserID:        app.UserID,
				CommunityID:   app.CommunityID,
				Role:          domain.MembershipRoleMember,
				Status:        domain.MembershipStatusActive,
				ActivatedOn:   &now,
				ApplicationID: &app.ID,
			}
			if err := s.membershipRepo.Create(ctx, membership); err != nil {
				return err
			}
		} else {
			membership.Status = domain.MembershipStatusActive
			membership.ActivatedOn = &now
			membership.ApplicationID = &app.ID
			if err := s.membershipRepo.Update(ctx, membership); err != nil {
				return err
			}
		}

		// Unlike the membership, each join cycle with a new username gets
		// a fresh profile row. Re-approval after a revoke finds the
		// deactivated profile from the first approval and reactivates it.
		profile, err = s.profileRepo.GetOwnedByUsername(ctx, app.UserID, app.CommunityID, app.ProfileUsername)
		if err != nil {
			return err
		}
		if profile != nil {
			profile.DisplayName = app.ProfileName
			profile.Status = domain.ProfileStatusActive
			profile.ActivatedOn = &now
			if err := s.profileRepo.Update(ctx, profile); err != nil {
				return err
			}
		} else {
			primary, err := s.profileRepo.GetPrimaryForUser(ctx, app.UserID, app.CommunityID)
			if err != nil {
				return err
			}
			profile = &domain.Profile{
				CommunityID: app.CommunityID,
				DisplayName: app.ProfileName,
				Username:    app.ProfileUsername,
				Status:      domain.ProfileStatusActive,
				ActivatedOn: &now,
				IsPrimary:   primary == nil,
			}
			if err := s.profileRepo.Create(ctx, profile); err != nil {
				return err
			}
			ownership := &domain.ProfileOwnership{
				ProfileID: profile.ID,
				UserID:    app.UserID,
				Role:      domain.OwnershipRoleOwner,
			}
			if err := s.profileRepo.CreateOwnership(ctx, ownership); err != nil {
				return err
			}
		}

		app.Status = domain.ApplicationStatusApproved
		app.ReviewerUserID = &reviewerUserID
		app.ReviewedOn = &now
		app.RejectionReason = ""
		return s.appRepo.Update(ctx, app)
	})
	if err != nil {
		return nil, nil, err
	}

	s.notify(ctx, applicant, func(email string) error {
		return s.emailSvc.SendApplicationApproved(ctx, email, applicant.LoginName, community.Name)
	})
	return membership, profile, nil
}

func (s *applicationService) Reject(ctx context.Context, applicationID, reviewerUserID int32, reason string) (*domain.Application, error) {
	if reason == "" {
		return nil, domain.InvalidError("rejection reason is required")
	}

	var (
		app       *domain.Application
		applicant *domain.User
		community *domain.Community
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		app, err = s.appRepo.GetByID(ctx, applicationID)
		if err != nil {
			return err
		}
		if _, err := s.requireReviewer(ctx, app.CommunityID, reviewerUserID); err != nil {
			return err
		}
		if app.Status != domain.ApplicationStatusPending {
			return domain.InvalidStateError("application %d is %s, not pending", app.ID, app.Status)
		}

		applicant, err = s.userRepo.GetByID(ctx, app.UserID)
		if err != nil {
			return err
		}
		community, err = s.communityRepo.GetByID(ctx, app.CommunityID)
		if err != nil {
			return err
		}

		now := s.now()
		app.Status = domain.ApplicationStatusRejected
		app.ReviewerUserID = &reviewerUserID
		app.ReviewedOn = &now
		app.RejectionReason = reason
		return s.appRepo.Update(ctx, app)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, applicant, func(email string) error {
		return s.emailSvc.SendApplicationRejected(ctx, email, applicant.LoginName, community.Name, reason)
	})
	return app, nil
}

func (s *applicationService) Revoke(ctx context.Context, applicationID, actingUserID int32) (*domain.Application, error) {
	var app *domain.Application
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		app, err = s.appRepo.GetByID(ctx, applicationID)
		if err != nil {
			return err
		}
		if _, err := s.requireReviewer(ctx, app.CommunityID, actingUserID); err != nil {
			return err
		}
		if app.Status != domain.ApplicationStatusApproved {
			return domain.InvalidStateError("application %d is %s, only approved applications can be revoked", app.ID, app.Status)
		}

		// The membership and profile are deactivated, never deleted, so a
		// later re-approval reactivates the very same rows.
		membership, err := s.membershipRepo.GetByUserAndCommunity(ctx, app.UserID, app.CommunityID)
		if err != nil {
			return err
		}
		if membership != nil {
			membership.Status = domain.MembershipStatusInactive
			membership.ActivatedOn = nil
			if err := s.membershipRepo.Update(ctx, membership); err != nil {
				return err
			}
		}

		profile, err := s.profileRepo.GetOwnedByUsername(ctx, app.UserID, app.CommunityID, app.ProfileUsername)
		if err != nil {
			return err
		}
		if profile != nil {
			profile.Status = domain.ProfileStatusInactive
			profile.ActivatedOn = nil
			if err := s.profileRepo.Update(ctx, profile); err != nil {
				return err
			}
		}

		app.Status = domain.ApplicationStatusPending
		app.ReviewerUserID = nil
		app.ReviewedOn = nil
		return s.appRepo.Update(ctx, app)
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (s *applicationService) Get(ctx context.Context, applicationID int32) (*domain.Application, error) {
	return s.appRepo.GetByID(ctx, applicationID)
}

func (s *applicationService) ListByCommunity(ctx context.Context, communityID, actingUserID int32, status domain.ApplicationStatus) ([]domain.Application, error) {
	if _, err := s.requireReviewer(ctx, communityID, actingUserID); err != nil {
		return nil, err
	}
	return s.appRepo.ListByCommunity(ctx, communityID, status)
}

// requireReviewer checks that the user may review applications for the
// community: an active owner or moderator membership, or a platform
// admin.
func (s *applicationService) requireReviewer(ctx context.Context, communityID, userID int32) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Deleted() {
		return nil, domain.NotFoundError("user %d not found", userID)
	}
	if user.IsAdmin {
		return user, nil
	}
	membership, err := s.membershipRepo.GetByUserAndCommunity(ctx, userID, communityID)
	if err != nil {
		return nil, err
	}
	if membership == nil || !membership.Active() || membership.Role == domain.MembershipRoleMember {
		return nil, domain.ForbiddenError("user %d may not review applications for community %d", userID, communityID)
	}
	return user, nil
}

// notify sends a best-effort mail after the transaction committed.
func (s *applicationService) notify(ctx context.Context, user *domain.User, send func(email string) error) {
	if s.emailSvc == nil || user == nil || user.Email == "" {
		return
	}
	if err := send(user.Email); err != nil {
		logger.Warn("Failed to send application notification", "user_id", user.ID, "error", err)
	}
}
