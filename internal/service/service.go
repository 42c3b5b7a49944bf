package service

import (
	"context"

	"commonground-backend/internal/domain"
)

type SubmitApplicationParams struct {
	ProfileName     string `json:"profile_name"`
	ProfileUsername string `json:"profile_username"`
	Message         string `json:"message"`
}

// ApplicationService governs the community-join application lifecycle.
// Every mutation runs in a single transaction; a returned domain error
// guarantees no write was committed.
type ApplicationService interface {
	Submit(ctx context.Context, userID, communityID int32, params SubmitApplicationParams) (*domain.Application, error)
	// Approve activates (or reactivates) the applicant's membership and
	// profile and marks the application approved.
	Approve(ctx context.Context, applicationID, reviewerUserID int32) (*domain.Membership, *domain.Profile, error)
	Reject(ctx context.Context, applicationID, reviewerUserID int32, reason string) (*domain.Application, error)
	// Revoke resets an approved application to pending and deactivates
	// the membership and profile its approval produced.
	Revoke(ctx context.Context, applicationID, actingUserID int32) (*domain.Application, error)
	Get(ctx context.Context, applicationID int32) (*domain.Application, error)
	ListByCommunity(ctx context.Context, communityID, actingUserID int32, status domain.ApplicationStatus) ([]domain.Application, error)
}

// MembershipService owns membership activation state and role
// transitions, including ownership transfer.
type MembershipService interface {
	Deactivate(ctx context.Context, membershipID int32) error
	Leave(ctx context.Context, userID, communityID int32) error
	Remove(ctx context.Context, communityID, membershipID, actingUserID int32) error
	UpdateRole(ctx context.Context, communityID, membershipID int32, newRole domain.MembershipRole, actingUserID int32) (*domain.Membership, error)
	Get(ctx context.Context, userID, communityID int32) (*domain.Membership, error)
	ListMembers(ctx context.Context, communityID int32) ([]domain.Membership, error)
}

// ProfileService handles profile sharing and profile queries.
type ProfileService interface {
	Share(ctx context.Context, ownerUserID, profileID, communityID int32, targetUsername string, role domain.OwnershipRole) (*domain.ProfileOwnership, error)
	RemoveSharing(ctx context.Context, actingUserID, profileID, targetUserID int32) error
	Get(ctx context.Context, profileID int32) (*domain.Profile, error)
	GetUserProfiles(ctx context.Context, userID, communityID int32) ([]domain.Profile, error)
	GetProfileUsers(ctx context.Context, profileID int32) ([]domain.ProfileOwnership, error)
	CanManageProfile(ctx context.Context, userID, profileID int32) (bool, error)
	CanUseProfile(ctx context.Context, userID, profileID int32) (bool, error)
	// GetPrimaryProfileID returns 0 when the user has no primary profile
	// in the community.
	GetPrimaryProfileID(ctx context.Context, userID, communityID int32) (int32, error)
	SetPrimaryProfile(ctx context.Context, userID, profileID int32) error
	// SetAvatar points the profile at a new stored avatar blob and
	// returns the key it replaced so the caller can clean the old blob
	// up.
	SetAvatar(ctx context.Context, userID, profileID int32, avatarKey string) (string, error)
}

type CreateCommunityParams struct {
	Slug            string `json:"slug"`
	Name            string `json:"name"`
	ProfileName     string `json:"profile_name"`
	ProfileUsername string `json:"profile_username"`
}

type CommunityService interface {
	// Create creates the community and seeds the creator as its active
	// owner with a primary profile, all in one transaction.
	Create(ctx context.Context, creatorUserID int32, params CreateCommunityParams) (*domain.Community, error)
	Get(ctx context.Context, id int32) (*domain.Community, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Community, error)
	List(ctx context.Context) ([]domain.Community, error)
}

type AuthService interface {
	Signup(ctx context.Context, loginName, email, password string) (*domain.User, string, string, error) // user, access, refresh
	Login(ctx context.Context, loginName, password string) (*domain.User, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

type EmailService interface {
	SendApplicationApproved(ctx context.Context, email, name, communityName string) error
	SendApplicationRejected(ctx context.Context, email, name, communityName, reason string) error
	SendPendingApplicationsReminder(ctx context.Context, email, name, communityName string, count int32) error
}
