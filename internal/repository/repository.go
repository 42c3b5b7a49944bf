package repository

import (
	"context"
	"time"

	"commonground-backend/internal/domain"
)

// TxManager runs fn inside a single database transaction. Repositories
// called with the context passed to fn operate on that transaction, so a
// returned error rolls back every write fn made.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByLoginName(ctx context.Context, loginName string) (*domain.User, error)
}

type CommunityRepository interface {
	Create(ctx context.Context, community *domain.Community) error
	GetByID(ctx context.Context, id int32) (*domain.Community, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Community, error)
	List(ctx context.Context) ([]domain.Community, error)
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id int32) (*domain.Application, error)
	// GetPendingByUserAndCommunity returns the user's pending application
	// in the community, or nil if there is none.
	GetPendingByUserAndCommunity(ctx context.Context, userID, communityID int32) (*domain.Application, error)
	// PendingUsernameExists reports whether another pending application in
	// the community requests exactly username. excludeID skips one
	// application (0 skips none).
	PendingUsernameExists(ctx context.Context, communityID int32, username string, excludeID int32) (bool, error)
	Update(ctx context.Context, app *domain.Application) error
	// ListByCommunity lists applications, optionally filtered by status
	// ("" lists all).
	ListByCommunity(ctx context.Context, communityID int32, status domain.ApplicationStatus) ([]domain.Application, error)
	// ListStalePendingCommunities returns ids of communities that have at
	// least one pending application created before cutoff, with the count
	// of such applications per community.
	ListStalePendingCommunities(ctx context.Context, cutoff time.Time) (map[int32]int32, error)
}

type MembershipRepository interface {
	Create(ctx context.Context, m *domain.Membership) error
	GetByID(ctx context.Context, id int32) (*domain.Membership, error)
	// GetByUserAndCommunity returns the (single) membership row for the
	// pair, or nil if the user never joined.
	GetByUserAndCommunity(ctx context.Context, userID, communityID int32) (*domain.Membership, error)
	Update(ctx context.Context, m *domain.Membership) error
	ListByCommunity(ctx context.Context, communityID int32, activeOnly bool) ([]domain.Membership, error)
	// ListActiveReviewers lists active owner and moderator memberships of
	// the community.
	ListActiveReviewers(ctx context.Context, communityID int32) ([]domain.Membership, error)
}

type ProfileRepository interface {
	Create(ctx context.Context, p *domain.Profile) error
	GetByID(ctx context.Context, id int32) (*domain.Profile, error)
	Update(ctx context.Context, p *domain.Profile) error
	// UsernameExists reports whether any non-deleted profile in the
	// community holds exactly username, including deactivated ones: a
	// username stays claimed by a departed member. When excludeUserID is
	// non-zero, profiles owned by that user are ignored so they can
	// reclaim their own username.
	UsernameExists(ctx context.Context, communityID int32, username string, excludeUserID int32) (bool, error)
	// GetActiveByUsername returns the active, non-deleted profile in the
	// community with exactly username, or nil.
	GetActiveByUsername(ctx context.Context, communityID int32, username string) (*domain.Profile, error)
	// GetOwnedByUsername returns the profile with username in the
	// community whose OWNER ownership row belongs to userID, regardless
	// of activation state, or nil.
	GetOwnedByUsername(ctx context.Context, userID, communityID int32, username string) (*domain.Profile, error)
	// ListByUser lists profiles the user holds any ownership row on.
	// communityID of 0 means all communities.
	ListByUser(ctx context.Context, userID, communityID int32) ([]domain.Profile, error)
	// DeactivateOwnedByUser deactivates every profile in the community
	// whose OWNER ownership row belongs to userID.
	DeactivateOwnedByUser(ctx context.Context, userID, communityID int32) error
	// GetPrimaryForUser returns the user's primary profile in the
	// community, or nil.
	GetPrimaryForUser(ctx context.Context, userID, communityID int32) (*domain.Profile, error)
	// ClearPrimaryForUser unsets the primary flag on every profile owned
	// by the user in the community.
	ClearPrimaryForUser(ctx context.Context, userID, communityID int32) error

	// Ownership rows.
	CreateOwnership(ctx context.Context, o *domain.ProfileOwnership) error
	GetOwnership(ctx context.Context, profileID, userID int32) (*domain.ProfileOwnership, error)
	ListOwnershipsByProfile(ctx context.Context, profileID int32) ([]domain.ProfileOwnership, error)
	DeleteOwnership(ctx context.Context, profileID, userID int32) error
	// DeleteAdminOwnershipsInCommunity removes every ADMIN ownership row
	// the user holds on profiles of the community.
	DeleteAdminOwnershipsInCommunity(ctx context.Context, userID, communityID int32) error
}
