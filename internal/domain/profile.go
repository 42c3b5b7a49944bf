package domain

import "time"

type ProfileStatus string

const (
	ProfileStatusActive   ProfileStatus = "ACTIVE"
	ProfileStatusInactive ProfileStatus = "INACTIVE"
)

// Profile is a per-community display identity. A user accumulates one
// profile per join cycle; old profiles stay deactivated for history.
// Usernames are unique among active, non-deleted profiles per community.
type Profile struct {
	ID          int32         `json:"id"`
	CommunityID int32         `json:"community_id"`
	DisplayName string        `json:"display_name"`
	Username    string        `json:"username"`
	Bio         string        `json:"bio,omitempty"`
	AvatarKey   string        `json:"avatar_key,omitempty"`
	Status      ProfileStatus `json:"status"`
	ActivatedOn *time.Time    `json:"activated_on,omitempty"`
	DeletedOn   *time.Time    `json:"deleted_on,omitempty"`
	IsPrimary   bool          `json:"is_primary"`
	CreatedOn   time.Time     `json:"created_on"`
}

func (p *Profile) Active() bool {
	return p.Status == ProfileStatusActive && p.DeletedOn == nil
}

type OwnershipRole string

const (
	OwnershipRoleOwner OwnershipRole = "OWNER"
	OwnershipRoleAdmin OwnershipRole = "ADMIN"
)

// ProfileOwnership links a user to a profile they can use. Each profile
// has exactly one OWNER row (its creator) and any number of ADMIN rows
// (sharing grants).
type ProfileOwnership struct {
	ID        int32         `json:"id"`
	ProfileID int32         `json:"profile_id"`
	UserID    int32         `json:"user_id"`
	Role      OwnershipRole `json:"role"`
	CreatedOn time.Time     `json:"created_on"`
}
