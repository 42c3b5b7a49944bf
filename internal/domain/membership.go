package domain

import "time"

type MembershipRole string

const (
	MembershipRoleOwner     MembershipRole = "OWNER"
	MembershipRoleModerator MembershipRole = "MODERATOR"
	MembershipRoleMember    MembershipRole = "MEMBER"
)

type MembershipStatus string

const (
	MembershipStatusActive   MembershipStatus = "ACTIVE"
	MembershipStatusInactive MembershipStatus = "INACTIVE"
)

// Membership binds a user to a community. There is exactly one row per
// (user, community) pair for all time: leaving deactivates the row and
// rejoining reactivates it. ActivatedOn is an audit timestamp; Status is
// the authoritative state.
type Membership struct {
	ID            int32            `json:"id"`
	UserID        int32            `json:"user_id"`
	CommunityID   int32            `json:"community_id"`
	Role          MembershipRole   `json:"role"`
	Status        MembershipStatus `json:"status"`
	ActivatedOn   *time.Time       `json:"activated_on,omitempty"`
	ApplicationID *int32           `json:"application_id,omitempty"`
	CreatedOn     time.Time        `json:"created_on"`
}

func (m *Membership) Active() bool {
	return m.Status == MembershipStatusActive
}

// ValidMembershipRole reports whether s names a known role.
func ValidMembershipRole(s string) bool {
	switch MembershipRole(s) {
	case MembershipRoleOwner, MembershipRoleModerator, MembershipRoleMember:
		return true
	}
	return false
}
