package domain

import "time"

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "PENDING"
	ApplicationStatusApproved ApplicationStatus = "APPROVED"
	ApplicationStatusRejected ApplicationStatus = "REJECTED"
)

// Application is a request by a user to join a community. Approving it
// activates a membership and a profile; rejecting it is terminal; an
// approved application can be revoked back to pending.
type Application struct {
	ID              int32             `json:"id"`
	CommunityID     int32             `json:"community_id"`
	UserID          int32             `json:"user_id"`
	ProfileName     string            `json:"profile_name"`
	ProfileUsername string            `json:"profile_username"`
	Message         string            `json:"message"`
	Status          ApplicationStatus `json:"status"`
	ReviewerUserID  *int32            `json:"reviewer_user_id,omitempty"`
	ReviewedOn      *time.Time        `json:"reviewed_on,omitempty"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	CreatedOn       time.Time         `json:"created_on"`
}
