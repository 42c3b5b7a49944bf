package domain

import "time"

type User struct {
	ID           int32      `json:"id"`
	LoginName    string     `json:"login_name"`
	Email        string     `json:"email,omitempty"`
	PasswordHash string     `json:"-"`
	IsAdmin      bool       `json:"is_admin"`
	CreatedOn    time.Time  `json:"created_on"`
	DeletedOn    *time.Time `json:"deleted_on,omitempty"`
}

func (u *User) Deleted() bool {
	return u.DeletedOn != nil
}
