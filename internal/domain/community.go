package domain

import "time"

type Community struct {
	ID        int32      `json:"id"`
	Slug      string     `json:"slug"`
	Name      string     `json:"name"`
	StartsOn  time.Time  `json:"starts_on"`
	EndsOn    *time.Time `json:"ends_on,omitempty"`
	CreatedOn time.Time  `json:"created_on"`
}

// ActiveAt reports whether the community's date window covers t.
func (c *Community) ActiveAt(t time.Time) bool {
	if t.Before(c.StartsOn) {
		return false
	}
	if c.EndsOn != nil && t.After(*c.EndsOn) {
		return false
	}
	return true
}
