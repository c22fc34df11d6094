package models

import "time"

// Role discriminates the two kinds of accounts on the platform.
type Role string

const (
	RoleClient       Role = "client"
	RoleProfessional Role = "professional"
)

// Availability is a professional's current working status.
type Availability string

const (
	AvailabilityAvailable Availability = "available"
	AvailabilityBusy      Availability = "busy"
	AvailabilityOffline   Availability = "offline"
)

// UserProfile is one row of the profiles table. AuthID is the subject id
// issued by the auth sub-API; it is set once on first profile completion
// and never changes.
type UserProfile struct {
	ID        string    `json:"id,omitempty"`
	AuthID    string    `json:"auth_id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Role      Role      `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Professional extends a profile with provider-only columns. The embedded
// profile marshals inline, so a Professional maps onto the same profiles
// row with its extra columns populated.
type Professional struct {
	UserProfile
	Specializations []string     `json:"specializations,omitempty"`
	Availability    Availability `json:"availability,omitempty"`
	Portfolio       []string     `json:"portfolio,omitempty"`

	// Services holds joined rows when the read selects them. Not a column.
	Services []Service `json:"services,omitempty"`
}

// User is the tagged account variant. Professional-only fields are only
// reachable after a role check, so a client account can never be read as
// a professional by accident.
type User struct {
	role    Role
	profile UserProfile
	pro     *Professional
}

// NewClientUser wraps a plain client profile.
func NewClientUser(p UserProfile) User {
	p.Role = RoleClient
	return User{role: RoleClient, profile: p}
}

// NewProfessionalUser wraps a professional profile.
func NewProfessionalUser(p Professional) User {
	p.Role = RoleProfessional
	return User{role: RoleProfessional, profile: p.UserProfile, pro: &p}
}

func (u User) Role() Role { return u.role }

// Profile returns the common profile fields shared by both roles.
func (u User) Profile() UserProfile { return u.profile }

// Professional returns the professional variant, or false for a client
// account.
func (u User) Professional() (*Professional, bool) {
	if u.role != RoleProfessional || u.pro == nil {
		return nil, false
	}
	return u.pro, true
}
