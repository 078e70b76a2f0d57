package models

import "time"

// UserType is the role discriminator stored on profiles.user_type.
type UserType string

const (
	UserTypeYouth  UserType = "youth"
	UserTypeExpert UserType = "expert"
)

// Valid reports whether t is one of the known roles.
func (t UserType) Valid() bool {
	return t == UserTypeYouth || t == UserTypeExpert
}

// ContactMethod is the enumerated preferred_contact_method.
type ContactMethod string

const (
	ContactEmail ContactMethod = "email"
	ContactPhone ContactMethod = "phone"
)

// ParseContactMethod returns the method for "email" or "phone".
func ParseContactMethod(s string) (ContactMethod, bool) {
	switch ContactMethod(s) {
	case ContactEmail, ContactPhone:
		return ContactMethod(s), true
	default:
		return "", false
	}
}

// NormalizeContactMethod maps any stored value other than email/phone to absent.
func NormalizeContactMethod(s *string) *ContactMethod {
	if s == nil {
		return nil
	}
	m, ok := ParseContactMethod(*s)
	if !ok {
		return nil
	}
	return &m
}

// BaseProfile is the identity-scoped row in profiles. It is created at
// registration outside this service.
type BaseProfile struct {
	ID                     string         `json:"id"`
	FirstName              string         `json:"first_name"`
	LastName               string         `json:"last_name"`
	Bio                    *string        `json:"bio"`
	PhoneText              *string        `json:"phone_text"`
	PreferredContactMethod *ContactMethod `json:"preferred_contact_method"`
	TimeZone               *string        `json:"time_zone"`
	AvatarURL              *string        `json:"avatar_url"`
	UserType               UserType       `json:"user_type"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
}

// Clone returns a deep copy.
func (p BaseProfile) Clone() BaseProfile {
	out := p
	out.Bio = cloneString(p.Bio)
	out.PhoneText = cloneString(p.PhoneText)
	out.TimeZone = cloneString(p.TimeZone)
	out.AvatarURL = cloneString(p.AvatarURL)
	if p.PreferredContactMethod != nil {
		m := *p.PreferredContactMethod
		out.PreferredContactMethod = &m
	}
	return out
}

// BasicProfileUpdate holds the five mutable columns written by the basic
// profile form. id and user_type are never part of it.
type BasicProfileUpdate struct {
	FirstName              string
	LastName               string
	Bio                    *string
	PhoneText              *string
	PreferredContactMethod ContactMethod
	TimeZone               *string
}

// ApplyTo merges the update over p.
func (u BasicProfileUpdate) ApplyTo(p BaseProfile, at time.Time) BaseProfile {
	out := p.Clone()
	out.FirstName = u.FirstName
	out.LastName = u.LastName
	out.Bio = cloneString(u.Bio)
	out.PhoneText = cloneString(u.PhoneText)
	m := u.PreferredContactMethod
	out.PreferredContactMethod = &m
	out.TimeZone = cloneString(u.TimeZone)
	out.UpdatedAt = at
	return out
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneList(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
