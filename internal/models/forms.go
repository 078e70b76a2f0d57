package models

import "time"

// Form payloads carry the text exactly as entered; internal/forms turns
// them into typed updates.

type BasicProfileForm struct {
	FirstName              string
	LastName               string
	Bio                    string
	PhoneText              string
	PreferredContactMethod string
	TimeZone               string
}

type YouthAthleteForm struct {
	Age                  string
	PrimarySport         string
	ExperienceYears      string
	CurrentLevel         string
	School               string
	Grade                string
	SecondarySports      string
	Goals                string
	TrainingAvailability string
}

type ExpertProfileForm struct {
	Specialization        string
	YearsExperience       string
	Qualifications        string
	SportsExpertise       string
	Certifications        string
	PreferredTrainingType string
	Availability          string
}

// ProfileSnapshot is the in-memory view of one user's base profile and the
// sub-profile matching their user_type. Profile is nil when the user has not
// been provisioned yet.
type ProfileSnapshot struct {
	UserID   string               `json:"user_id"`
	UserType UserType             `json:"user_type"`
	Profile  *BaseProfile         `json:"profile"`
	Youth    *YouthAthleteProfile `json:"youth_athlete,omitempty"`
	Expert   *ExpertProfile       `json:"expert,omitempty"`
	LoadedAt time.Time            `json:"loaded_at"`
}

// Clone returns a deep copy.
func (s ProfileSnapshot) Clone() ProfileSnapshot {
	out := s
	if s.Profile != nil {
		p := s.Profile.Clone()
		out.Profile = &p
	}
	if s.Youth != nil {
		y := s.Youth.Clone()
		out.Youth = &y
	}
	if s.Expert != nil {
		e := s.Expert.Clone()
		out.Expert = &e
	}
	return out
}
