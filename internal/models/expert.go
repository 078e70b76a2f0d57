package models

import "time"

// ExpertProfile is the experts row, keyed by the profile id. Rating is
// maintained elsewhere and is never written by profile forms.
type ExpertProfile struct {
	ID                    string    `json:"id"`
	Specialization        string    `json:"specialization"`
	YearsExperience       int       `json:"years_experience"`
	Qualifications        []string  `json:"qualifications"`
	SportsExpertise       []string  `json:"sports_expertise"`
	Certifications        []string  `json:"certifications"`
	PreferredTrainingType []string  `json:"preferred_training_type"`
	Availability          []string  `json:"availability"`
	Rating                *float64  `json:"rating"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// NewExpertProfile returns the zero-valued record used when no row exists yet.
func NewExpertProfile(id string, now time.Time) ExpertProfile {
	return ExpertProfile{
		ID:                    id,
		Qualifications:        []string{},
		SportsExpertise:       []string{},
		Certifications:        []string{},
		PreferredTrainingType: []string{},
		Availability:          []string{},
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// Clone returns a deep copy.
func (p ExpertProfile) Clone() ExpertProfile {
	out := p
	out.Qualifications = cloneList(p.Qualifications)
	out.SportsExpertise = cloneList(p.SportsExpertise)
	out.Certifications = cloneList(p.Certifications)
	out.PreferredTrainingType = cloneList(p.PreferredTrainingType)
	out.Availability = cloneList(p.Availability)
	if p.Rating != nil {
		r := *p.Rating
		out.Rating = &r
	}
	return out
}

// ExpertProfileUpdate is the parsed expert form.
type ExpertProfileUpdate struct {
	Specialization        string
	YearsExperience       int
	Qualifications        []string
	SportsExpertise       []string
	Certifications        []string
	PreferredTrainingType []string
	Availability          []string
}

// Row builds the upsert payload for id.
func (u ExpertProfileUpdate) Row(id string, at time.Time) ExpertProfile {
	return u.ApplyTo(NewExpertProfile(id, at), at)
}

// ApplyTo merges the update over p; Rating and CreatedAt carry over.
func (u ExpertProfileUpdate) ApplyTo(p ExpertProfile, at time.Time) ExpertProfile {
	out := p.Clone()
	out.Specialization = u.Specialization
	out.YearsExperience = u.YearsExperience
	out.Qualifications = cloneList(u.Qualifications)
	out.SportsExpertise = cloneList(u.SportsExpertise)
	out.Certifications = cloneList(u.Certifications)
	out.PreferredTrainingType = cloneList(u.PreferredTrainingType)
	out.Availability = cloneList(u.Availability)
	out.UpdatedAt = at
	return out
}

// ExpertListing is one row of the expert_directory view.
type ExpertListing struct {
	ID              string   `json:"id"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Bio             *string  `json:"bio"`
	AvatarURL       *string  `json:"avatar_url"`
	Specialization  string   `json:"specialization"`
	YearsExperience int      `json:"years_experience"`
	SportsExpertise []string `json:"sports_expertise"`
	Availability    []string `json:"availability"`
	Rating          *float64 `json:"rating"`
}

// Name is the display name used for directory search.
func (l ExpertListing) Name() string {
	if l.LastName == "" {
		return l.FirstName
	}
	return l.FirstName + " " + l.LastName
}

type ExpertSearch struct {
	Term  string
	Sport string
}

type ExpertDirectory struct {
	Experts []ExpertListing `json:"experts"`
	Sports  []string        `json:"sports"`
}
