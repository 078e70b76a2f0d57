package models

import "time"

// YouthAthleteProfile is the youth_athletes row, keyed by the profile id.
type YouthAthleteProfile struct {
	ID                   string    `json:"id"`
	Age                  int       `json:"age"`
	PrimarySport         string    `json:"primary_sport"`
	ExperienceYears      int       `json:"experience_years"`
	CurrentLevel         *string   `json:"current_level"`
	School               *string   `json:"school"`
	Grade                *string   `json:"grade"`
	SecondarySports      []string  `json:"secondary_sports"`
	Goals                []string  `json:"goals"`
	TrainingAvailability []string  `json:"training_availability"`
	Achievements         []string  `json:"achievements"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// NewYouthAthleteProfile returns the zero-valued record used when no row
// exists yet. List fields are empty, never nil.
func NewYouthAthleteProfile(id string, now time.Time) YouthAthleteProfile {
	return YouthAthleteProfile{
		ID:                   id,
		SecondarySports:      []string{},
		Goals:                []string{},
		TrainingAvailability: []string{},
		Achievements:         []string{},
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// Clone returns a deep copy.
func (p YouthAthleteProfile) Clone() YouthAthleteProfile {
	out := p
	out.CurrentLevel = cloneString(p.CurrentLevel)
	out.School = cloneString(p.School)
	out.Grade = cloneString(p.Grade)
	out.SecondarySports = cloneList(p.SecondarySports)
	out.Goals = cloneList(p.Goals)
	out.TrainingAvailability = cloneList(p.TrainingAvailability)
	out.Achievements = cloneList(p.Achievements)
	return out
}

// YouthAthleteUpdate is the parsed youth form. achievements is not part of it.
type YouthAthleteUpdate struct {
	Age                  int
	PrimarySport         string
	ExperienceYears      int
	CurrentLevel         *string
	School               *string
	Grade                *string
	SecondarySports      []string
	Goals                []string
	TrainingAvailability []string
}

// Row builds the upsert payload for id.
func (u YouthAthleteUpdate) Row(id string, at time.Time) YouthAthleteProfile {
	return u.ApplyTo(NewYouthAthleteProfile(id, at), at)
}

// ApplyTo merges the update over p, keeping fields the form does not edit.
func (u YouthAthleteUpdate) ApplyTo(p YouthAthleteProfile, at time.Time) YouthAthleteProfile {
	out := p.Clone()
	out.Age = u.Age
	out.PrimarySport = u.PrimarySport
	out.ExperienceYears = u.ExperienceYears
	out.CurrentLevel = cloneString(u.CurrentLevel)
	out.School = cloneString(u.School)
	out.Grade = cloneString(u.Grade)
	out.SecondarySports = cloneList(u.SecondarySports)
	out.Goals = cloneList(u.Goals)
	out.TrainingAvailability = cloneList(u.TrainingAvailability)
	if out.Achievements == nil {
		out.Achievements = []string{}
	}
	out.UpdatedAt = at
	return out
}
