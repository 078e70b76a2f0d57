// Package forms turns raw profile form text into the typed updates the
// gateway writes. It is the only place user-entered strings are trusted.
package forms

import (
	"strconv"
	"strings"

	apperrors "github.com/vytor/talentscout/internal/errors"
	"github.com/vytor/talentscout/internal/models"
)

// ParseList splits a comma-separated field, trims each entry and drops the
// empty ones. Order and duplicates are kept. The result is never nil.
func ParseList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ParseBasic validates the basic profile form.
func ParseBasic(f models.BasicProfileForm) (models.BasicProfileUpdate, error) {
	var u models.BasicProfileUpdate

	first, err := required("firstName", f.FirstName)
	if err != nil {
		return u, err
	}
	last, err := required("lastName", f.LastName)
	if err != nil {
		return u, err
	}
	method, ok := models.ParseContactMethod(strings.TrimSpace(f.PreferredContactMethod))
	if !ok {
		return u, apperrors.NewValidationError("preferredContactMethod", "must be email or phone")
	}

	u.FirstName = first
	u.LastName = last
	u.Bio = optional(f.Bio)
	u.PhoneText = optional(f.PhoneText)
	u.PreferredContactMethod = method
	u.TimeZone = optional(f.TimeZone)
	return u, nil
}

// ParseYouthAthlete validates the youth athlete form.
func ParseYouthAthlete(f models.YouthAthleteForm) (models.YouthAthleteUpdate, error) {
	var u models.YouthAthleteUpdate

	age, err := positiveInt("age", f.Age)
	if err != nil {
		return u, err
	}
	sport, err := required("primarySport", f.PrimarySport)
	if err != nil {
		return u, err
	}
	years, err := optionalInt("experienceYears", f.ExperienceYears)
	if err != nil {
		return u, err
	}

	u.Age = age
	u.PrimarySport = sport
	u.ExperienceYears = years
	u.CurrentLevel = optional(f.CurrentLevel)
	u.School = optional(f.School)
	u.Grade = optional(f.Grade)
	u.SecondarySports = ParseList(f.SecondarySports)
	u.Goals = ParseList(f.Goals)
	u.TrainingAvailability = ParseList(f.TrainingAvailability)
	return u, nil
}

// ParseExpert validates the expert form.
func ParseExpert(f models.ExpertProfileForm) (models.ExpertProfileUpdate, error) {
	var u models.ExpertProfileUpdate

	spec, err := required("specialization", f.Specialization)
	if err != nil {
		return u, err
	}
	years, err := positiveInt("yearsExperience", f.YearsExperience)
	if err != nil {
		return u, err
	}

	u.Specialization = spec
	u.YearsExperience = years
	u.Qualifications = ParseList(f.Qualifications)
	u.SportsExpertise = ParseList(f.SportsExpertise)
	u.Certifications = ParseList(f.Certifications)
	u.PreferredTrainingType = ParseList(f.PreferredTrainingType)
	u.Availability = ParseList(f.Availability)
	return u, nil
}

func required(field, s string) (string, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return "", apperrors.NewValidationError(field, "is required")
	}
	return v, nil
}

// optional keeps the text as entered; only all-blank input becomes nil.
func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func positiveInt(field, s string) (int, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return 0, apperrors.NewValidationError(field, "is required")
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperrors.NewValidationError(field, "must be a whole number")
	}
	if n <= 0 {
		return 0, apperrors.NewValidationError(field, "must be greater than zero")
	}
	return n, nil
}

func optionalInt(field, s string) (int, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperrors.NewValidationError(field, "must be a whole number")
	}
	if n < 0 {
		return 0, apperrors.NewValidationError(field, "must not be negative")
	}
	return n, nil
}
