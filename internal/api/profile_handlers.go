package api

import (
	"net/http"

	"github.com/vytor/talentscout/internal/errors"
	"github.com/vytor/talentscout/internal/logger"
	"github.com/vytor/talentscout/internal/models"
)

type basicProfileRequest struct {
	FirstName              *formText `json:"firstName"`
	LastName               *formText `json:"lastName"`
	Bio                    *formText `json:"bio"`
	PhoneText              *formText `json:"phoneText"`
	PreferredContactMethod *formText `json:"preferredContactMethod"`
	TimeZone               *formText `json:"timeZone"`
}

func (req basicProfileRequest) form() (models.BasicProfileForm, error) {
	if err := requireFields(
		namedField{"firstName", req.FirstName},
		namedField{"lastName", req.LastName},
		namedField{"preferredContactMethod", req.PreferredContactMethod},
	); err != nil {
		return models.BasicProfileForm{}, err
	}
	return models.BasicProfileForm{
		FirstName:              req.FirstName.text(),
		LastName:               req.LastName.text(),
		Bio:                    req.Bio.text(),
		PhoneText:              req.PhoneText.text(),
		PreferredContactMethod: req.PreferredContactMethod.text(),
		TimeZone:               req.TimeZone.text(),
	}, nil
}

type youthAthleteRequest struct {
	Age                  *formText `json:"age"`
	PrimarySport         *formText `json:"primarySport"`
	ExperienceYears      *formText `json:"experienceYears"`
	CurrentLevel         *formText `json:"currentLevel"`
	School               *formText `json:"school"`
	Grade                *formText `json:"grade"`
	SecondarySports      *formText `json:"secondarySports"`
	Goals                *formText `json:"goals"`
	TrainingAvailability *formText `json:"trainingAvailability"`
}

func (req youthAthleteRequest) form() (models.YouthAthleteForm, error) {
	if err := requireFields(
		namedField{"age", req.Age},
		namedField{"primarySport", req.PrimarySport},
	); err != nil {
		return models.YouthAthleteForm{}, err
	}
	return models.YouthAthleteForm{
		Age:                  req.Age.text(),
		PrimarySport:         req.PrimarySport.text(),
		ExperienceYears:      req.ExperienceYears.text(),
		CurrentLevel:         req.CurrentLevel.text(),
		School:               req.School.text(),
		Grade:                req.Grade.text(),
		SecondarySports:      req.SecondarySports.text(),
		Goals:                req.Goals.text(),
		TrainingAvailability: req.TrainingAvailability.text(),
	}, nil
}

type expertProfileRequest struct {
	Specialization        *formText `json:"specialization"`
	YearsExperience       *formText `json:"yearsExperience"`
	Qualifications        *formText `json:"qualifications"`
	SportsExpertise       *formText `json:"sportsExpertise"`
	Certifications        *formText `json:"certifications"`
	PreferredTrainingType *formText `json:"preferredTrainingType"`
	Availability          *formText `json:"availability"`
}

func (req expertProfileRequest) form() (models.ExpertProfileForm, error) {
	if err := requireFields(
		namedField{"specialization", req.Specialization},
		namedField{"yearsExperience", req.YearsExperience},
	); err != nil {
		return models.ExpertProfileForm{}, err
	}
	return models.ExpertProfileForm{
		Specialization:        req.Specialization.text(),
		YearsExperience:       req.YearsExperience.text(),
		Qualifications:        req.Qualifications.text(),
		SportsExpertise:       req.SportsExpertise.text(),
		Certifications:        req.Certifications.text(),
		PreferredTrainingType: req.PreferredTrainingType.text(),
		Availability:          req.Availability.text(),
	}, nil
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	snap, err := s.Coordinator.Load(r.Context(), sess)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleSubmitBasic(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req basicProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logger.FromContext(r.Context()).Warn("bad basic profile body: %v", err)
		handleError(w, r, errors.NewBadRequestError(err.Error()))
		return
	}
	form, err := req.form()
	if err != nil {
		handleError(w, r, err)
		return
	}

	out, err := s.Handlers.SubmitBasic(r.Context(), sess, form)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleSubmitYouth(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req youthAthleteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logger.FromContext(r.Context()).Warn("bad athlete profile body: %v", err)
		handleError(w, r, errors.NewBadRequestError(err.Error()))
		return
	}
	form, err := req.form()
	if err != nil {
		handleError(w, r, err)
		return
	}

	out, err := s.Handlers.SubmitYouth(r.Context(), sess, form)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleSubmitExpert(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req expertProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logger.FromContext(r.Context()).Warn("bad expert profile body: %v", err)
		handleError(w, r, errors.NewBadRequestError(err.Error()))
		return
	}
	form, err := req.form()
	if err != nil {
		handleError(w, r, err)
		return
	}

	out, err := s.Handlers.SubmitExpert(r.Context(), sess, form)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}
