package api

import (
	"net/http"

	"github.com/vytor/talentscout/internal/errors"
	"github.com/vytor/talentscout/internal/models"
)

type sessionResponse struct {
	UserID   string              `json:"user_id"`
	UserType models.UserType     `json:"user_type"`
	Profile  *models.BaseProfile `json:"profile"`
}

// handleSession serves the session copy of the base profile, which the
// basic profile form refreshes after every successful write.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	p, err := sess.Profile(r.Context())
	if err != nil {
		handleError(w, r, errors.NewGatewayError(http.StatusBadGateway, "failed to load session profile", err))
		return
	}
	writeJSON(w, r, http.StatusOK, sessionResponse{
		UserID:   sess.UserID(),
		UserType: sess.UserType(),
		Profile:  p,
	})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"notifications": s.Inbox.Drain(sess.UserID()),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.Sessions.End(r.Context(), sess.UserID())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEvaluations(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	filter := models.EvaluationFilter{Status: models.EvaluationStatus(r.URL.Query().Get("status"))}
	evals, err := s.Evaluations.List(r.Context(), sess, filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if evals == nil {
		evals = []models.Evaluation{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"evaluations": evals})
}

func (s *Server) handleEvaluationSummary(w http.ResponseWriter, r *http.Request) {
	sess, err := sessionFrom(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	sum, err := s.Evaluations.Summary(r.Context(), sess)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sum)
}

func (s *Server) handleExperts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dir, err := s.Experts.Search(r.Context(), models.ExpertSearch{
		Term:  q.Get("q"),
		Sport: q.Get("sport"),
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dir)
}
