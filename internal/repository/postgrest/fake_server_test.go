package postgrest

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/vytor/talentscout/internal/models"
	"github.com/vytor/talentscout/internal/repository"
)

// fakePostgREST serves the subset of the PostgREST protocol the client uses,
// backed by another gateway implementation.
type fakePostgREST struct {
	gw     repository.Gateway
	apiKey string
}

func (f *fakePostgREST) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("apikey") != f.apiKey {
		writeJSON(w, http.StatusUnauthorized, errorBody{Message: "Invalid API key"})
		return
	}

	table := strings.TrimPrefix(r.URL.Path, "/rest/v1/")
	q := r.URL.Query()
	id := strings.TrimPrefix(q.Get("id"), "eq.")
	ctx := r.Context()

	switch {
	case r.Method == http.MethodGet && table == profilesTable:
		p, err := f.gw.Profiles.Get(ctx, id)
		writeRows(w, p, err)

	case r.Method == http.MethodPatch && table == profilesTable:
		var patch basicPatch
		if !decodeStrict(w, r, &patch) {
			return
		}
		method, _ := models.ParseContactMethod(patch.PreferredContactMethod)
		err := f.gw.Profiles.UpdateBasic(ctx, id, models.BasicProfileUpdate{
			FirstName:              patch.FirstName,
			LastName:               patch.LastName,
			Bio:                    patch.Bio,
			PhoneText:              patch.PhoneText,
			PreferredContactMethod: method,
			TimeZone:               patch.TimeZone,
		}, patch.UpdatedAt)
		if err != nil {
			writeRows(w, nil, err)
			return
		}
		p, err := f.gw.Profiles.Get(ctx, id)
		writeRows(w, p, err)

	case r.Method == http.MethodGet && table == youthTable:
		p, err := f.gw.Youth.Get(ctx, id)
		writeRows(w, p, err)

	case r.Method == http.MethodPost && table == youthTable:
		if !isMerge(w, r) {
			return
		}
		var b youthUpsert
		if !decodeStrict(w, r, &b) {
			return
		}
		row := models.NewYouthAthleteProfile(b.ID, time.Now().UTC())
		row.Age, row.PrimarySport, row.ExperienceYears = b.Age, b.PrimarySport, b.ExperienceYears
		row.CurrentLevel, row.School, row.Grade = b.CurrentLevel, b.School, b.Grade
		row.SecondarySports, row.Goals, row.TrainingAvailability = b.SecondarySports, b.Goals, b.TrainingAvailability
		row.UpdatedAt = b.UpdatedAt
		writeCreated(w, f.gw.Youth.Upsert(ctx, row))

	case r.Method == http.MethodGet && table == expertsTable:
		p, err := f.gw.Experts.Get(ctx, id)
		writeRows(w, p, err)

	case r.Method == http.MethodPost && table == expertsTable:
		if !isMerge(w, r) {
			return
		}
		var b expertUpsert
		if !decodeStrict(w, r, &b) {
			return
		}
		row := models.NewExpertProfile(b.ID, time.Now().UTC())
		row.Specialization, row.YearsExperience = b.Specialization, b.YearsExperience
		row.Qualifications, row.SportsExpertise, row.Certifications = b.Qualifications, b.SportsExpertise, b.Certifications
		row.PreferredTrainingType, row.Availability = b.PreferredTrainingType, b.Availability
		row.UpdatedAt = b.UpdatedAt
		writeCreated(w, f.gw.Experts.Upsert(ctx, row))

	case r.Method == http.MethodGet && table == directoryTable:
		listings, err := f.gw.Experts.ListDirectory(ctx)
		if err != nil {
			writeGatewayError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listings)

	case r.Method == http.MethodGet && table == evaluationsTable:
		filter := models.EvaluationFilter{Status: models.EvaluationStatus(strings.TrimPrefix(q.Get("status"), "eq."))}
		evals, err := f.gw.Evaluations.ListByYouth(ctx, strings.TrimPrefix(q.Get("youth_id"), "eq."), filter)
		if err != nil {
			writeGatewayError(w, err)
			return
		}
		rows := make([]evaluationRow, 0, len(evals))
		for _, e := range evals {
			rows = append(rows, evaluationRow{
				ID: e.ID, YouthID: e.YouthID, ExpertID: e.ExpertID, Title: e.Title, Sport: e.Sport,
				EvaluatedAt: e.EvaluatedAt, EvaluatorName: e.EvaluatorName,
				Technique: e.Skills.Technique, Strength: e.Skills.Strength, Speed: e.Skills.Speed,
				Endurance: e.Skills.Endurance, GameAwareness: e.Skills.GameAwareness,
				Comments: e.Comments, Status: e.Status,
			})
		}
		writeJSON(w, http.StatusOK, rows)

	default:
		writeJSON(w, http.StatusNotFound, errorBody{Code: "PGRST205", Message: "unknown route " + r.Method + " " + table})
	}
}

func isMerge(w http.ResponseWriter, r *http.Request) bool {
	if r.URL.Query().Get("on_conflict") != "id" || !strings.Contains(r.Header.Get("Prefer"), "resolution=merge-duplicates") {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "expected merge-duplicates upsert on id"})
		return false
	}
	return true
}

func decodeStrict(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "PGRST102", Message: err.Error()})
		return false
	}
	return true
}

func writeRows(w http.ResponseWriter, row any, err error) {
	switch {
	case repository.IsNotFound(err):
		writeJSON(w, http.StatusOK, []any{})
	case err != nil:
		writeGatewayError(w, err)
	default:
		writeJSON(w, http.StatusOK, []any{row})
	}
}

func writeCreated(w http.ResponseWriter, err error) {
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func writeGatewayError(w http.ResponseWriter, err error) {
	code := repository.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case repository.CodeUniqueViolation, repository.CodeForeignKey:
		status = http.StatusConflict
	case repository.CodeNotNull, repository.CodeCheckViolation:
		status = http.StatusBadRequest
	case repository.CodePermissionDenied:
		status = http.StatusForbidden
	}
	writeJSON(w, status, errorBody{Code: code, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
