package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/talentscout/internal/api"
	"github.com/vytor/talentscout/internal/models"
	"github.com/vytor/talentscout/internal/notify"
	"github.com/vytor/talentscout/internal/repository/contracttest"
	"github.com/vytor/talentscout/internal/repository/sqlite"
	"github.com/vytor/talentscout/internal/services"
	"github.com/vytor/talentscout/internal/session"
	"github.com/vytor/talentscout/internal/testutil"
)

const jwtSecret = "api-test-secret-0123456789abcdef"

// inboxNotifier delivers synchronously so tests can read the inbox at once.
type inboxNotifier struct{ inbox *notify.Inbox }

func (n inboxNotifier) Notify(ctx context.Context, msg notify.Notification) {
	_ = n.inbox.Deliver(ctx, msg)
}

type envelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"error"`
}

type APISuite struct {
	suite.Suite
	ctx      context.Context
	srv      *httptest.Server
	server   *api.Server
	auth     *session.Authenticator
	seed     *contracttest.SQLSeeder
	closeDB  func()
	readyErr error

	youthID  string
	expertID string
}

func (s *APISuite) SetupTest() {
	s.ctx = context.Background()
	db := testutil.NewTestDB(s.T())
	s.closeDB = func() { testutil.MustClose(s.T(), db) }

	s.seed = contracttest.NewSQLSeeder(func(ctx context.Context, query string, args ...any) error {
		_, err := db.ExecContext(ctx, query, args...)
		return err
	}, squirrel.Question, func(list []string) (any, error) {
		b, err := json.Marshal(list)
		return string(b), err
	})

	gw := sqlite.NewGateway(db)
	inbox := notify.NewInbox(10)
	coord := services.NewProfileCoordinator(gw, time.Second)
	sessions := session.NewManager(gw.Profiles, session.NewMemoryCache(time.Minute))
	sessions.OnEnd(func(ctx context.Context, userID string) {
		coord.Release(ctx, userID)
		inbox.Forget(userID)
	})

	s.auth = session.NewAuthenticator(jwtSecret, "authenticated")
	s.readyErr = nil
	s.server = &api.Server{
		Auth:        s.auth,
		Sessions:    sessions,
		Coordinator: coord,
		Handlers: services.NewProfileHandlers(gw, coord, inboxNotifier{inbox}, services.HandlerConfig{
			Timeout:        2 * time.Second,
			DashboardRoute: "/dashboard",
		}),
		Evaluations: services.NewEvaluationService(gw.Evaluations),
		Experts:     services.NewExpertDirectoryService(gw.Experts),
		Inbox:       inbox,
		Ready:       func(context.Context) error { return s.readyErr },
	}
	s.srv = httptest.NewServer(s.server.Routes())

	s.youthID = uuid.NewString()
	s.expertID = uuid.NewString()
	s.insertProfile(s.youthID, "Lia", "Costa", models.UserTypeYouth)
	s.insertProfile(s.expertID, "Marco", "Reis", models.UserTypeExpert)
}

func (s *APISuite) TearDownTest() {
	s.srv.Close()
	s.closeDB()
}

func (s *APISuite) insertProfile(id, first, last string, userType models.UserType) {
	now := time.Now().UTC().Truncate(time.Second)
	email := "email"
	s.Require().NoError(s.seed.InsertProfile(s.ctx, models.BaseProfile{
		ID: id, FirstName: first, LastName: last, UserType: userType, CreatedAt: now, UpdatedAt: now,
	}, &email))
}

func (s *APISuite) token(id string, userType models.UserType) string {
	tok, err := s.auth.Issue(session.Identity{UserID: id, UserType: userType}, time.Hour)
	s.Require().NoError(err)
	return tok
}

func (s *APISuite) do(method, path, token, body string) *http.Response {
	req, err := http.NewRequestWithContext(s.ctx, method, s.srv.URL+path, bytes.NewReader([]byte(body)))
	s.Require().NoError(err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (s *APISuite) decode(resp *http.Response, v any) {
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(v))
}

func (s *APISuite) requireError(resp *http.Response, status int, code string) envelope {
	s.Require().Equal(status, resp.StatusCode)
	var env envelope
	s.decode(resp, &env)
	s.Equal(code, env.Error.Code)
	return env
}

func (s *APISuite) TestHealthAndReady() {
	resp := s.do(http.MethodGet, "/healthz", "", "")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("nosniff", resp.Header.Get("X-Content-Type-Options"))
	s.NotEmpty(resp.Header.Get("X-Request-ID"))

	resp = s.do(http.MethodGet, "/readyz", "", "")
	s.Equal(http.StatusOK, resp.StatusCode)

	s.readyErr = errors.New("db down")
	resp = s.do(http.MethodGet, "/readyz", "", "")
	s.Equal(http.StatusServiceUnavailable, resp.StatusCode)
}

func (s *APISuite) TestRequiresBearerToken() {
	s.requireError(s.do(http.MethodGet, "/api/profile", "", ""), http.StatusUnauthorized, "UNAUTHORIZED")
	s.requireError(s.do(http.MethodGet, "/api/profile", "not-a-token", ""), http.StatusUnauthorized, "UNAUTHORIZED")
}

func (s *APISuite) TestUnknownRoute() {
	s.requireError(s.do(http.MethodGet, "/nope", "", ""), http.StatusNotFound, "NOT_FOUND")
}

func (s *APISuite) TestGetProfileSynthesizesSubProfile() {
	resp := s.do(http.MethodGet, "/api/profile", s.token(s.youthID, models.UserTypeYouth), "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var snap models.ProfileSnapshot
	s.decode(resp, &snap)
	s.Equal(s.youthID, snap.UserID)
	s.Require().NotNil(snap.Profile)
	s.Equal("Lia", snap.Profile.FirstName)
	s.Require().NotNil(snap.Youth)
	s.Equal(s.youthID, snap.Youth.ID)
	s.Equal([]string{}, snap.Youth.SecondarySports)
	s.Nil(snap.Expert)
}

func (s *APISuite) TestSubmitYouthAndDrainNotifications() {
	token := s.token(s.youthID, models.UserTypeYouth)
	resp := s.do(http.MethodPut, "/api/profile/youth", token,
		`{"age":17,"primarySport":"Soccer","experienceYears":"3","secondarySports":"Tennis, , Swimming"}`)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var out services.Outcome
	s.decode(resp, &out)
	s.Equal("/dashboard", out.NavigateTo)
	s.Require().NotNil(out.Snapshot.Youth)
	s.Equal(17, out.Snapshot.Youth.Age)
	s.Equal(3, out.Snapshot.Youth.ExperienceYears)
	s.Equal([]string{"Tennis", "Swimming"}, out.Snapshot.Youth.SecondarySports)

	resp = s.do(http.MethodGet, "/api/notifications", token, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var body struct {
		Notifications []notify.Notification `json:"notifications"`
	}
	s.decode(resp, &body)
	s.Require().Len(body.Notifications, 1)
	s.Equal("Athlete profile updated successfully", body.Notifications[0].Title)

	resp = s.do(http.MethodGet, "/api/notifications", token, "")
	s.decode(resp, &body)
	s.Empty(body.Notifications)
}

func (s *APISuite) TestSubmitBasic() {
	token := s.token(s.youthID, models.UserTypeYouth)
	resp := s.do(http.MethodPut, "/api/profile/basic", token,
		`{"firstName":"Lia","lastName":"Costa Lima","bio":"Midfielder","preferredContactMethod":"phone","phoneText":"555-0100"}`)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var out services.Outcome
	s.decode(resp, &out)
	s.Empty(out.NavigateTo)
	s.Equal("Costa Lima", out.Snapshot.Profile.LastName)
	s.Equal("Midfielder", *out.Snapshot.Profile.Bio)
	s.Nil(out.Snapshot.Profile.TimeZone)
	s.Equal(models.ContactPhone, *out.Snapshot.Profile.PreferredContactMethod)
}

func (s *APISuite) TestSessionProfileFollowsBasicSubmit() {
	token := s.token(s.youthID, models.UserTypeYouth)

	var before struct {
		UserID   string              `json:"user_id"`
		UserType models.UserType     `json:"user_type"`
		Profile  *models.BaseProfile `json:"profile"`
	}
	resp := s.do(http.MethodGet, "/api/session", token, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &before)
	s.Equal(s.youthID, before.UserID)
	s.Equal(models.UserTypeYouth, before.UserType)
	s.Require().NotNil(before.Profile)
	s.Equal("Lia", before.Profile.FirstName)

	resp = s.do(http.MethodPut, "/api/profile/basic", token,
		`{"firstName":"Lina","lastName":"Costa","preferredContactMethod":"email"}`)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	after := before
	after.Profile = nil
	resp = s.do(http.MethodGet, "/api/session", token, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.decode(resp, &after)
	s.Require().NotNil(after.Profile)
	s.Equal("Lina", after.Profile.FirstName)
}

func (s *APISuite) TestStrictDecoding() {
	token := s.token(s.youthID, models.UserTypeYouth)

	s.requireError(s.do(http.MethodPut, "/api/profile/basic", token,
		`{"firstName":"Lia","lastName":"Costa","preferredContactMethod":"email","user_type":"expert"}`),
		http.StatusBadRequest, "BAD_REQUEST")

	env := s.requireError(s.do(http.MethodPut, "/api/profile/basic", token,
		`{"lastName":"Costa","preferredContactMethod":"email"}`),
		http.StatusBadRequest, "VALIDATION_ERROR")
	s.Equal("firstName", env.Error.Field)

	env = s.requireError(s.do(http.MethodPut, "/api/profile/basic", token,
		`{"firstName":null,"lastName":"Costa","preferredContactMethod":"email"}`),
		http.StatusBadRequest, "VALIDATION_ERROR")
	s.Equal("firstName", env.Error.Field)

	s.requireError(s.do(http.MethodPut, "/api/profile/basic", token, ``), http.StatusBadRequest, "BAD_REQUEST")
	s.requireError(s.do(http.MethodPut, "/api/profile/basic", token, `{"firstName":"a"} {}`), http.StatusBadRequest, "BAD_REQUEST")

	env = s.requireError(s.do(http.MethodPut, "/api/profile/youth", token, `{"age":"abc","primarySport":"Soccer"}`),
		http.StatusBadRequest, "VALIDATION_ERROR")
	s.Equal("age", env.Error.Field)
}

func (s *APISuite) TestSubmitExpertAsYouthIsForbidden() {
	s.requireError(s.do(http.MethodPut, "/api/profile/expert", s.token(s.youthID, models.UserTypeYouth),
		`{"specialization":"Coach","yearsExperience":"4"}`), http.StatusForbidden, "FORBIDDEN")
}

func (s *APISuite) TestEvaluationsAndDirectory() {
	expertToken := s.token(s.expertID, models.UserTypeExpert)
	youthToken := s.token(s.youthID, models.UserTypeYouth)

	resp := s.do(http.MethodPut, "/api/profile/expert", expertToken,
		`{"specialization":"Goalkeeping","yearsExperience":"8","sportsExpertise":"Soccer, Futsal"}`)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp = s.do(http.MethodPut, "/api/profile/youth", youthToken, `{"age":"15","primarySport":"Soccer"}`)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	for i, status := range []models.EvaluationStatus{models.EvaluationCompleted, models.EvaluationCompleted, models.EvaluationPending} {
		score := 60 + i*10
		s.Require().NoError(s.seed.InsertEvaluation(s.ctx, models.Evaluation{
			ID: uuid.NewString(), YouthID: s.youthID, ExpertID: s.expertID,
			Title: "Session review", Sport: "Soccer", EvaluatorName: "Marco Reis",
			EvaluatedAt: time.Date(2026, 4, 1+i, 9, 0, 0, 0, time.UTC),
			Skills:      models.SkillScores{Technique: score, Strength: score, Speed: score, Endurance: score, GameAwareness: score},
			Status:      status,
		}))
	}

	resp = s.do(http.MethodGet, "/api/evaluations?status=completed", youthToken, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var list struct {
		Evaluations []models.Evaluation `json:"evaluations"`
	}
	s.decode(resp, &list)
	s.Len(list.Evaluations, 2)

	resp = s.do(http.MethodGet, "/api/evaluations/summary", youthToken, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var sum models.EvaluationSummary
	s.decode(resp, &sum)
	s.Equal(3, sum.Total)
	s.Equal(2, sum.Completed)
	s.Equal(65.0, sum.Overall)

	s.requireError(s.do(http.MethodGet, "/api/evaluations", expertToken, ""), http.StatusForbidden, "FORBIDDEN")
	s.requireError(s.do(http.MethodGet, "/api/evaluations?status=lost", youthToken, ""), http.StatusBadRequest, "VALIDATION_ERROR")

	resp = s.do(http.MethodGet, "/api/experts?q=goal&sport=Futsal", youthToken, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var dir models.ExpertDirectory
	s.decode(resp, &dir)
	s.Require().Len(dir.Experts, 1)
	s.Equal("Marco Reis", dir.Experts[0].Name())
	s.Equal([]string{"Futsal", "Soccer"}, dir.Sports)
}

func (s *APISuite) TestLogoutReleasesSnapshot() {
	token := s.token(s.youthID, models.UserTypeYouth)
	resp := s.do(http.MethodGet, "/api/profile", token, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	_, ok := s.server.Coordinator.Snapshot(s.youthID)
	s.True(ok)

	resp = s.do(http.MethodPost, "/api/session/logout", token, "")
	s.Equal(http.StatusNoContent, resp.StatusCode)

	_, ok = s.server.Coordinator.Snapshot(s.youthID)
	s.False(ok)
	_, ok = s.server.Sessions.Get(s.youthID)
	s.False(ok)
}

func (s *APISuite) TestGatewayErrorEnvelope() {
	// no profile row: the upsert trips the foreign key
	orphan := uuid.NewString()
	resp := s.do(http.MethodPut, "/api/profile/youth", s.token(orphan, models.UserTypeYouth), `{"age":"15","primarySport":"Soccer"}`)
	env := s.requireError(resp, http.StatusBadGateway, "GATEWAY_ERROR")
	s.True(strings.TrimSpace(env.Error.Message) != "")
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}
