package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	apperrors "github.com/vytor/talentscout/internal/errors"
	"github.com/vytor/talentscout/internal/models"
	"github.com/vytor/talentscout/internal/notify"
	"github.com/vytor/talentscout/internal/repository"
	"github.com/vytor/talentscout/internal/services"
	"github.com/vytor/talentscout/internal/testutil/mocks"
)

const dashboard = "/dashboard"

type ProfileHandlersSuite struct {
	suite.Suite
	ctx      context.Context
	gw       *fakeGateway
	coord    services.ProfileCoordinator
	notifier *mocks.RecordingNotifier
	handlers services.ProfileHandlers
}

func (s *ProfileHandlersSuite) SetupTest() {
	s.ctx = context.Background()
	s.gw = newFakeGateway()
	s.coord = services.NewProfileCoordinator(s.gw.Gateway(), time.Second)
	s.notifier = &mocks.RecordingNotifier{}
	s.handlers = services.NewProfileHandlers(s.gw.Gateway(), s.coord, s.notifier, services.HandlerConfig{
		Timeout:        200 * time.Millisecond,
		DashboardRoute: dashboard,
	})
}

func (s *ProfileHandlersSuite) youthSession(id string, existing *models.YouthAthleteProfile) *fakeSession {
	s.gw.profiles.On("Get", mock.Anything, id).Return(baseProfile(id, models.UserTypeYouth), nil)
	if existing == nil {
		s.gw.youth.On("Get", mock.Anything, id).Return(nil, repository.NotFound("youth_athletes", id))
	} else {
		s.gw.youth.On("Get", mock.Anything, id).Return(existing, nil)
	}
	return &fakeSession{id: id, userType: models.UserTypeYouth}
}

func (s *ProfileHandlersSuite) expertSession(id string, existing *models.ExpertProfile) *fakeSession {
	s.gw.profiles.On("Get", mock.Anything, id).Return(baseProfile(id, models.UserTypeExpert), nil)
	if existing == nil {
		s.gw.experts.On("Get", mock.Anything, id).Return(nil, repository.NotFound("experts", id))
	} else {
		s.gw.experts.On("Get", mock.Anything, id).Return(existing, nil)
	}
	return &fakeSession{id: id, userType: models.UserTypeExpert}
}

func basicForm(bio string) models.BasicProfileForm {
	return models.BasicProfileForm{
		FirstName:              "Ana",
		LastName:               "Souza",
		Bio:                    bio,
		PhoneText:              "+55 11 99999-0000",
		PreferredContactMethod: "phone",
		TimeZone:               "America/Sao_Paulo",
	}
}

func (s *ProfileHandlersSuite) lastNotification() notify.Notification {
	n, ok := s.notifier.Last()
	s.Require().True(ok, "expected a notification")
	return n
}

func (s *ProfileHandlersSuite) TestSubmitBasicPatchesMutableFieldsOnly() {
	sess := s.youthSession("u1", nil)
	s.gw.profiles.On("UpdateBasic", mock.Anything, "u1", mock.MatchedBy(func(u models.BasicProfileUpdate) bool {
		return u.FirstName == "Ana" && u.LastName == "Souza" && *u.Bio == "new bio" && u.PreferredContactMethod == models.ContactPhone
	}), mock.Anything).Return(nil).Once()

	out, err := s.handlers.SubmitBasic(s.ctx, sess, basicForm("new bio"))
	s.Require().NoError(err)

	p := out.Snapshot.Profile
	s.Require().NotNil(p)
	s.Equal("Souza", p.LastName)
	s.Equal("new bio", *p.Bio)
	s.Equal("+55 11 99999-0000", *p.PhoneText)
	s.Equal(models.ContactPhone, *p.PreferredContactMethod)
	s.Equal("America/Sao_Paulo", *p.TimeZone)
	s.Equal("u1", p.ID)
	s.Equal(models.UserTypeYouth, p.UserType)
	s.Equal("https://cdn.example.com/a.png", *p.AvatarURL)
	s.True(p.CreatedAt.Equal(created))

	s.Empty(out.NavigateTo)
	s.Equal(1, sess.Refreshes())

	n := s.lastNotification()
	s.Equal("u1", n.UserID)
	s.Equal("Profile updated successfully", n.Title)
	s.Equal(notify.VariantDefault, n.Variant)
	s.gw.profiles.AssertExpectations(s.T())
}

func (s *ProfileHandlersSuite) TestSequentialBasicSubmissionsKeepLast() {
	sess := s.youthSession("u1", nil)
	s.gw.profiles.On("UpdateBasic", mock.Anything, "u1", mock.Anything, mock.Anything).Return(nil).Twice()

	_, err := s.handlers.SubmitBasic(s.ctx, sess, basicForm("first"))
	s.Require().NoError(err)
	out, err := s.handlers.SubmitBasic(s.ctx, sess, basicForm("second"))
	s.Require().NoError(err)

	s.Equal("second", *out.Snapshot.Profile.Bio)
	snap, _ := s.coord.Snapshot("u1")
	s.Equal("second", *snap.Profile.Bio)
}

func (s *ProfileHandlersSuite) TestSubmitBasicBlankOptionalBecomesAbsent() {
	sess := s.youthSession("u1", nil)
	s.gw.profiles.On("UpdateBasic", mock.Anything, "u1", mock.MatchedBy(func(u models.BasicProfileUpdate) bool {
		return u.Bio == nil
	}), mock.Anything).Return(nil)

	out, err := s.handlers.SubmitBasic(s.ctx, sess, basicForm("   "))
	s.Require().NoError(err)
	s.Nil(out.Snapshot.Profile.Bio)
}

func (s *ProfileHandlersSuite) TestSubmitBasicRefreshFailureIsNotSurfaced() {
	sess := s.youthSession("u1", nil)
	sess.refreshErr = errors.New("cache down")
	s.gw.profiles.On("UpdateBasic", mock.Anything, "u1", mock.Anything, mock.Anything).Return(nil)

	out, err := s.handlers.SubmitBasic(s.ctx, sess, basicForm("new bio"))
	s.Require().NoError(err)
	s.Equal("new bio", *out.Snapshot.Profile.Bio)
}

func (s *ProfileHandlersSuite) TestSubmitBasicValidationSkipsGateway() {
	sess := s.youthSession("u1", nil)
	form := basicForm("bio")
	form.FirstName = " "

	_, err := s.handlers.SubmitBasic(s.ctx, sess, form)
	s.True(apperrors.HasCode(err, apperrors.ErrCodeValidation))
	s.gw.profiles.AssertNotCalled(s.T(), "UpdateBasic", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ProfileHandlersSuite) TestSubmitYouthScenario() {
	existing := models.NewYouthAthleteProfile("u1", created)
	existing.Age = 16
	existing.Achievements = []string{"State finalist"}
	sess := s.youthSession("u1", &existing)

	var written models.YouthAthleteProfile
	s.gw.youth.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		written = args.Get(1).(models.YouthAthleteProfile)
	}).Return(nil).Once()

	out, err := s.handlers.SubmitYouth(s.ctx, sess, models.YouthAthleteForm{
		Age:             "17",
		PrimarySport:    "Soccer",
		ExperienceYears: "3",
		SecondarySports: "Tennis, , Swimming",
	})
	s.Require().NoError(err)

	s.Equal("u1", written.ID)
	s.Equal(17, written.Age)
	s.Equal("Soccer", written.PrimarySport)
	s.Equal(3, written.ExperienceYears)
	s.Equal([]string{"Tennis", "Swimming"}, written.SecondarySports)
	s.Equal([]string{}, written.Goals)

	y := out.Snapshot.Youth
	s.Require().NotNil(y)
	s.Equal(17, y.Age)
	s.Equal([]string{"Tennis", "Swimming"}, y.SecondarySports)
	s.Equal([]string{}, y.TrainingAvailability)
	s.Equal([]string{"State finalist"}, y.Achievements)
	s.True(y.CreatedAt.Equal(created))

	s.Equal(dashboard, out.NavigateTo)
	s.Equal("Athlete profile updated successfully", s.lastNotification().Title)
}

func (s *ProfileHandlersSuite) TestSubmitExpertPreservesRating() {
	rating := 4.8
	existing := models.NewExpertProfile("e1", created)
	existing.Specialization = "Strength coach"
	existing.YearsExperience = 5
	existing.Rating = &rating
	sess := s.expertSession("e1", &existing)
	s.gw.experts.On("Upsert", mock.Anything, mock.MatchedBy(func(p models.ExpertProfile) bool {
		return p.ID == "e1" && p.YearsExperience == 12
	})).Return(nil).Once()

	out, err := s.handlers.SubmitExpert(s.ctx, sess, models.ExpertProfileForm{
		Specialization:  "Sprint coach",
		YearsExperience: "12",
		SportsExpertise: "Athletics,Soccer",
		Availability:    "Mon, Wed",
	})
	s.Require().NoError(err)

	e := out.Snapshot.Expert
	s.Require().NotNil(e)
	s.Equal("Sprint coach", e.Specialization)
	s.Equal([]string{"Athletics", "Soccer"}, e.SportsExpertise)
	s.Equal([]string{"Mon", "Wed"}, e.Availability)
	s.Equal([]string{}, e.Certifications)
	s.Require().NotNil(e.Rating)
	s.Equal(4.8, *e.Rating)
	s.Equal(dashboard, out.NavigateTo)
	s.gw.experts.AssertExpectations(s.T())
}

func (s *ProfileHandlersSuite) TestWrongRoleIsForbidden() {
	sess := &fakeSession{id: "u1", userType: models.UserTypeYouth}
	_, err := s.handlers.SubmitExpert(s.ctx, sess, models.ExpertProfileForm{Specialization: "x", YearsExperience: "1"})
	s.True(apperrors.HasCode(err, apperrors.ErrCodeForbidden))
	s.Empty(s.notifier.Sent())
}

func (s *ProfileHandlersSuite) TestGatewayRejectionLeavesStateUntouched() {
	existing := models.NewYouthAthleteProfile("u1", created)
	existing.Age = 15
	existing.PrimarySport = "Basketball"
	sess := s.youthSession("u1", &existing)

	before, err := s.coord.Load(s.ctx, sess)
	s.Require().NoError(err)

	dup := &repository.GatewayError{Code: repository.CodeUniqueViolation, Message: `duplicate key value violates unique constraint "youth_athletes_pkey"`}
	s.gw.youth.On("Upsert", mock.Anything, mock.Anything).Return(dup)

	out, err := s.handlers.SubmitYouth(s.ctx, sess, models.YouthAthleteForm{Age: "17", PrimarySport: "Soccer"})
	s.Require().Error(err)

	appErr, ok := apperrors.As(err)
	s.Require().True(ok)
	s.Equal(apperrors.ErrCodeGateway, appErr.Code)
	s.Equal(http.StatusConflict, appErr.Status)
	s.Equal(dup.Message, appErr.Message)
	s.True(errors.Is(err, dup))
	s.Empty(out.NavigateTo)

	after, _ := s.coord.Snapshot("u1")
	s.Equal(before, after)

	n := s.lastNotification()
	s.Equal("Failed to update athlete profile", n.Title)
	s.Equal(dup.Message, n.Description)
	s.Equal(notify.VariantDestructive, n.Variant)
}

func (s *ProfileHandlersSuite) TestConcurrentSubmissionRejected() {
	sess := s.youthSession("u1", nil)
	started := make(chan struct{})
	unblock := make(chan struct{})
	s.gw.profiles.On("UpdateBasic", mock.Anything, "u1", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		close(started)
		<-unblock
	}).Return(nil).Once()

	done := make(chan error, 1)
	go func() {
		_, err := s.handlers.SubmitBasic(s.ctx, sess, basicForm("first"))
		done <- err
	}()
	<-started

	_, err := s.handlers.SubmitBasic(s.ctx, sess, basicForm("second"))
	s.True(apperrors.HasCode(err, apperrors.ErrCodeInProgress))

	close(unblock)
	s.Require().NoError(<-done)

	snap, _ := s.coord.Snapshot("u1")
	s.Equal("first", *snap.Profile.Bio)
}

func (s *ProfileHandlersSuite) TestStalePatchDiscardedAfterReload() {
	sess := s.youthSession("u1", nil)
	s.gw.profiles.On("UpdateBasic", mock.Anything, "u1", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		_, err := s.coord.Reload(s.ctx, sess)
		s.Require().NoError(err)
	}).Return(nil).Once()

	out, err := s.handlers.SubmitBasic(s.ctx, sess, basicForm("late"))
	s.Require().NoError(err)
	s.Equal("original bio", *out.Snapshot.Profile.Bio)
}

func (s *ProfileHandlersSuite) TestWriteTimeout() {
	sess := s.expertSession("e1", nil)
	s.gw.experts.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		<-args.Get(0).(context.Context).Done()
	}).Return(context.DeadlineExceeded)

	_, err := s.handlers.SubmitExpert(s.ctx, sess, models.ExpertProfileForm{Specialization: "Goalkeeping", YearsExperience: "4"})
	s.True(apperrors.HasCode(err, apperrors.ErrCodeTimeout), "got %v", err)
	s.Equal("Failed to update expert profile", s.lastNotification().Title)
}

func (s *ProfileHandlersSuite) TestPanicIsRecovered() {
	sess := s.youthSession("u1", nil)
	s.gw.youth.On("Upsert", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("driver exploded")
	}).Return(nil).Once()

	var err error
	s.NotPanics(func() {
		_, err = s.handlers.SubmitYouth(s.ctx, sess, models.YouthAthleteForm{Age: "12", PrimarySport: "Judo"})
	})
	s.True(apperrors.HasCode(err, apperrors.ErrCodeInternal))

	snap, _ := s.coord.Snapshot("u1")
	s.Equal(0, snap.Youth.Age)

	// the in-flight guard was released
	s.gw.youth.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	_, err = s.handlers.SubmitYouth(s.ctx, sess, models.YouthAthleteForm{Age: "12", PrimarySport: "Judo"})
	s.NoError(err)
}

func TestProfileHandlersSuite(t *testing.T) {
	suite.Run(t, new(ProfileHandlersSuite))
}
