// Package contracttest holds the behaviour every repository backend must
// share. Backends call RunGateway from their own tests.
package contracttest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/talentscout/internal/models"
	"github.com/vytor/talentscout/internal/repository"
)

type CleanupFunc = func()

// Fixture is one isolated backend instance.
type Fixture struct {
	Gateway repository.Gateway
	Seed    *SQLSeeder
}

type Factory func(t *testing.T) (Fixture, CleanupFunc)

func strPtr(s string) *string { return &s }

func open(t *testing.T, newFixture Factory) Fixture {
	t.Helper()
	f, cleanup := newFixture(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}
	return f
}

func seedProfile(t *testing.T, f Fixture, userType models.UserType) models.BaseProfile {
	t.Helper()
	created := time.Now().UTC().Add(-24 * time.Hour).Truncate(time.Second)
	p := models.BaseProfile{
		ID:        uuid.NewString(),
		FirstName: "Jordan",
		LastName:  "Reyes",
		Bio:       strPtr("Center back"),
		AvatarURL: strPtr("https://cdn.example/avatar.png"),
		UserType:  userType,
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, f.Seed.InsertProfile(context.Background(), p, strPtr("email")))
	return p
}

// RunGateway exercises the full gateway contract.
func RunGateway(t *testing.T, newFixture Factory) {
	t.Helper()

	t.Run("ProfileGetMissing", func(t *testing.T) {
		f := open(t, newFixture)
		_, err := f.Gateway.Profiles.Get(context.Background(), uuid.NewString())
		require.Error(t, err)
		assert.True(t, repository.IsNotFound(err), "got %v", err)
	})

	t.Run("ProfileGet", func(t *testing.T) {
		f := open(t, newFixture)
		seeded := seedProfile(t, f, models.UserTypeYouth)

		got, err := f.Gateway.Profiles.Get(context.Background(), seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, got.ID)
		assert.Equal(t, "Jordan", got.FirstName)
		assert.Equal(t, "Reyes", got.LastName)
		assert.Equal(t, models.UserTypeYouth, got.UserType)
		require.NotNil(t, got.PreferredContactMethod)
		assert.Equal(t, models.ContactEmail, *got.PreferredContactMethod)
		assert.Nil(t, got.PhoneText)
		assert.WithinDuration(t, seeded.CreatedAt, got.CreatedAt, time.Second)
	})

	t.Run("ProfileGetNormalizesContactMethod", func(t *testing.T) {
		f := open(t, newFixture)
		p := models.BaseProfile{ID: uuid.NewString(), FirstName: "A", LastName: "B", UserType: models.UserTypeExpert,
			CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
		require.NoError(t, f.Seed.InsertProfile(context.Background(), p, strPtr("sms")))

		got, err := f.Gateway.Profiles.Get(context.Background(), p.ID)
		require.NoError(t, err)
		assert.Nil(t, got.PreferredContactMethod)
	})

	t.Run("ProfileUpdateBasic", func(t *testing.T) {
		f := open(t, newFixture)
		ctx := context.Background()
		seeded := seedProfile(t, f, models.UserTypeExpert)
		at := time.Now().UTC().Truncate(time.Second)

		err := f.Gateway.Profiles.UpdateBasic(ctx, seeded.ID, models.BasicProfileUpdate{
			FirstName:              "Sam",
			LastName:               "Okafor",
			PhoneText:              strPtr("+1 555 0100"),
			PreferredContactMethod: models.ContactPhone,
			TimeZone:               strPtr("Europe/Lisbon"),
		}, at)
		require.NoError(t, err)

		got, err := f.Gateway.Profiles.Get(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, "Sam", got.FirstName)
		assert.Equal(t, "Okafor", got.LastName)
		assert.Nil(t, got.Bio)
		require.NotNil(t, got.PhoneText)
		assert.Equal(t, "+1 555 0100", *got.PhoneText)
		require.NotNil(t, got.PreferredContactMethod)
		assert.Equal(t, models.ContactPhone, *got.PreferredContactMethod)
		require.NotNil(t, got.TimeZone)
		assert.Equal(t, "Europe/Lisbon", *got.TimeZone)
		assert.Equal(t, models.UserTypeExpert, got.UserType)
		assert.Equal(t, "https://cdn.example/avatar.png", *got.AvatarURL)
		assert.WithinDuration(t, seeded.CreatedAt, got.CreatedAt, time.Second)
		assert.WithinDuration(t, at, got.UpdatedAt, time.Second)
	})

	t.Run("ProfileUpdateBasicMissing", func(t *testing.T) {
		f := open(t, newFixture)
		err := f.Gateway.Profiles.UpdateBasic(context.Background(), uuid.NewString(), models.BasicProfileUpdate{
			FirstName: "A", LastName: "B", PreferredContactMethod: models.ContactEmail,
		}, time.Now())
		assert.True(t, repository.IsNotFound(err), "got %v", err)
	})

	t.Run("YouthUpsertCreatesThenUpdates", func(t *testing.T) {
		f := open(t, newFixture)
		ctx := context.Background()
		seeded := seedProfile(t, f, models.UserTypeYouth)

		_, err := f.Gateway.Youth.Get(ctx, seeded.ID)
		assert.True(t, repository.IsNotFound(err), "got %v", err)

		created := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
		row := models.YouthAthleteUpdate{
			Age:             17,
			PrimarySport:    "Soccer",
			ExperienceYears: 3,
			SecondarySports: []string{"Tennis", "Swimming"},
			Goals:           []string{},
			School:          strPtr("Lincoln High"),
		}.Row(seeded.ID, created)
		require.NoError(t, f.Gateway.Youth.Upsert(ctx, row))

		got, err := f.Gateway.Youth.Get(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, 17, got.Age)
		assert.Equal(t, "Soccer", got.PrimarySport)
		assert.Equal(t, 3, got.ExperienceYears)
		assert.Equal(t, []string{"Tennis", "Swimming"}, got.SecondarySports)
		assert.Equal(t, []string{}, got.Goals)
		assert.Equal(t, []string{}, got.TrainingAvailability)
		assert.Equal(t, []string{}, got.Achievements)
		assert.Equal(t, "Lincoln High", *got.School)
		assert.Nil(t, got.Grade)
		firstCreated := got.CreatedAt

		require.NoError(t, f.Seed.SetAchievements(ctx, seeded.ID, []string{"State finalist"}))

		later := time.Now().UTC().Truncate(time.Second)
		update := models.YouthAthleteUpdate{Age: 18, PrimarySport: "Futsal", Goals: []string{"Varsity"}}.Row(seeded.ID, later)
		require.NoError(t, f.Gateway.Youth.Upsert(ctx, update))

		got, err = f.Gateway.Youth.Get(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, 18, got.Age)
		assert.Equal(t, "Futsal", got.PrimarySport)
		assert.Equal(t, 0, got.ExperienceYears)
		assert.Equal(t, []string{}, got.SecondarySports)
		assert.Equal(t, []string{"Varsity"}, got.Goals)
		assert.Nil(t, got.School)
		assert.Equal(t, []string{"State finalist"}, got.Achievements, "achievements are never written by upsert")
		assert.WithinDuration(t, firstCreated, got.CreatedAt, time.Second, "created_at is kept on conflict")
		assert.WithinDuration(t, later, got.UpdatedAt, time.Second)
	})

	t.Run("YouthUpsertWithoutProfile", func(t *testing.T) {
		f := open(t, newFixture)
		row := models.YouthAthleteUpdate{Age: 12, PrimarySport: "Judo"}.Row(uuid.NewString(), time.Now())
		err := f.Gateway.Youth.Upsert(context.Background(), row)
		require.Error(t, err)
		assert.Equal(t, repository.CodeForeignKey, repository.CodeOf(err))
	})

	t.Run("YouthUpsertRejectsInvalidAge", func(t *testing.T) {
		f := open(t, newFixture)
		seeded := seedProfile(t, f, models.UserTypeYouth)
		row := models.YouthAthleteUpdate{Age: 0, PrimarySport: "Judo"}.Row(seeded.ID, time.Now())
		err := f.Gateway.Youth.Upsert(context.Background(), row)
		require.Error(t, err)
		assert.Equal(t, repository.CodeCheckViolation, repository.CodeOf(err))
	})

	t.Run("ExpertUpsertKeepsRating", func(t *testing.T) {
		f := open(t, newFixture)
		ctx := context.Background()
		seeded := seedProfile(t, f, models.UserTypeExpert)

		_, err := f.Gateway.Experts.Get(ctx, seeded.ID)
		assert.True(t, repository.IsNotFound(err), "got %v", err)

		row := models.ExpertProfileUpdate{
			Specialization:  "Goalkeeping",
			YearsExperience: 9,
			SportsExpertise: []string{"Soccer", "Handball"},
			Availability:    []string{"Weekends"},
		}.Row(seeded.ID, time.Now().UTC())
		require.NoError(t, f.Gateway.Experts.Upsert(ctx, row))
		require.NoError(t, f.Seed.SetRating(ctx, seeded.ID, 4.5))

		rated := 1.0
		row.Specialization = "Goalkeeping & Distribution"
		row.Rating = &rated
		require.NoError(t, f.Gateway.Experts.Upsert(ctx, row))

		got, err := f.Gateway.Experts.Get(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Equal(t, "Goalkeeping & Distribution", got.Specialization)
		assert.Equal(t, 9, got.YearsExperience)
		assert.Equal(t, []string{"Soccer", "Handball"}, got.SportsExpertise)
		assert.Equal(t, []string{}, got.Qualifications)
		require.NotNil(t, got.Rating)
		assert.InDelta(t, 4.5, *got.Rating, 0.0001, "rating is never written by upsert")
	})

	t.Run("ExpertDirectory", func(t *testing.T) {
		f := open(t, newFixture)
		ctx := context.Background()
		expert := seedProfile(t, f, models.UserTypeExpert)
		_ = seedProfile(t, f, models.UserTypeExpert) // no experts row yet
		youth := seedProfile(t, f, models.UserTypeYouth)

		require.NoError(t, f.Gateway.Experts.Upsert(ctx, models.ExpertProfileUpdate{
			Specialization:  "Sprint mechanics",
			YearsExperience: 4,
			SportsExpertise: []string{"Track"},
		}.Row(expert.ID, time.Now().UTC())))
		require.NoError(t, f.Gateway.Youth.Upsert(ctx, models.YouthAthleteUpdate{
			Age: 14, PrimarySport: "Track",
		}.Row(youth.ID, time.Now().UTC())))

		listings, err := f.Gateway.Experts.ListDirectory(ctx)
		require.NoError(t, err)
		require.Len(t, listings, 1)
		assert.Equal(t, expert.ID, listings[0].ID)
		assert.Equal(t, "Jordan Reyes", listings[0].Name())
		assert.Equal(t, "Sprint mechanics", listings[0].Specialization)
		assert.Equal(t, []string{"Track"}, listings[0].SportsExpertise)
		assert.Equal(t, []string{}, listings[0].Availability)
		assert.Nil(t, listings[0].Rating)
	})

	t.Run("EvaluationsByYouth", func(t *testing.T) {
		f := open(t, newFixture)
		ctx := context.Background()
		youth := seedProfile(t, f, models.UserTypeYouth)
		other := seedProfile(t, f, models.UserTypeYouth)
		expert := seedProfile(t, f, models.UserTypeExpert)

		require.NoError(t, f.Gateway.Youth.Upsert(ctx, models.YouthAthleteUpdate{Age: 15, PrimarySport: "Soccer"}.Row(youth.ID, time.Now())))
		require.NoError(t, f.Gateway.Youth.Upsert(ctx, models.YouthAthleteUpdate{Age: 16, PrimarySport: "Soccer"}.Row(other.ID, time.Now())))
		require.NoError(t, f.Gateway.Experts.Upsert(ctx, models.ExpertProfileUpdate{Specialization: "Tactics", YearsExperience: 7}.Row(expert.ID, time.Now())))

		base := time.Now().UTC().Add(-72 * time.Hour).Truncate(time.Second)
		evals := []models.Evaluation{
			{ID: uuid.NewString(), YouthID: youth.ID, ExpertID: expert.ID, Title: "Preseason", Sport: "Soccer",
				EvaluatedAt: base, EvaluatorName: "Coach Reyes", Status: models.EvaluationCompleted,
				Skills: models.SkillScores{Technique: 70, Strength: 60, Speed: 80, Endurance: 65, GameAwareness: 75}},
			{ID: uuid.NewString(), YouthID: youth.ID, ExpertID: expert.ID, Title: "Midseason", Sport: "Soccer",
				EvaluatedAt: base.Add(48 * time.Hour), EvaluatorName: "Coach Reyes", Status: models.EvaluationPending,
				Comments: "scheduled"},
			{ID: uuid.NewString(), YouthID: other.ID, ExpertID: expert.ID, Title: "Tryout", Sport: "Soccer",
				EvaluatedAt: base, EvaluatorName: "Coach Reyes", Status: models.EvaluationCompleted},
		}
		for _, e := range evals {
			require.NoError(t, f.Seed.InsertEvaluation(ctx, e))
		}

		all, err := f.Gateway.Evaluations.ListByYouth(ctx, youth.ID, models.EvaluationFilter{})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Midseason", all[0].Title, "newest first")
		assert.Equal(t, "Preseason", all[1].Title)
		assert.Equal(t, 80, all[1].Skills.Speed)
		assert.Equal(t, 75, all[1].Skills.GameAwareness)
		assert.Equal(t, models.EvaluationCompleted, all[1].Status)
		assert.WithinDuration(t, base, all[1].EvaluatedAt, time.Second)

		pending, err := f.Gateway.Evaluations.ListByYouth(ctx, youth.ID, models.EvaluationFilter{Status: models.EvaluationPending})
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "scheduled", pending[0].Comments)

		none, err := f.Gateway.Evaluations.ListByYouth(ctx, uuid.NewString(), models.EvaluationFilter{})
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})
}
