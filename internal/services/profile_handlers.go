package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/vytor/talentscout/internal/errors"
	"github.com/vytor/talentscout/internal/forms"
	"github.com/vytor/talentscout/internal/logger"
	"github.com/vytor/talentscout/internal/models"
	"github.com/vytor/talentscout/internal/notify"
	"github.com/vytor/talentscout/internal/repository"
)

// Outcome is the result of a successful submission.
type Outcome struct {
	Snapshot   models.ProfileSnapshot `json:"snapshot"`
	NavigateTo string                 `json:"navigate_to,omitempty"`
}

// ProfileHandlers persists profile forms and mirrors each successful write
// into the coordinator's snapshot.
type ProfileHandlers interface {
	SubmitBasic(ctx context.Context, sess Session, form models.BasicProfileForm) (Outcome, error)
	SubmitYouth(ctx context.Context, sess Session, form models.YouthAthleteForm) (Outcome, error)
	SubmitExpert(ctx context.Context, sess Session, form models.ExpertProfileForm) (Outcome, error)
}

type HandlerConfig struct {
	// Timeout bounds each gateway write. Zero means no limit.
	Timeout        time.Duration
	DashboardRoute string
}

type toast struct {
	successTitle string
	successDesc  string
	failureTitle string
}

var toasts = map[Entity]toast{
	EntityBase: {
		successTitle: "Profile updated successfully",
		successDesc:  "Your basic information has been updated",
		failureTitle: "Failed to update profile",
	},
	EntityYouth: {
		successTitle: "Athlete profile updated successfully",
		successDesc:  "Your athlete information has been updated",
		failureTitle: "Failed to update athlete profile",
	},
	EntityExpert: {
		successTitle: "Expert profile updated successfully",
		successDesc:  "Your expert information has been updated",
		failureTitle: "Failed to update expert profile",
	},
}

type inflightKey struct {
	userID string
	entity Entity
}

type profileHandlers struct {
	profiles repository.ProfileRepository
	youth    repository.YouthAthleteRepository
	experts  repository.ExpertRepository
	coord    ProfileCoordinator
	notifier notify.Notifier
	cfg      HandlerConfig
	now      func() time.Time

	mu       sync.Mutex
	inflight map[inflightKey]struct{}
}

// NewProfileHandlers creates a new ProfileHandlers
func NewProfileHandlers(gw repository.Gateway, coord ProfileCoordinator, notifier notify.Notifier, cfg HandlerConfig) ProfileHandlers {
	return &profileHandlers{
		profiles: gw.Profiles,
		youth:    gw.Youth,
		experts:  gw.Experts,
		coord:    coord,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
		inflight: make(map[inflightKey]struct{}),
	}
}

// submission describes one handler run. write must persist the change;
// patch mirrors it into the snapshot and only runs after write succeeded.
type submission struct {
	entity   Entity
	write    func(ctx context.Context, snap models.ProfileSnapshot, at time.Time) error
	after    func(ctx context.Context)
	patch    func(s *models.ProfileSnapshot, at time.Time)
	navigate bool
}

func (h *profileHandlers) SubmitBasic(ctx context.Context, sess Session, form models.BasicProfileForm) (Outcome, error) {
	update, err := forms.ParseBasic(form)
	if err != nil {
		return Outcome{}, err
	}
	userID := sess.UserID()

	return h.submit(ctx, sess, submission{
		entity: EntityBase,
		write: func(ctx context.Context, _ models.ProfileSnapshot, at time.Time) error {
			return h.profiles.UpdateBasic(ctx, userID, update, at)
		},
		after: func(ctx context.Context) {
			if err := sess.RefreshProfile(ctx); err != nil {
				logger.FromContext(ctx).WithPrefix("profile_handlers").Warn("session refresh failed for %s: %v", userID, err)
			}
		},
		patch: func(s *models.ProfileSnapshot, at time.Time) {
			base := models.BaseProfile{ID: userID, UserType: sess.UserType()}
			if s.Profile != nil {
				base = *s.Profile
			}
			p := update.ApplyTo(base, at)
			s.Profile = &p
		},
	})
}

func (h *profileHandlers) SubmitYouth(ctx context.Context, sess Session, form models.YouthAthleteForm) (Outcome, error) {
	if sess.UserType() != models.UserTypeYouth {
		return Outcome{}, apperrors.NewForbiddenError("athlete profile is only available to youth users")
	}
	update, err := forms.ParseYouthAthlete(form)
	if err != nil {
		return Outcome{}, err
	}
	userID := sess.UserID()

	return h.submit(ctx, sess, submission{
		entity: EntityYouth,
		write: func(ctx context.Context, snap models.ProfileSnapshot, at time.Time) error {
			row := update.Row(userID, at)
			if snap.Youth != nil {
				row = update.ApplyTo(*snap.Youth, at)
			}
			return h.youth.Upsert(ctx, row)
		},
		patch: func(s *models.ProfileSnapshot, at time.Time) {
			y := update.Row(userID, at)
			if s.Youth != nil {
				y = update.ApplyTo(*s.Youth, at)
			}
			s.Youth = &y
		},
		navigate: true,
	})
}

func (h *profileHandlers) SubmitExpert(ctx context.Context, sess Session, form models.ExpertProfileForm) (Outcome, error) {
	if sess.UserType() != models.UserTypeExpert {
		return Outcome{}, apperrors.NewForbiddenError("expert profile is only available to expert users")
	}
	update, err := forms.ParseExpert(form)
	if err != nil {
		return Outcome{}, err
	}
	userID := sess.UserID()

	return h.submit(ctx, sess, submission{
		entity: EntityExpert,
		write: func(ctx context.Context, snap models.ProfileSnapshot, at time.Time) error {
			row := update.Row(userID, at)
			if snap.Expert != nil {
				row = update.ApplyTo(*snap.Expert, at)
			}
			return h.experts.Upsert(ctx, row)
		},
		patch: func(s *models.ProfileSnapshot, at time.Time) {
			e := update.Row(userID, at)
			if s.Expert != nil {
				e = update.ApplyTo(*s.Expert, at)
			}
			s.Expert = &e
		},
		navigate: true,
	})
}

// submit runs Idle -> Submitting -> Success|Failure for one submission. It
// is the error boundary: nothing it calls may panic out of it.
func (h *profileHandlers) submit(ctx context.Context, sess Session, sub submission) (out Outcome, err error) {
	userID := sess.UserID()
	log := logger.FromContext(ctx).WithPrefix("profile_handlers").WithFields(map[string]any{
		"user_id": userID,
		"form":    sub.entity.String(),
	})

	release, err := h.acquire(userID, sub.entity)
	if err != nil {
		log.Warn("rejected concurrent submission")
		return Outcome{}, err
	}
	defer release()

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic during submission: %v", r)
			out = Outcome{}
			err = apperrors.NewInternalError(fmt.Errorf("panic: %v", r))
			h.notifyFailure(ctx, userID, sub.entity, err)
		}
	}()

	snap, err := h.coord.Load(ctx, sess)
	if err != nil {
		h.notifyFailure(ctx, userID, sub.entity, err)
		return Outcome{}, err
	}
	stamp, _ := h.coord.Stamp(userID)
	at := h.now().UTC()

	writeCtx, cancel := h.writeContext(ctx)
	err = sub.write(writeCtx, snap, at)
	cancel()
	if err != nil {
		log.Error("write failed: %v", err)
		err = gatewayFailure(sub.entity.String()+" update", err)
		h.notifyFailure(ctx, userID, sub.entity, err)
		return Outcome{}, err
	}
	log.Debug("write persisted: seq=%d", stamp.Seq)

	if sub.after != nil {
		sub.after(ctx)
	}

	if !h.coord.Patch(userID, sub.entity, stamp, func(s *models.ProfileSnapshot) { sub.patch(s, at) }) {
		log.Info("discarded stale patch: seq=%d gen=%d", stamp.Seq, stamp.Gen)
	}

	t := toasts[sub.entity]
	h.notifier.Notify(ctx, notify.Notification{
		UserID:      userID,
		Title:       t.successTitle,
		Description: t.successDesc,
		Variant:     notify.VariantDefault,
	})

	out.Snapshot = snap
	if cur, ok := h.coord.Snapshot(userID); ok {
		out.Snapshot = cur
	}
	if sub.navigate {
		out.NavigateTo = h.cfg.DashboardRoute
	}
	return out, nil
}

func (h *profileHandlers) acquire(userID string, entity Entity) (func(), error) {
	key := inflightKey{userID: userID, entity: entity}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, busy := h.inflight[key]; busy {
		return nil, apperrors.NewInProgressError(entity.String())
	}
	h.inflight[key] = struct{}{}
	return func() {
		h.mu.Lock()
		delete(h.inflight, key)
		h.mu.Unlock()
	}, nil
}

func (h *profileHandlers) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.cfg.Timeout)
}

func (h *profileHandlers) notifyFailure(ctx context.Context, userID string, entity Entity, err error) {
	msg := err.Error()
	if appErr, ok := apperrors.As(err); ok {
		msg = appErr.Message
	}
	h.notifier.Notify(ctx, notify.Notification{
		UserID:      userID,
		Title:       toasts[entity].failureTitle,
		Description: msg,
		Variant:     notify.VariantDestructive,
	})
}
