package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/vytor/talentscout/internal/logger"
	"github.com/vytor/talentscout/internal/models"
	"github.com/vytor/talentscout/internal/repository"
)

// Session is the per-login state services act on. *session.Session
// satisfies it.
type Session interface {
	UserID() string
	UserType() models.UserType
	RefreshProfile(ctx context.Context) error
}

// Entity names the part of a snapshot a submission patches.
type Entity int

const (
	EntityBase Entity = iota
	EntityYouth
	EntityExpert
)

func (e Entity) String() string {
	switch e {
	case EntityBase:
		return "basic profile"
	case EntityYouth:
		return "athlete profile"
	case EntityExpert:
		return "expert profile"
	default:
		return "profile"
	}
}

// Stamp orders submissions. A patch only lands while the snapshot it was
// stamped against is still current and nothing newer has been applied.
type Stamp struct {
	Seq uint64
	Gen uint64
}

// ProfileCoordinator owns each user's in-memory profile snapshot.
type ProfileCoordinator interface {
	// Load returns the snapshot for sess, reading the gateway only when no
	// snapshot exists yet for this user and user_type.
	Load(ctx context.Context, sess Session) (models.ProfileSnapshot, error)
	// Reload discards the current snapshot and reads it again.
	Reload(ctx context.Context, sess Session) (models.ProfileSnapshot, error)
	Snapshot(userID string) (models.ProfileSnapshot, bool)
	// Release drops the user's snapshot. Late patches against it are ignored.
	Release(ctx context.Context, userID string)

	// Stamp reserves the next submission stamp for userID.
	Stamp(userID string) (Stamp, bool)
	// Patch applies fn to a copy of the snapshot and stores it if stamp is
	// still current for entity. It reports whether the patch landed.
	Patch(userID string, entity Entity, stamp Stamp, fn func(*models.ProfileSnapshot)) bool
}

type profileState struct {
	userType models.UserType
	gen      uint64
	snap     models.ProfileSnapshot
	applied  map[Entity]uint64
}

type profileCoordinator struct {
	profiles repository.ProfileRepository
	youth    repository.YouthAthleteRepository
	experts  repository.ExpertRepository
	timeout  time.Duration
	now      func() time.Time

	mu     sync.Mutex
	states map[string]*profileState
	// inflight counts running fetches per user; released holds the gen
	// value of a Release that happened while one was running.
	inflight map[string]int
	released map[string]uint64
	loads    singleflight.Group
	gen      atomic.Uint64
	seq      atomic.Uint64
}

// NewProfileCoordinator creates a new ProfileCoordinator. timeout bounds each
// shared gateway read.
func NewProfileCoordinator(gw repository.Gateway, timeout time.Duration) ProfileCoordinator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &profileCoordinator{
		profiles: gw.Profiles,
		youth:    gw.Youth,
		experts:  gw.Experts,
		timeout:  timeout,
		now:      time.Now,
		states:   make(map[string]*profileState),
		inflight: make(map[string]int),
		released: make(map[string]uint64),
	}
}

func (c *profileCoordinator) Load(ctx context.Context, sess Session) (models.ProfileSnapshot, error) {
	if snap, ok := c.current(sess.UserID(), sess.UserType()); ok {
		return snap, nil
	}
	return c.load(ctx, sess.UserID(), sess.UserType(), false)
}

func (c *profileCoordinator) Reload(ctx context.Context, sess Session) (models.ProfileSnapshot, error) {
	return c.load(ctx, sess.UserID(), sess.UserType(), true)
}

func (c *profileCoordinator) Snapshot(userID string) (models.ProfileSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.states[userID]
	if !ok {
		return models.ProfileSnapshot{}, false
	}
	return st.snap.Clone(), true
}

func (c *profileCoordinator) Release(ctx context.Context, userID string) {
	c.mu.Lock()
	_, ok := c.states[userID]
	delete(c.states, userID)
	if c.inflight[userID] > 0 {
		c.released[userID] = c.gen.Add(1)
	}
	c.mu.Unlock()

	// Later loads must not join a read that started before the release.
	for _, t := range []models.UserType{models.UserTypeYouth, models.UserTypeExpert} {
		c.loads.Forget(loadKey(userID, t, false))
		c.loads.Forget(loadKey(userID, t, true))
	}
	if ok {
		logger.FromContext(ctx).WithPrefix("profile_coordinator").Debug("released snapshot for %s", userID)
	}
}

func (c *profileCoordinator) Stamp(userID string) (Stamp, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.states[userID]
	if !ok {
		return Stamp{}, false
	}
	return Stamp{Seq: c.seq.Add(1), Gen: st.gen}, true
}

func (c *profileCoordinator) Patch(userID string, entity Entity, stamp Stamp, fn func(*models.ProfileSnapshot)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.states[userID]
	if !ok || st.gen != stamp.Gen || stamp.Seq <= st.applied[entity] {
		return false
	}
	next := st.snap.Clone()
	fn(&next)
	st.snap = next
	st.applied[entity] = stamp.Seq
	return true
}

func (c *profileCoordinator) current(userID string, userType models.UserType) (models.ProfileSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.states[userID]
	if !ok || st.userType != userType {
		return models.ProfileSnapshot{}, false
	}
	return st.snap.Clone(), true
}

func loadKey(userID string, userType models.UserType, force bool) string {
	return fmt.Sprintf("%s/%s/%t", userID, userType, force)
}

// load shares one gateway read between concurrent callers. The read runs
// detached from any single caller; each caller stops waiting when its own
// ctx ends.
func (c *profileCoordinator) load(ctx context.Context, userID string, userType models.UserType, force bool) (models.ProfileSnapshot, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_coordinator")

	ch := c.loads.DoChan(loadKey(userID, userType, force), func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.fetchAndStore(fetchCtx, userID, userType, force)
	})

	select {
	case <-ctx.Done():
		log.Warn("stopped waiting for profile load of %s: %v", userID, ctx.Err())
		return models.ProfileSnapshot{}, gatewayFailure("profile load", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			log.Error("failed to load profile for %s: %v", userID, res.Err)
			return models.ProfileSnapshot{}, gatewayFailure("profile load", res.Err)
		}
		if res.Shared {
			log.Debug("joined in-flight load for %s", userID)
		}
		return res.Val.(models.ProfileSnapshot).Clone(), nil
	}
}

// fetchAndStore reads the snapshot and keeps it unless the user was released
// while the read was running.
func (c *profileCoordinator) fetchAndStore(ctx context.Context, userID string, userType models.UserType, force bool) (models.ProfileSnapshot, error) {
	c.mu.Lock()
	started := c.gen.Load()
	c.inflight[userID]++
	c.mu.Unlock()

	snap, err := c.fetch(ctx, userID, userType)

	c.mu.Lock()
	defer c.mu.Unlock()
	stale := c.released[userID] > started
	c.inflight[userID]--
	if c.inflight[userID] == 0 {
		delete(c.inflight, userID)
		delete(c.released, userID)
	}
	if err != nil {
		return models.ProfileSnapshot{}, err
	}
	if stale {
		logger.FromContext(ctx).WithPrefix("profile_coordinator").Debug("discarding profile read for released user %s", userID)
		return snap, nil
	}
	if st, ok := c.states[userID]; ok && !force && st.userType == userType {
		return st.snap.Clone(), nil
	}
	c.states[userID] = &profileState{
		userType: userType,
		gen:      c.gen.Add(1),
		snap:     snap,
		applied:  make(map[Entity]uint64),
	}
	return snap.Clone(), nil
}

// fetch reads the base profile and the role's sub-profile concurrently.
func (c *profileCoordinator) fetch(ctx context.Context, userID string, userType models.UserType) (models.ProfileSnapshot, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_coordinator")
	log.Debug("fetching profile: user=%s type=%s", userID, userType)

	now := c.now().UTC()
	snap := models.ProfileSnapshot{UserID: userID, UserType: userType, LoadedAt: now}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := c.profiles.Get(gctx, userID)
		if repository.IsNotFound(err) {
			log.Info("profile not provisioned yet for %s", userID)
			return nil
		}
		if err != nil {
			return err
		}
		snap.Profile = p
		return nil
	})

	switch userType {
	case models.UserTypeYouth:
		g.Go(func() error {
			y, err := c.youth.Get(gctx, userID)
			if repository.IsNotFound(err) {
				d := models.NewYouthAthleteProfile(userID, now)
				y, err = &d, nil
			}
			snap.Youth = y
			return err
		})
	case models.UserTypeExpert:
		g.Go(func() error {
			e, err := c.experts.Get(gctx, userID)
			if repository.IsNotFound(err) {
				d := models.NewExpertProfile(userID, now)
				e, err = &d, nil
			}
			snap.Expert = e
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return models.ProfileSnapshot{}, err
	}
	return snap, nil
}
