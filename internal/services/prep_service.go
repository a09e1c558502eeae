package services

import (
	"context"
	"sync"

	"mealprep-backend/internal/mealprep"
	"mealprep-backend/internal/metrics"
)

// prepSession pairs a user's engine with the lock that serializes
// access to it. The same user can hold several browser tabs at once,
// so two requests may target the same engine concurrently.
type prepSession struct {
	mu     sync.Mutex
	engine *mealprep.Engine
	loaded bool
}

// PrepService keeps one prep engine per user for the lifetime of the
// process. An engine is created lazily on first use and primed from the
// user's stored meal plan; after that every mutation goes through the
// engine so its in-memory state stays the source of truth.
type PrepService struct {
	store mealprep.PlanStore

	// OnSaved, when set, is called after every successful persisted
	// reconciliation with the owning user and plan id. Used to fan the
	// change out to the user's other sessions; must not block.
	OnSaved func(userID, planID int)

	mu       sync.Mutex
	sessions map[int]*prepSession
}

func NewPrepService(store mealprep.PlanStore) *PrepService {
	return &PrepService{
		store:    store,
		sessions: make(map[int]*prepSession),
	}
}

// PrepState is a point-in-time copy of a user's session, safe to
// encode after the session lock has been released.
type PrepState struct {
	Entries    []*mealprep.Entry
	PrepMode   mealprep.PrepMode
	SaveFailed bool
	SaveError  string
}

func (s *PrepService) notifySaved(userID int, engine *mealprep.Engine) {
	if s.OnSaved == nil {
		return
	}
	if planID := engine.PlanID(); planID != nil {
		s.OnSaved(userID, *planID)
	}
}

func (s *PrepService) session(userID int) *prepSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &prepSession{
			engine: mealprep.NewEngine(mealprep.NewScheduler(), s.store, userID),
		}
		s.sessions[userID] = sess
	}
	return sess
}

// withEngine runs fn with the user's engine while holding the session
// lock, so requests from the same user run one at a time. The first
// call for a user also primes the engine from the stored plan.
func (s *PrepService) withEngine(ctx context.Context, userID int, fn func(*mealprep.Engine)) {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.loaded {
		sess.loaded = true
		// Best effort: a missing or unreadable plan leaves an empty
		// scheduler and sets the engine's error state.
		sess.engine.Load(ctx)
	}
	fn(sess.engine)
}

// Engine returns the user's prep engine, loading their plan on first
// access. The returned engine is the live one; request handling goes
// through the service methods, which serialize per-user access.
func (s *PrepService) Engine(ctx context.Context, userID int) *mealprep.Engine {
	var engine *mealprep.Engine
	s.withEngine(ctx, userID, func(e *mealprep.Engine) { engine = e })
	return engine
}

// State snapshots the user's entries, mode and save status. Entries are
// copied so callers can serialize them without holding the lock.
func (s *PrepService) State(ctx context.Context, userID int) PrepState {
	var state PrepState
	s.withEngine(ctx, userID, func(e *mealprep.Engine) {
		state.Entries = cloneEntries(e.Scheduler().Entries())
		state.PrepMode = e.Scheduler().PrepMode()
		state.SaveFailed, state.SaveError = e.SaveFailed()
	})
	return state
}

func (s *PrepService) CreateEntry(ctx context.Context, userID int, in mealprep.CreateEntryInput) (*mealprep.Entry, error) {
	var (
		entry *mealprep.Entry
		err   error
	)
	s.withEngine(ctx, userID, func(e *mealprep.Engine) {
		entry, err = e.CreateEntry(ctx, in)
		if entry != nil {
			metrics.PrepEntriesActive.Inc()
		}
		if err == nil {
			s.notifySaved(userID, e)
		}
	})
	return entry, err
}

func (s *PrepService) MarkConsumed(ctx context.Context, userID int, entryID string, portionNumber int) (bool, error) {
	var (
		found bool
		err   error
	)
	s.withEngine(ctx, userID, func(e *mealprep.Engine) {
		found, err = e.MarkConsumed(ctx, entryID, portionNumber)
		if found && err == nil {
			s.notifySaved(userID, e)
		}
	})
	return found, err
}

func (s *PrepService) UpdateServings(ctx context.Context, userID int, entryID string, servings int) (bool, error) {
	var (
		found bool
		err   error
	)
	s.withEngine(ctx, userID, func(e *mealprep.Engine) {
		found, err = e.UpdateServings(ctx, entryID, servings)
		if found && err == nil {
			s.notifySaved(userID, e)
		}
	})
	return found, err
}

func (s *PrepService) DeleteEntry(ctx context.Context, userID int, entryID string) (bool, error) {
	var (
		deleted bool
		err     error
	)
	s.withEngine(ctx, userID, func(e *mealprep.Engine) {
		deleted, err = e.DeleteEntry(ctx, entryID)
		if deleted {
			metrics.PrepEntriesActive.Dec()
			if err == nil {
				s.notifySaved(userID, e)
			}
		}
	})
	return deleted, err
}

func (s *PrepService) UpcomingLeftovers(ctx context.Context, userID int, today string) []mealprep.Leftover {
	var leftovers []mealprep.Leftover
	s.withEngine(ctx, userID, func(e *mealprep.Engine) {
		leftovers = e.Scheduler().UpcomingLeftovers(today)
	})
	return leftovers
}

func (s *PrepService) TodaysPrepList(ctx context.Context, userID int, today string) []*mealprep.Entry {
	var due []*mealprep.Entry
	s.withEngine(ctx, userID, func(e *mealprep.Engine) {
		due = cloneEntries(e.Scheduler().TodaysPrepList(today))
	})
	return due
}

// SetPrepMode changes the session mode and persists the plan, the same
// write the mode toggle triggers.
func (s *PrepService) SetPrepMode(ctx context.Context, userID int, mode mealprep.PrepMode) {
	s.withEngine(ctx, userID, func(e *mealprep.Engine) {
		e.Scheduler().SetPrepMode(mode)
		if err := e.Save(ctx); err == nil {
			s.notifySaved(userID, e)
		}
	})
}

func (s *PrepService) Save(ctx context.Context, userID int) error {
	var err error
	s.withEngine(ctx, userID, func(e *mealprep.Engine) {
		err = e.Save(ctx)
		if err != nil {
			metrics.PlanSavesTotal.WithLabelValues("error").Inc()
			return
		}
		metrics.PlanSavesTotal.WithLabelValues("ok").Inc()
		s.notifySaved(userID, e)
	})
	return err
}

func (s *PrepService) Reload(ctx context.Context, userID int) error {
	var err error
	s.withEngine(ctx, userID, func(e *mealprep.Engine) {
		err = e.Load(ctx)
	})
	return err
}

// cloneEntries copies entries and their portion slices so a snapshot
// cannot observe later in-place mutations.
func cloneEntries(entries []*mealprep.Entry) []*mealprep.Entry {
	if entries == nil {
		return nil
	}
	out := make([]*mealprep.Entry, len(entries))
	for i, entry := range entries {
		clone := *entry
		clone.Portions = append([]mealprep.Portion(nil), entry.Portions...)
		out[i] = &clone
	}
	return out
}
