package service

import (
	"context"
	"log"
	"sync"
	"time"

	"taskquest/internal/repository"
)

// Registry tracks the live session of every signed-in user. Sessions are
// created on first use after sign-in, loaded from the remote stores, and
// torn down (with a final flush) at sign-out or shutdown.
type Registry struct {
	tasks        *repository.TaskRepository
	stats        *repository.StatsRepository
	achievements *repository.AchievementRepository
	debounce     time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
	loading  map[string]chan struct{}
}

func NewRegistry(tasks *repository.TaskRepository, stats *repository.StatsRepository, achievements *repository.AchievementRepository, debounce time.Duration) *Registry {
	return &Registry{
		tasks:        tasks,
		stats:        stats,
		achievements: achievements,
		debounce:     debounce,
		sessions:     make(map[string]*Session),
		loading:      make(map[string]chan struct{}),
	}
}

// Attach returns the user's live session, building and loading it on first
// use. The session is published only after its rows are loaded and
// reconciled, so a burst of requests right after sign-in never sees (or
// mutates) pre-load state; concurrent attachers wait for the first load
// instead of racing it. Load failures are logged and the session starts
// from defaults; local state must stay usable even if the remote stores
// never answer.
func (r *Registry) Attach(ctx context.Context, userID string) *Session {
	for {
		r.mu.Lock()
		if ses, ok := r.sessions[userID]; ok {
			r.mu.Unlock()
			return ses
		}
		if done, ok := r.loading[userID]; ok {
			r.mu.Unlock()
			<-done
			continue
		}
		done := make(chan struct{})
		r.loading[userID] = done
		r.mu.Unlock()

		outbox := NewOutbox(r.tasks, r.stats, r.achievements, userID, r.debounce)
		ses := NewSession(userID, outbox)

		tasks, err := r.tasks.ListByUser(ctx, userID)
		if err != nil {
			log.Printf("load tasks for %s: %v", userID, err)
		}
		stats, err := r.stats.GetByUser(ctx, userID)
		if err != nil {
			log.Printf("load stats for %s: %v", userID, err)
		}
		progress, err := r.achievements.ListByUser(ctx, userID)
		if err != nil {
			log.Printf("load achievements for %s: %v", userID, err)
		}

		// Load first, then reconcile: the staleness pass must see the loaded
		// rows before the generation scan runs.
		ses.Load(tasks, stats, progress)
		ses.Reconcile(ses.Clock())

		r.mu.Lock()
		r.sessions[userID] = ses
		delete(r.loading, userID)
		r.mu.Unlock()
		close(done)
		return ses
	}
}

// Get returns the live session for the user, if any.
func (r *Registry) Get(userID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ses, ok := r.sessions[userID]
	return ses, ok
}

// Detach flushes and removes the user's session.
func (r *Registry) Detach(ctx context.Context, userID string) {
	r.mu.Lock()
	ses, ok := r.sessions[userID]
	delete(r.sessions, userID)
	r.mu.Unlock()

	if ok && ses.outbox != nil {
		ses.outbox.Close(ctx)
	}
}

// ScanAll runs the generation scan on every live session; the scheduler
// calls this on an interval.
func (r *Registry) ScanAll(now time.Time) {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, ses := range r.sessions {
		sessions = append(sessions, ses)
	}
	r.mu.Unlock()

	for _, ses := range sessions {
		ses.Scan(now)
	}
}

// CloseAll flushes and drops every session, for shutdown.
func (r *Registry) CloseAll(ctx context.Context) {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, ses := range sessions {
		if ses.outbox != nil {
			ses.outbox.Close(ctx)
		}
	}
}
