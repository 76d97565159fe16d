package service

import (
	"context"
	"log"
	"sync"
	"time"

	"taskquest/internal/model"
	"taskquest/internal/repository"
)

// DirtyKind is a bitmask of state tiers with unsynced local changes.
type DirtyKind int

const (
	DirtyTasks DirtyKind = 1 << iota
	DirtyStats
	DirtyAchievements
)

const (
	syncAttempts    = 3
	syncBaseBackoff = 200 * time.Millisecond
	syncMaxBackoff  = 2 * time.Second
)

// Outbox mirrors a session's local state into the remote stores. Local state
// stays authoritative: pushes are debounced, retried with capped backoff,
// and failures are logged and swallowed without ever rolling anything back.
// The only user-visible trace of trouble is the Online flag.
type Outbox struct {
	tasks        *repository.TaskRepository
	stats        *repository.StatsRepository
	achievements *repository.AchievementRepository
	userID       string
	debounce     time.Duration

	mu       sync.Mutex
	pending  DirtyKind
	timer    *time.Timer
	online   bool
	closed   bool
	snapshot func() ([]model.Task, model.GameStats, []model.AchievementProgress)
}

// NewOutbox builds an outbox for one user.
func NewOutbox(tasks *repository.TaskRepository, stats *repository.StatsRepository, achievements *repository.AchievementRepository, userID string, debounce time.Duration) *Outbox {
	if debounce <= 0 {
		debounce = time.Second
	}
	return &Outbox{
		tasks:        tasks,
		stats:        stats,
		achievements: achievements,
		userID:       userID,
		debounce:     debounce,
		online:       true,
	}
}

// SetSource wires the snapshot function the outbox reads at flush time.
func (o *Outbox) SetSource(fn func() ([]model.Task, model.GameStats, []model.AchievementProgress)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.snapshot = fn
}

// MarkDirty records that a state tier changed and (re)arms the debounce
// timer, coalescing rapid local changes into one push.
func (o *Outbox) MarkDirty(kind DirtyKind) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return
	}
	o.pending |= kind

	if o.timer != nil {
		o.timer.Stop()
	}
	o.timer = time.AfterFunc(o.debounce, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		o.Flush(ctx)
	})
}

// Flush pushes every pending tier now. Errors are logged, never returned to
// mutation paths; a failed tier stays pending for the next flush.
func (o *Outbox) Flush(ctx context.Context) {
	o.mu.Lock()
	pending := o.pending
	o.pending = 0
	snapshot := o.snapshot
	o.mu.Unlock()

	if pending == 0 || snapshot == nil {
		return
	}

	tasks, stats, progress := snapshot()

	ok := true
	if pending&DirtyTasks != 0 {
		if err := withRetry(ctx, func() error {
			return o.tasks.ReplaceForUser(ctx, o.userID, tasks)
		}); err != nil {
			log.Printf("sync tasks: %v", err)
			o.requeue(DirtyTasks)
			ok = false
		}
	}
	if pending&DirtyStats != 0 {
		if err := withRetry(ctx, func() error {
			return o.stats.Upsert(ctx, stats)
		}); err != nil {
			log.Printf("sync stats: %v", err)
			o.requeue(DirtyStats)
			ok = false
		}
	}
	if pending&DirtyAchievements != 0 {
		if err := withRetry(ctx, func() error {
			return o.achievements.UpsertProgress(ctx, progress)
		}); err != nil {
			log.Printf("sync achievements: %v", err)
			o.requeue(DirtyAchievements)
			ok = false
		}
	}

	o.mu.Lock()
	o.online = ok
	o.mu.Unlock()
}

// Online reports whether the last flush reached the remote stores. It feeds
// the passive connectivity indicator; sync failures never surface harder
// than this.
func (o *Outbox) Online() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.online
}

// Close stops the debounce timer and performs a final synchronous flush.
func (o *Outbox) Close(ctx context.Context) {
	o.mu.Lock()
	o.closed = true
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.mu.Unlock()

	o.Flush(ctx)
}

func (o *Outbox) requeue(kind DirtyKind) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.closed {
		o.pending |= kind
	}
}

// withRetry runs fn up to syncAttempts times with capped exponential backoff.
func withRetry(ctx context.Context, fn func() error) error {
	var err error
	backoff := syncBaseBackoff
	for attempt := 0; attempt < syncAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == syncAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > syncMaxBackoff {
			backoff = syncMaxBackoff
		}
	}
	return err
}
