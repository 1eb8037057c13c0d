package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kislikjeka/solsplit/internal/progress"
	"github.com/kislikjeka/solsplit/pkg/logger"
)

// Event is a one-shot unlock notification handed to the presentation
// surface. Display lifecycle (duration, dismissal) is the surface's problem;
// this package's contract ends at "emitted at most once per unlock".
type Event struct {
	ID          string               `json:"id"`
	Achievement progress.Achievement `json:"achievement"`
	UnlockedAt  time.Time            `json:"unlocked_at"`
}

// Sink receives unlock events.
type Sink interface {
	Notify(ctx context.Context, event Event)
}

// Notifier diffs successive progress ledgers and emits an event for every
// achievement that transitioned from locked to unlocked.
type Notifier struct {
	sinks  []Sink
	clock  func() time.Time
	logger *logger.Logger
}

// NewNotifier creates a notifier fanning out to the given sinks.
func NewNotifier(log *logger.Logger, sinks ...Sink) *Notifier {
	return &Notifier{
		sinks:  sinks,
		clock:  time.Now,
		logger: log.WithField("component", "notify"),
	}
}

// WithClock overrides the time source. Test hook.
func (n *Notifier) WithClock(clock func() time.Time) *Notifier {
	n.clock = clock
	return n
}

// DiffAndNotify compares the two ledgers and notifies every sink once for
// each achievement unlocked in new but not in old. It returns the newly
// unlocked achievements in catalog order.
func (n *Notifier) DiffAndNotify(ctx context.Context, old, new *progress.Ledger) []progress.Achievement {
	if new == nil {
		return nil
	}

	var unlocked []progress.Achievement
	for _, a := range new.Achievements {
		if !a.Unlocked {
			continue
		}
		if old != nil && old.IsUnlocked(a.ID) {
			continue
		}

		unlocked = append(unlocked, a)
		event := Event{
			ID:          uuid.NewString(),
			Achievement: a,
			UnlockedAt:  n.clock(),
		}

		n.logger.Info("achievement unlocked", "achievement", a.ID, "title", a.Title)
		for _, sink := range n.sinks {
			sink.Notify(ctx, event)
		}
	}

	return unlocked
}
