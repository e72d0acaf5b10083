// Package scheduler runs the recurring deadline-reminder scan.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"scholar_bot/internal/bot"
	"scholar_bot/internal/catalog"
	"scholar_bot/internal/deadline"
	"scholar_bot/internal/model"
	"scholar_bot/internal/storage"
)

// Tier is the severity of a reminder, derived from which day threshold
// matched.
type Tier string

// Severity tiers, closest deadline first.
const (
	TierCritical Tier = "critical"
	TierWarning  Tier = "warning"
	TierNotice   Tier = "notice"
)

// alertDays are the exact days-left values at which a reminder fires.
// Matching exact days rather than a window means each threshold fires once;
// the trade-off is that a tick skipped by downtime silently loses that
// day's reminders.
var alertDays = []int{30, 7, 1}

// Event is one reminder produced by a scan. Events are ephemeral; they go
// straight to the sender and are never stored.
type Event struct {
	UserID   int64
	Index    int
	DaysLeft int
	Tier     Tier
}

// Sender is the interface for delivering reminder messages.
type Sender interface {
	SendMessage(chatID int64, text string)
}

// Scheduler periodically scans subscriptions and sends deadline reminders.
type Scheduler struct {
	store        storage.Storage
	catalog      *catalog.Catalog
	sender       Sender
	log          *slog.Logger
	tick         time.Duration
	initialDelay time.Duration
	now          func() time.Time
}

// New creates a Scheduler with the default daily tick.
func New(store storage.Storage, cat *catalog.Catalog, sender Sender, log *slog.Logger) *Scheduler {
	return &Scheduler{
		store:        store,
		catalog:      cat,
		sender:       sender,
		log:          log,
		tick:         24 * time.Hour,
		initialDelay: time.Minute,
		now:          time.Now,
	}
}

// SetTickInterval overrides the default daily scan interval.
func (s *Scheduler) SetTickInterval(d time.Duration) {
	s.tick = d
}

// SetInitialDelay overrides the delay before the first scan. The delay
// exists so a restart does not fire a burst of sends while the bot is still
// coming up.
func (s *Scheduler) SetInitialDelay(d time.Duration) {
	s.initialDelay = d
}

// SetClock overrides the time source (useful for testing).
func (s *Scheduler) SetClock(now func() time.Time) {
	s.now = now
}

// Run starts the scheduler loop, blocking until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(s.initialDelay):
	}
	s.scan(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.scan(ctx)
		}
	}
}

// scan is one tick: walk every subscription, resolve its deadline against
// the tick time, and deliver a reminder when a threshold day is hit.
func (s *Scheduler) scan(ctx context.Context) {
	subs, err := s.store.ListAllSubscriptions(ctx)
	if err != nil {
		s.log.Error("list subscriptions", "error", err)
		return
	}

	tickTime := s.now().UTC()
	sent := 0

	for _, sub := range subs {
		if ctx.Err() != nil {
			return
		}

		entry, ok := s.catalog.Get(sub.Index)
		if !ok {
			// The catalog shrank since this subscription was created.
			s.log.Debug("skipping stale subscription", "user_id", sub.UserID, "index", sub.Index)
			continue
		}

		due, ok := deadline.Normalize(entry.Deadline, tickTime)
		if !ok {
			continue
		}

		daysLeft := deadline.DaysUntil(due, tickTime)
		tier, ok := tierFor(daysLeft)
		if !ok {
			continue
		}

		ev := Event{UserID: sub.UserID, Index: sub.Index, DaysLeft: daysLeft, Tier: tier}
		s.deliver(ev, entry)
		sent++

		// Rate limit: ~20 messages/sec max for Telegram
		time.Sleep(50 * time.Millisecond)
	}

	if sent > 0 {
		s.log.Info("sent reminders", "count", sent)
	}
}

// deliver hands one event to the sender. The sender absorbs transport
// failures, so one dead chat never stops the scan.
func (s *Scheduler) deliver(ev Event, entry model.Scholarship) {
	msg := bot.FormatReminder(entry, ev.Index, ev.DaysLeft, ev.Tier.Emoji())
	s.sender.SendMessage(ev.UserID, msg)
}

func tierFor(daysLeft int) (Tier, bool) {
	for _, d := range alertDays {
		if daysLeft == d {
			switch {
			case daysLeft <= 1:
				return TierCritical, true
			case daysLeft <= 7:
				return TierWarning, true
			default:
				return TierNotice, true
			}
		}
	}
	return "", false
}

// Emoji returns the marker used in reminder messages for the tier.
func (t Tier) Emoji() string {
	switch t {
	case TierCritical:
		return "🔴"
	case TierWarning:
		return "🟡"
	default:
		return "🟢"
	}
}
