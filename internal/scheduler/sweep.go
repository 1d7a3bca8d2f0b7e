package scheduler

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/notAbhay321/monkeytype-streak-notifier/internal/domain"
	"github.com/notAbhay321/monkeytype-streak-notifier/internal/profile"
	"github.com/notAbhay321/monkeytype-streak-notifier/internal/store"
)

// Sender is a minimal interface the sweep needs to send a text message.
// telegram.Router implements it.
type Sender interface {
	SendMessage(chatID int64, text string) error
}

// ProfileFetcher returns the live profile for a credential.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, credential string) (*profile.Profile, error)
}

// Report summarises one sweep.
type Report struct {
	RunID   string
	Total   int // users in the directory
	Due     int // users whose target hour is now
	Sent    int
	Deduped int // due but already reminded today
	Failed  int // profile, render or delivery failures
}

// Sweeper performs one reminder pass over the directory.
type Sweeper struct {
	dir       store.Directory
	profiles  ProfileFetcher
	sender    Sender
	templates *domain.ReminderTemplates
	log       *zap.Logger
	pick      func(n int) int
}

// NewSweeper creates a Sweeper that picks reminder texts at random.
func NewSweeper(dir store.Directory, profiles ProfileFetcher, sender Sender, templates *domain.ReminderTemplates, log *zap.Logger) *Sweeper {
	return &Sweeper{
		dir:       dir,
		profiles:  profiles,
		sender:    sender,
		templates: templates,
		log:       log,
		pick:      rand.Intn,
	}
}

// Sweep sends today's reminder to every user whose target hour equals the
// UTC hour of now and who was not reminded yet on now's UTC date. Per-user
// failures are logged and skipped; the reminder dates of delivered users are
// written back in one MarkReminded at the end, so records changed by the bot
// during the sweep are kept. Only a directory error is returned.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (Report, error) {
	now = now.UTC()
	rep := Report{RunID: uuid.NewString()}
	log := s.log.With(zap.String("run", rep.RunID))

	users, err := s.dir.All(ctx)
	if err != nil {
		return rep, fmt.Errorf("load users: %w", err)
	}
	rep.Total = len(users)

	hour, today := now.Hour(), domain.DateOf(now)
	reminded := make(map[string]domain.Date)

	for i := range users {
		if ctx.Err() != nil {
			log.Warn("sweep interrupted", zap.Error(ctx.Err()))
			break
		}
		u := &users[i]
		if u.TargetHour() != hour {
			continue
		}
		rep.Due++
		if u.RemindedOn(today) {
			rep.Deduped++
			continue
		}

		ulog := log.With(zap.String("identity", u.Identity), zap.Int64("chatID", u.ChatID))

		p, err := s.profiles.FetchProfile(ctx, u.Credential)
		if err != nil {
			rep.Failed++
			ulog.Warn("profile fetch failed", zap.Error(err))
			continue
		}

		msg, err := s.templates.Render(s.pick(s.templates.Len()), domain.ReminderData{
			Name:   p.Name,
			Streak: p.StreakDays,
			Tests:  p.CompletedTests,
			WPM:    int(math.Round(p.AvgWPM)),
		})
		if err != nil {
			rep.Failed++
			ulog.Error("render reminder failed", zap.Error(err))
			continue
		}

		if err := s.sender.SendMessage(u.ChatID, msg); err != nil {
			rep.Failed++
			ulog.Error("send failed", zap.Error(err))
			continue
		}

		reminded[u.Identity] = today
		rep.Sent++
		ulog.Info("reminder sent", zap.Int("streak", p.StreakDays))
	}

	// Reminders already delivered must be recorded even after cancellation.
	if len(reminded) > 0 {
		if err := s.dir.MarkReminded(context.WithoutCancel(ctx), reminded); err != nil {
			return rep, fmt.Errorf("save reminder dates: %w", err)
		}
	}

	log.Info("sweep finished",
		zap.Int("hour", hour),
		zap.Stringer("date", today),
		zap.Int("total", rep.Total),
		zap.Int("due", rep.Due),
		zap.Int("sent", rep.Sent),
		zap.Int("deduped", rep.Deduped),
		zap.Int("failed", rep.Failed),
	)
	return rep, nil
}
