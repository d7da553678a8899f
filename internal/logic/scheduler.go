package logic

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/VladimirMalevanik/discy/internal/clock"
	"github.com/VladimirMalevanik/discy/internal/ladder"
	"github.com/VladimirMalevanik/discy/internal/logger"
)

const (
	TriggerMorning = "morning"
	TriggerEvening = "evening"
	TriggerTick    = "tick"
)

// forEachActive walks the user registry in order and stops at the first
// failure so a broken store or transport surfaces to the trigger.
func (b *Bot) forEachActive(ctx context.Context, job string, fn func(context.Context, *ladder.User) error) error {
	ids, err := b.repo.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("%s: list users: %w", job, err)
	}
	today := b.clock.Today()
	sent := 0
	for _, id := range ids {
		u, err := b.repo.LoadUser(ctx, id, today)
		if err != nil {
			return fmt.Errorf("%s: load %d: %w", job, id, err)
		}
		if !u.Active {
			continue
		}
		if err := fn(ctx, u); err != nil {
			return fmt.Errorf("%s: chat %d: %w", job, id, err)
		}
		sent++
	}
	b.log.Info("scheduled run finished", "job", job, "users", len(ids), "active", sent)
	return nil
}

// RunMorningBroadcast sends today's goals to every active user whose survey
// is idle. A user still answering is left alone until the survey ends.
func (b *Bot) RunMorningBroadcast(ctx context.Context) error {
	return b.forEachActive(ctx, TriggerMorning, func(ctx context.Context, u *ladder.User) error {
		if !u.Survey.Idle() {
			return nil
		}
		return b.sendGoals(ctx, u, true)
	})
}

// RunEveningKickoff starts today's survey for every active user who has not
// already got one running today.
func (b *Bot) RunEveningKickoff(ctx context.Context) error {
	today := b.clock.Today()
	return b.forEachActive(ctx, TriggerEvening, func(ctx context.Context, u *ladder.User) error {
		if u.Survey.Date == today && !u.Survey.Idle() {
			return nil
		}
		return b.eveningStart(ctx, u)
	})
}

// RunScheduledTick is the single-trigger mode: idle users get their goals,
// then anyone without a survey running today is asked the first question.
func (b *Bot) RunScheduledTick(ctx context.Context) error {
	today := b.clock.Today()
	return b.forEachActive(ctx, TriggerTick, func(ctx context.Context, u *ladder.User) error {
		if u.Survey.Idle() {
			if err := b.sendGoals(ctx, u, true); err != nil {
				return err
			}
		}
		if u.Survey.Date != today || u.Survey.Idle() {
			return b.eveningStart(ctx, u)
		}
		return nil
	})
}

// RunTrigger dispatches a named scheduled job.
func (b *Bot) RunTrigger(ctx context.Context, name string) error {
	switch name {
	case TriggerMorning:
		return b.RunMorningBroadcast(ctx)
	case TriggerEvening:
		return b.RunEveningKickoff(ctx)
	case TriggerTick:
		return b.RunScheduledTick(ctx)
	}
	return fmt.Errorf("unknown trigger %q", name)
}

// cronSpec turns "HH:MM" into a daily five-field cron expression.
func cronSpec(hhmm string) (string, error) {
	m, err := clock.ToMinutes(hhmm)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d %d * * *", m%60, m/60), nil
}

// StartScheduler registers the morning and evening jobs in the bot's local
// offset and starts the cron runner. Callers stop it via the returned Cron.
func StartScheduler(ctx context.Context, b *Bot, morningAt, eveningAt string, log *logger.Logger) (*cron.Cron, error) {
	log = log.With("service", "Scheduler")
	c := cron.New(cron.WithLocation(b.clock.Location()))

	jobs := []struct {
		name string
		at   string
	}{
		{TriggerMorning, morningAt},
		{TriggerEvening, eveningAt},
	}
	for _, j := range jobs {
		spec, err := cronSpec(j.at)
		if err != nil {
			return nil, fmt.Errorf("scheduler: %s at %q: %w", j.name, j.at, err)
		}
		name := j.name
		if _, err := c.AddFunc(spec, func() {
			log.Info("running scheduled job", "job", name)
			if err := b.RunTrigger(ctx, name); err != nil {
				log.Error("scheduled job failed", "job", name, "error", err)
			}
		}); err != nil {
			return nil, fmt.Errorf("scheduler: add %s: %w", name, err)
		}
		log.Info("job scheduled", "job", name, "spec", spec)
	}
	c.Start()
	return c, nil
}
