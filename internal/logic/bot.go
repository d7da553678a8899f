package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/VladimirMalevanik/discy/internal/clock"
	"github.com/VladimirMalevanik/discy/internal/common"
	"github.com/VladimirMalevanik/discy/internal/db"
	"github.com/VladimirMalevanik/discy/internal/ladder"
	"github.com/VladimirMalevanik/discy/internal/logger"
)

// Bot routes inbound chat text and scheduled events onto the ladder state.
// Store and send failures are returned to the caller untouched; a rejected
// survey answer is handled here with a re-prompt.
type Bot struct {
	repo      *db.Repository
	sender    Sender
	clock     *clock.Clock
	coach     Coach
	log       *logger.Logger
	morningAt string
	eveningAt string
}

type BotOptions struct {
	MorningAt string
	EveningAt string
	Coach     Coach // optional
}

func NewBot(repo *db.Repository, sender Sender, clk *clock.Clock, log *logger.Logger, opts BotOptions) *Bot {
	if opts.MorningAt == "" {
		opts.MorningAt = common.DefaultMorningAt
	}
	if opts.EveningAt == "" {
		opts.EveningAt = common.DefaultEveningAt
	}
	return &Bot{
		repo:      repo,
		sender:    sender,
		clock:     clk,
		coach:     opts.Coach,
		log:       log.With("service", "Bot"),
		morningAt: opts.MorningAt,
		eveningAt: opts.EveningAt,
	}
}

// HandleMessage processes one inbound text from chatID.
func (b *Bot) HandleMessage(ctx context.Context, chatID int64, text string) error {
	if err := b.repo.AddUser(ctx, chatID); err != nil {
		return err
	}
	u, err := b.repo.LoadUser(ctx, chatID, b.clock.Today())
	if err != nil {
		return err
	}

	switch text = strings.TrimSpace(text); text {
	case common.CmdStart:
		return b.start(ctx, u)
	case common.CmdStop:
		return b.stop(ctx, u)
	case common.CmdStats:
		return b.send(ctx, chatID, statsText(u))
	case common.CmdGoals:
		return b.send(ctx, chatID, goalsText(u.Goals(), nil))
	case common.CmdHelp:
		return b.send(ctx, chatID, instructionsText(b.morningAt, b.eveningAt))
	}

	if u.Survey.Idle() {
		return nil
	}
	return b.answer(ctx, u, text)
}

func (b *Bot) start(ctx context.Context, u *ladder.User) error {
	u.Active = true
	if u.StartDate == "" {
		u.StartDate = b.clock.Today()
	}
	if err := b.repo.SaveUser(ctx, u); err != nil {
		return err
	}
	b.log.Info("user started", "chat_id", u.ChatID, "start_date", u.StartDate)
	if err := b.send(ctx, u.ChatID, instructionsText(b.morningAt, b.eveningAt)); err != nil {
		return err
	}
	return b.sendGoals(ctx, u, false)
}

func (b *Bot) stop(ctx context.Context, u *ladder.User) error {
	u.Active = false
	if err := b.repo.SaveUser(ctx, u); err != nil {
		return err
	}
	b.log.Info("user stopped", "chat_id", u.ChatID)
	return b.send(ctx, u.ChatID, stopText)
}

func (b *Bot) answer(ctx context.Context, u *ladder.User, text string) error {
	next, done, err := u.Survey.Answer(ctx, text)
	var rejected *ladder.AnswerError
	if errors.As(err, &rejected) {
		return b.send(ctx, u.ChatID, rejected.Reply)
	}
	if err != nil {
		return err
	}
	if err := b.repo.SaveUser(ctx, u); err != nil {
		return err
	}
	if !done {
		return b.send(ctx, u.ChatID, next)
	}
	return b.finalize(ctx, u)
}

func (b *Bot) finalize(ctx context.Context, u *ladder.User) error {
	res := u.Finalize(b.clock.Today())
	if err := b.repo.SaveUser(ctx, u); err != nil {
		return err
	}
	if err := b.repo.SaveDayLog(ctx, u.ChatID, res); err != nil {
		return err
	}
	b.log.Info("day finalized", "chat_id", u.ChatID, "date", res.Date, "delta", res.Delta,
		"points", res.Points, "streak", res.Streak, "day_index", res.DayIndex)

	var remark string
	if b.coach != nil {
		r, err := b.coach.Remark(ctx, res)
		if err != nil {
			b.log.Warn("coach remark skipped", "chat_id", u.ChatID, "error", err)
		} else {
			remark = r
		}
	}
	return b.send(ctx, u.ChatID, summaryText(res, remark))
}

// eveningStart begins today's survey, dropping any unfinished one.
func (b *Bot) eveningStart(ctx context.Context, u *ladder.User) error {
	prompt := u.Survey.Begin(b.clock.Today())
	if err := b.repo.SaveUser(ctx, u); err != nil {
		return err
	}
	return b.send(ctx, u.ChatID, prompt)
}

func (b *Bot) sendGoals(ctx context.Context, u *ladder.User, withWeek bool) error {
	var week *WeekSummary
	if withWeek {
		var err error
		if week, err = b.weekSummary(ctx, u); err != nil {
			return err
		}
	}
	return b.send(ctx, u.ChatID, goalsText(u.Goals(), week))
}

// weekSummary returns nil unless today closes a full week since the start date.
func (b *Bot) weekSummary(ctx context.Context, u *ladder.User) (*WeekSummary, error) {
	if u.StartDate == "" {
		return nil, nil
	}
	days, err := b.clock.DaysSince(u.StartDate)
	if err != nil {
		b.log.Warn("bad start date", "chat_id", u.ChatID, "start_date", u.StartDate)
		return nil, nil
	}
	if days < 7 || days%7 != 0 {
		return nil, nil
	}

	today := b.clock.Today()
	var logs []ladder.Actuals
	for i := 1; i <= 7; i++ {
		date, err := clock.ShiftDate(today, -i)
		if err != nil {
			return nil, err
		}
		l, err := b.repo.LoadDayLog(ctx, u.ChatID, date)
		if errors.Is(err, db.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		logs = append(logs, l.Actuals)
	}
	return summarizeWeek(u.DayIndex, logs), nil
}

func (b *Bot) send(ctx context.Context, chatID int64, text string) error {
	if err := b.sender.SendMessage(ctx, chatID, text); err != nil {
		return fmt.Errorf("send to %d: %w", chatID, err)
	}
	return nil
}
