package logic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladimirMalevanik/discy/internal/logger"
)

func TestMorningBroadcastSkipsInactive(t *testing.T) {
	env := newTestEnv(t, nil)
	env.send(t, 1, "/start")
	env.send(t, 2, "/start", "/stop")
	env.sender.reset()

	require.NoError(t, env.bot.RunMorningBroadcast(context.Background()))
	assert.Len(t, env.sender.texts(1), 1)
	assert.Empty(t, env.sender.texts(2))
}

func TestMorningBroadcastSkipsRunningSurvey(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.send(t, chat, "/start")
	require.NoError(t, env.bot.RunEveningKickoff(ctx))
	env.send(t, chat, "15")
	env.sender.reset()

	require.NoError(t, env.bot.RunMorningBroadcast(ctx))
	assert.Empty(t, env.sender.texts(chat))
	u := env.user(t, chat)
	require.NotNil(t, u.Survey.Step)
	assert.Equal(t, 1, *u.Survey.Step)

	// once the survey is done the next morning sends goals again
	env.send(t, chat, "30", "180", "90", "08:00", "23:30")
	env.sender.reset()
	require.NoError(t, env.bot.RunMorningBroadcast(ctx))
	assert.Contains(t, env.sender.last(chat), "Сегодняшние цели:")
}

func TestEveningKickoff(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.send(t, chat, "/start")
	env.sender.reset()

	require.NoError(t, env.bot.RunEveningKickoff(ctx))
	env.send(t, chat, "15")
	require.Len(t, env.sender.texts(chat), 2)

	// a survey already running today is left alone
	require.NoError(t, env.bot.RunEveningKickoff(ctx))
	assert.Len(t, env.sender.texts(chat), 2)

	// yesterday's unfinished survey is replaced
	env.advanceDays(1)
	require.NoError(t, env.bot.RunEveningKickoff(ctx))
	assert.Contains(t, env.sender.last(chat), "1) Сколько минут")
	u := env.user(t, chat)
	assert.Equal(t, env.today(), u.Survey.Date)
	assert.Equal(t, 0, *u.Survey.Step)
	_, answered := u.Survey.Tmp.Get("reading")
	assert.False(t, answered)
}

func TestScheduledTickIdleUserGetsGoalsThenSurvey(t *testing.T) {
	env := newTestEnv(t, nil)
	env.send(t, chat, "/start")
	env.sender.reset()

	require.NoError(t, env.bot.RunScheduledTick(context.Background()))
	texts := env.sender.texts(chat)
	require.Len(t, texts, 2)
	assert.Contains(t, texts[0], "Сегодняшние цели:")
	assert.Contains(t, texts[1], "1) Сколько минут")
}

func TestScheduledTickMidSurvey(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.send(t, chat, "/start")
	require.NoError(t, env.bot.RunEveningKickoff(ctx))
	env.send(t, chat, "15")
	env.sender.reset()

	require.NoError(t, env.bot.RunScheduledTick(ctx))
	assert.Empty(t, env.sender.texts(chat), "same-day survey in progress")

	env.advanceDays(1)
	require.NoError(t, env.bot.RunScheduledTick(ctx))
	texts := env.sender.texts(chat)
	require.Len(t, texts, 1, "stale survey restarts without goals")
	assert.Contains(t, texts[0], "1) Сколько минут")
}

func TestScheduledRunAbortsOnSendFailure(t *testing.T) {
	env := newTestEnv(t, nil)
	env.send(t, 1, "/start")
	env.send(t, 2, "/start")
	env.sender.reset()
	env.sender.err = errSendFailed

	err := env.bot.RunEveningKickoff(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errSendFailed)
	assert.Contains(t, err.Error(), "chat 1")

	// the first user's survey was saved before the send failed, the second was never reached
	assert.False(t, env.user(t, 1).Survey.Idle())
	assert.True(t, env.user(t, 2).Survey.Idle())
}

func TestRunTrigger(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.send(t, chat, "/start")
	env.sender.reset()

	require.NoError(t, env.bot.RunTrigger(ctx, TriggerMorning))
	assert.Len(t, env.sender.texts(chat), 1)
	require.NoError(t, env.bot.RunTrigger(ctx, TriggerEvening))
	assert.Len(t, env.sender.texts(chat), 2)
	require.NoError(t, env.bot.RunTrigger(ctx, TriggerTick))

	assert.Error(t, env.bot.RunTrigger(ctx, "noon"))
}

func TestCronSpec(t *testing.T) {
	spec, err := cronSpec("07:00")
	require.NoError(t, err)
	assert.Equal(t, "0 7 * * *", spec)

	spec, err = cronSpec("22:50")
	require.NoError(t, err)
	assert.Equal(t, "50 22 * * *", spec)

	_, err = cronSpec("7:00")
	assert.Error(t, err)
}

func TestStartScheduler(t *testing.T) {
	env := newTestEnv(t, nil)
	c, err := StartScheduler(context.Background(), env.bot, "07:00", "22:50", logger.Nop())
	require.NoError(t, err)
	defer c.Stop()
	assert.Len(t, c.Entries(), 2)

	_, err = StartScheduler(context.Background(), env.bot, "25:00", "22:50", logger.Nop())
	assert.Error(t, err)
}
