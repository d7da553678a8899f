package logic

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/VladimirMalevanik/discy/internal/clock"
	"github.com/VladimirMalevanik/discy/internal/db"
	"github.com/VladimirMalevanik/discy/internal/ladder"
	"github.com/VladimirMalevanik/discy/internal/logger"
)

type sentMessage struct {
	ChatID int64
	Text   string
}

// fakeSender records messages and can be told to fail.
type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{chatID, text})
	return nil
}

func (f *fakeSender) texts(chatID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.sent {
		if m.ChatID == chatID {
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeSender) last(chatID int64) string {
	t := f.texts(chatID)
	if len(t) == 0 {
		return ""
	}
	return t[len(t)-1]
}

func (f *fakeSender) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
}

type fakeCoach struct {
	remark string
	err    error
}

func (c fakeCoach) Remark(context.Context, ladder.DayResult) (string, error) {
	return c.remark, c.err
}

var errSendFailed = errors.New("send failed")

type testEnv struct {
	bot    *Bot
	repo   *db.Repository
	sender *fakeSender
	now    time.Time
}

// newTestEnv builds a bot over a memory store whose clock reads the env's
// now field, three hours east of UTC.
func newTestEnv(t *testing.T, coach Coach) *testEnv {
	t.Helper()
	env := &testEnv{
		repo:   db.NewRepository(db.NewMemoryStore()),
		sender: &fakeSender{},
		now:    time.Date(2025, 3, 10, 19, 0, 0, 0, time.UTC),
	}
	clk := clock.New(180).WithNow(func() time.Time { return env.now })
	env.bot = NewBot(env.repo, env.sender, clk, logger.Nop(), BotOptions{Coach: coach})
	return env
}

func (e *testEnv) today() string { return e.bot.clock.Today() }

func (e *testEnv) advanceDays(n int) { e.now = e.now.AddDate(0, 0, n) }

func (e *testEnv) send(t *testing.T, chatID int64, texts ...string) {
	t.Helper()
	for _, text := range texts {
		require.NoError(t, e.bot.HandleMessage(context.Background(), chatID, text))
	}
}

func (e *testEnv) user(t *testing.T, chatID int64) *ladder.User {
	t.Helper()
	u, err := e.repo.LoadUser(context.Background(), chatID, e.today())
	require.NoError(t, err)
	return u
}
