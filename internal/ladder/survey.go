package ladder

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/looplab/fsm"

	"github.com/VladimirMalevanik/discy/internal/clock"
)

// Survey is the evening interview. Step is nil while idle, otherwise the
// index of the next unanswered question.
type Survey struct {
	Date string  `json:"date,omitempty"`
	Step *int    `json:"step"`
	Tmp  Answers `json:"tmp"`
}

var ErrSurveyIdle = errors.New("survey: not running")

// AnswerError is a rejected answer. Reply is the re-prompt for the same step.
type AnswerError struct {
	Step  int
	Reply string
}

func (e *AnswerError) Error() string {
	return fmt.Sprintf("survey: invalid answer at step %d", e.Step)
}

const (
	stateIdle   = "idle"
	eventAnswer = "answer"
)

type question struct {
	metric Metric
	prompt string
	parse  func(text string, tmp Answers) (int, string)
}

var digits = regexp.MustCompile(`^\d+$`)

func minutes(reject string, limit int) func(string, Answers) (int, string) {
	return func(text string, _ Answers) (int, string) {
		if !digits.MatchString(text) {
			return 0, reject
		}
		v, err := strconv.Atoi(text)
		if err != nil || (limit > 0 && v > limit) {
			return 0, reject
		}
		return v, ""
	}
}

func clockTime(reject string) func(string, Answers) (int, string) {
	return func(text string, _ Answers) (int, string) {
		v, err := clock.ToMinutes(text)
		if err != nil {
			return 0, reject
		}
		return v, ""
	}
}

func messagingMinutes(text string, tmp Answers) (int, string) {
	v, reply := minutes("Введи минуты Telegram (0–1440).", clock.MinutesPerDay)(text, tmp)
	if reply != "" {
		return 0, reply
	}
	screen, _ := tmp.Get(Screen)
	if v > screen {
		return 0, fmt.Sprintf("Telegram не может быть больше экрана. Введи ≤ %d.", screen)
	}
	return v, ""
}

var questions = []question{
	{Reading, "Вечерний опрос:\n1) Сколько минут ты сегодня читал? (целое число)", minutes("Введи целое число минут чтения.", 0)},
	{Focus, "2) Сколько минут глубокого фокуса?", minutes("Введи целое число минут фокуса.", 0)},
	{Screen, "3) Сколько минут всего экранного времени?", minutes("Введи минуты экрана (0–1440).", clock.MinutesPerDay)},
	{Messaging, "4) Сколько минут в Telegram? (не больше экрана)", messagingMinutes},
	{Wake, "5) Во сколько ты сегодня проснулся? (HH:MM, например 07:15)", clockTime("Формат времени HH:MM, например 07:15.")},
	{Sleep, "6) Во сколько сегодня ложишься спать? (последний вопрос, введи прямо перед сном)", clockTime("Формат времени HH:MM, например 23:05.")},
}

// each question is a state named after its metric
func stateOf(step int) string { return string(questions[step].metric) }

func stepOf(state string) (int, bool) {
	for i, q := range questions {
		if string(q.metric) == state {
			return i, true
		}
	}
	return 0, false
}

// surveyEvents chains one "answer" transition per question, the last one
// back to idle.
var surveyEvents = func() fsm.Events {
	events := fsm.Events{}
	for i := range questions {
		dst := stateIdle
		if i+1 < len(questions) {
			dst = stateOf(i + 1)
		}
		events = append(events, fsm.EventDesc{Name: eventAnswer, Src: []string{stateOf(i)}, Dst: dst})
	}
	return events
}()

// machine returns an FSM positioned at the survey's current step whose
// callbacks write the accepted value into Tmp and move Step along.
func (s *Survey) machine() *fsm.FSM {
	current := stateIdle
	if s.Step != nil {
		current = stateOf(*s.Step)
	}
	return fsm.NewFSM(current, surveyEvents, fsm.Callbacks{
		"before_" + eventAnswer: func(_ context.Context, e *fsm.Event) {
			step, ok := stepOf(e.Src)
			if !ok || len(e.Args) != 1 {
				e.Cancel(fmt.Errorf("survey: bad answer event from %q", e.Src))
				return
			}
			v, ok := e.Args[0].(int)
			if !ok {
				e.Cancel(fmt.Errorf("survey: answer value %T", e.Args[0]))
				return
			}
			s.Tmp.Set(questions[step].metric, v)
		},
		"enter_state": func(_ context.Context, e *fsm.Event) {
			if e.Dst == stateIdle {
				s.Step = nil
				return
			}
			if n, ok := stepOf(e.Dst); ok {
				s.Step = &n
			}
		},
	})
}

func (s *Survey) Idle() bool { return s.Step == nil }

// Begin starts the survey for date, dropping any unfinished one, and
// returns the first prompt.
func (s *Survey) Begin(date string) string {
	first := 0
	*s = Survey{Date: date, Step: &first}
	return s.Prompt()
}

func (s *Survey) Reset() { *s = Survey{} }

// Prompt is the question the survey is waiting for.
func (s *Survey) Prompt() string {
	if s.Step == nil || *s.Step < 0 || *s.Step >= len(questions) {
		return ""
	}
	return questions[*s.Step].prompt
}

// Answer validates text against the current question. On success it stores
// the value and moves to the next step; done reports that the last question
// was answered and the day should be finalized. A rejected answer returns an
// *AnswerError and leaves the survey untouched.
func (s *Survey) Answer(ctx context.Context, text string) (next string, done bool, err error) {
	if s.Step == nil {
		return "", false, ErrSurveyIdle
	}
	step := *s.Step
	if step < 0 || step >= len(questions) {
		return "", false, fmt.Errorf("survey: step %d out of range", step)
	}
	q := questions[step]
	v, reply := q.parse(strings.TrimSpace(text), s.Tmp)
	if reply != "" {
		return "", false, &AnswerError{Step: step, Reply: reply}
	}

	if err := s.machine().Event(ctx, eventAnswer, v); err != nil {
		return "", false, fmt.Errorf("survey: %w", err)
	}
	if s.Idle() {
		return "", true, nil
	}
	return s.Prompt(), false, nil
}
