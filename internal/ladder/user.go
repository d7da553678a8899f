package ladder

import "github.com/VladimirMalevanik/discy/internal/clock"

// User is the per-chat ladder state.
type User struct {
	ChatID    int64  `json:"chatId"`
	Active    bool   `json:"active"`
	StartDate string `json:"startDate"`
	DayIndex  int    `json:"dayIndex"`
	Points    int    `json:"points"`
	Streak    int    `json:"streak"`
	Targets   Values `json:"targets"`
	Deltas    Values `json:"deltas"`
	Survey    Survey `json:"survey"`
}

// NewUser builds a fresh record starting today. The caller supplies today's
// date in the configured local offset.
func NewUser(chatID int64, today string) *User {
	targets, deltas := DefaultTargets()
	return &User{
		ChatID:    chatID,
		Active:    true,
		StartDate: today,
		Targets:   targets,
		Deltas:    deltas,
	}
}

// Goals returns today's clamped, rounded targets and stores the clamped values.
func (u *User) Goals() Goals {
	u.Targets = Clamp(u.Targets)
	return Round(u.Targets)
}

// Answers are the values collected by the survey so far, in clock minutes
// for wake and sleep. Nil means the question was not answered.
type Answers struct {
	Reading   *int `json:"reading,omitempty"`
	Focus     *int `json:"focus,omitempty"`
	Screen    *int `json:"screen,omitempty"`
	Messaging *int `json:"messaging,omitempty"`
	Wake      *int `json:"wake,omitempty"`
	Sleep     *int `json:"sleep,omitempty"`
}

func (a *Answers) ref(m Metric) **int {
	switch m {
	case Reading:
		return &a.Reading
	case Focus:
		return &a.Focus
	case Screen:
		return &a.Screen
	case Messaging:
		return &a.Messaging
	case Wake:
		return &a.Wake
	case Sleep:
		return &a.Sleep
	}
	panic("ladder: unknown metric " + string(m))
}

func (a Answers) Get(m Metric) (int, bool) {
	p := *a.ref(m)
	if p == nil {
		return 0, false
	}
	return *p, true
}

func (a *Answers) Set(m Metric, v int) { *a.ref(m) = &v }

// Actuals are answers with defaults filled in: 0 for durations and
// MissingTime for wake and sleep.
type Actuals struct {
	Reading   int `json:"reading"`
	Focus     int `json:"focus"`
	Screen    int `json:"screen"`
	Messaging int `json:"messaging"`
	Wake      int `json:"wake"`
	Sleep     int `json:"sleep"`
}

// MissingTime is the score value of an unanswered wake or sleep question.
const MissingTime = clock.MinutesPerDay

func (a Answers) Resolve() Actuals {
	get := func(m Metric, def int) int {
		if v, ok := a.Get(m); ok {
			return v
		}
		return def
	}
	return Actuals{
		Reading:   get(Reading, 0),
		Focus:     get(Focus, 0),
		Screen:    get(Screen, 0),
		Messaging: get(Messaging, 0),
		Wake:      get(Wake, MissingTime),
		Sleep:     get(Sleep, MissingTime),
	}
}
