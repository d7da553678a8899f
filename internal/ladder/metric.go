// Package ladder implements the 60-day habit ladder: the per-metric ramp,
// the evening survey and the daily scoring that moves targets forward.
package ladder

import (
	"math"

	"github.com/VladimirMalevanik/discy/internal/clock"
)

type Metric string

const (
	Reading   Metric = "reading"
	Focus     Metric = "focus"
	Screen    Metric = "screen"
	Messaging Metric = "messaging"
	Wake      Metric = "wake"
	Sleep     Metric = "sleep"
)

// Metrics is the canonical order used by the survey and every message.
var Metrics = []Metric{Reading, Focus, Screen, Messaging, Wake, Sleep}

const (
	ProgramDays = 60

	WakeToleranceMin  = 15
	SleepToleranceMin = 15

	PointsPass  = 10
	PointsFail  = -5
	PointsBonus = 50

	noonMinutes = 12 * 60
	snapEpsilon = 1e-6
)

// Bound is the fixed start/end pair of one metric's ramp.
type Bound struct {
	Metric Metric
	Start  float64
	End    float64
}

func (b Bound) Increasing() bool { return b.End > b.Start }

// Delta is the per-day step that walks Start to End in ProgramDays.
func (b Bound) Delta() float64 { return (b.End - b.Start) / ProgramDays }

// Program lists the ramp of every metric. Wake and sleep are minute values;
// sleep lives on the night scale (see NightMinutes) so that 00:30 -> 23:00
// is a decreasing ramp like every other "earlier is better" metric.
var Program = []Bound{
	{Metric: Reading, Start: 20, End: 90},
	{Metric: Focus, Start: 30, End: 180},
	{Metric: Screen, Start: 180, End: 60},
	{Metric: Messaging, Start: 90, End: 30},
	{Metric: Wake, Start: float64(clock.MustMinutes("08:30")), End: float64(clock.MustMinutes("07:00"))},
	{Metric: Sleep, Start: float64(NightMinutes(clock.MustMinutes("00:30"))), End: float64(NightMinutes(clock.MustMinutes("23:00")))},
}

func BoundOf(m Metric) Bound {
	for _, b := range Program {
		if b.Metric == m {
			return b
		}
	}
	panic("ladder: unknown metric " + string(m))
}

// NightMinutes maps a bedtime onto a scale where after-midnight times sort
// after the evening: anything before noon is treated as the next day.
// Values that are not a real time of day (the missing-answer sentinel) are
// pushed a full day further so they always score as late.
func NightMinutes(x int) int {
	if x < noonMinutes || x >= clock.MinutesPerDay {
		return x + clock.MinutesPerDay
	}
	return x
}

// Values holds one number per metric; used for targets and for deltas.
type Values struct {
	Reading   float64 `json:"reading"`
	Focus     float64 `json:"focus"`
	Screen    float64 `json:"screen"`
	Messaging float64 `json:"messaging"`
	Wake      float64 `json:"wake"`
	Sleep     float64 `json:"sleep"`
}

func (v *Values) ref(m Metric) *float64 {
	switch m {
	case Reading:
		return &v.Reading
	case Focus:
		return &v.Focus
	case Screen:
		return &v.Screen
	case Messaging:
		return &v.Messaging
	case Wake:
		return &v.Wake
	case Sleep:
		return &v.Sleep
	}
	panic("ladder: unknown metric " + string(m))
}

func (v Values) Get(m Metric) float64 { return *v.ref(m) }

func (v *Values) Set(m Metric, x float64) { *v.ref(m) = x }

func (v Values) IsZero() bool { return v == Values{} }

// Goals are the rounded, displayable targets of the day.
type Goals struct {
	Reading   int
	Focus     int
	Screen    int
	Messaging int
	Wake      int
	Sleep     int
}

// Round turns clamped targets into whole-minute goals. Messaging never
// exceeds screen. Sleep stays on the night scale; clock.FromMinutes wraps it.
func Round(t Values) Goals {
	return Goals{
		Reading:   round(t.Reading),
		Focus:     round(t.Focus),
		Screen:    round(t.Screen),
		Messaging: round(math.Min(t.Messaging, t.Screen)),
		Wake:      round(t.Wake),
		Sleep:     round(t.Sleep),
	}
}

func round(x float64) int { return int(math.Floor(x + 0.5)) }
