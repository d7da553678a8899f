package clock

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	MinutesPerDay = 24 * 60
	DateLayout    = "2006-01-02"
)

var hhmmPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// ToMinutes parses a strict "HH:MM" string into a minute-of-day.
func ToMinutes(s string) (int, error) {
	if !hhmmPattern.MatchString(s) {
		return 0, fmt.Errorf("clock: %q is not HH:MM", s)
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("clock: %q is out of range", s)
	}
	return h*60 + m, nil
}

// MustMinutes is ToMinutes for compile-time constants.
func MustMinutes(s string) int {
	v, err := ToMinutes(s)
	if err != nil {
		panic(err)
	}
	return v
}

// FromMinutes renders a minute-of-day as HH:MM, wrapping values outside one day.
func FromMinutes(x int) string {
	m := ((x % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Clock answers "now" and "today" in a fixed local offset.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

func New(offsetMin int) *Clock {
	return &Clock{
		loc: time.FixedZone(fmt.Sprintf("UTC%+03d:%02d", offsetMin/60, abs(offsetMin%60)), offsetMin*60),
		now: time.Now,
	}
}

// WithNow replaces the time source, used by tests and replays.
func (c *Clock) WithNow(now func() time.Time) *Clock {
	return &Clock{loc: c.loc, now: now}
}

func (c *Clock) Location() *time.Location { return c.loc }

func (c *Clock) Now() time.Time { return c.now().In(c.loc) }

func (c *Clock) Today() string { return c.Now().Format(DateLayout) }

// DaysSince counts whole calendar days from date (YYYY-MM-DD) to today.
func (c *Clock) DaysSince(date string) (int, error) {
	start, err := time.ParseInLocation(DateLayout, date, c.loc)
	if err != nil {
		return 0, fmt.Errorf("clock: parse date %q: %w", date, err)
	}
	today, _ := time.ParseInLocation(DateLayout, c.Today(), c.loc)
	return int(today.Sub(start).Hours() / 24), nil
}

// ShiftDate moves a YYYY-MM-DD date by n days.
func ShiftDate(date string, n int) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("clock: parse date %q: %w", date, err)
	}
	return t.AddDate(0, 0, n).Format(DateLayout), nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
