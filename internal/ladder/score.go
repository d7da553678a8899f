package ladder

// PassFlags tells per metric whether the day's answer met its target.
type PassFlags map[Metric]bool

func (p PassFlags) Count() (pass, fail int) {
	for _, m := range Metrics {
		if p[m] {
			pass++
		} else {
			fail++
		}
	}
	return pass, fail
}

func (p PassFlags) All() bool {
	_, fail := p.Count()
	return fail == 0
}

// Evaluate compares a day's actuals with the rounded targets. Wake and sleep
// get a tolerance of 15 minutes.
func Evaluate(t Values, a Actuals) PassFlags {
	g := Round(t)
	return PassFlags{
		Reading:   a.Reading >= g.Reading,
		Focus:     a.Focus >= g.Focus,
		Screen:    a.Screen <= g.Screen,
		Messaging: a.Messaging <= g.Messaging,
		Wake:      a.Wake <= g.Wake+WakeToleranceMin,
		Sleep:     NightMinutes(a.Sleep) <= g.Sleep+SleepToleranceMin,
	}
}

// PointsFor returns the point delta of a day.
func PointsFor(p PassFlags) int {
	pass, fail := p.Count()
	delta := pass*PointsPass + fail*PointsFail
	if fail == 0 {
		delta += PointsBonus
	}
	return delta
}

// DayResult is what finalizing a survey produced.
type DayResult struct {
	Date     string    `json:"date"`
	Actuals  Actuals   `json:"actuals"`
	Pass     PassFlags `json:"pass"`
	Delta    int       `json:"delta"`
	Points   int       `json:"points"`
	Streak   int       `json:"streak"`
	DayIndex int       `json:"dayIndex"`
}

func (r DayResult) AllPass() bool { return r.Pass.All() }

// Finalize scores the collected survey, updates points and streak, moves the
// passed targets and resets the survey to idle.
func (u *User) Finalize(date string) DayResult {
	if u.Survey.Date != "" {
		date = u.Survey.Date
	}
	u.Targets = Clamp(u.Targets)
	actuals := u.Survey.Tmp.Resolve()
	pass := Evaluate(u.Targets, actuals)
	delta := PointsFor(pass)

	u.Points = max(0, u.Points+delta)
	if pass.All() {
		u.Streak++
	} else {
		u.Streak = 0
	}
	u.Targets = Advance(u.Targets, u.Deltas, pass)
	u.DayIndex = min(ProgramDays, u.DayIndex+1)
	u.Survey.Reset()

	return DayResult{
		Date:     date,
		Actuals:  actuals,
		Pass:     pass,
		Delta:    delta,
		Points:   u.Points,
		Streak:   u.Streak,
		DayIndex: u.DayIndex,
	}
}
