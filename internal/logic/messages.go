package logic

import (
	"fmt"
	"strings"

	"github.com/VladimirMalevanik/discy/internal/clock"
	"github.com/VladimirMalevanik/discy/internal/ladder"
)

var metricTitles = map[ladder.Metric]string{
	ladder.Reading:   "Чтение",
	ladder.Focus:     "Глубокий фокус",
	ladder.Screen:    "Экран",
	ladder.Messaging: "Telegram",
	ladder.Wake:      "Подъём",
	ladder.Sleep:     "Сон",
}

func instructionsText(morningAt, eveningAt string) string {
	return fmt.Sprintf("Запущено! Я буду писать в %s цели и в %s — опрос.\nКоманды: /start, /goals, /stats, /stop", morningAt, eveningAt)
}

const stopText = "Остановил. Возврат — /start"

func goalsText(g ladder.Goals, week *WeekSummary) string {
	lines := []string{
		"Доброе утро!!!",
		"Сегодняшние цели:",
		fmt.Sprintf("• Чтение: ≥ %d мин", g.Reading),
		fmt.Sprintf("• Глубокий фокус: ≥ %d мин", g.Focus),
		fmt.Sprintf("• Экранное время: ≤ %d мин", g.Screen),
		fmt.Sprintf("• Telegram: ≤ %d мин (всегда ≤ экрана)", g.Messaging),
		fmt.Sprintf("• Подъём: не позже %s", clock.FromMinutes(g.Wake)),
		fmt.Sprintf("• Сон: не позже %s", clock.FromMinutes(g.Sleep)),
	}
	if week != nil {
		lines = append(lines, "", week.text())
	}
	return strings.Join(lines, "\n")
}

func statsText(u *ladder.User) string {
	g := u.Goals()
	return fmt.Sprintf(`День лестницы: %d/%d
Очки: %d | Стрик: %d

Текущие цели:
Чтение ≥ %d мин
Фокус ≥ %d мин
Экран ≤ %d мин
Telegram ≤ %d мин
Подъём не позже %s (+%d мин)
Сон не позже %s (+%d мин)`,
		u.DayIndex, ladder.ProgramDays,
		u.Points, u.Streak,
		g.Reading, g.Focus, g.Screen, g.Messaging,
		clock.FromMinutes(g.Wake), ladder.WakeToleranceMin,
		clock.FromMinutes(g.Sleep), ladder.SleepToleranceMin)
}

func summaryText(res ladder.DayResult, remark string) string {
	lines := []string{"Сохранено!"}
	for _, m := range ladder.Metrics {
		mark := "❌"
		if res.Pass[m] {
			mark = "✅"
		}
		lines = append(lines, mark+" "+metricTitles[m])
	}
	lines = append(lines, "",
		fmt.Sprintf("Очки за сегодня: %+d", res.Delta),
		fmt.Sprintf("Всего очков: %d, Стрик: %d", res.Points, res.Streak))
	if res.AllPass() {
		lines = append(lines, fmt.Sprintf("Награда: +%d бонуса за идеальный день. Красавчик!", ladder.PointsBonus))
	} else {
		lines = append(lines, "Штраф: цели по ❌ не растут. Завтра снова пробуем.")
	}
	if remark != "" {
		lines = append(lines, "", remark)
	}
	return strings.Join(lines, "\n")
}

// WeekSummary is the addendum of every seventh morning.
type WeekSummary struct {
	DayIndex int
	Days     int
	Avg      map[ladder.Metric]int
}

func (w *WeekSummary) text() string {
	lines := []string{fmt.Sprintf("Итоги: закончилась неделя. День лестницы: %d/%d", w.DayIndex, ladder.ProgramDays)}
	if w.Days == 0 {
		return lines[0]
	}
	lines = append(lines, fmt.Sprintf("Средние за неделю (%d дн.):", w.Days))
	for _, m := range []ladder.Metric{ladder.Reading, ladder.Focus, ladder.Screen, ladder.Messaging} {
		lines = append(lines, fmt.Sprintf("• %s: %d мин/д", metricTitles[m], w.Avg[m]))
	}
	for _, m := range []ladder.Metric{ladder.Wake, ladder.Sleep} {
		if v, ok := w.Avg[m]; ok {
			lines = append(lines, fmt.Sprintf("• %s: %s", metricTitles[m], clock.FromMinutes(v)))
		}
	}
	return strings.Join(lines, "\n")
}

// summarizeWeek averages the logged days. Unanswered wake/sleep values are
// left out of their averages; sleep is averaged on the night scale.
func summarizeWeek(dayIndex int, logs []ladder.Actuals) *WeekSummary {
	w := &WeekSummary{DayIndex: dayIndex, Days: len(logs), Avg: map[ladder.Metric]int{}}
	if len(logs) == 0 {
		return w
	}
	var sum [4]int
	var wake, sleep []int
	for _, a := range logs {
		sum[0] += a.Reading
		sum[1] += a.Focus
		sum[2] += a.Screen
		sum[3] += a.Messaging
		if a.Wake < ladder.MissingTime {
			wake = append(wake, a.Wake)
		}
		if a.Sleep < ladder.MissingTime {
			sleep = append(sleep, ladder.NightMinutes(a.Sleep))
		}
	}
	for i, m := range []ladder.Metric{ladder.Reading, ladder.Focus, ladder.Screen, ladder.Messaging} {
		w.Avg[m] = divRound(sum[i], len(logs))
	}
	if len(wake) > 0 {
		w.Avg[ladder.Wake] = divRound(total(wake), len(wake))
	}
	if len(sleep) > 0 {
		w.Avg[ladder.Sleep] = divRound(total(sleep), len(sleep))
	}
	return w
}

func total(xs []int) int {
	s := 0
	for _, x := range xs {
		s += x
	}
	return s
}

func divRound(a, b int) int { return (2*a + b) / (2 * b) }
