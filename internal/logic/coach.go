package logic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	langopenai "github.com/tmc/langchaingo/llms/openai"

	"github.com/VladimirMalevanik/discy/internal/common"
	"github.com/VladimirMalevanik/discy/internal/ladder"
)

const (
	coachTimeout   = 10 * time.Second
	coachMaxTokens = 120
)

// Coach adds a short free-form remark to the end-of-day summary.
type Coach interface {
	Remark(ctx context.Context, res ladder.DayResult) (string, error)
}

type LLMCoach struct {
	llm llms.Model
}

func NewLLMCoach(cfg common.CoachConfig) (*LLMCoach, error) {
	llm, err := langopenai.New(
		langopenai.WithToken(cfg.Token),
		langopenai.WithModel(cfg.Model),
		langopenai.WithBaseURL(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("coach: %w", err)
	}
	return &LLMCoach{llm: llm}, nil
}

func (c *LLMCoach) Remark(ctx context.Context, res ladder.DayResult) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, coachTimeout)
	defer cancel()
	out, err := llms.GenerateFromSinglePrompt(ctx, c.llm, coachPrompt(res),
		llms.WithMaxTokens(coachMaxTokens),
		llms.WithTemperature(0.7))
	if err != nil {
		return "", fmt.Errorf("coach: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func coachPrompt(res ladder.DayResult) string {
	var b strings.Builder
	b.WriteString(common.CoachRolePrompt)
	b.WriteString("\n\nИтоги дня:\n")
	for _, m := range ladder.Metrics {
		status := "не выполнено"
		if res.Pass[m] {
			status = "выполнено"
		}
		fmt.Fprintf(&b, "- %s: %s\n", metricTitles[m], status)
	}
	fmt.Fprintf(&b, "Стрик: %d, день программы: %d из %d.", res.Streak, res.DayIndex, ladder.ProgramDays)
	return b.String()
}
