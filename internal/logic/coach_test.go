package logic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladimirMalevanik/discy/internal/common"
	"github.com/VladimirMalevanik/discy/internal/ladder"
)

func sampleResult() ladder.DayResult {
	return ladder.DayResult{
		Date:     "2025-03-10",
		Pass:     ladder.PassFlags{ladder.Reading: true, ladder.Focus: false},
		Delta:    -15,
		Streak:   0,
		DayIndex: 4,
	}
}

func TestCoachPrompt(t *testing.T) {
	p := coachPrompt(sampleResult())
	assert.True(t, strings.HasPrefix(p, common.CoachRolePrompt))
	assert.Contains(t, p, "- Чтение: выполнено")
	assert.Contains(t, p, "- Глубокий фокус: не выполнено")
	assert.Contains(t, p, "день программы: 4 из 60")
}

func TestLLMCoachRemark(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": "  Завтра получится.  "},
				"finish_reason": "stop",
			}},
		})
	}))
	defer srv.Close()

	c, err := NewLLMCoach(common.CoachConfig{Token: "k", Model: "test-model", BaseURL: srv.URL})
	require.NoError(t, err)
	remark, err := c.Remark(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, "Завтра получится.", remark)
}

func TestLLMCoachRemarkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := NewLLMCoach(common.CoachConfig{Token: "k", Model: "test-model", BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = c.Remark(context.Background(), sampleResult())
	assert.Error(t, err)
}
