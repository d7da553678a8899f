package logic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/VladimirMalevanik/discy/internal/logger"
)

// Sender delivers one text message to a chat.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// TelegramSendRequest is the sendMessage body.
type TelegramSendRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

// TelegramResponse is the envelope every Bot API call answers with.
type TelegramResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

type TelegramConfig struct {
	APIBase string
	Token   string
	Rate    float64 // messages per second
	Timeout time.Duration
}

type TelegramSender struct {
	cfg     TelegramConfig
	client  *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

func NewTelegramSender(cfg TelegramConfig, log *logger.Logger) *TelegramSender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 20
	}
	return &TelegramSender{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.Rate), 1),
		log:     log.With("client", "TelegramSender"),
	}
}

// SendMessage posts text to chatID and reports any transport or API failure.
func (s *TelegramSender) SendMessage(ctx context.Context, chatID int64, text string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram: rate limit: %w", err)
	}
	body, err := json.Marshal(TelegramSendRequest{ChatID: chatID, Text: text})
	if err != nil {
		return fmt.Errorf("telegram: encode: %w", err)
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", s.cfg.APIBase, s.cfg.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: send to %d: %w", chatID, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("telegram: read response: %w", err)
	}
	var tr TelegramResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return fmt.Errorf("telegram: status %d, undecodable body: %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !tr.OK {
		return fmt.Errorf("telegram: send to %d failed: %d - %s", chatID, tr.ErrorCode, tr.Description)
	}
	s.log.Debug("message sent", "chat_id", chatID)
	return nil
}

var _ Sender = (*TelegramSender)(nil)
