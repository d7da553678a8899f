package logic

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/VladimirMalevanik/discy/internal/logger"
)

const requestIDHeader = "X-Request-ID"

// TelegramUpdate is the subset of a Bot API update the webhook reads.
type TelegramUpdate struct {
	UpdateID      int64            `json:"update_id"`
	Message       *TelegramMessage `json:"message"`
	EditedMessage *TelegramMessage `json:"edited_message"`
}

type TelegramMessage struct {
	Chat *TelegramChat `json:"chat"`
	Text string        `json:"text"`
}

type TelegramChat struct {
	ID int64 `json:"id"`
}

// SetupRouter wires the webhook and health routes.
func SetupRouter(bot *Bot, secret string, log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware(), AccessLogMiddleware(log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.POST("/webhook/:secret", WebhookHandler(bot, secret, log))

	r.NoRoute(notFound)
	r.NoMethod(notFound)
	return r
}

func notFound(c *gin.Context) {
	c.String(http.StatusNotFound, "not found")
}

// WebhookHandler accepts Telegram updates. A wrong secret looks like any
// unknown path; unusable bodies are acknowledged so Telegram stops retrying.
func WebhookHandler(bot *Bot, secret string, log *logger.Logger) gin.HandlerFunc {
	log = log.With("handler", "Webhook")
	return func(c *gin.Context) {
		if subtle.ConstantTimeCompare([]byte(c.Param("secret")), []byte(secret)) != 1 {
			notFound(c)
			return
		}

		var upd TelegramUpdate
		if err := c.ShouldBindJSON(&upd); err != nil {
			log.Debug("ignoring undecodable update", "error", err)
			c.String(http.StatusOK, "ok")
			return
		}
		msg := upd.Message
		if msg == nil {
			msg = upd.EditedMessage
		}
		if msg == nil || msg.Chat == nil {
			c.String(http.StatusOK, "ok")
			return
		}

		if err := bot.HandleMessage(c.Request.Context(), msg.Chat.ID, msg.Text); err != nil {
			log.Error("handle message failed", "chat_id", msg.Chat.ID,
				"request_id", c.GetString(requestIDHeader), "error", err)
			c.String(http.StatusInternalServerError, "internal error")
			return
		}
		c.String(http.StatusOK, "ok")
	}
}

// RequestIDMiddleware reuses the caller's X-Request-ID or mints one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func AccessLogMiddleware(log *logger.Logger) gin.HandlerFunc {
	log = log.With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		// the webhook secret lives in the path, so log the route pattern
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		log.Info("request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"request_id", c.GetString(requestIDHeader),
		)
	}
}
