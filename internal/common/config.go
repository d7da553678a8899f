package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/VladimirMalevanik/discy/internal/clock"
	"github.com/VladimirMalevanik/discy/internal/db"
)

type CoachConfig struct {
	Token   string
	Model   string
	BaseURL string `validate:"omitempty,url"`
}

func (c CoachConfig) Enabled() bool { return c.Token != "" }

type Config struct {
	Env           string `validate:"oneof=dev development test prod production"`
	Addr          string `validate:"required"`
	LogFile       string
	BotToken      string  `validate:"required"`
	WebhookSecret string  `validate:"required"`
	TZOffsetMin   int     `validate:"gte=-840,lte=840"`
	TelegramAPI   string  `validate:"required,url"`
	SendRate      float64 `validate:"gt=0"`
	MorningAt     string  `validate:"hhmm"`
	EveningAt     string  `validate:"hhmm"`
	Scheduler     bool
	Store         db.Config
	Coach         CoachConfig
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			_, err := clock.ToMinutes(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// Load reads .env (when present) and the environment into a validated Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	offset, err := getInt("TZ_OFFSET_MIN", 0)
	if err != nil {
		return nil, err
	}
	redisDB, err := getInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	rate, err := strconv.ParseFloat(getEnv("SEND_RATE", "20"), 64)
	if err != nil {
		return nil, fmt.Errorf("config: SEND_RATE: %w", err)
	}
	scheduler, err := strconv.ParseBool(getEnv("SCHEDULER", "true"))
	if err != nil {
		return nil, fmt.Errorf("config: SCHEDULER: %w", err)
	}

	cfg := &Config{
		Env:           getEnv("APP_ENV", "dev"),
		Addr:          getEnv("ADDR", ":8080"),
		LogFile:       os.Getenv("LOG_FILE"),
		BotToken:      os.Getenv("BOT_TOKEN"),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		TZOffsetMin:   offset,
		TelegramAPI:   strings.TrimRight(getEnv("TELEGRAM_API", DefaultTelegramAPI), "/"),
		SendRate:      rate,
		MorningAt:     getEnv("MORNING_AT", DefaultMorningAt),
		EveningAt:     getEnv("EVENING_AT", DefaultEveningAt),
		Scheduler:     scheduler,
		Store: db.Config{
			Backend:       getEnv("STORE_BACKEND", db.BackendMemory),
			DSN:           os.Getenv("STORE_DSN"),
			RedisAddr:     os.Getenv("REDIS_ADDR"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       redisDB,
			RedisPrefix:   os.Getenv("REDIS_PREFIX"),
		},
		Coach: CoachConfig{
			Token:   os.Getenv("COACH_TOKEN"),
			Model:   getEnv("COACH_MODEL", DefaultCoachModel),
			BaseURL: getEnv("COACH_BASE_URL", DefaultCoachBaseURL),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validatorInstance().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}
