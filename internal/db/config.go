package db

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	BackendMemory   = "memory"
	BackendMySQL    = "mysql"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
)

type Config struct {
	Backend       string `validate:"oneof=memory mysql postgres sqlite redis"`
	DSN           string `validate:"required_if=Backend mysql,required_if=Backend postgres,required_if=Backend sqlite"`
	RedisAddr     string `validate:"required_if=Backend redis"`
	RedisPassword string
	RedisDB       int `validate:"gte=0"`
	RedisPrefix   string
}

// String describes the store without leaking credentials.
func (c *Config) String() string {
	switch c.Backend {
	case BackendRedis:
		return fmt.Sprintf("redis addr=%s db=%d prefix=%q", c.RedisAddr, c.RedisDB, c.RedisPrefix)
	case BackendMemory:
		return "memory"
	default:
		return c.Backend + " dsn=" + redactDSN(c.DSN)
	}
}

func redactDSN(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "xxxxx")
		}
		return u.String()
	}
	// mysql style user:pass@tcp(...)
	if at := strings.Index(dsn, "@"); at > 0 {
		if colon := strings.Index(dsn[:at], ":"); colon >= 0 {
			return dsn[:colon+1] + "xxxxx" + dsn[at:]
		}
	}
	return dsn
}
