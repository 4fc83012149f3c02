package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr        string
	DatabaseURL     string
	JWTSecret       string
	LoginURL        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	CookieSecure    bool
}

// Load reads the given env files (".env" when none) and then the
// environment. Missing files are not an error.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load env file: %w", err)
		}
		logrus.Debug("No .env file found")
	}

	v := viper.New()
	v.SetDefault("HTTP_ADDR", "0.0.0.0:8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("SHUTDOWN_TIMEOUT", 30*time.Second)
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("POSTGRES_PORT", "5432")
	v.AutomaticEnv()

	cfg := Config{
		HTTPAddr:        v.GetString("HTTP_ADDR"),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		LoginURL:        v.GetString("LOGIN_URL"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		CookieSecure:    v.GetBool("COOKIE_SECURE"),
	}

	if cfg.DatabaseURL == "" && v.GetString("POSTGRES_HOST") != "" {
		cfg.DatabaseURL = dbConnString(
			v.GetString("POSTGRES_USER"),
			v.GetString("POSTGRES_PASSWORD"),
			v.GetString("POSTGRES_HOST"),
			v.GetString("POSTGRES_PORT"),
			v.GetString("POSTGRES_DB"),
		)
	}

	return cfg, nil
}

func dbConnString(user, password, host, port, dbName string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + dbName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func (c Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return errors.New("database not configured, set DATABASE_URL or POSTGRES_HOST")
	}
	return nil
}

func (c Config) RequireServer() error {
	if err := c.RequireDatabase(); err != nil {
		return err
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET required")
	}
	return nil
}

// SetupLogger applies the configured level and format to the standard
// logrus logger.
func (c Config) SetupLogger() error {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	logrus.SetLevel(level)

	switch c.LogFormat {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}
