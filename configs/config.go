package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Redis      RedisConfig      `yaml:"redis"`
	Cloudinary CloudinaryConfig `yaml:"cloudinary"`
	Email      EmailConfig      `yaml:"email"`
	Logging    LoggingConfig    `yaml:"logging"`
	Jobs       JobsConfig       `yaml:"jobs"`
}

type AppConfig struct {
	Name     string `yaml:"name"`
	Env      string `yaml:"env"`
	Port     int    `yaml:"port"`
	PageSize int    `yaml:"page_size"`
}

type DatabaseConfig struct {
	// DSN starting with postgres:// or postgresql:// selects Postgres, anything else is a SQLite path.
	DSN string `yaml:"dsn"`
}

type AuthConfig struct {
	SecretKey           string        `yaml:"secret_key"`
	AccessTokenLifetime time.Duration `yaml:"access_token_lifetime"`
	CookieName          string        `yaml:"cookie_name"`
	CookieSecure        bool          `yaml:"cookie_secure"`
}

type RateLimitConfig struct {
	Enabled bool   `yaml:"enabled"`
	Auth    string `yaml:"auth"`
	Anon    string `yaml:"anon"`
	User    string `yaml:"user"`
}

type RedisConfig struct {
	URL string `yaml:"url"`
}

type CloudinaryConfig struct {
	URL    string `yaml:"url"`
	Folder string `yaml:"folder"`
}

type EmailConfig struct {
	Backend    string `yaml:"backend"`
	BrevoKey   string `yaml:"brevo_api_key"`
	From       string `yaml:"from"`
	SenderName string `yaml:"sender_name"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

type JobsConfig struct {
	CleanupSchedule string `yaml:"cleanup_schedule"`
}

// Rate is a request allowance per fixed window, written as "5/min".
type Rate struct {
	Max int
	Per time.Duration
}

// Load reads .env (when present), the optional YAML file at path, then lets the
// process environment override any value.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := Default()
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:     "Hotel Reservation",
			Env:      "development",
			Port:     8080,
			PageSize: 20,
		},
		Database: DatabaseConfig{DSN: "db.sqlite3"},
		Auth: AuthConfig{
			AccessTokenLifetime: 5 * time.Minute,
			CookieName:          "acc_token",
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			Auth:    "5/min",
			Anon:    "100/day",
			User:    "150/day",
		},
		Cloudinary: CloudinaryConfig{Folder: "hotel_gallery"},
		Email: EmailConfig{
			Backend:    "console",
			From:       "hotelreservation@test.com",
			SenderName: "Hotel Reservation",
		},
		Logging: LoggingConfig{Level: "info", Format: "json", Output: "stdout"},
		Jobs:    JobsConfig{CleanupSchedule: "0 0 * * 1"},
	}
}

func (c *Config) applyEnv() error {
	setStr(&c.App.Name, "APP_NAME")
	setStr(&c.App.Env, "APP_ENV")
	if err := setInt(&c.App.Port, "PORT"); err != nil {
		return err
	}
	if err := setInt(&c.App.PageSize, "PAGE_SIZE"); err != nil {
		return err
	}

	setStr(&c.Database.DSN, "DATABASE_URL")

	setStr(&c.Auth.SecretKey, "SECRET_KEY")
	setStr(&c.Auth.CookieName, "JWT_AUTH_COOKIE")
	if err := setBool(&c.Auth.CookieSecure, "JWT_COOKIE_SECURE"); err != nil {
		return err
	}
	if v := os.Getenv("ACCESS_TOKEN_LIFETIME"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ACCESS_TOKEN_LIFETIME: %w", err)
		}
		c.Auth.AccessTokenLifetime = d
	}

	if err := setBool(&c.RateLimit.Enabled, "RATE_LIMIT_ENABLED"); err != nil {
		return err
	}
	setStr(&c.RateLimit.Auth, "THROTTLE_RATE_AUTH")
	setStr(&c.RateLimit.Anon, "THROTTLE_RATE_ANON")
	setStr(&c.RateLimit.User, "THROTTLE_RATE_USER")

	setStr(&c.Redis.URL, "REDIS_URL")
	setStr(&c.Cloudinary.URL, "CLOUDINARY_URL")
	setStr(&c.Cloudinary.Folder, "CLOUDINARY_FOLDER")

	setStr(&c.Email.Backend, "EMAIL_BACKEND")
	setStr(&c.Email.BrevoKey, "BREVO_API_KEY")
	setStr(&c.Email.From, "DEFAULT_FROM_EMAIL")
	setStr(&c.Email.SenderName, "EMAIL_SENDER_NAME")

	setStr(&c.Logging.Level, "LOG_LEVEL")
	setStr(&c.Logging.Format, "LOG_FORMAT")
	setStr(&c.Logging.Output, "LOG_OUTPUT")

	setStr(&c.Jobs.CleanupSchedule, "CLEANUP_SCHEDULE")
	return nil
}

func (c *Config) Validate() error {
	if c.Auth.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	if c.Auth.AccessTokenLifetime <= 0 {
		return errors.New("access token lifetime must be positive")
	}
	if c.App.PageSize <= 0 {
		return errors.New("page size must be positive")
	}
	for name, r := range map[string]string{"auth": c.RateLimit.Auth, "anon": c.RateLimit.Anon, "user": c.RateLimit.User} {
		if _, err := ParseRate(r); err != nil {
			return fmt.Errorf("rate_limit.%s: %w", name, err)
		}
	}
	if c.Email.Backend == "brevo" && c.Email.BrevoKey == "" {
		return errors.New("email backend brevo requires BREVO_API_KEY")
	}
	return nil
}

// ParseRate parses "<count>/<period>" where period is sec, min, hour or day.
func ParseRate(s string) (Rate, error) {
	num, period, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return Rate{}, fmt.Errorf("invalid rate %q", s)
	}
	max, err := strconv.Atoi(num)
	if err != nil || max <= 0 {
		return Rate{}, fmt.Errorf("invalid rate count %q", num)
	}

	var per time.Duration
	switch strings.ToLower(period) {
	case "s", "sec", "second":
		per = time.Second
	case "m", "min", "minute":
		per = time.Minute
	case "h", "hour":
		per = time.Hour
	case "d", "day":
		per = 24 * time.Hour
	default:
		return Rate{}, fmt.Errorf("invalid rate period %q", period)
	}
	return Rate{Max: max, Per: per}, nil
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}
