// Package config loads application settings from defaults, an optional
// config file and LOVE_* environment variables.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	Practice  PracticeConfig  `mapstructure:"practice" validate:"required"`
	Redis     RedisConfig     `mapstructure:"redis"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Generator GeneratorConfig `mapstructure:"generator" validate:"required"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	Mode           string   `mapstructure:"mode" validate:"required,oneof=debug release"`
	LogLevel       string   `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogFile        string   `mapstructure:"log_file"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host" validate:"required"`
	Port         int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	User         string `mapstructure:"user" validate:"required"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name" validate:"required"`
	SSLMode      string `mapstructure:"sslmode" validate:"required,oneof=disable require verify-ca verify-full"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// DSN renders the lib/pq keyword/value connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenTTL  time.Duration `mapstructure:"token_ttl" validate:"required"`
	ResetTTL  time.Duration `mapstructure:"reset_ttl" validate:"required"`
}

// PracticeConfig holds the learning rules that are tunable per deployment.
type PracticeConfig struct {
	DailyGoal              int     `mapstructure:"daily_goal" validate:"gte=1"`
	SimulationSize         int     `mapstructure:"simulation_size" validate:"gte=1"`
	SimulationSeconds      int     `mapstructure:"simulation_seconds" validate:"gte=60"`
	ReviewDistractorChance float64 `mapstructure:"review_distractor_chance" validate:"gte=0,lte=1"`
}

// RedisConfig is optional; an empty Addr disables the duplicate-answer guard.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// SMTPConfig is optional; an empty Host makes the mailer log instead of send.
type SMTPConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port" validate:"gte=0,lt=65536"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	From         string `mapstructure:"from" validate:"omitempty,email"`
	ResetURLBase string `mapstructure:"reset_url_base" validate:"required,url"`
}

type GeneratorConfig struct {
	Mode   string `mapstructure:"mode" validate:"required,oneof=api mock"`
	Model  string `mapstructure:"model" validate:"required"`
	APIKey string `mapstructure:"api_key" validate:"required_if=Mode api"`
}
