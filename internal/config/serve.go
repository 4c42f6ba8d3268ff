package config

import (
	"fmt"
	"net"
	"time"

	"github.com/spf13/viper"
)

const minSessionSecretLen = 16

type ServeConfig struct {
	ListenAddr       string
	SessionSecret    string
	SessionTTL       time.Duration
	PollInterval     time.Duration
	Recent           int
	LoginDelay       time.Duration
	PostgresConn     string
	EnablePrometheus bool
	PrometheusAddr   string
	Payment          PaymentConfig
}

func (c ServeConfig) Validate() error {
	if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
		return fmt.Errorf("invalid listen address: %w", err)
	}
	if c.SessionSecret != "" && len(c.SessionSecret) < minSessionSecretLen {
		return fmt.Errorf("session secret must be at least %d characters", minSessionSecretLen)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.Recent < 0 {
		return fmt.Errorf("recent block count cannot be negative")
	}
	if c.LoginDelay < 0 {
		return fmt.Errorf("login delay cannot be negative")
	}
	if c.PostgresConn != "" {
		if err := (PostgresConfig{ConnString: c.PostgresConn}).Validate(); err != nil {
			return err
		}
	}
	if c.EnablePrometheus {
		if _, _, err := net.SplitHostPort(c.PrometheusAddr); err != nil {
			return fmt.Errorf("invalid Prometheus address: %w", err)
		}
	}
	return c.Payment.Validate()
}

func LoadServeConfigFromCLI() ServeConfig {
	return ServeConfig{
		ListenAddr:       viper.GetString("listen-addr"),
		SessionSecret:    viper.GetString("session-secret"),
		SessionTTL:       viper.GetDuration("session-ttl"),
		PollInterval:     viper.GetDuration("poll-interval"),
		Recent:           viper.GetInt("recent"),
		LoginDelay:       viper.GetDuration("login-delay"),
		PostgresConn:     viper.GetString("postgres-conn"),
		EnablePrometheus: viper.GetBool("enable-prometheus"),
		PrometheusAddr:   viper.GetString("prometheus-addr"),
		Payment:          LoadPaymentConfigFromCLI(),
	}
}
