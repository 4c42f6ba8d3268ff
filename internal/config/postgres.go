package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresConfig struct {
	ConnString string
}

func (c PostgresConfig) Validate() error {
	if c.ConnString == "" {
		return fmt.Errorf("missing PostgreSQL connection string")
	}

	_, err := pgxpool.ParseConfig(c.ConnString)
	if err != nil {
		return fmt.Errorf("failed to parse PostgreSQL connection string: %w", err)
	}

	return nil
}

// Redacted returns the connection string with its password hidden, for logging.
// Keyword/value strings are hidden entirely.
func (c PostgresConfig) Redacted() string {
	if !strings.HasPrefix(c.ConnString, "postgres://") && !strings.HasPrefix(c.ConnString, "postgresql://") {
		return "[redacted]"
	}
	u, err := url.Parse(c.ConnString)
	if err != nil {
		return "[redacted]"
	}
	return u.Redacted()
}
