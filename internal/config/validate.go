package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks cross-field constraints cleanenv tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Database.MinConns > c.Database.MaxConns {
		errs = append(errs, fmt.Errorf("database.min_conns %d exceeds max_conns %d",
			c.Database.MinConns, c.Database.MaxConns))
	}
	if len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, errors.New("auth.jwt_secret must be at least 32 bytes"))
	}
	if !strings.HasPrefix(c.LexGen.BaseURL, "http://") && !strings.HasPrefix(c.LexGen.BaseURL, "https://") {
		errs = append(errs, fmt.Errorf("lexgen.base_url %q is not an HTTP URL", c.LexGen.BaseURL))
	}
	if c.Credits.UnlockCost < 0 {
		errs = append(errs, errors.New("credits.unlock_cost must be non-negative"))
	}
	if c.Credits.ExtrasCost < 0 {
		errs = append(errs, errors.New("credits.extras_cost must be non-negative"))
	}
	if c.Credits.MaxLines <= 0 {
		errs = append(errs, errors.New("credits.max_lines must be positive"))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q unknown", c.Log.Level))
	}

	return errors.Join(errs...)
}
