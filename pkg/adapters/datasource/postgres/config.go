package postgres

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-dal/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-dal/pkg/config"
)

// Config contains PostgreSQL-specific connection options.
type Config struct {
	SSLMode         string // "disable", "require", "verify-ca", "verify-full"
	ApplicationName string
}

// DefaultPort returns the default PostgreSQL port.
func DefaultPort() int {
	return 5432
}

// DefaultSSLMode returns the default SSL mode.
func DefaultSSLMode() string {
	return "disable"
}

// DefaultApplicationName is reported to the server as application_name.
const DefaultApplicationName = "ekaya-dal"

var validSSLModes = map[string]bool{
	"disable":     true,
	"allow":       true,
	"prefer":      true,
	"require":     true,
	"verify-ca":   true,
	"verify-full": true,
}

// FromMap creates a Config from the adapter settings map.
// Unknown keys are ignored.
func FromMap(settings map[string]any) (*Config, error) {
	cfg := &Config{
		SSLMode:         DefaultSSLMode(),
		ApplicationName: DefaultApplicationName,
	}

	if sslMode, ok := settings["ssl_mode"].(string); ok && sslMode != "" {
		if !validSSLModes[sslMode] {
			return nil, fmt.Errorf("%w: ssl_mode %q", apperrors.ErrInvalidSetting, sslMode)
		}
		cfg.SSLMode = sslMode
	}

	if name, ok := settings["application_name"].(string); ok && name != "" {
		cfg.ApplicationName = name
	}

	return cfg, nil
}

// buildConnectionString builds a PostgreSQL URL with proper escaping.
// User, password and database are escaped by net/url so characters such as
// @, /, # and ? in a password cannot break URL parsing.
// When running in Docker, localhost is resolved to host.docker.internal.
func buildConnectionString(cfg *Config, coords datasource.Coordinates) string {
	port := coords.Port
	if port == 0 {
		port = DefaultPort()
	}

	host := config.ResolveHostForDocker(coords.Host)

	query := url.Values{}
	query.Set("sslmode", cfg.SSLMode)
	query.Set("application_name", cfg.ApplicationName)

	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(coords.User, coords.Password),
		Host:     net.JoinHostPort(host, strconv.Itoa(port)),
		Path:     "/" + coords.Database,
		RawQuery: query.Encode(),
	}
	return u.String()
}
