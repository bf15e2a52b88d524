package oracle

import (
	"fmt"
	"strings"

	go_ora "github.com/sijms/go-ora/v2"

	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-dal/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-dal/pkg/config"
)

// ConnectMode selects how Coordinates.Database addresses the instance.
type ConnectMode string

const (
	ConnectSID     ConnectMode = "sid"
	ConnectService ConnectMode = "service"
)

// CatalogScope selects the dictionary view used for table discovery.
type CatalogScope string

const (
	ScopeDBA CatalogScope = "dba" // DBA_OBJECTS, needs SELECT_CATALOG_ROLE or similar
	ScopeAll CatalogScope = "all" // ALL_OBJECTS, only objects the user can access
)

// Config contains Oracle-specific connection options.
type Config struct {
	ConnectMode  ConnectMode
	CatalogScope CatalogScope
}

// DefaultPort returns the default listener port.
func DefaultPort() int {
	return 1521
}

// FromMap creates a Config from the adapter settings map.
func FromMap(settings map[string]any) (*Config, error) {
	cfg := &Config{
		ConnectMode:  ConnectSID,
		CatalogScope: ScopeDBA,
	}

	if mode, ok := settings["connect_mode"].(string); ok && mode != "" {
		switch ConnectMode(strings.ToLower(mode)) {
		case ConnectSID:
			cfg.ConnectMode = ConnectSID
		case ConnectService:
			cfg.ConnectMode = ConnectService
		default:
			return nil, fmt.Errorf("%w: connect_mode %q (want sid or service)", apperrors.ErrInvalidSetting, mode)
		}
	}

	if scope, ok := settings["catalog_scope"].(string); ok && scope != "" {
		switch CatalogScope(strings.ToLower(scope)) {
		case ScopeDBA:
			cfg.CatalogScope = ScopeDBA
		case ScopeAll:
			cfg.CatalogScope = ScopeAll
		default:
			return nil, fmt.Errorf("%w: catalog_scope %q (want dba or all)", apperrors.ErrInvalidSetting, scope)
		}
	}

	return cfg, nil
}

// objectsView returns the dictionary view for the configured scope.
func (c *Config) objectsView() string {
	if c.CatalogScope == ScopeAll {
		return "ALL_OBJECTS"
	}
	return "DBA_OBJECTS"
}

// connectionURL builds the go-ora URL. BuildUrl escapes every component.
// When running in Docker, localhost is resolved to host.docker.internal.
func connectionURL(cfg *Config, coords datasource.Coordinates) string {
	port := coords.Port
	if port == 0 {
		port = DefaultPort()
	}

	host := config.ResolveHostForDocker(coords.Host)

	if cfg.ConnectMode == ConnectService {
		return go_ora.BuildUrl(host, port, coords.Database, coords.User, coords.Password, nil)
	}
	return go_ora.BuildUrl(host, port, "", coords.User, coords.Password, map[string]string{
		"SID": coords.Database,
	})
}
