package datasource

import (
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// AdapterInfo describes a registered adapter.
type AdapterInfo struct {
	Type        string `yaml:"type"`         // "oracle", "postgres"
	DisplayName string `yaml:"display_name"` // "Oracle Database", "PostgreSQL"
	Description string `yaml:"description"`
}

// AdapterFactory builds an adapter's DB from engine-specific settings.
// A nil logger is replaced by a no-op logger.
type AdapterFactory func(settings map[string]any, logger *zap.Logger) (DB, error)

// AdapterRegistration contains info + factory for one adapter.
type AdapterRegistration struct {
	Info    AdapterInfo
	Factory AdapterFactory
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]AdapterRegistration)
)

// Register is called by each adapter's init() function.
// Thread-safe for concurrent init() calls.
func Register(reg AdapterRegistration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[reg.Info.Type] = reg
}

// RegisteredAdapters returns info for all registered adapters, sorted by type.
func RegisteredAdapters() []AdapterInfo {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]AdapterInfo, 0, len(registry))
	for _, reg := range registry {
		result = append(result, reg.Info)
	}
	slices.SortFunc(result, func(a, b AdapterInfo) int {
		return strings.Compare(a.Type, b.Type)
	})
	return result
}

// GetFactory returns the factory for an adapter type.
// Returns nil if type is not registered.
func GetFactory(dsType string) AdapterFactory {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if reg, ok := registry[dsType]; ok {
		return reg.Factory
	}
	return nil
}

// IsRegistered checks if an adapter type is available.
func IsRegistered(dsType string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[dsType]
	return ok
}
