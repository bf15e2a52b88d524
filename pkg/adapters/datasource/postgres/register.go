package postgres

import (
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource"
)

func init() {
	datasource.Register(datasource.AdapterRegistration{
		Info: datasource.AdapterInfo{
			Type:        "postgres",
			DisplayName: "PostgreSQL",
			Description: "Inspect PostgreSQL 12+ catalogs, including declaratively partitioned tables",
		},
		Factory: func(settings map[string]any, logger *zap.Logger) (datasource.DB, error) {
			cfg, err := FromMap(settings)
			if err != nil {
				return nil, err
			}
			return NewDB(cfg, logger), nil
		},
	})
}
