package oracle

import (
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource"
)

func init() {
	datasource.Register(datasource.AdapterRegistration{
		Info: datasource.AdapterInfo{
			Type:        "oracle",
			DisplayName: "Oracle Database",
			Description: "Inspect Oracle 11g+ data dictionaries over SID or service name",
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
