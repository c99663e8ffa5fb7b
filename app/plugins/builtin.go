package plugins

import (
	"github.com/mitchellh/mapstructure"

	"github.com/kilianp07/agenda/config"
	coremqtt "github.com/kilianp07/agenda/core/mqtt"
	schedlog "github.com/kilianp07/agenda/core/schedule/logging"
	inframqtt "github.com/kilianp07/agenda/infra/mqtt"
)

func init() {
	RegisterLogStore("jsonl", func(name string, conf map[string]any) (schedlog.LogStore, error) {
		var lc config.LoggingConfig
		if err := mapstructure.Decode(conf, &lc); err != nil {
			return nil, err
		}
		return schedlog.NewJSONLStore(lc.Path)
	})
	RegisterLogStore("sqlite", func(name string, conf map[string]any) (schedlog.LogStore, error) {
		var lc config.LoggingConfig
		if err := mapstructure.Decode(conf, &lc); err != nil {
			return nil, err
		}
		return schedlog.NewSQLiteStore(lc.Path)
	})

	RegisterPublisher("paho", func(name string, conf map[string]any) (coremqtt.Publisher, error) {
		var mc inframqtt.Config
		if err := mapstructure.Decode(conf, &mc); err != nil {
			return nil, err
		}
		return inframqtt.NewPahoClient(mc)
	})
	RegisterPublisher("mock", func(name string, _ map[string]any) (coremqtt.Publisher, error) {
		return inframqtt.NewMockPublisher(), nil
	})
}
