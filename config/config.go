package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/agenda/core/factory"
	"github.com/kilianp07/agenda/core/metrics"
	"github.com/kilianp07/agenda/core/schedule"
	"github.com/kilianp07/agenda/core/validate"
)

type Config struct {
	// Project is the path of the project file describing rooms, days,
	// slots and sessions.
	Project string `json:"project"`
	// Calendar is the path of the recorded calendar file used by sync.
	Calendar string `json:"calendar"`

	Schedule  schedule.Config      `json:"schedule"`
	Validate  validate.Config      `json:"validate"`
	Metrics   metrics.Config       `json:"metrics"`
	Publisher factory.ModuleConfig `json:"publisher"`
	Logging   LoggingConfig        `json:"logging"`
	// PromAddr exposes Prometheus metrics on this address when set.
	PromAddr string `json:"prom_addr"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("A_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "a_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Schedule.SetDefaults()
	cfg.Validate.SetDefaults()
	cfg.Logging.SetDefaults()
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	if cfg.Project == "" {
		return nil, fmt.Errorf("project path is required")
	}
	return &cfg, nil
}
