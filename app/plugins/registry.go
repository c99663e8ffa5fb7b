package plugins

import (
	coremqtt "github.com/kilianp07/agenda/core/mqtt"
	schedlog "github.com/kilianp07/agenda/core/schedule/logging"
)

// LogStoreFactory builds a run log store from raw config.
type LogStoreFactory func(name string, conf map[string]any) (schedlog.LogStore, error)

// PublisherFactory builds a session change publisher from raw config.
type PublisherFactory func(name string, conf map[string]any) (coremqtt.Publisher, error)

var (
	LogStores  = map[string]LogStoreFactory{}
	Publishers = map[string]PublisherFactory{}
)

func RegisterLogStore(name string, f LogStoreFactory)   { LogStores[name] = f }
func RegisterPublisher(name string, f PublisherFactory) { Publishers[name] = f }
