// Package factory instantiates the engine's pluggable components from
// configuration. A component is named by a type string and carries a map
// of raw settings; its factory decodes the settings into a typed struct
// and returns the concrete implementation.
//
// Metrics sinks are the primary consumer: the sinks section of the
// configuration lists one ModuleConfig per sink, and the registry
// resolves each entry to its implementation. Run-log stores and
// publishers use the same decoding through app/plugins.
//
//	reg := factory.NewRegistry[metrics.MetricsSink]()
//	reg.Register("influx", func(conf map[string]any) (metrics.MetricsSink, error) {
//	    var c struct{ URL string `json:"url"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return metrics.NewInfluxSink(c.URL), nil
//	})
//	sink, err := reg.Create(factory.ModuleConfig{Type: "influx", Conf: map[string]any{"url": u}})
package factory
