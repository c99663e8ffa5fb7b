package metrics

import (
	"github.com/kilianp07/agenda/core/factory"
	coremetrics "github.com/kilianp07/agenda/core/metrics"
)

// init registers the built-in sinks so configuration can refer to them by
// type name.
func init() {
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(coremetrics.RegisterMetricsSink("nop", func(_ map[string]any) (coremetrics.MetricsSink, error) {
		return coremetrics.NopSink{}, nil
	}))
	must(coremetrics.RegisterMetricsSink("prometheus", func(_ map[string]any) (coremetrics.MetricsSink, error) {
		return NewPromSink()
	}))
	must(coremetrics.RegisterMetricsSink("influx", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c struct {
			URL    string `json:"url"`
			Token  string `json:"token"`
			Org    string `json:"org"`
			Bucket string `json:"bucket"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	}))
}
