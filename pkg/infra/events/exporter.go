package events

import (
	"context"
	"fmt"
)

type Exporter interface {
	Name() string
	ValidateConfig(settings map[string]interface{}) error
	// WithSettings returns a configured copy ready to Handle events.
	WithSettings(settings map[string]interface{}) (Exporter, error)
	Handle(ctx context.Context, evt *Event) error
	Close()
}

type ExporterLocatorOption func(*ExporterLocator)

func WithExporter(exporter Exporter) ExporterLocatorOption {
	return func(el *ExporterLocator) {
		el.exporters[exporter.Name()] = exporter
	}
}

type ExporterLocator struct {
	exporters map[string]Exporter
}

func NewExporterLocator(opts ...ExporterLocatorOption) *ExporterLocator {
	el := &ExporterLocator{exporters: make(map[string]Exporter)}
	for _, opt := range opts {
		opt(el)
	}
	return el
}

func (l *ExporterLocator) GetExporter(name string, settings map[string]interface{}) (Exporter, error) {
	base, ok := l.exporters[name]
	if !ok {
		return nil, fmt.Errorf("unknown exporter: %s", name)
	}
	if err := base.ValidateConfig(settings); err != nil {
		return nil, err
	}
	return base.WithSettings(settings)
}
