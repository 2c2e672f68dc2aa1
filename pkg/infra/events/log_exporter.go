package events

import (
	"context"

	"github.com/sirupsen/logrus"
)

const LogExporterName = "log"

// LogExporter writes events to the application log. It is the fallback when no broker is configured.
type LogExporter struct {
	logger *logrus.Logger
}

func NewLogExporter(logger *logrus.Logger) *LogExporter {
	return &LogExporter{logger: logger}
}

func (e *LogExporter) Name() string {
	return LogExporterName
}

func (e *LogExporter) ValidateConfig(map[string]interface{}) error {
	return nil
}

func (e *LogExporter) WithSettings(map[string]interface{}) (Exporter, error) {
	return e, nil
}

func (e *LogExporter) Handle(_ context.Context, evt *Event) error {
	e.logger.WithFields(logrus.Fields{
		"trace_id":     evt.TraceID,
		"mode":         evt.Mode,
		"outcome":      evt.Outcome,
		"overall_risk": evt.OverallRisk,
		"total":        evt.TotalCount,
		"removed":      evt.RemovedCount,
		"hash_changed": evt.HashChanged,
		"duration_ms":  evt.DurationMs,
	}).Debug("analysis event")
	return nil
}

func (e *LogExporter) Close() {}
