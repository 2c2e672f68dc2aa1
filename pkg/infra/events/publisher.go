package events

import (
	"context"
	"sync"
	"time"

	"github.com/NeuralTrust/MetaGuard/pkg/app/pipeline"
	"github.com/NeuralTrust/MetaGuard/pkg/domain/metadata"
	"github.com/sirupsen/logrus"
)

const (
	defaultQueueSize     = 1000
	defaultHandleTimeout = 5 * time.Second
)

type Publisher interface {
	pipeline.Observer
	Publish(evt *Event)
	StartWorkers(n int)
	Shutdown()
}

type publisher struct {
	logger   *logrus.Logger
	exporter Exporter
	queue    chan *Event
	mu       sync.RWMutex
	closed   bool
	wg       sync.WaitGroup
}

// NewPublisher hands events to exporter from a bounded queue. A full queue drops events.
func NewPublisher(logger *logrus.Logger, exporter Exporter) Publisher {
	return &publisher{
		logger:   logger,
		exporter: exporter,
		queue:    make(chan *Event, defaultQueueSize),
	}
}

func (p *publisher) ObserveStage(pipeline.Mode, pipeline.Stage, time.Duration) {}

func (p *publisher) ObserveRun(mode pipeline.Mode, outcome string, res *metadata.Result, elapsed time.Duration) {
	p.Publish(NewEvent(string(mode), outcome, res, elapsed))
}

func (p *publisher) Publish(evt *Event) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	select {
	case p.queue <- evt:
	default:
		p.logger.WithField("trace_id", evt.TraceID).Warn("event queue is full, dropping analysis event")
	}
}

func (p *publisher) StartWorkers(n int) {
	if n <= 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for evt := range p.queue {
				p.handle(evt)
			}
		}()
	}
}

func (p *publisher) handle(evt *Event) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultHandleTimeout)
	defer cancel()
	if err := p.exporter.Handle(ctx, evt); err != nil {
		p.logger.WithFields(logrus.Fields{
			"trace_id": evt.TraceID,
			"exporter": p.exporter.Name(),
		}).WithError(err).Error("exporter failed")
	}
}

// Shutdown stops accepting events, drains the queue and closes the exporter.
func (p *publisher) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.logger.Info("shutting down event workers")
	p.wg.Wait()
	p.exporter.Close()
	p.logger.Info("event workers stopped")
}
