// Package pipeline drives frames from a capture source through the filter,
// the dissector and the output sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"firestige.xyz/ospfdump/internal/core"
	"firestige.xyz/ospfdump/internal/core/decoder"
	"firestige.xyz/ospfdump/internal/log"
)

// Source yields capture records until io.EOF.
type Source interface {
	Start(ctx context.Context) error
	ReadPacket() (core.CaptureRecord, error)
	Stop() error
}

// Filter decides whether a frame is dissected at all.
type Filter interface {
	Match(frame []byte) bool
}

// Sink dissects and prints one record.
type Sink interface {
	Send(rec core.CaptureRecord) (decoder.Summary, error)
	Close() error
}

// Pipeline is a single capture goroutine feeding a single process goroutine,
// so frames are printed in capture order.
type Pipeline struct {
	source  Source
	filter  Filter
	sink    Sink
	count   int
	metrics *Metrics

	// Runtime state
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	errMu sync.Mutex
	err   error

	// Channel for backpressure control
	records chan core.CaptureRecord
}

// Config contains pipeline configuration.
type Config struct {
	Source     Source
	Filter     Filter // nil accepts everything
	Sink       Sink
	Count      int // stop after this many printed frames, 0 = no limit
	BufferSize int // capture → process channel buffer size
}

// New creates a new pipeline.
func New(cfg Config) *Pipeline {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1024
	}
	return &Pipeline{
		source:  cfg.Source,
		filter:  cfg.Filter,
		sink:    cfg.Sink,
		count:   cfg.Count,
		metrics: NewMetrics(),
		records: make(chan core.CaptureRecord, cfg.BufferSize),
	}
}

// Start opens the source and starts both loops.
func (p *Pipeline) Start(ctx context.Context) error {
	if p.source == nil || p.sink == nil {
		return fmt.Errorf("pipeline requires a source and a sink")
	}
	p.ctx, p.cancel = context.WithCancel(ctx)

	if err := p.source.Start(p.ctx); err != nil {
		p.cancel()
		return fmt.Errorf("failed to start source: %w", err)
	}
	log.GetLogger().Debug("pipeline starting")

	p.wg.Add(2)
	go p.captureLoop()
	go p.processLoop()
	return nil
}

// Wait blocks until the source is exhausted, the count is reached or the
// context is cancelled, then releases the source and the sink.
func (p *Pipeline) Wait() error {
	p.wg.Wait()
	p.cancel()

	if err := p.source.Stop(); err != nil {
		log.GetLogger().WithError(err).Warn("failed to close source")
	}
	if err := p.sink.Close(); err != nil {
		p.setErr(fmt.Errorf("failed to flush output: %w", err))
	}

	s := p.Stats()
	log.GetLogger().WithFields(map[string]interface{}{
		"frames":    s.Frames,
		"printed":   s.Printed,
		"filtered":  s.Filtered,
		"invalid":   s.Invalid,
		"truncated": s.Truncated,
		"unhandled": s.Unhandled,
		"ospf":      s.OSPF,
	}).Info("read finished")

	p.errMu.Lock()
	defer p.errMu.Unlock()
	return p.err
}

// Stop cancels the pipeline and waits for it.
func (p *Pipeline) Stop() error {
	if p.cancel == nil {
		return nil
	}
	p.cancel()
	return p.Wait()
}

// Run is Start followed by Wait.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.Start(ctx); err != nil {
		return err
	}
	return p.Wait()
}

func (p *Pipeline) setErr(err error) {
	p.errMu.Lock()
	if p.err == nil {
		p.err = err
	}
	p.errMu.Unlock()
}

// captureLoop reads records from the source and sends them to the channel.
func (p *Pipeline) captureLoop() {
	defer p.wg.Done()
	defer close(p.records)

	for p.ctx.Err() == nil {
		rec, err := p.source.ReadPacket()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				p.setErr(fmt.Errorf("capture failed: %w", err))
			}
			return
		}
		p.metrics.Frames.Add(1)

		select {
		case p.records <- rec:
		case <-p.ctx.Done():
			return
		}
	}
}

// processLoop is the main processing loop.
func (p *Pipeline) processLoop() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return

		case rec, ok := <-p.records:
			if !ok {
				// Channel closed, source exhausted
				return
			}
			if err := p.processRecord(rec); err != nil {
				p.setErr(err)
				p.cancel()
				return
			}
			if p.count > 0 && p.metrics.Printed.Load() >= uint64(p.count) {
				p.cancel()
				return
			}
		}
	}
}

// processRecord validates, filters and prints one record. Only sink errors
// are returned; a bad record is counted and skipped.
func (p *Pipeline) processRecord(rec core.CaptureRecord) error {
	if err := rec.Validate(); err != nil {
		p.metrics.Invalid.Add(1)
		log.GetLogger().WithError(err).Warn("skipping capture record")
		return nil
	}
	if p.filter != nil && !p.filter.Match(rec.Data) {
		p.metrics.Filtered.Add(1)
		return nil
	}

	sum, err := p.sink.Send(rec)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	p.metrics.Printed.Add(1)
	if sum.Truncated {
		p.metrics.Truncated.Add(1)
	}
	if !sum.Handled {
		p.metrics.Unhandled.Add(1)
	}
	if sum.OSPF {
		p.metrics.OSPF.Add(1)
	}
	return nil
}

// Stats returns pipeline statistics.
func (p *Pipeline) Stats() Stats {
	return p.metrics.Snapshot()
}
