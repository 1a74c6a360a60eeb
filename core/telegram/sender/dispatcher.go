// Package sender delivers outbound Telegram calls on a bounded worker pool
// with retries.
package sender

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	coreconfig "github.com/m3rciful/gotto/core/config"
	"github.com/m3rciful/gotto/core/logger"
	"github.com/m3rciful/gotto/core/telegram/netutil"
	"github.com/m3rciful/gotto/core/telemetry"
)

var (
	// ErrQueueClosed is returned when enqueue is attempted after Close.
	ErrQueueClosed = errors.New("telegram sender: queue closed")
	// ErrQueueFull indicates the queue is saturated and the job was not accepted.
	ErrQueueFull = errors.New("telegram sender: queue full")
)

const component = "tg.sender"

// Options controls the behaviour of the outbound dispatcher.
type Options struct {
	QueueSize    int
	Workers      int
	MaxRetries   int
	RetryBackoff time.Duration
	// MaxDuration bounds the time spent retrying a single job.
	MaxDuration time.Duration
}

// OptionsFromConfig maps the sender config section onto dispatcher options.
func OptionsFromConfig(cfg coreconfig.SenderConfig) Options {
	return Options{
		QueueSize:    cfg.QueueSize,
		Workers:      cfg.Workers,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: time.Duration(cfg.RetryBackoffMS) * time.Millisecond,
	}
}

func (o Options) withDefaults() Options {
	if o.QueueSize <= 0 {
		o.QueueSize = 256
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	o.MaxRetries = max(o.MaxRetries, 0)
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = 2 * time.Second
	}
	if o.MaxDuration <= 0 {
		o.MaxDuration = 12 * time.Second
	}
	return o
}

// Step is one outbound call of a job.
type Step func() error

type job struct {
	ctx      context.Context
	action   string
	endpoint string
	steps    []Step
	// next is the first step not yet delivered; retries resume from it.
	next int
}

// attrs describes the job for logs; update metadata comes from ctx.
func (j *job) attrs(extra ...slog.Attr) []slog.Attr {
	attrs := []slog.Attr{slog.String("action", j.action)}
	if j.endpoint != "" {
		attrs = append(attrs, slog.String("endpoint", j.endpoint))
	}
	if len(j.steps) > 1 {
		attrs = append(attrs, slog.Int("steps", len(j.steps)), slog.Int("delivered", j.next))
	}
	return append(attrs, extra...)
}

// Dispatcher runs jobs on a fixed pool of workers. Steps of one job run in
// order on a single worker.
type Dispatcher struct {
	opts Options
	jobs chan *job

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	sent atomic.Uint64
	errs atomic.Uint64
}

// NewDispatcher starts a dispatcher; zero options take defaults.
func NewDispatcher(opts Options) *Dispatcher {
	opts = opts.withDefaults()
	d := &Dispatcher{
		opts: opts,
		jobs: make(chan *job, opts.QueueSize),
	}
	d.wg.Add(opts.Workers)
	for range opts.Workers {
		go func() {
			defer d.wg.Done()
			for j := range d.jobs {
				_ = d.deliver(j)
			}
		}()
	}
	return d
}

// Enqueue schedules a single call. run must be idempotent if retries are desired.
func (d *Dispatcher) Enqueue(ctx context.Context, action, endpoint string, run func() error) error {
	if run == nil {
		return errors.New("telegram sender: nil run function")
	}
	return d.EnqueueSteps(ctx, action, endpoint, run)
}

// EnqueueSteps schedules calls that must be delivered in order. A retry
// resumes from the first step that has not succeeded yet.
func (d *Dispatcher) EnqueueSteps(ctx context.Context, action, endpoint string, steps ...Step) error {
	if len(steps) == 0 {
		return nil
	}
	for _, s := range steps {
		if s == nil {
			return errors.New("telegram sender: nil step")
		}
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrQueueClosed
	}
	select {
	case d.jobs <- &job{ctx: ctx, action: action, endpoint: endpoint, steps: steps}:
		return nil
	default:
		return ErrQueueFull
	}
}

// RunSteps delivers steps on the calling goroutine with the same retry
// policy. It is the fallback when the queue refuses a job.
func (d *Dispatcher) RunSteps(ctx context.Context, action, endpoint string, steps ...Step) error {
	return d.deliver(&job{ctx: ctx, action: action, endpoint: endpoint, steps: steps})
}

// ErrorCount returns the number of jobs that failed for good.
func (d *Dispatcher) ErrorCount() uint64 {
	return d.errs.Load()
}

// SentCount returns the number of delivered jobs.
func (d *Dispatcher) SentCount() uint64 {
	return d.sent.Load()
}

// Close rejects new jobs and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()
	d.wg.Wait()
}

func (j *job) run() error {
	for ; j.next < len(j.steps); j.next++ {
		if err := j.steps[j.next](); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) deliver(j *job) error {
	ctx := j.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := telemetry.Tracer("sender").Start(ctx, "sender."+j.action)
	defer span.End()
	span.SetAttributes(
		attribute.String("tg.endpoint", j.endpoint),
		attribute.Int("tg.steps", len(j.steps)),
	)

	budget, cancel := context.WithTimeout(ctx, d.opts.MaxDuration)
	defer cancel()

	start := time.Now()
	err := d.attempt(budget, j)
	elapsed := slog.Duration("duration", logger.RoundMS(time.Since(start)))
	if err == nil {
		d.sent.Add(1)
		logger.Debug(ctx, component, "send.success", j.attrs(elapsed)...)
		return nil
	}

	d.errs.Add(1)
	kind := netutil.Classify(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, kind)
	logger.Error(ctx, component, "send.fail", j.attrs(
		slog.String("err", netutil.Redact(err)),
		slog.String("err_code", kind),
		elapsed,
	)...)
	return err
}

// attempt runs the job until it succeeds, hits a permanent error, exhausts
// its retries or runs out of time.
func (d *Dispatcher) attempt(ctx context.Context, j *job) error {
	attempts := d.opts.MaxRetries + 1
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := j.run()
		if err == nil {
			if n > 1 {
				logger.Info(ctx, component, "send.retry.success", j.attrs(slog.Int("attempts", n))...)
			}
			return nil
		}
		if n == attempts || !netutil.ShouldRetry(err) {
			return err
		}

		delay := d.opts.RetryBackoff * time.Duration(n)
		if wait, ok := netutil.RetryAfter(err); ok && wait > delay {
			delay = wait
		}
		logger.Debug(ctx, component, "send.retry.backoff", j.attrs(
			slog.Int("attempts", n),
			slog.String("err_code", netutil.Classify(err)),
			slog.Duration("backoff", delay),
		)...)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
