// internal/app/system/tasks/scheduler.go
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/daycarehub/internal/app/system/metrics"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a named unit of scheduled work. Schedule is a standard five-field
// cron expression and may carry a CRON_TZ= prefix. Run returns a summary that
// is logged and handed back to on-demand callers.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) (any, error)
}

var (
	ErrUnknownJob = errors.New("unknown job")
	ErrJobRunning = errors.New("job is already running")
)

type entry struct {
	job  Job
	busy sync.Mutex
}

// Scheduler runs jobs on their cron schedules and on demand. A job never
// overlaps itself, whichever way it was triggered.
type Scheduler struct {
	cron    *cron.Cron
	log     *zap.Logger
	timeout time.Duration

	mu   sync.RWMutex
	jobs map[string]*entry
}

// NewScheduler returns a stopped scheduler. Each run gets a context bounded by timeout.
func NewScheduler(logger *zap.Logger, timeout time.Duration) *Scheduler {
	cl := cronLogger{s: logger.Sugar()}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log:     logger,
		timeout: timeout,
		jobs:    make(map[string]*entry),
	}
}

// Add registers job. The schedule is parsed immediately.
func (s *Scheduler) Add(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.jobs[job.Name]; dup {
		return fmt.Errorf("job %q already registered", job.Name)
	}
	e := &entry{job: job}
	if _, err := s.cron.AddFunc(job.Schedule, func() {
		if _, err := s.run(context.Background(), e); errors.Is(err, ErrJobRunning) {
			s.log.Info("skipping job tick, previous run still active", zap.String("job", job.Name))
		}
	}); err != nil {
		return fmt.Errorf("job %q: bad schedule %q: %w", job.Name, job.Schedule, err)
	}
	s.jobs[job.Name] = e
	return nil
}

// Names lists the registered jobs.
func (s *Scheduler) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// RunNow runs the named job immediately on the caller's goroutine.
func (s *Scheduler) RunNow(ctx context.Context, name string) (any, error) {
	s.mu.RLock()
	e, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownJob
	}
	return s.run(ctx, e)
}

// Start begins firing scheduled jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("job scheduler started", zap.Strings("jobs", s.Names()))
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("job scheduler stopped")
}

func (s *Scheduler) run(parent context.Context, e *entry) (any, error) {
	if !e.busy.TryLock() {
		return nil, ErrJobRunning
	}
	defer e.busy.Unlock()

	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	start := time.Now()
	res, err := e.job.Run(ctx)
	took := time.Since(start)

	if err != nil {
		metrics.ObserveJob(e.job.Name, "error", took)
		s.log.Error("job failed",
			zap.String("job", e.job.Name),
			zap.Duration("took", took),
			zap.Error(err))
		return res, err
	}
	metrics.ObserveJob(e.job.Name, "ok", took)
	s.log.Info("job finished",
		zap.String("job", e.job.Name),
		zap.Duration("took", took),
		zap.Any("result", res))
	return res, nil
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
