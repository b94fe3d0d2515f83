package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"news-reporter/internal/report"
)

// slotLayout identifies one firing minute in local time.
const slotLayout = "2006-01-02T15:04"

// Runner executes one report.
type Runner interface {
	Generate(ctx context.Context, req report.Request) report.Result
}

// Scheduler polls the job store and starts due jobs. Each run executes on
// its own goroutine so a slow report never delays the next tick.
type Scheduler struct {
	Store    JobStore
	Ledger   Ledger
	Runner   Runner
	Interval time.Duration
	Now      func() time.Time

	wg sync.WaitGroup
}

func New(store JobStore, ledger Ledger, runner Runner) *Scheduler {
	if store == nil {
		store = NewMemoryStore()
	}
	if ledger == nil {
		ledger = NewMemoryLedger()
	}
	return &Scheduler{Store: store, Ledger: ledger, Runner: runner, Interval: time.Minute}
}

// Schedule validates and stores a new daily job.
func (s *Scheduler) Schedule(ctx context.Context, timeOfDay string, req report.Request) (Job, error) {
	tod, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return Job{}, err
	}
	if req.Topic == "" {
		return Job{}, fmt.Errorf("schedule: empty topic")
	}
	j := Job{ID: uuid.NewString(), TimeOfDay: tod, Request: req, CreatedAt: s.now()}
	if err := s.Store.Add(ctx, j); err != nil {
		return Job{}, fmt.Errorf("schedule: store job: %w", err)
	}
	slog.Info("scheduler: job scheduled", "id", j.ID, "topic", req.Topic, "time", tod)
	return j, nil
}

// Unschedule removes a job. Runs already in flight are not interrupted.
func (s *Scheduler) Unschedule(ctx context.Context, id string) error {
	if err := s.Store.Remove(ctx, id); err != nil {
		return err
	}
	slog.Info("scheduler: job removed", "id", id)
	return nil
}

// Start ticks until ctx is done, then waits for in-flight runs. Ticks after
// the first land on multiples of Interval counted from the minute start, so
// every minute gets at least one tick when Interval is a minute or less.
func (s *Scheduler) Start(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 || interval > time.Minute {
		interval = time.Minute
	}
	slog.Info("scheduler: started", "interval", interval)
	s.Tick(ctx, s.now())

	t := time.NewTimer(nextTick(time.Now(), interval))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Wait()
			slog.Info("scheduler: stopped")
			return nil
		case <-t.C:
			s.Tick(ctx, s.now())
			t.Reset(nextTick(time.Now(), interval))
		}
	}
}

// nextTick returns the wait until the next multiple of interval.
func nextTick(now time.Time, interval time.Duration) time.Duration {
	return now.Truncate(interval).Add(interval).Sub(now)
}

// Tick fires every job due at now and returns how many were started.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) int {
	jobs, err := s.Store.List(ctx)
	if err != nil {
		slog.Error("scheduler: list jobs error", "err", err)
		return 0
	}
	tod := now.Format(timeLayout)
	slot := now.Format(slotLayout)
	fired := 0
	for _, j := range jobs {
		if j.TimeOfDay != tod {
			continue
		}
		ok, err := s.Ledger.Claim(ctx, j.ID, slot)
		if err != nil {
			slog.Error("scheduler: claim error", "id", j.ID, "slot", slot, "err", err)
			continue
		}
		if !ok {
			continue
		}
		fired++
		s.wg.Add(1)
		go func(j Job) {
			defer s.wg.Done()
			s.run(ctx, j)
		}(j)
	}
	return fired
}

// Wait blocks until all started runs have returned.
func (s *Scheduler) Wait() { s.wg.Wait() }

func (s *Scheduler) run(ctx context.Context, j Job) {
	slog.Info("scheduler: running job", "id", j.ID, "topic", j.Topic())
	res := s.Runner.Generate(ctx, j.Request)
	if !res.Success {
		slog.Error("scheduler: job run failed", "id", j.ID, "topic", j.Topic(), "status", res.Status, "message", res.Message)
		return
	}
	slog.Info("scheduler: job run finished", "id", j.ID, "topic", j.Topic(), "status", res.Status, "url", res.DocumentURL)
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
