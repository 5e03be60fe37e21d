package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driven"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
	"github.com/tetrivo/tetra/internal/logger"
)

var _ driving.Scheduler = (*Scheduler)(nil)

// keepResults bounds the stored run history of each task.
const keepResults = 100

type SchedulerConfig struct {
	Enabled  bool
	Interval time.Duration

	// Reindex scopes every scheduled re-index.
	Reindex domain.ReindexOptions

	// CheckEvery is the polling period for due tasks. Defaults to a minute.
	CheckEvery time.Duration
}

// job is the work behind one task ID. It returns the number of items it
// handled.
type job struct {
	name string
	run  func(ctx context.Context) (int, error)
}

// Scheduler polls the TaskStore and runs due tasks in the background, one
// run per task at a time. Task state persists across restarts.
type Scheduler struct {
	config SchedulerConfig
	store  driven.TaskStore
	jobs   map[string]job
	now    func() time.Time

	mu     sync.Mutex
	stop   chan struct{}
	active map[string]struct{}
	wg     sync.WaitGroup
}

func NewScheduler(config SchedulerConfig, store driven.TaskStore, index driving.IndexService) *Scheduler {
	if config.CheckEvery <= 0 {
		config.CheckEvery = time.Minute
	}
	s := &Scheduler{
		config: config,
		store:  store,
		now:    time.Now,
		active: make(map[string]struct{}),
	}
	s.jobs = map[string]job{
		domain.TaskIDReindex: {
			name: "Re-index instructions",
			run: func(ctx context.Context) (int, error) {
				return reindexJob(ctx, index, config.Reindex)
			},
		},
	}
	return s
}

// Start returns nil when Stop ends the loop and ctx.Err() when ctx does.
// Calling Start on a running scheduler returns at once.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		return nil
	}
	stop := make(chan struct{})
	s.stop = stop
	s.mu.Unlock()

	if err := s.initialiseTasks(ctx); err != nil {
		logger.Warn("Scheduler: tasks not initialised: %v", err)
	}

	s.checkAndRunDueTasks(ctx)
	ticker := time.NewTicker(s.config.CheckEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return ctx.Err()
		case <-stop:
			return nil
		case <-ticker.C:
			s.checkAndRunDueTasks(ctx)
		}
	}
}

// Stop waits for running tasks. It is a no-op when not started.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()

	if stop != nil {
		close(stop)
		s.wg.Wait()
	}
	return nil
}

// initialiseTasks stores the re-index task with the configured interval
// and enabled flag. A new task is due at once; an interval change moves
// the next run.
func (s *Scheduler) initialiseTasks(ctx context.Context) error {
	id, interval := domain.TaskIDReindex, s.config.Interval
	if interval <= 0 {
		return fmt.Errorf("%w: task %s interval must be positive", domain.ErrInvalidInput, id)
	}

	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}
	now := s.now()
	switch {
	case task == nil:
		task = &domain.ScheduledTask{ID: id, Name: s.jobs[id].name, Interval: interval, NextRun: now}
	case task.Interval != interval:
		task.Interval = interval
		task.NextRun = now.Add(interval)
	}
	task.Enabled = s.config.Enabled
	return s.store.SaveTask(ctx, task)
}

func (s *Scheduler) checkAndRunDueTasks(ctx context.Context) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		logger.Warn("Scheduler: listing tasks: %v", err)
		return
	}
	now := s.now()
	for _, task := range tasks {
		if task.Due(now) {
			s.launch(ctx, task)
		}
	}
}

// launch runs task in a goroutine unless a run of it is still active.
func (s *Scheduler) launch(ctx context.Context, task domain.ScheduledTask) {
	j, ok := s.jobs[task.ID]
	if !ok {
		logger.Warn("Scheduler: no job for task %s", task.ID)
		return
	}

	s.mu.Lock()
	if _, busy := s.active[task.ID]; busy {
		s.mu.Unlock()
		logger.Debug("Scheduler: %s still running, skipping", task.ID)
		return
	}
	s.active[task.ID] = struct{}{}
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.active, task.ID)
			s.mu.Unlock()
		}()

		result := domain.TaskResult{TaskID: task.ID, StartedAt: s.now()}
		n, err := j.run(ctx)
		result.ItemsProcessed = n
		result.EndedAt = s.now()

		task.LastRun = result.StartedAt
		task.NextRun = result.EndedAt.Add(task.Interval)
		if err != nil {
			result.Error = err.Error()
			task.LastError = result.Error
		} else {
			result.Success = true
			task.LastError = ""
			task.LastSuccess = result.EndedAt
		}
		// ctx may be done by now; the bookkeeping still has to land.
		s.record(context.WithoutCancel(ctx), &task, &result)
	}()
}

func (s *Scheduler) record(ctx context.Context, task *domain.ScheduledTask, result *domain.TaskResult) {
	if err := s.store.SaveTask(ctx, task); err != nil {
		logger.Warn("Scheduler: saving task %s: %v", task.ID, err)
	}
	if err := s.store.RecordResult(ctx, result); err != nil {
		logger.Warn("Scheduler: recording result of %s: %v", task.ID, err)
	}
	if err := s.store.PruneHistory(ctx, keepResults); err != nil {
		logger.Warn("Scheduler: pruning history: %v", err)
	}
}

// reindexJob counts refreshed instructions and fails when any instruction
// could not be refreshed.
func reindexJob(ctx context.Context, index driving.IndexService, opts domain.ReindexOptions) (int, error) {
	report, err := index.Reindex(ctx, opts)
	if err != nil {
		return report.Refreshed, err
	}
	logger.Info("Scheduled re-index: %d checked, %d refreshed, %d failed",
		report.Checked, report.Refreshed, report.Failed)
	if report.Failed > 0 {
		return report.Refreshed, fmt.Errorf("%d instructions failed to re-index", report.Failed)
	}
	return report.Refreshed, nil
}
