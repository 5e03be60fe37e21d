package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driven"
)

const taskColumns = `id, name, interval_seconds, last_run, next_run, last_error, last_success, enabled`

// taskStore keeps the scheduler state in the scheduled_tasks and
// task_results tables.
type taskStore struct {
	store *Store
}

var _ driven.TaskStore = (*taskStore)(nil)

func (s *taskStore) GetTask(ctx context.Context, taskID string) (*domain.ScheduledTask, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM scheduled_tasks WHERE id = ?`, taskID)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return task, err
}

func (s *taskStore) ListTasks(ctx context.Context) ([]domain.ScheduledTask, error) {
	rows, err := s.store.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM scheduled_tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return collect(rows, func(r *sql.Rows) (domain.ScheduledTask, error) {
		task, err := scanTask(r)
		if err != nil {
			return domain.ScheduledTask{}, err
		}
		return *task, nil
	})
}

func (s *taskStore) SaveTask(ctx context.Context, task *domain.ScheduledTask) error {
	if task == nil {
		return domain.ErrInvalidInput
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO scheduled_tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, interval_seconds = excluded.interval_seconds,
			last_run = excluded.last_run, next_run = excluded.next_run,
			last_error = excluded.last_error, last_success = excluded.last_success,
			enabled = excluded.enabled`,
		task.ID, task.Name, int64(task.Interval/time.Second),
		optionalTime(task.LastRun), optionalTime(task.NextRun),
		nullString(task.LastError), optionalTime(task.LastSuccess), task.Enabled)
	if err != nil {
		return fmt.Errorf("saving task %s: %w", task.ID, err)
	}
	return nil
}

func (s *taskStore) RecordResult(ctx context.Context, result *domain.TaskResult) error {
	if result == nil {
		return domain.ErrInvalidInput
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO task_results (task_id, started_at, ended_at, success, error, items_processed)
		VALUES (?, ?, ?, ?, ?, ?)`,
		result.TaskID, formatTime(result.StartedAt), formatTime(result.EndedAt),
		result.Success, nullString(result.Error), result.ItemsProcessed)
	if err != nil {
		return fmt.Errorf("recording run of %s: %w", result.TaskID, err)
	}
	return nil
}

func (s *taskStore) GetTaskHistory(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT task_id, started_at, ended_at, success, error, items_processed
		FROM task_results WHERE task_id = ?
		ORDER BY started_at DESC, id DESC LIMIT ?`, taskID, limit)
	if err != nil {
		return nil, fmt.Errorf("reading history of %s: %w", taskID, err)
	}
	return collect(rows, func(r *sql.Rows) (domain.TaskResult, error) {
		var res domain.TaskResult
		var started, ended string
		var msg sql.NullString
		if err := r.Scan(&res.TaskID, &started, &ended, &res.Success, &msg, &res.ItemsProcessed); err != nil {
			return res, err
		}
		res.StartedAt = timeOrZero(sql.NullString{String: started, Valid: true})
		res.EndedAt = timeOrZero(sql.NullString{String: ended, Valid: true})
		res.Error = msg.String
		return res, nil
	})
}

// PruneHistory keeps the newest keep runs of every task.
func (s *taskStore) PruneHistory(ctx context.Context, keep int) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM task_results WHERE id IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (PARTITION BY task_id ORDER BY started_at DESC, id DESC) AS pos
				FROM task_results)
			WHERE pos > ?)`, keep)
	if err != nil {
		return fmt.Errorf("pruning task history: %w", err)
	}
	return nil
}

// scanTask reads one scheduled_tasks row. sql.ErrNoRows passes through
// unwrapped.
func scanTask(row scanner) (*domain.ScheduledTask, error) {
	var (
		task                                domain.ScheduledTask
		seconds                             int64
		lastRun, nextRun, lastErr, lastSucc sql.NullString
	)
	err := row.Scan(&task.ID, &task.Name, &seconds, &lastRun, &nextRun, &lastErr, &lastSucc, &task.Enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	task.Interval = time.Duration(seconds) * time.Second
	task.LastRun = timeOrZero(lastRun)
	task.NextRun = timeOrZero(nextRun)
	task.LastSuccess = timeOrZero(lastSucc)
	task.LastError = lastErr.String
	return &task, nil
}

// collect scans every row with scan and closes rows.
func collect[T any](rows *sql.Rows, scan func(*sql.Rows) (T, error)) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
