package driven

import (
	"context"

	"github.com/tetrivo/tetra/internal/core/domain"
)

// TaskStore keeps the scheduler's task state and a bounded run history.
type TaskStore interface {
	// GetTask returns nil without error for an unknown ID.
	GetTask(ctx context.Context, taskID string) (*domain.ScheduledTask, error)
	ListTasks(ctx context.Context) ([]domain.ScheduledTask, error)
	SaveTask(ctx context.Context, task *domain.ScheduledTask) error

	RecordResult(ctx context.Context, result *domain.TaskResult) error
	// GetTaskHistory lists the newest results first.
	GetTaskHistory(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error)
	// PruneHistory drops all but the newest keep results of each task.
	PruneHistory(ctx context.Context, keep int) error
}
