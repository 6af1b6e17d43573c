package task

import (
	"context"
	"fmt"
)

// Service is the backend-agnostic contract the event loop consumes. The app
// holds exactly one Service and shares it with every background command; all
// methods must be safe for concurrent use.
type Service interface {
	// ListProjects returns all projects in backend order.
	ListProjects(ctx context.Context) ([]Project, error)

	// ListTasks returns the open tasks of a project, unordered; display
	// ordering is the cache's concern.
	ListTasks(ctx context.Context, projectID string) ([]Task, error)

	// CreateTask creates a task and returns the server's copy.
	CreateTask(ctx context.Context, projectID string, draft Draft) (Task, error)

	// UpdateTask applies a mutation and returns the server-confirmed task.
	UpdateTask(ctx context.Context, projectID, taskID string, m Mutation) (Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, projectID, taskID string) error
}

// ServiceError carries a user-facing message for the status bar alongside
// the underlying cause for the log.
type ServiceError struct {
	Op      string // "list tasks", "update task", ...
	Message string // shown to the user
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// NewServiceError builds a ServiceError with a formatted user message.
func NewServiceError(op string, err error, format string, args ...any) *ServiceError {
	return &ServiceError{Op: op, Err: err, Message: fmt.Sprintf(format, args...)}
}
