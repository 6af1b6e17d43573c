// Package googletasks implements the task.Service interface using the
// Google Tasks API.
package googletasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"taskdeck/config"
	"taskdeck/task"
)

const (
	// DefaultListID is the API's alias for the user's default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// OAuth scope for Google Tasks
	tasksScope = "https://www.googleapis.com/auth/tasks"
)

// Client implements task.Service using the Google Tasks API.
type Client struct {
	svc *tasks.Service
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist; run `taskdeck auth`
// first to obtain them.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClient())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, tasksScope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Token source auto-refreshes using the refresh token.
	tokenSource := oauthConfig.TokenSource(ctx, &token)
	httpClient := oauth2.NewClient(ctx, tokenSource)

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}

	return &Client{svc: svc}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc}, nil
}

// ListProjects returns all task lists, flagging the user's default list.
func (c *Client) ListProjects(ctx context.Context) ([]task.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	// Resolve the default alias to its real ID so it can be flagged.
	defaultList, err := c.svc.Tasklists.Get(DefaultListID).Context(ctx).Do()
	if err != nil {
		return nil, wrapError("list projects", err)
	}

	var result []task.Project
	err = c.svc.Tasklists.List().MaxResults(100).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			result = append(result, task.Project{
				ID:      list.Id,
				Name:    list.Title,
				Default: list.Id == defaultList.Id,
			})
		}
		return nil
	})
	if err != nil {
		return nil, wrapError("list projects", err)
	}

	return result, nil
}

// ListTasks returns all open tasks in a list.
func (c *Client) ListTasks(ctx context.Context, projectID string) ([]task.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var result []task.Task
	err := c.svc.Tasks.List(projectID).
		MaxResults(PageSize).
		ShowCompleted(false).
		ShowDeleted(false).
		ShowHidden(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				result = append(result, fromAPI(projectID, t))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError("list tasks", err)
	}

	return result, nil
}

// CreateTask creates a new task and returns the stored version.
func (c *Client) CreateTask(ctx context.Context, projectID string, draft task.Draft) (task.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	t := task.Task{
		Title:    draft.Title,
		Notes:    draft.Notes,
		Priority: draft.Priority,
		Due:      draft.Due,
		AllDay:   draft.AllDay,
	}
	created, err := c.svc.Tasks.Insert(projectID, toAPI(t)).Context(ctx).Do()
	if err != nil {
		return task.Task{}, wrapError("create task", err)
	}
	return fromAPI(projectID, created), nil
}

// UpdateTask applies a mutation to a task and returns the stored version.
// The API has no compare-and-swap, so the current task is fetched first and
// the mutation is applied on top of it.
func (c *Client) UpdateTask(ctx context.Context, projectID, taskID string, m task.Mutation) (task.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	current, err := c.svc.Tasks.Get(projectID, taskID).Context(ctx).Do()
	if err != nil {
		return task.Task{}, wrapError("update task", err)
	}

	updated := m.Apply(fromAPI(projectID, current))
	patch := toAPI(updated)
	patch.ForceSendFields = []string{"Title", "Notes", "Status"}
	if updated.Due == nil {
		patch.NullFields = []string{"Due"}
	}

	stored, err := c.svc.Tasks.Patch(projectID, taskID, patch).Context(ctx).Do()
	if err != nil {
		return task.Task{}, wrapError("update task", err)
	}
	return fromAPI(projectID, stored), nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, projectID, taskID string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(projectID, taskID).Context(ctx).Do(); err != nil {
		return wrapError("delete task", err)
	}
	return nil
}

func toAPI(t task.Task) *tasks.Task {
	apiTask := &tasks.Task{
		Title: t.Title,
		Notes: encodeNotes(t),
	}
	if t.Done {
		apiTask.Status = "completed"
	} else {
		apiTask.Status = "needsAction"
	}
	if t.Due != nil {
		apiTask.Due = encodeDue(*t.Due)
	}
	return apiTask
}

func fromAPI(projectID string, apiTask *tasks.Task) task.Task {
	notes, priority, hour, min, hasTime := decodeNotes(apiTask.Notes)
	t := task.Task{
		ID:        apiTask.Id,
		ProjectID: projectID,
		Title:     apiTask.Title,
		Notes:     notes,
		Done:      apiTask.Status == "completed",
		Priority:  priority,
	}
	if apiTask.Due != "" {
		t.Due, t.AllDay = decodeDue(apiTask.Due, hour, min, hasTime)
	}
	return t
}

// wrapError wraps API errors with user-facing messages.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	if strings.Contains(errStr, "context deadline exceeded") {
		return task.NewServiceError(op, err, "request timed out")
	}
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return task.NewServiceError(op, err, "authorization expired (run: taskdeck auth)")
	}
	if strings.Contains(errStr, "404") {
		return task.NewServiceError(op, err, "not found")
	}

	return task.NewServiceError(op, err, "%v", err)
}
