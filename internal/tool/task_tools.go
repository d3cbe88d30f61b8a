package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	einotool "github.com/cloudwego/eino/components/tool"

	"github.com/taskhub-ai/taskhub/internal/logging"
	"github.com/taskhub-ai/taskhub/internal/task"
)

// The task tools expose CRUD operations to the tool-calling model. Every
// failure (parse error, not-found, store error) is converted into a
// human-readable string result because the model expects textual tool output,
// not structured errors.

// DefaultRegistry returns a registry with all task tools registered.
func DefaultRegistry(svc *task.Service) *Registry {
	r := NewRegistry()
	r.Register(&CreateTaskTool{svc: svc})
	r.Register(&ReadAllTasksTool{svc: svc})
	r.Register(&ReadTaskByIDTool{svc: svc})
	r.Register(&ReadTasksTool{svc: svc})
	r.Register(&UpdateTaskTool{svc: svc})
	r.Register(&DeleteTaskTool{svc: svc})
	return r
}

// formatTask renders a task as the fixed three-line record shown to the model.
func formatTask(t *task.Item) string {
	complete := "No"
	if t.Complete {
		complete = "Yes"
	}
	return fmt.Sprintf("Id: %d\nTitle: %s\nComplete: %s", t.ID, t.Title, complete)
}

// formatTaskList joins formatted records with a blank line separator.
func formatTaskList(items []*task.Item) string {
	if len(items) == 0 {
		return "No tasks found"
	}
	records := make([]string, len(items))
	for i, t := range items {
		records[i] = formatTask(t)
	}
	return strings.Join(records, "\n\n")
}

// parseTaskID validates a string-typed id argument. The returned message is
// non-empty when the id is missing or not numeric.
func parseTaskID(id string) (int64, string) {
	if strings.TrimSpace(id) == "" {
		return 0, "Task id is required"
	}
	taskID, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return 0, "Invalid task id"
	}
	return taskID, ""
}

// CreateTaskTool creates a new task.
type CreateTaskTool struct {
	svc *task.Service
}

func (t *CreateTaskTool) ID() string { return "CreateTask" }

func (t *CreateTaskTool) Description() string {
	return "Creates a new task with a title and completion status."
}

func (t *CreateTaskTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"title": {"type": "string", "description": "Title of the task"},
			"isComplete": {"type": "string", "description": "Whether the task is complete (true/false)"}
		},
		"required": ["title"]
	}`)
}

func (t *CreateTaskTool) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	var args struct {
		Title      string `json:"title"`
		IsComplete string `json:"isComplete"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", err
	}

	complete := false
	if v := strings.TrimSpace(args.IsComplete); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			complete = parsed
		}
	}

	created, err := t.svc.Create(ctx, args.Title, complete)
	if err != nil {
		logging.Error().Err(err).Msg("tool CreateTask failed")
		return "Error creating task: " + err.Error(), nil
	}
	return "Task created: " + created.Title, nil
}

func (t *CreateTaskTool) EinoTool() einotool.InvokableTool {
	return &einoToolWrapper{tool: t}
}

// ReadAllTasksTool reads all tasks.
type ReadAllTasksTool struct {
	svc *task.Service
}

func (t *ReadAllTasksTool) ID() string { return "ReadAllTasks" }

func (t *ReadAllTasksTool) Description() string {
	return "Reads and returns all tasks in the system."
}

func (t *ReadAllTasksTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {},
		"required": []
	}`)
}

func (t *ReadAllTasksTool) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	items, err := t.svc.List(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("tool ReadAllTasks failed")
		return "Error reading tasks: " + err.Error(), nil
	}
	return formatTaskList(items), nil
}

func (t *ReadAllTasksTool) EinoTool() einotool.InvokableTool {
	return &einoToolWrapper{tool: t}
}

// ReadTaskByIDTool reads a single task by id.
type ReadTaskByIDTool struct {
	svc *task.Service
}

func (t *ReadTaskByIDTool) ID() string { return "ReadTaskById" }

func (t *ReadTaskByIDTool) Description() string {
	return "Reads a single task by its id."
}

func (t *ReadTaskByIDTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"id": {"type": "string", "description": "Id of the task to read"}
		},
		"required": ["id"]
	}`)
}

func (t *ReadTaskByIDTool) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	var args struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", err
	}

	taskID, msg := parseTaskID(args.ID)
	if msg != "" {
		return msg, nil
	}

	item, err := t.svc.Get(ctx, taskID)
	if errors.Is(err, task.ErrNotFound) {
		return "Task not found", nil
	}
	if err != nil {
		logging.Error().Err(err).Int64("id", taskID).Msg("tool ReadTaskById failed")
		return "Error reading task: " + err.Error(), nil
	}
	return formatTask(item), nil
}

func (t *ReadTaskByIDTool) EinoTool() einotool.InvokableTool {
	return &einoToolWrapper{tool: t}
}

// ReadTasksTool reads all tasks.
//
// Deprecated: retained for older conversations; prefer ReadAllTasks or
// ReadTaskById.
type ReadTasksTool struct {
	svc *task.Service
}

func (t *ReadTasksTool) ID() string { return "ReadTasks" }

func (t *ReadTasksTool) Description() string {
	return "Reads all tasks."
}

func (t *ReadTasksTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {},
		"required": []
	}`)
}

func (t *ReadTasksTool) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	items, err := t.svc.List(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("tool ReadTasks failed")
		return "Error reading tasks: " + err.Error(), nil
	}
	return formatTaskList(items), nil
}

func (t *ReadTasksTool) EinoTool() einotool.InvokableTool {
	return &einoToolWrapper{tool: t}
}

// UpdateTaskTool updates the specified task fields by id.
type UpdateTaskTool struct {
	svc *task.Service
}

func (t *UpdateTaskTool) ID() string { return "UpdateTask" }

func (t *UpdateTaskTool) Description() string {
	return "Updates the specified task fields by id."
}

func (t *UpdateTaskTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"id": {"type": "string", "description": "Id of the task to update"},
			"title": {"type": "string", "description": "New title (optional)"},
			"isComplete": {"type": "string", "description": "New completion status (true/false)"}
		},
		"required": ["id"]
	}`)
}

func (t *UpdateTaskTool) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	var args struct {
		ID         string `json:"id"`
		Title      string `json:"title"`
		IsComplete string `json:"isComplete"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", err
	}

	taskID, msg := parseTaskID(args.ID)
	if msg != "" {
		return msg, nil
	}

	var title *string
	if strings.TrimSpace(args.Title) != "" {
		title = &args.Title
	}
	var complete *bool
	if v := strings.TrimSpace(args.IsComplete); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			complete = &parsed
		}
	}

	updated, err := t.svc.Update(ctx, taskID, title, complete)
	if errors.Is(err, task.ErrNotFound) {
		return fmt.Sprintf("Task with Id %d not found", taskID), nil
	}
	if err != nil {
		logging.Error().Err(err).Int64("id", taskID).Msg("tool UpdateTask failed")
		return "Error updating task: " + err.Error(), nil
	}
	return fmt.Sprintf("Task %d updated", updated.ID), nil
}

func (t *UpdateTaskTool) EinoTool() einotool.InvokableTool {
	return &einoToolWrapper{tool: t}
}

// DeleteTaskTool deletes a task by id.
type DeleteTaskTool struct {
	svc *task.Service
}

func (t *DeleteTaskTool) ID() string { return "DeleteTask" }

func (t *DeleteTaskTool) Description() string {
	return "Deletes a task by id."
}

func (t *DeleteTaskTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"id": {"type": "string", "description": "Id of the task to delete"}
		},
		"required": ["id"]
	}`)
}

func (t *DeleteTaskTool) Execute(ctx context.Context, input json.RawMessage) (string, error) {
	var args struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", err
	}

	taskID, msg := parseTaskID(args.ID)
	if msg != "" {
		return msg, nil
	}

	err := t.svc.Delete(ctx, taskID)
	if errors.Is(err, task.ErrNotFound) {
		return fmt.Sprintf("Task with Id %d not found", taskID), nil
	}
	if err != nil {
		logging.Error().Err(err).Int64("id", taskID).Msg("tool DeleteTask failed")
		return "Error deleting task: " + err.Error(), nil
	}
	return fmt.Sprintf("Task %d deleted", taskID), nil
}

func (t *DeleteTaskTool) EinoTool() einotool.InvokableTool {
	return &einoToolWrapper{tool: t}
}
