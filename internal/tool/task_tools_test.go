package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub-ai/taskhub/internal/task"
)

func setupTools(t *testing.T) (*Registry, *task.Service) {
	t.Helper()
	store, err := task.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	svc := task.NewService(store)
	return DefaultRegistry(svc), svc
}

func execute(t *testing.T, reg *Registry, id string, args string) string {
	t.Helper()
	tl, ok := reg.Get(id)
	require.True(t, ok, "tool %s not registered", id)

	out, err := tl.Execute(context.Background(), json.RawMessage(args))
	require.NoError(t, err)
	return out
}

func TestDefaultRegistryTools(t *testing.T) {
	reg, _ := setupTools(t)

	for _, id := range []string{"CreateTask", "ReadAllTasks", "ReadTaskById", "ReadTasks", "UpdateTask", "DeleteTask"} {
		_, ok := reg.Get(id)
		assert.True(t, ok, "missing tool %s", id)
	}
}

func TestReadAllTasksEmpty(t *testing.T) {
	reg, _ := setupTools(t)

	out := execute(t, reg, "ReadAllTasks", `{}`)
	assert.Equal(t, "No tasks found", out)
}

func TestCreateAndReadTask(t *testing.T) {
	reg, _ := setupTools(t)

	out := execute(t, reg, "CreateTask", `{"title": "buy milk", "isComplete": "false"}`)
	assert.Equal(t, "Task created: buy milk", out)

	out = execute(t, reg, "ReadTaskById", `{"id": "1"}`)
	assert.Equal(t, "Id: 1\nTitle: buy milk\nComplete: No", out)
}

func TestCreateTaskCompleted(t *testing.T) {
	reg, _ := setupTools(t)

	execute(t, reg, "CreateTask", `{"title": "done already", "isComplete": "true"}`)

	out := execute(t, reg, "ReadTaskById", `{"id": "1"}`)
	assert.Equal(t, "Id: 1\nTitle: done already\nComplete: Yes", out)
}

func TestReadAllTasksJoinsWithBlankLine(t *testing.T) {
	reg, _ := setupTools(t)

	execute(t, reg, "CreateTask", `{"title": "one"}`)
	execute(t, reg, "CreateTask", `{"title": "two"}`)

	out := execute(t, reg, "ReadAllTasks", `{}`)
	expected := "Id: 1\nTitle: one\nComplete: No\n\nId: 2\nTitle: two\nComplete: No"
	assert.Equal(t, expected, out)
}

func TestReadTaskByIDErrors(t *testing.T) {
	reg, _ := setupTools(t)

	tests := []struct {
		name string
		args string
		want string
	}{
		{"non-numeric id", `{"id": "abc"}`, "Invalid task id"},
		{"missing id", `{"id": ""}`, "Task id is required"},
		{"nonexistent id", `{"id": "999"}`, "Task not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := execute(t, reg, "ReadTaskById", tt.args)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestUpdateTaskPartial(t *testing.T) {
	reg, svc := setupTools(t)

	execute(t, reg, "CreateTask", `{"title": "write report"}`)

	out := execute(t, reg, "UpdateTask", `{"id": "1", "isComplete": "true"}`)
	assert.Equal(t, "Task 1 updated", out)

	item, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "write report", item.Title)
	assert.True(t, item.Complete)
}

func TestUpdateTaskNotFound(t *testing.T) {
	reg, _ := setupTools(t)

	out := execute(t, reg, "UpdateTask", `{"id": "5", "title": "new"}`)
	assert.Equal(t, "Task with Id 5 not found", out)
}

func TestDeleteTaskTwice(t *testing.T) {
	reg, _ := setupTools(t)

	execute(t, reg, "CreateTask", `{"title": "temp"}`)

	out := execute(t, reg, "DeleteTask", `{"id": "1"}`)
	assert.Equal(t, "Task 1 deleted", out)

	// Second delete returns a not-found string, not an error.
	out = execute(t, reg, "DeleteTask", `{"id": "1"}`)
	assert.Equal(t, "Task with Id 1 not found", out)
}

func TestDeleteTaskInvalidID(t *testing.T) {
	reg, _ := setupTools(t)

	out := execute(t, reg, "DeleteTask", `{"id": "zzz"}`)
	assert.Equal(t, "Invalid task id", out)
}

func TestEinoToolInfo(t *testing.T) {
	reg, _ := setupTools(t)

	tl, ok := reg.Get("UpdateTask")
	require.True(t, ok)

	info, err := tl.EinoTool().Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "UpdateTask", info.Name)
	assert.NotEmpty(t, info.Desc)
}

func TestToolInfosCoversAllTools(t *testing.T) {
	reg, _ := setupTools(t)

	infos := reg.ToolInfos()
	assert.Len(t, infos, len(reg.IDs()))
}

func TestReadAllTasksManyRecords(t *testing.T) {
	reg, _ := setupTools(t)

	for i := 0; i < 5; i++ {
		execute(t, reg, "CreateTask", fmt.Sprintf(`{"title": "task %d"}`, i))
	}

	out := execute(t, reg, "ReadAllTasks", `{}`)
	assert.Contains(t, out, "Id: 1\n")
	assert.Contains(t, out, "Id: 5\n")
}
