package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taskhub-ai/taskhub/internal/task"
)

// UpdateTaskRequest represents the request body for updating a task. A nil
// field leaves the stored value unchanged.
type UpdateTaskRequest struct {
	Title    *string `json:"title"`
	Complete *bool   `json:"complete"`
}

// listTasks handles GET /api/tasks
func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}

	// Return an empty array [] instead of null
	if tasks == nil {
		tasks = []*task.Item{}
	}

	writeJSON(w, http.StatusOK, tasks)
}

// getTask handles GET /api/tasks/{taskID}
func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	item, err := s.tasks.Get(r.Context(), id)
	if errors.Is(err, task.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// createTask handles POST /api/tasks
func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	// Title arrives as a query or form parameter.
	title := r.URL.Query().Get("title")
	if title == "" {
		if err := r.ParseForm(); err == nil {
			title = r.PostForm.Get("title")
		}
	}
	if title == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "title is required")
		return
	}

	item, err := s.tasks.Create(r.Context(), title, false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// updateTask handles PUT /api/tasks/{taskID}
func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON body")
		return
	}

	_, err := s.tasks.Update(r.Context(), id, req.Title, req.Complete)
	if err != nil && !errors.Is(err, task.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}

	// Absent id is a no-op.
	w.WriteHeader(http.StatusNoContent)
}

// deleteTask handles DELETE /api/tasks/{taskID}
func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	err := s.tasks.Delete(r.Context(), id)
	if err != nil && !errors.Is(err, task.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, ErrCodeInternalError, err.Error())
		return
	}

	// Absent id is a no-op.
	w.WriteHeader(http.StatusNoContent)
}

// taskIDParam parses the path id, writing a 400 response for non-numeric ids.
func taskIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "taskID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid task id")
		return 0, false
	}
	return id, true
}
