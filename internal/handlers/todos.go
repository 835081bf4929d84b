package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/todopalm/todopalm-api/internal/database"
	"github.com/todopalm/todopalm-api/internal/models"
	"github.com/todopalm/todopalm-api/internal/request"
	"github.com/todopalm/todopalm-api/internal/services/lifecycle"
	"github.com/todopalm/todopalm-api/internal/validation"
	"go.uber.org/zap"
)

const maxTodoTitleLength = 500

// TodoHandler handles todo HTTP requests
type TodoHandler struct {
	todos  database.TodoRepositoryInterface
	groups database.TodoGroupRepositoryInterface
	daily  *lifecycle.Manager
	logger *zap.Logger
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(todos database.TodoRepositoryInterface, groups database.TodoGroupRepositoryInterface, daily *lifecycle.Manager, logger *zap.Logger) *TodoHandler {
	return &TodoHandler{todos: todos, groups: groups, daily: daily, logger: logger}
}

// RegisterRoutes registers todo routes on the given router.
// The router should already have the /todos prefix and the auth gate.
func (h *TodoHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.List).Methods("GET")
	r.HandleFunc("", h.Create).Methods("POST")
	r.HandleFunc("/{id}", h.Get).Methods("GET")
	r.HandleFunc("/{id}", h.Update).Methods("PUT")
	r.HandleFunc("/{id}", h.Delete).Methods("DELETE")
	r.HandleFunc("/{id}/complete", h.Complete).Methods("PUT")
	r.HandleFunc("/{id}/uncomplete", h.Uncomplete).Methods("PUT")
}

// CreateTodoRequest represents a todo creation request
type CreateTodoRequest struct {
	Title      string     `json:"title" validate:"required,max=500"`
	Content    string     `json:"content,omitempty"`
	CategoryID *uuid.UUID `json:"categoryId,omitempty"`
	Deadline   *time.Time `json:"deadline,omitempty"`
}

// UpdateTodoRequest represents a todo update request
type UpdateTodoRequest struct {
	Title      *string    `json:"title,omitempty"`
	Content    *string    `json:"content,omitempty"`
	CategoryID *uuid.UUID `json:"categoryId,omitempty"`
	Deadline   *time.Time `json:"deadline,omitempty"`
}

// List returns all todos for the authenticated user
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := request.Principal(r)
	if !ok {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	todos, err := h.todos.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("list_todos_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}

	respondJSON(w, http.StatusOK, todos)
}

// Get returns a single todo by ID
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := request.Principal(r)
	if !ok {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	todoID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid todo ID")
		return
	}

	todo, err := h.todos.GetByID(r.Context(), todoID, userID)
	if err != nil {
		h.logger.Error("get_todo_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}
	if todo == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Todo not found")
		return
	}

	respondJSON(w, http.StatusOK, todo)
}

// Create adds a todo to today's group. The group is resolved first, so a todo
// created just after midnight lands in the new day's group, never yesterday's.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := request.Principal(r)
	if !ok {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	req.Title = validation.SanitizeText(req.Title)
	if req.Title == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Title is required")
		return
	}
	if len(req.Title) > maxTodoTitleLength {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Title is too long")
		return
	}

	ctx := r.Context()
	group, err := h.daily.Resolve(ctx, userID, time.Now())
	if err != nil {
		h.logger.Error("create_todo_group_resolution_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}
	if group.IsLocked {
		respondJSONError(w, http.StatusConflict, "Conflict", "Todo group is locked")
		return
	}

	todo := &models.Todo{
		ID:          uuid.New(),
		UserID:      userID,
		TodoGroupID: group.ID,
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Content:     validation.SanitizeText(req.Content),
		Deadline:    req.Deadline,
	}
	if err := h.todos.Create(ctx, todo); err != nil {
		h.logger.Error("create_todo_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}

	respondJSON(w, http.StatusCreated, todo)
}

// Update modifies a todo's title, content, category or deadline
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := request.Principal(r)
	if !ok {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	todoID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid todo ID")
		return
	}

	var req UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	ctx := r.Context()
	todo, locked, err := h.fetchUnlocked(ctx, todoID, userID)
	if err != nil {
		h.logger.Error("update_todo_lookup_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}
	if todo == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Todo not found")
		return
	}
	if locked {
		respondJSONError(w, http.StatusConflict, "Conflict", "Todo group is locked")
		return
	}

	if req.Title != nil {
		title := validation.SanitizeText(*req.Title)
		if title == "" {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Title is required")
			return
		}
		if len(title) > maxTodoTitleLength {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Title is too long")
			return
		}
		todo.Title = title
	}
	if req.Content != nil {
		todo.Content = validation.SanitizeText(*req.Content)
	}
	if req.CategoryID != nil {
		todo.CategoryID = req.CategoryID
	}
	if req.Deadline != nil {
		todo.Deadline = req.Deadline
	}

	if err := h.todos.Update(ctx, todo); err != nil {
		h.logger.Error("update_todo_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}

	respondJSON(w, http.StatusOK, todo)
}

// Complete marks a todo completed and stamps the completion time
func (h *TodoHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.setCompleted(w, r, true)
}

// Uncomplete clears the completed flag and the completion time together
func (h *TodoHandler) Uncomplete(w http.ResponseWriter, r *http.Request) {
	h.setCompleted(w, r, false)
}

func (h *TodoHandler) setCompleted(w http.ResponseWriter, r *http.Request, completed bool) {
	userID, ok := request.Principal(r)
	if !ok {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	todoID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid todo ID")
		return
	}

	ctx := r.Context()
	existing, locked, err := h.fetchUnlocked(ctx, todoID, userID)
	if err != nil {
		h.logger.Error("set_todo_completed_lookup_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}
	if existing == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Todo not found")
		return
	}
	if locked {
		respondJSONError(w, http.StatusConflict, "Conflict", "Todo group is locked")
		return
	}

	todo, err := h.todos.SetCompleted(ctx, todoID, userID, completed)
	if err != nil {
		h.logger.Error("set_todo_completed_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}
	if todo == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Todo not found")
		return
	}

	respondJSON(w, http.StatusOK, todo)
}

// Delete removes a todo
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := request.Principal(r)
	if !ok {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	todoID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid todo ID")
		return
	}

	ctx := r.Context()
	todo, locked, err := h.fetchUnlocked(ctx, todoID, userID)
	if err != nil {
		h.logger.Error("delete_todo_lookup_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}
	if todo == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Todo not found")
		return
	}
	if locked {
		respondJSONError(w, http.StatusConflict, "Conflict", "Todo group is locked")
		return
	}

	if err := h.todos.Delete(ctx, todoID, userID); err != nil {
		h.logger.Error("delete_todo_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Todo deleted"})
}

// fetchUnlocked loads a todo and reports whether its group is locked.
// Returns (nil, false, nil) when the todo does not exist for the user.
func (h *TodoHandler) fetchUnlocked(ctx context.Context, todoID, userID uuid.UUID) (*models.Todo, bool, error) {
	todo, err := h.todos.GetByID(ctx, todoID, userID)
	if err != nil || todo == nil {
		return todo, false, err
	}
	group, err := h.groups.GetByID(ctx, todo.TodoGroupID, userID)
	if err != nil {
		return nil, false, err
	}
	return todo, group != nil && group.IsLocked, nil
}
