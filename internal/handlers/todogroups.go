package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/todopalm/todopalm-api/internal/database"
	"github.com/todopalm/todopalm-api/internal/request"
	"github.com/todopalm/todopalm-api/internal/services/lifecycle"
	"go.uber.org/zap"
)

// TodoGroupHandler handles todo group HTTP requests
type TodoGroupHandler struct {
	groups database.TodoGroupRepositoryInterface
	todos  database.TodoRepositoryInterface
	daily  *lifecycle.Manager
	logger *zap.Logger
}

// NewTodoGroupHandler creates a new todo group handler
func NewTodoGroupHandler(groups database.TodoGroupRepositoryInterface, todos database.TodoRepositoryInterface, daily *lifecycle.Manager, logger *zap.Logger) *TodoGroupHandler {
	return &TodoGroupHandler{groups: groups, todos: todos, daily: daily, logger: logger}
}

// RegisterRoutes registers todo group routes on the given router.
// The router should already have the /todo-groups prefix and the auth gate.
func (h *TodoGroupHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.List).Methods("GET")
	r.HandleFunc("/{id}", h.Get).Methods("GET")
	r.HandleFunc("/{id}/lock", h.Lock).Methods("PUT")
}

// List returns the user's groups, newest day first, each with its todos
func (h *TodoGroupHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := request.Principal(r)
	if !ok {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	ctx := r.Context()
	groups, err := h.groups.ListByUser(ctx, userID)
	if err != nil {
		h.logger.Error("list_todo_groups_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}

	todos, err := h.todos.ListByUser(ctx, userID)
	if err != nil {
		h.logger.Error("list_todo_groups_todos_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}

	// Bucket todos into their groups in one pass.
	byGroup := make(map[uuid.UUID]int, len(groups))
	for i, group := range groups {
		byGroup[group.ID] = i
	}
	for _, todo := range todos {
		if i, ok := byGroup[todo.TodoGroupID]; ok {
			groups[i].Todos = append(groups[i].Todos, todo)
		}
	}

	respondJSON(w, http.StatusOK, groups)
}

// Get returns a single group with its todos
func (h *TodoGroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := request.Principal(r)
	if !ok {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	groupID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid todo group ID")
		return
	}

	ctx := r.Context()
	group, err := h.groups.GetByID(ctx, groupID, userID)
	if err != nil {
		h.logger.Error("get_todo_group_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}
	if group == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Todo group not found")
		return
	}

	todos, err := h.todos.ListByGroup(ctx, group.ID, userID)
	if err != nil {
		h.logger.Error("get_todo_group_todos_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}
	group.Todos = todos

	respondJSON(w, http.StatusOK, group)
}

// Lock marks a group locked, freezing its todos
func (h *TodoGroupHandler) Lock(w http.ResponseWriter, r *http.Request) {
	userID, ok := request.Principal(r)
	if !ok {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	groupID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid todo group ID")
		return
	}

	group, err := h.daily.Lock(r.Context(), groupID, userID)
	if err != nil {
		h.logger.Error("lock_todo_group_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}
	if group == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Todo group not found")
		return
	}

	respondJSON(w, http.StatusOK, group)
}
