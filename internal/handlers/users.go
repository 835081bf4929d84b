package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/todopalm/todopalm-api/internal/database"
	"github.com/todopalm/todopalm-api/internal/models"
	"github.com/todopalm/todopalm-api/internal/request"
	"github.com/todopalm/todopalm-api/internal/services/lifecycle"
	"github.com/todopalm/todopalm-api/internal/validation"
	"go.uber.org/zap"
)

// UserHandler handles user profile requests. GetMe is where the daily group
// rollover happens: resolving "me" resolves today's container.
type UserHandler struct {
	users      database.UserRepositoryInterface
	todos      database.TodoRepositoryInterface
	categories database.CategoryRepositoryInterface
	groups     *lifecycle.Manager
	logger     *zap.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users database.UserRepositoryInterface, todos database.TodoRepositoryInterface, categories database.CategoryRepositoryInterface, groups *lifecycle.Manager, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, todos: todos, categories: categories, groups: groups, logger: logger}
}

// RegisterRoutes registers user routes on the given router.
// The router should already have the /users prefix and the auth gate.
func (h *UserHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/me", h.GetMe).Methods("GET")
	r.HandleFunc("/me", h.UpdateMe).Methods("PUT")
	r.HandleFunc("/me", h.DeleteAccount).Methods("DELETE")
	r.HandleFunc("/me/set-theme", h.SetTheme).Methods("PUT")
	r.HandleFunc("/me/basic-info", h.UpdateBasicInfo).Methods("PUT")
}

// MeResponse merges the profile with today's container and its todos
type MeResponse struct {
	*models.User
	TodaysTodoGroup *models.TodoGroup  `json:"todaysTodoGroup"`
	TodaysTodos     []*models.Todo     `json:"todaysTodos"`
	Categories      []*models.Category `json:"categories"`
}

// GetMe returns the profile merged with today's todo group and its todos
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := request.Principal(r)
	if !ok {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	ctx := r.Context()
	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		h.logger.Error("get_me_user_lookup_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}
	if user == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "User not found")
		return
	}

	group, err := h.groups.Resolve(ctx, userID, time.Now())
	if err != nil {
		h.logger.Error("get_me_group_resolution_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}

	todaysTodos, err := h.todos.ListByGroup(ctx, group.ID, userID)
	if err != nil {
		h.logger.Error("get_me_todos_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}

	categories, err := h.categories.ListByUser(ctx, userID)
	if err != nil {
		h.logger.Error("get_me_categories_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}

	respondJSON(w, http.StatusOK, MeResponse{
		User:            user,
		TodaysTodoGroup: group,
		TodaysTodos:     todaysTodos,
		Categories:      categories,
	})
}

// UpdateMeRequest represents a profile update
type UpdateMeRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

// UpdateMe updates name, email and image URL
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := request.Principal(r)
	if !ok {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req UpdateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	ctx := r.Context()
	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}
	if user == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "User not found")
		return
	}

	if req.Name != nil {
		name := validation.SanitizeText(*req.Name)
		user.Name = &name
	}
	if req.Email != nil && *req.Email != "" {
		user.Email = *req.Email
	}
	if req.ImageURL != nil {
		user.ImageURL = req.ImageURL
	}

	if err := h.users.Update(ctx, user); err != nil {
		h.logger.Error("update_me_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// SetThemeRequest represents a theme preference change
type SetThemeRequest struct {
	Theme string `json:"theme" validate:"required,theme"`
}

// SetTheme updates the display theme preference
func (h *UserHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	userID, ok := request.Principal(r)
	if !ok {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req SetThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validation.ValidateTheme(req.Theme); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	ctx := r.Context()
	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}
	if user == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "User not found")
		return
	}

	user.Theme = req.Theme
	if err := h.users.Update(ctx, user); err != nil {
		h.logger.Error("set_theme_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// UpdateBasicInfoRequest represents an occupation/additional info update
type UpdateBasicInfoRequest struct {
	Occupation     *string `json:"occupation,omitempty"`
	AdditionalInfo *string `json:"additionalInfo,omitempty"`
}

// UpdateBasicInfo updates occupation and additional info
func (h *UserHandler) UpdateBasicInfo(w http.ResponseWriter, r *http.Request) {
	userID, ok := request.Principal(r)
	if !ok {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req UpdateBasicInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	ctx := r.Context()
	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}
	if user == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "User not found")
		return
	}

	if req.Occupation != nil {
		occupation := validation.SanitizeText(*req.Occupation)
		user.Occupation = &occupation
	}
	if req.AdditionalInfo != nil {
		info := validation.SanitizeText(*req.AdditionalInfo)
		user.AdditionalInfo = &info
	}

	if err := h.users.Update(ctx, user); err != nil {
		h.logger.Error("update_basic_info_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// DeleteAccount deletes the account and everything it owns
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := request.Principal(r)
	if !ok {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	if err := h.users.Delete(r.Context(), userID); err != nil {
		h.logger.Error("delete_account_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}
