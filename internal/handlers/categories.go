package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/todopalm/todopalm-api/internal/database"
	"github.com/todopalm/todopalm-api/internal/models"
	"github.com/todopalm/todopalm-api/internal/request"
	"github.com/todopalm/todopalm-api/internal/validation"
	"go.uber.org/zap"
)

// CategoryHandler handles category HTTP requests
type CategoryHandler struct {
	categories database.CategoryRepositoryInterface
	logger     *zap.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categories database.CategoryRepositoryInterface, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, logger: logger}
}

// RegisterRoutes registers category routes on the given router.
// The router should already have the /categories prefix and the auth gate.
func (h *CategoryHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.List).Methods("GET")
	r.HandleFunc("", h.CreateMany).Methods("POST")
	r.HandleFunc("/{id}", h.Get).Methods("GET")
	r.HandleFunc("/{id}", h.Update).Methods("PUT")
	r.HandleFunc("/{id}", h.Delete).Methods("DELETE")
}

// CategoryInput represents one category in a bulk creation request
type CategoryInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	IconTag string `json:"iconTag,omitempty"`
}

// CreateCategoriesRequest is a bulk category creation request
type CreateCategoriesRequest struct {
	Categories []CategoryInput `json:"categories" validate:"required,min=1,dive"`
}

// UpdateCategoryRequest renames a category
type UpdateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// List returns all categories for the authenticated user
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := request.Principal(r)
	if !ok {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	categories, err := h.categories.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("list_categories_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}

	respondJSON(w, http.StatusOK, categories)
}

// Get returns a single category owned by the authenticated user
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := request.Principal(r)
	if !ok {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	categoryID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid category ID")
		return
	}

	category, err := h.categories.GetByID(r.Context(), categoryID, userID)
	if err != nil {
		h.logger.Error("get_category_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}
	if category == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Category not found")
		return
	}

	respondJSON(w, http.StatusOK, category)
}

// CreateMany creates a batch of categories in one transaction
func (h *CategoryHandler) CreateMany(w http.ResponseWriter, r *http.Request) {
	userID, ok := request.Principal(r)
	if !ok {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req CreateCategoriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if len(req.Categories) == 0 {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "At least one category is required")
		return
	}

	categories := make([]*models.Category, 0, len(req.Categories))
	for _, input := range req.Categories {
		name := validation.SanitizeText(input.Name)
		if name == "" {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Category name is required")
			return
		}
		categories = append(categories, &models.Category{
			ID:      uuid.New(),
			UserID:  userID,
			Name:    name,
			IconTag: validation.SanitizeText(input.IconTag),
		})
	}

	if err := h.categories.CreateMany(r.Context(), categories); err != nil {
		h.logger.Error("create_categories_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}

	respondJSON(w, http.StatusCreated, categories)
}

// Update renames a category
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := request.Principal(r)
	if !ok {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	categoryID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid category ID")
		return
	}

	var req UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	name := validation.SanitizeText(req.Name)
	if name == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Category name is required")
		return
	}

	category, err := h.categories.Update(r.Context(), categoryID, userID, name)
	if err != nil {
		h.logger.Error("update_category_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}
	if category == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Category not found")
		return
	}

	respondJSON(w, http.StatusOK, category)
}

// Delete removes a category. Todos referencing it keep existing and lose the
// reference through the ON DELETE SET NULL on todos.category_id.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := request.Principal(r)
	if !ok {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	categoryID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid category ID")
		return
	}

	if err := h.categories.Delete(r.Context(), categoryID, userID); err != nil {
		h.logger.Error("delete_category_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Something went wrong")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}
