package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/jkovac/inventar/internal/model"
	"github.com/jkovac/inventar/internal/store"
)

// CategoriesHandler handles category endpoints.
type CategoriesHandler struct {
	DB *sql.DB
}

type createCategoryRequest struct {
	Description string `json:"description"`
}

// List handles GET /category.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := store.ListCategories(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list categories", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	jsonData(w, http.StatusOK, categories)
}

// Create handles POST /category.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Description == "" {
		jsonError(w, http.StatusBadRequest, "description required")
		return
	}

	category, err := store.CreateCategory(r.Context(), h.DB, req.Description)
	if err != nil {
		slog.Error("failed to create category", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	jsonData(w, http.StatusCreated, category)
}
