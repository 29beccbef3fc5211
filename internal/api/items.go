package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jkovac/inventar/internal/model"
	"github.com/jkovac/inventar/internal/store"
	"github.com/jkovac/inventar/internal/upload"
)

// maxItemFormSize caps a create/update request: up to five images plus fields.
const maxItemFormSize = 32 << 20

// ItemsHandler handles item catalog endpoints.
type ItemsHandler struct {
	DB      *sql.DB
	Uploads *upload.Store
}

// List handles GET /item. Supports q, category, limit and offset parameters.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter store.ItemFilter
	filter.Search = r.URL.Query().Get("q")
	if v := r.URL.Query().Get("category"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid category")
			return
		}
		filter.CategoryID = id
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		filter.Offset = n
	}

	items, err := store.ListActiveItems(r.Context(), h.DB, filter)
	if err != nil {
		slog.Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonData(w, http.StatusOK, items)
}

// Get handles GET /item/{id} and GET /item/admin/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonData(w, http.StatusOK, item)
}

// Search handles GET /item/search/{term}.
func (h *ItemsHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.PathValue("term")
	items, err := store.SearchItems(r.Context(), h.DB, term)
	if err != nil {
		slog.Error("failed to search items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to search items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonData(w, http.StatusOK, items)
}

// Autocomplete handles GET /item/autocomplete?term=.
func (h *ItemsHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	if term == "" {
		jsonData(w, http.StatusOK, []store.Suggestion{})
		return
	}

	suggestions, err := store.AutocompleteItems(r.Context(), h.DB, term, 10)
	if err != nil {
		slog.Error("failed to autocomplete items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to fetch suggestions")
		return
	}
	if suggestions == nil {
		suggestions = []store.Suggestion{}
	}
	jsonData(w, http.StatusOK, suggestions)
}

// ByCategory handles GET /item/category/{categoryId}.
func (h *ItemsHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.ParseInt(r.PathValue("categoryId"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	items, err := store.ListActiveItems(r.Context(), h.DB, store.ItemFilter{CategoryID: categoryID})
	if err != nil {
		slog.Error("failed to list items by category", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonData(w, http.StatusOK, items)
}

// AdminList handles GET /item/admin/all. Trashed items are included and
// carry their deleted_at marker.
func (h *ItemsHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListAllItems(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list all items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonData(w, http.StatusOK, items)
}

// Stats handles GET /item/admin/stats.
func (h *ItemsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := store.GetItemStats(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to compute item stats", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	jsonData(w, http.StatusOK, stats)
}

// Create handles POST /item/admin (multipart, up to five "images" files).
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxItemFormSize)
	if err := r.ParseMultipartForm(maxItemFormSize); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	in, err := parseItemInput(r, nil)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.checkCategory(r, w, in.CategoryID); err != nil {
		return
	}

	// Files must be fully on disk before the rows referencing them exist.
	paths, err := h.Uploads.SaveAll(r.MultipartForm.File["images"], model.MaxItemImages)
	if err != nil {
		uploadError(w, err)
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, *in, paths)
	if err != nil {
		slog.Error("failed to create item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	jsonData(w, http.StatusCreated, item)
}

// Update handles PUT /item/admin/{id}. Absent fields keep their stored
// values; a non-empty image upload replaces the whole image set.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxItemFormSize)
	if err := r.ParseMultipartForm(maxItemFormSize); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	existing, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	in, err := parseItemInput(r, existing)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if in.CategoryID != existing.CategoryID {
		if err := h.checkCategory(r, w, in.CategoryID); err != nil {
			return
		}
	}

	if files := r.MultipartForm.File["images"]; len(files) > 0 {
		paths, err := h.Uploads.SaveAll(files, model.MaxItemImages)
		if err != nil {
			uploadError(w, err)
			return
		}
		if err := store.ReplaceItemImages(r.Context(), h.DB, id, paths); err != nil {
			slog.Error("failed to replace item images", "error", err)
			jsonError(w, http.StatusInternalServerError, "failed to update item")
			return
		}
	}

	if err := store.UpdateItem(r.Context(), h.DB, id, *in); err != nil {
		slog.Error("failed to update item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	jsonData(w, http.StatusOK, item)
}

// Delete handles DELETE /item/admin/{id}. Deleting an already-trashed item
// is a no-op success.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, id); err != nil {
		slog.Error("failed to delete item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	jsonMessage(w, http.StatusOK, "item moved to trash")
}

// Restore handles PATCH /item/admin/restore/{id} and its GET alias.
func (h *ItemsHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to restore item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	if err := store.RestoreItem(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, store.ErrNotDeleted) {
			jsonError(w, http.StatusBadRequest, "item is not deleted")
			return
		}
		slog.Error("failed to restore item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to restore item")
		return
	}

	jsonMessage(w, http.StatusOK, "item restored")
}

// checkCategory verifies the referenced category exists, writing the error
// response itself. Returns a non-nil error when the caller should stop.
func (h *ItemsHandler) checkCategory(r *http.Request, w http.ResponseWriter, categoryID int64) error {
	category, err := store.GetCategory(r.Context(), h.DB, categoryID)
	if err != nil {
		slog.Error("failed to get category", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return err
	}
	if category == nil {
		jsonError(w, http.StatusBadRequest, "unknown category")
		return errors.New("unknown category")
	}
	return nil
}

// parseItemInput reads item fields from a parsed multipart form. When
// existing is non-nil, absent fields inherit the stored values (merge-style
// partial update); otherwise name, prices, quantity and category are required.
func parseItemInput(r *http.Request, existing *model.Item) (*store.ItemInput, error) {
	in := &store.ItemInput{}
	if existing != nil {
		in.Name = existing.Name
		in.Description = existing.Description
		in.CostPrice = existing.CostPrice
		in.SellPrice = existing.SellPrice
		in.Quantity = existing.Quantity
		in.CategoryID = existing.CategoryID
	}

	if v, ok := formValue(r, "name"); ok {
		in.Name = v
	}
	if v, ok := formValue(r, "description"); ok {
		in.Description = v
	}
	if v, ok := formValue(r, "cost_price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			return nil, errors.New("invalid cost_price")
		}
		in.CostPrice = price
	} else if existing == nil {
		return nil, errors.New("missing required field: cost_price")
	}
	if v, ok := formValue(r, "sell_price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			return nil, errors.New("invalid sell_price")
		}
		in.SellPrice = price
	} else if existing == nil {
		return nil, errors.New("missing required field: sell_price")
	}
	if v, ok := formValue(r, "quantity"); ok {
		qty, err := strconv.ParseInt(v, 10, 64)
		if err != nil || qty < 0 {
			return nil, errors.New("invalid quantity")
		}
		in.Quantity = qty
	} else if existing == nil {
		return nil, errors.New("missing required field: quantity")
	}
	if v, ok := formValue(r, "category_id"); ok {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return nil, errors.New("invalid category_id")
		}
		in.CategoryID = id
	} else if existing == nil {
		return nil, errors.New("missing required field: category_id")
	}

	if in.Name == "" {
		return nil, errors.New("missing required field: name")
	}

	return in, nil
}

// formValue reports whether the multipart form carries the key at all, so
// partial updates can tell "absent" from "set to empty".
func formValue(r *http.Request, key string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// uploadError maps upload validation failures to 400 and everything else to 500.
func uploadError(w http.ResponseWriter, err error) {
	if errors.Is(err, upload.ErrFileType) || errors.Is(err, upload.ErrFileSize) || errors.Is(err, upload.ErrTooManyFiles) {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	slog.Error("failed to store upload", "error", err)
	jsonError(w, http.StatusInternalServerError, "failed to store uploaded file")
}
