package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/mlakar/inventar/internal/model"
	"github.com/mlakar/inventar/internal/store"
)

// ItemsHandler handles physical item and stock count endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

type createItemRequest struct {
	AssetTag       string `json:"asset_tag"`
	ItemTypeID     int64  `json:"item_type_id"`
	SourceID       int64  `json:"source_id"`
	LocationID     *int64 `json:"location_id"`
	State          string `json:"state"`
	Summary        string `json:"summary"`
	Countable      bool   `json:"countable"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	AcquiredAt     string `json:"acquired_at"`
}

type updateItemRequest struct {
	AssetTag  string `json:"asset_tag"`
	State     string `json:"state"`
	Summary   string `json:"summary"`
	Countable bool   `json:"countable"`
}

type moveItemRequest struct {
	LocationID *int64 `json:"location_id"`
}

type stockCountRequest struct {
	Count          int    `json:"count"`
	CountDate      string `json:"count_date"`
	Administrative bool   `json:"administrative"`
}

// List handles GET /api/items with optional state/type/location filters.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	typeID, _ := strconv.ParseInt(q.Get("type"), 10, 64)
	locationID, _ := strconv.ParseInt(q.Get("location"), 10, 64)

	items, err := store.ListItems(r.Context(), h.DB, q.Get("state"), typeID, locationID)
	if err != nil {
		storeError(w, err, "list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ItemTypeID == 0 || req.SourceID == 0 {
		jsonError(w, http.StatusBadRequest, "item_type_id and source_id required")
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, store.NewItem{
		AssetTag:       req.AssetTag,
		ItemTypeID:     req.ItemTypeID,
		SourceID:       req.SourceID,
		LocationID:     req.LocationID,
		State:          req.State,
		Summary:        req.Summary,
		Countable:      req.Countable,
		UnitPriceCents: req.UnitPriceCents,
		AcquiredAt:     req.AcquiredAt,
	})
	if err != nil {
		storeError(w, err, "create item")
		return
	}
	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	// Contents: items located inside this one.
	contents, err := store.ListItems(r.Context(), h.DB, "", 0, id)
	if err != nil {
		storeError(w, err, "get item contents")
		return
	}
	if contents == nil {
		contents = []model.Item{}
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"item":     item,
		"contents": contents,
	})
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.UpdateItem(r.Context(), h.DB, id, req.AssetTag, req.State, req.Summary, req.Countable); err != nil {
		storeError(w, err, "update item")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item updated"})
}

// Move handles PUT /api/items/{id}/location.
func (h *ItemsHandler) Move(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req moveItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.MoveItem(r.Context(), h.DB, id, req.LocationID); err != nil {
		storeError(w, err, "move item")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item moved"})
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "delete item")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// RecordCount handles POST /api/items/{id}/counts. The acting user comes
// from the verified token claims; administrative counts require admin.
func (h *ItemsHandler) RecordCount(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req stockCountRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor := &model.User{ID: claims.UserID, Username: claims.Username, Role: claims.Role}
	count, err := store.RecordStockCount(r.Context(), h.DB, id, req.Count, req.CountDate, req.Administrative, actor)
	if err != nil {
		storeError(w, err, "record stock count")
		return
	}
	jsonResponse(w, http.StatusCreated, count)
}

// ListCounts handles GET /api/items/{id}/counts.
func (h *ItemsHandler) ListCounts(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	counts, err := store.ListStockCounts(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "list stock counts")
		return
	}
	if counts == nil {
		counts = []model.StockCount{}
	}
	jsonResponse(w, http.StatusOK, counts)
}

// Quantity handles GET /api/items/{id}/quantity.
func (h *ItemsHandler) Quantity(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	quantity, err := store.CurrentQuantity(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "get current quantity")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"item_id": id, "quantity": quantity})
}
