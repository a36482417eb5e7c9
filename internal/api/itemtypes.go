package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/mlakar/inventar/internal/imaging"
	"github.com/mlakar/inventar/internal/model"
	"github.com/mlakar/inventar/internal/store"
)

// ItemTypesHandler handles item type, supply source and BOM endpoints.
type ItemTypesHandler struct {
	DB *sql.DB
}

type itemTypeRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Consumable     bool   `json:"consumable"`
	ManufacturerID *int64 `json:"manufacturer_id"`
}

type sourceRequest struct {
	OrganisationID int64  `json:"organisation_id"`
	ModelName      string `json:"model_name"`
	ResupplyURI    string `json:"resupply_uri"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	PriceDate      string `json:"price_date"`
}

type bomRequest struct {
	IngredientTypeID int64 `json:"ingredient_type_id"`
	Quantity         int   `json:"quantity"`
	Reclaimable      bool  `json:"reclaimable"`
}

// List handles GET /api/types.
func (h *ItemTypesHandler) List(w http.ResponseWriter, r *http.Request) {
	types, err := store.ListItemTypes(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "list item types")
		return
	}
	if types == nil {
		types = []model.ItemType{}
	}
	jsonResponse(w, http.StatusOK, types)
}

// Create handles POST /api/types.
func (h *ItemTypesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	it, err := store.CreateItemType(r.Context(), h.DB, req.Name, req.Description, req.Consumable, req.ManufacturerID)
	if err != nil {
		storeError(w, err, "create item type")
		return
	}
	jsonResponse(w, http.StatusCreated, it)
}

// Get handles GET /api/types/{id}.
func (h *ItemTypesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item type id")
		return
	}

	it, err := store.GetItemType(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "get item type")
		return
	}
	if it == nil {
		jsonError(w, http.StatusNotFound, "item type not found")
		return
	}
	jsonResponse(w, http.StatusOK, it)
}

// Update handles PUT /api/types/{id}.
func (h *ItemTypesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item type id")
		return
	}

	var req itemTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	if err := store.UpdateItemType(r.Context(), h.DB, id, req.Name, req.Description, req.Consumable, req.ManufacturerID); err != nil {
		storeError(w, err, "update item type")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item type updated"})
}

// Delete handles DELETE /api/types/{id}.
func (h *ItemTypesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item type id")
		return
	}

	if err := store.DeleteItemType(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "delete item type")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item type deleted"})
}

// ListSources handles GET /api/types/{id}/sources.
func (h *ItemTypesHandler) ListSources(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item type id")
		return
	}

	sources, err := store.ListSources(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "list sources")
		return
	}
	if sources == nil {
		sources = []model.ItemTypeSource{}
	}
	jsonResponse(w, http.StatusOK, sources)
}

// CreateSource handles POST /api/types/{id}/sources. Sources are append-only;
// price changes are new rows.
func (h *ItemTypesHandler) CreateSource(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item type id")
		return
	}

	var req sourceRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	source, err := store.CreateSource(r.Context(), h.DB, id, req.OrganisationID,
		req.ModelName, req.ResupplyURI, req.UnitPriceCents, req.PriceDate)
	if err != nil {
		storeError(w, err, "create source")
		return
	}
	jsonResponse(w, http.StatusCreated, source)
}

// ListBom handles GET /api/types/{id}/bom.
func (h *ItemTypesHandler) ListBom(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item type id")
		return
	}

	edges, err := store.ListBomItems(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "list BOM edges")
		return
	}
	if edges == nil {
		edges = []model.BomItem{}
	}
	jsonResponse(w, http.StatusOK, edges)
}

// UpsertBom handles PUT /api/types/{id}/bom.
func (h *ItemTypesHandler) UpsertBom(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item type id")
		return
	}

	var req bomRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	edge, err := store.UpsertBomItem(r.Context(), h.DB, id, req.IngredientTypeID, req.Quantity, req.Reclaimable)
	if err != nil {
		storeError(w, err, "upsert BOM edge")
		return
	}
	jsonResponse(w, http.StatusOK, edge)
}

// DeleteBom handles DELETE /api/types/{id}/bom/{ingredient}.
func (h *ItemTypesHandler) DeleteBom(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item type id")
		return
	}
	ingredient, err := strconv.ParseInt(r.PathValue("ingredient"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid ingredient type id")
		return
	}

	if err := store.DeleteBomItem(r.Context(), h.DB, id, ingredient); err != nil {
		storeError(w, err, "delete BOM edge")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "BOM edge deleted"})
}

// UploadPhoto handles PUT /api/types/{id}/photo.
func (h *ItemTypesHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item type id")
		return
	}

	it, err := store.GetItemType(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "get item type")
		return
	}
	if it == nil || it.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "item type not found")
		return
	}

	photo, err := imaging.Process(http.MaxBytesReader(w, r.Body, 10<<20))
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetItemTypePhoto(r.Context(), h.DB, id, photo.Data, photo.MIME); err != nil {
		storeError(w, err, "set item type photo")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "photo updated"})
}

// GetPhoto handles GET /api/types/{id}/photo.
func (h *ItemTypesHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item type id")
		return
	}

	data, mime, err := store.GetItemTypePhoto(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "get item type photo")
		return
	}
	if len(data) == 0 {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
