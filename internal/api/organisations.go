package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/mlakar/inventar/internal/model"
	"github.com/mlakar/inventar/internal/store"
)

// OrganisationsHandler handles organisation CRUD endpoints.
type OrganisationsHandler struct {
	DB *sql.DB
}

type organisationRequest struct {
	Name string `json:"name"`
}

// List handles GET /api/organisations.
func (h *OrganisationsHandler) List(w http.ResponseWriter, r *http.Request) {
	orgs, err := store.ListOrganisations(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "list organisations")
		return
	}
	if orgs == nil {
		orgs = []model.Organisation{}
	}
	jsonResponse(w, http.StatusOK, orgs)
}

// Create handles POST /api/organisations.
func (h *OrganisationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req organisationRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	org, err := store.CreateOrganisation(r.Context(), h.DB, req.Name)
	if err != nil {
		storeError(w, err, "create organisation")
		return
	}
	jsonResponse(w, http.StatusCreated, org)
}

// Get handles GET /api/organisations/{id}.
func (h *OrganisationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid organisation id")
		return
	}

	org, err := store.GetOrganisation(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "get organisation")
		return
	}
	if org == nil {
		jsonError(w, http.StatusNotFound, "organisation not found")
		return
	}
	jsonResponse(w, http.StatusOK, org)
}

// Update handles PUT /api/organisations/{id} (rename only).
func (h *OrganisationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid organisation id")
		return
	}

	var req organisationRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	if err := store.RenameOrganisation(r.Context(), h.DB, id, req.Name); err != nil {
		storeError(w, err, "update organisation")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "organisation updated"})
}

// Delete handles DELETE /api/organisations/{id}.
func (h *OrganisationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid organisation id")
		return
	}

	if err := store.DeleteOrganisation(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "delete organisation")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "organisation deleted"})
}
