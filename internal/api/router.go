package api

import (
	"database/sql"
	"net/http"

	"github.com/mlakar/inventar/internal/auth"
	"github.com/mlakar/inventar/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, secrets auth.Secrets) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, Secrets: secrets}
	usersHandler := &UsersHandler{DB: db}
	orgsHandler := &OrganisationsHandler{DB: db}
	typesHandler := &ItemTypesHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}

	authMW := AuthMiddleware(secrets.Access)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireEditor := RequireRole(model.RoleEditor)

	// Public: login and token refresh.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/refresh", authHandler.Refresh)

	// Authenticated.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Organisations: read (all roles), write (editor+).
	mux.Handle("GET /api/organisations", authMW(http.HandlerFunc(orgsHandler.List)))
	mux.Handle("POST /api/organisations", authMW(requireEditor(http.HandlerFunc(orgsHandler.Create))))
	mux.Handle("GET /api/organisations/{id}", authMW(http.HandlerFunc(orgsHandler.Get)))
	mux.Handle("PUT /api/organisations/{id}", authMW(requireEditor(http.HandlerFunc(orgsHandler.Update))))
	mux.Handle("DELETE /api/organisations/{id}", authMW(requireEditor(http.HandlerFunc(orgsHandler.Delete))))

	// Item types, supply sources, BOM edges: read (all roles), write (editor+).
	mux.Handle("GET /api/types", authMW(http.HandlerFunc(typesHandler.List)))
	mux.Handle("POST /api/types", authMW(requireEditor(http.HandlerFunc(typesHandler.Create))))
	mux.Handle("GET /api/types/{id}", authMW(http.HandlerFunc(typesHandler.Get)))
	mux.Handle("PUT /api/types/{id}", authMW(requireEditor(http.HandlerFunc(typesHandler.Update))))
	mux.Handle("DELETE /api/types/{id}", authMW(requireEditor(http.HandlerFunc(typesHandler.Delete))))
	mux.Handle("GET /api/types/{id}/sources", authMW(http.HandlerFunc(typesHandler.ListSources)))
	mux.Handle("POST /api/types/{id}/sources", authMW(requireEditor(http.HandlerFunc(typesHandler.CreateSource))))
	mux.Handle("GET /api/types/{id}/bom", authMW(http.HandlerFunc(typesHandler.ListBom)))
	mux.Handle("PUT /api/types/{id}/bom", authMW(requireEditor(http.HandlerFunc(typesHandler.UpsertBom))))
	mux.Handle("DELETE /api/types/{id}/bom/{ingredient}", authMW(requireEditor(http.HandlerFunc(typesHandler.DeleteBom))))
	mux.Handle("PUT /api/types/{id}/photo", authMW(requireEditor(http.HandlerFunc(typesHandler.UploadPhoto))))
	mux.Handle("GET /api/types/{id}/photo", authMW(http.HandlerFunc(typesHandler.GetPhoto)))

	// Items: read (all roles), write (editor+). Stock counts can be recorded
	// by any authenticated user; the store gates administrative counts.
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(requireEditor(http.HandlerFunc(itemsHandler.Create))))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}", authMW(requireEditor(http.HandlerFunc(itemsHandler.Update))))
	mux.Handle("PUT /api/items/{id}/location", authMW(requireEditor(http.HandlerFunc(itemsHandler.Move))))
	mux.Handle("DELETE /api/items/{id}", authMW(requireEditor(http.HandlerFunc(itemsHandler.Delete))))
	mux.Handle("POST /api/items/{id}/counts", authMW(http.HandlerFunc(itemsHandler.RecordCount)))
	mux.Handle("GET /api/items/{id}/counts", authMW(http.HandlerFunc(itemsHandler.ListCounts)))
	mux.Handle("GET /api/items/{id}/quantity", authMW(http.HandlerFunc(itemsHandler.Quantity)))

	return RequestIDMiddleware(mux)
}
