package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mlakar/inventar/internal/auth"
	"github.com/mlakar/inventar/internal/db"
	"github.com/mlakar/inventar/internal/model"
	"github.com/mlakar/inventar/internal/store"
)

var testSecrets = auth.Secrets{Access: "test-access-secret", Refresh: "test-refresh-secret"}

// setupTestServer starts an httptest server with an admin, editor and viewer
// account ("password" for all three).
func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database := db.NewTestDB(t)
	router := NewRouter(database, testSecrets)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	ctx := context.Background()
	hash, err := auth.HashPassword("password")
	if err != nil {
		t.Fatalf("hashing test password: %v", err)
	}
	for user, role := range map[string]string{
		"admin":  model.RoleAdmin,
		"editor": model.RoleEditor,
		"viewer": model.RoleViewer,
	} {
		if _, err := store.CreateUser(ctx, database, user, hash, role); err != nil {
			t.Fatalf("creating %s: %v", user, err)
		}
	}

	return server
}

// login returns the access and refresh tokens for a username.
func login(t *testing.T, server *httptest.Server, username string) (string, string) {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"username": username, "password": "password"})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login as %s failed: %d", username, resp.StatusCode)
	}

	var loginResp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	json.NewDecoder(resp.Body).Decode(&loginResp)
	if loginResp.AccessToken == "" || loginResp.RefreshToken == "" {
		t.Fatal("empty tokens from login")
	}
	return loginResp.AccessToken, loginResp.RefreshToken
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func TestLoginEndpoint(t *testing.T) {
	server := setupTestServer(t)

	// Wrong password and unknown user must be indistinguishable.
	for _, creds := range []map[string]string{
		{"username": "admin", "password": "wrong"},
		{"username": "nobody", "password": "x"},
	} {
		body, _ := json.Marshal(creds)
		resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401 for %v, got %d", creds, resp.StatusCode)
		}
		var errResp map[string]string
		decodeBody(t, resp, &errResp)
		if errResp["error"] != "invalid credentials" {
			t.Errorf("expected uniform error message, got %q", errResp["error"])
		}
	}

	// Success returns the sanitized user and both tokens.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "password"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var loginResp map[string]json.RawMessage
	decodeBody(t, resp, &loginResp)
	if string(loginResp["access_token"]) == "" || string(loginResp["refresh_token"]) == "" {
		t.Error("expected both tokens")
	}
	// The password hash must never appear in the profile.
	if bytes.Contains(loginResp["user"], []byte("password_hash")) {
		t.Error("password hash leaked in login response")
	}
}

func TestRefreshEndpoint(t *testing.T) {
	server := setupTestServer(t)
	access, refresh := login(t, server, "viewer")

	resp := doJSON(t, http.MethodPost, server.URL+"/api/auth/refresh", "", map[string]string{"refresh_token": refresh})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from refresh, got %d", resp.StatusCode)
	}
	var refreshed struct {
		AccessToken string `json:"access_token"`
	}
	decodeBody(t, resp, &refreshed)
	if refreshed.AccessToken == "" {
		t.Error("expected fresh access token")
	}

	// An access token is not accepted as a refresh token.
	resp = doJSON(t, http.MethodPost, server.URL+"/api/auth/refresh", "", map[string]string{"refresh_token": access})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for access-as-refresh, got %d", resp.StatusCode)
	}
}

func TestAuthRequired(t *testing.T) {
	server := setupTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/items", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, server.URL+"/api/items", "garbage-token", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 with garbage token, got %d", resp.StatusCode)
	}
}

func TestRoleGates(t *testing.T) {
	server := setupTestServer(t)
	viewerTok, _ := login(t, server, "viewer")
	editorTok, _ := login(t, server, "editor")

	// Viewers can read but not write.
	resp := doJSON(t, http.MethodGet, server.URL+"/api/types", viewerTok, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for viewer read, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, server.URL+"/api/types", viewerTok, map[string]any{"name": "Widget"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for viewer write, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, server.URL+"/api/types", editorTok, map[string]any{"name": "Widget"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("expected 201 for editor write, got %d", resp.StatusCode)
	}

	// User management is admin only.
	resp = doJSON(t, http.MethodGet, server.URL+"/api/users", editorTok, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for editor listing users, got %d", resp.StatusCode)
	}
}

// createCatalog builds org → type → source → item over the API and returns
// the item ID.
func createCatalog(t *testing.T, server *httptest.Server, token string, countable bool) int64 {
	t.Helper()

	var org model.Organisation
	resp := doJSON(t, http.MethodPost, server.URL+"/api/organisations", token, map[string]any{"name": "Acme"})
	decodeBody(t, resp, &org)

	var itemType model.ItemType
	resp = doJSON(t, http.MethodPost, server.URL+"/api/types", token, map[string]any{
		"name": "Torx screw", "consumable": true, "manufacturer_id": org.ID,
	})
	decodeBody(t, resp, &itemType)

	var source model.ItemTypeSource
	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/types/%d/sources", server.URL, itemType.ID), token, map[string]any{
		"organisation_id": org.ID, "model_name": "TX-10", "unit_price_cents": 12, "price_date": "2024-01-15",
	})
	decodeBody(t, resp, &source)

	var item model.Item
	resp = doJSON(t, http.MethodPost, server.URL+"/api/items", token, map[string]any{
		"item_type_id": itemType.ID, "source_id": source.ID, "countable": countable,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("creating item: status %d", resp.StatusCode)
	}
	decodeBody(t, resp, &item)

	return item.ID
}

func TestStockCountFlow(t *testing.T) {
	server := setupTestServer(t)
	adminTok, _ := login(t, server, "admin")
	viewerTok, _ := login(t, server, "viewer")

	itemID := createCatalog(t, server, adminTok, true)
	countsURL := fmt.Sprintf("%s/api/items/%d/counts", server.URL, itemID)
	quantityURL := fmt.Sprintf("%s/api/items/%d/quantity", server.URL, itemID)

	// Countable item with no counts: quantity unknown.
	resp := doJSON(t, http.MethodGet, quantityURL, viewerTok, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown quantity, got %d", resp.StatusCode)
	}

	// Any authenticated user can record a physical count.
	resp = doJSON(t, http.MethodPost, countsURL, viewerTok, map[string]any{"count": 140, "count_date": "2024-03-01"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 recording count, got %d", resp.StatusCode)
	}

	// Duplicate (item, date) conflicts.
	resp = doJSON(t, http.MethodPost, countsURL, adminTok, map[string]any{"count": 141, "count_date": "2024-03-01"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for duplicate count date, got %d", resp.StatusCode)
	}

	// Administrative counts are admin only.
	resp = doJSON(t, http.MethodPost, countsURL, viewerTok, map[string]any{"count": 150, "count_date": "2024-03-02", "administrative": true})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for viewer administrative count, got %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodPost, countsURL, adminTok, map[string]any{"count": 150, "count_date": "2024-03-02", "administrative": true})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("expected 201 for admin administrative count, got %d", resp.StatusCode)
	}

	// Quantity reflects the most recent date.
	var quantity struct {
		Quantity int `json:"quantity"`
	}
	resp = doJSON(t, http.MethodGet, quantityURL, viewerTok, nil)
	decodeBody(t, resp, &quantity)
	if quantity.Quantity != 150 {
		t.Errorf("expected quantity 150, got %d", quantity.Quantity)
	}
}

func TestMoveItemCycleOverAPI(t *testing.T) {
	server := setupTestServer(t)
	adminTok, _ := login(t, server, "admin")

	shelfID := createCatalog(t, server, adminTok, false)

	// Put a second item of the same catalog inside the shelf, then try to
	// move the shelf into it.
	var shelf struct {
		Item model.Item `json:"item"`
	}
	resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/items/%d", server.URL, shelfID), adminTok, nil)
	decodeBody(t, resp, &shelf)

	var box model.Item
	resp = doJSON(t, http.MethodPost, server.URL+"/api/items", adminTok, map[string]any{
		"item_type_id": shelf.Item.ItemTypeID, "source_id": shelf.Item.SourceID, "location_id": shelfID,
	})
	decodeBody(t, resp, &box)

	resp = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/items/%d/location", server.URL, shelfID), adminTok, map[string]any{"location_id": box.ID})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 moving shelf into its own contents, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/items/%d/location", server.URL, shelfID), adminTok, map[string]any{"location_id": shelfID})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 moving item into itself, got %d", resp.StatusCode)
	}
}

func TestBomEndpoints(t *testing.T) {
	server := setupTestServer(t)
	adminTok, _ := login(t, server, "admin")

	var screw, shelf model.ItemType
	resp := doJSON(t, http.MethodPost, server.URL+"/api/types", adminTok, map[string]any{"name": "Screw"})
	decodeBody(t, resp, &screw)
	resp = doJSON(t, http.MethodPost, server.URL+"/api/types", adminTok, map[string]any{"name": "Shelf"})
	decodeBody(t, resp, &shelf)

	bomURL := fmt.Sprintf("%s/api/types/%d/bom", server.URL, shelf.ID)

	resp = doJSON(t, http.MethodPut, bomURL, adminTok, map[string]any{
		"ingredient_type_id": screw.ID, "quantity": 24, "reclaimable": true,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 upserting BOM edge, got %d", resp.StatusCode)
	}

	// Self-loop rejected.
	resp = doJSON(t, http.MethodPut, bomURL, adminTok, map[string]any{
		"ingredient_type_id": shelf.ID, "quantity": 1,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for BOM self-loop, got %d", resp.StatusCode)
	}

	var edges []model.BomItem
	resp = doJSON(t, http.MethodGet, bomURL, adminTok, nil)
	decodeBody(t, resp, &edges)
	if len(edges) != 1 || edges[0].Quantity != 24 {
		t.Errorf("unexpected BOM listing: %+v", edges)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	server := setupTestServer(t)

	resp, err := http.Get(server.URL + "/api/types")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("expected X-Request-Id header on every response")
	}
}
