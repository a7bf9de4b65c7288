package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/wanderbot/wanderbot/internal/models"
	"github.com/wanderbot/wanderbot/internal/storage"
)

func TestCreateAndListSavedItems(t *testing.T) {
	store := storage.NewMemoryStorage()
	handler := newTestServer(store, nil).Handler()

	create := `{"itemType":"hotel","itemData":{"name":"Budget Hostel Downtown","pricePerNight":25},"conversationId":"c1"}`
	rr := doJSON(t, handler, http.MethodPost, "/api/saved-items", create, "user-a")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var createResp struct {
		Success bool              `json:"success"`
		Data    *models.SavedItem `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &createResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !createResp.Success || createResp.Data.ID == "" {
		t.Fatalf("expected created item with id, got %#v", createResp)
	}

	rr = doJSON(t, handler, http.MethodGet, "/api/saved-items?type=hotel", "", "user-a")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var listResp struct {
		Success bool                `json:"success"`
		Data    []*models.SavedItem `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listResp.Data) != 1 || listResp.Data[0].ItemType != "hotel" {
		t.Fatalf("expected one hotel, got %#v", listResp.Data)
	}

	rr = doJSON(t, handler, http.MethodGet, "/api/saved-items?type=activity", "", "user-a")
	if err := json.Unmarshal(rr.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listResp.Data) != 0 {
		t.Fatalf("expected no activities, got %#v", listResp.Data)
	}
}

func TestCreateSavedItemValidation(t *testing.T) {
	handler := newTestServer(storage.NewMemoryStorage(), nil).Handler()

	rr := doJSON(t, handler, http.MethodPost, "/api/saved-items", `{"itemType":"flight","itemData":{}}`, "user-a")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid itemType, got %d", rr.Code)
	}

	rr = doJSON(t, handler, http.MethodPost, "/api/saved-items", `{"itemType":"hotel"}`, "user-a")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing itemData, got %d", rr.Code)
	}

	rr = doJSON(t, handler, http.MethodPost, "/api/saved-items", `{"itemType":"hotel","itemData":{}}`, "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", rr.Code)
	}
}

func TestDeleteSavedItem(t *testing.T) {
	store := storage.NewMemoryStorage()
	handler := newTestServer(store, nil).Handler()

	rr := doJSON(t, handler, http.MethodPost, "/api/saved-items", `{"itemType":"activity","itemData":{"title":"Tour"}}`, "user-a")
	var createResp struct {
		Data *models.SavedItem `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &createResp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rr = doJSON(t, handler, http.MethodDelete, "/api/saved-items/"+createResp.Data.ID, "", "user-b")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for wrong owner, got %d", rr.Code)
	}

	rr = doJSON(t, handler, http.MethodDelete, "/api/saved-items/"+createResp.Data.ID, "", "user-a")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
