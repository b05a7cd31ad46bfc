package utils

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"reflect"
	"testing"

	"bazaar/globals"
	"bazaar/models"

	"go.mongodb.org/mongo-driver/bson"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID(10)
	if len(id) != 10 {
		t.Fatalf("len = %d, want 10", len(id))
	}
	for _, r := range id {
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !ok {
			t.Errorf("unexpected rune %q in id", r)
		}
	}

	if GenerateID(14) == GenerateID(14) {
		t.Error("two generated ids collided")
	}
}

func paginationRequest(t *testing.T, query string) *http.Request {
	t.Helper()
	return httptest.NewRequest(http.MethodGet, "/api/products?"+query, nil)
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantSkip  int64
		wantLimit int64
	}{
		{"defaults", "", 0, 20},
		{"second page", "page=2&limit=10", 10, 10},
		{"clamped limit", "limit=500", 0, 100},
		{"negative page", "page=-3", 0, 20},
		{"garbage values", "page=abc&limit=xyz", 0, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skip, limit := ParsePagination(paginationRequest(t, tt.query), 20, 100)
			if skip != tt.wantSkip || limit != tt.wantLimit {
				t.Errorf("skip/limit = %d/%d, want %d/%d", skip, limit, tt.wantSkip, tt.wantLimit)
			}
		})
	}
}

func TestParseSort(t *testing.T) {
	def := bson.D{{Key: "created_at", Value: -1}}
	allowed := map[string]bool{"price": true, "name": true}

	tests := []struct {
		name string
		raw  string
		want bson.D
	}{
		{"empty falls back", "", def},
		{"ascending", "price", bson.D{{Key: "price", Value: 1}}},
		{"descending", "-name", bson.D{{Key: "name", Value: -1}}},
		{"disallowed field", "password", def},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseSort(tt.raw, def, allowed); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSort(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestValidateImageFileType(t *testing.T) {
	header := func(mime string) *multipart.FileHeader {
		h := &multipart.FileHeader{Filename: "x", Header: textproto.MIMEHeader{}}
		h.Header.Set("Content-Type", mime)
		return h
	}

	rec := httptest.NewRecorder()
	if !ValidateImageFileType(rec, header("image/png")) {
		t.Error("png rejected")
	}

	rec = httptest.NewRecorder()
	if ValidateImageFileType(rec, header("application/pdf")) {
		t.Error("pdf accepted")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetUserIDFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/orders/my-orders", nil)
	if id := GetUserIDFromRequest(req); id != "" {
		t.Errorf("id on ungated request = %q, want empty", id)
	}

	user := &models.User{UserID: "u1", Role: models.RoleUser}
	ctx := context.WithValue(req.Context(), globals.UserKey, user)
	ctx = context.WithValue(ctx, globals.UserIDKey, user.UserID)
	req = req.WithContext(ctx)

	if id := GetUserIDFromRequest(req); id != "u1" {
		t.Errorf("id = %q, want u1", id)
	}
	if got := GetUserFromRequest(req); got == nil || got.UserID != "u1" {
		t.Errorf("user = %v, want u1", got)
	}
}

func TestRespondWithError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithError(rec, http.StatusNotFound, "Product not found")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["message"] != "Product not found" {
		t.Errorf("message = %q", body["message"])
	}
}
