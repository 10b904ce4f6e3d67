package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestAddMeasurement_SyncsTreeHeight(t *testing.T) {
	s, _ := newTestServer(t)
	tok := registerAndLogin(t, s, "measure@campus.edu")
	treeID := plantTestTree(t, s, tok, 1)

	w := doJSON(t, s, http.MethodPost, "/api/growth/"+itoa(treeID)+"/measurements", tok, gin.H{
		"height_cm":        125.5,
		"measurement_date": "2024-05-01",
		"notes":            "after spring rain",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, s, http.MethodGet, "/api/trees/"+itoa(treeID), tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get tree: status = %d", w.Code)
	}
	if decode(t, w)["current_height_cm"].(float64) != 125.5 {
		t.Fatalf("current_height_cm = %v, want 125.5", decode(t, w)["current_height_cm"])
	}

	w = doJSON(t, s, http.MethodGet, "/api/growth/"+itoa(treeID)+"/measurements", tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status = %d", w.Code)
	}
	var measurements []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &measurements); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(measurements) != 1 {
		t.Fatalf("measurements = %d, want 1", len(measurements))
	}
}

func TestAddMeasurement_Validation(t *testing.T) {
	s, _ := newTestServer(t)
	tok := registerAndLogin(t, s, "badmeasure@campus.edu")
	treeID := plantTestTree(t, s, tok, 1)

	w := doJSON(t, s, http.MethodPost, "/api/growth/"+itoa(treeID)+"/measurements", tok, gin.H{
		"height_cm":        -5,
		"measurement_date": "2024-05-01",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("negative height: status = %d, want 400", w.Code)
	}

	w = doJSON(t, s, http.MethodPost, "/api/growth/"+itoa(treeID)+"/measurements", tok, gin.H{
		"height_cm":        50,
		"measurement_date": "May 1st",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad date: status = %d, want 400", w.Code)
	}
}

func uploadPhoto(t *testing.T, s *Server, bearer, path, field, filename string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		fw, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write([]byte("fake-jpeg-bytes")); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.WriteField("caption", "freshly planted"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+bearer)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestPhotoLifecycle(t *testing.T) {
	s, _ := newTestServer(t)
	tok := registerAndLogin(t, s, "photo@campus.edu")
	treeID := plantTestTree(t, s, tok, 1)

	w := uploadPhoto(t, s, tok, "/api/growth/"+itoa(treeID)+"/photos", "photo", "sprout.jpg")
	if w.Code != http.StatusCreated {
		t.Fatalf("upload: status = %d body %s", w.Code, w.Body.String())
	}
	created := decode(t, w)
	photoURL, _ := created["photo_url"].(string)
	if !strings.HasPrefix(photoURL, "/tree_photos/") {
		t.Fatalf("photo_url = %q", photoURL)
	}
	if created["photo_type"] != "progress" {
		t.Errorf("photo_type = %v, want progress default", created["photo_type"])
	}

	// 文件确实落盘
	onDisk := filepath.Join(s.photos.Dir(), photoBlobName(photoURL))
	if _, err := os.Stat(onDisk); err != nil {
		t.Fatalf("photo file missing: %v", err)
	}

	w = doJSON(t, s, http.MethodGet, "/api/trees/"+itoa(treeID)+"/photos", tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status = %d", w.Code)
	}
	var photos []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &photos); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(photos) != 1 {
		t.Fatalf("photos = %d, want 1", len(photos))
	}

	photoID := itoa(uint(created["id"].(float64)))
	w = doJSON(t, s, http.MethodDelete, "/api/growth/"+itoa(treeID)+"/photos/"+photoID, tok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status = %d body %s", w.Code, w.Body.String())
	}
	if _, err := os.Stat(onDisk); !os.IsNotExist(err) {
		t.Fatalf("photo file survived delete: %v", err)
	}
}

func TestAddPhoto_NoFile(t *testing.T) {
	s, _ := newTestServer(t)
	tok := registerAndLogin(t, s, "nofile@campus.edu")
	treeID := plantTestTree(t, s, tok, 1)

	w := uploadPhoto(t, s, tok, "/api/growth/"+itoa(treeID)+"/photos", "photo", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if decode(t, w)["error"] != "No file uploaded" {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestDeletePhoto_WrongTree(t *testing.T) {
	s, _ := newTestServer(t)
	tok := registerAndLogin(t, s, "cross@campus.edu")
	treeA := plantTestTree(t, s, tok, 1)
	treeB := plantTestTree(t, s, tok, 2)

	w := uploadPhoto(t, s, tok, "/api/growth/"+itoa(treeA)+"/photos", "photo", "a.jpg")
	if w.Code != http.StatusCreated {
		t.Fatalf("upload: status = %d", w.Code)
	}
	photoID := itoa(uint(decode(t, w)["id"].(float64)))

	// 照片属于 A，经由 B 的路由删除应 404
	w = doJSON(t, s, http.MethodDelete, "/api/growth/"+itoa(treeB)+"/photos/"+photoID, tok, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if decode(t, w)["error"] != "Photo not found" {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestUpdateHealth(t *testing.T) {
	s, _ := newTestServer(t)
	tok := registerAndLogin(t, s, "health@campus.edu")
	treeID := plantTestTree(t, s, tok, 1)

	w := doJSON(t, s, http.MethodPut, "/api/growth/"+itoa(treeID)+"/health", tok, gin.H{
		"health_status": "struggling",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	if decode(t, w)["health_status"] != "struggling" {
		t.Fatalf("body = %s", w.Body.String())
	}

	w = doJSON(t, s, http.MethodPut, "/api/growth/"+itoa(treeID)+"/health", tok, gin.H{
		"health_status": "zombie",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad enum: status = %d, want 400", w.Code)
	}
}
