package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// fakeUploader records uploads and deletions and can be told to fail
// for a particular file name.
type fakeUploader struct {
	mu       sync.Mutex
	failName string
	uploads  []string
	deleted  []string
}

func (f *fakeUploader) Upload(_ context.Context, _ io.Reader, name string) (UploadedAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if name == f.failName {
		return UploadedAsset{}, errors.New("upload rejected")
	}
	f.uploads = append(f.uploads, name)
	return UploadedAsset{URL: "https://cdn.example/" + name, StorageID: "sid-" + name}, nil
}

func (f *fakeUploader) Delete(_ context.Context, storageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, storageID)
	return nil
}

func namedFiles(names ...string) []NamedFile {
	files := make([]NamedFile, len(names))
	for i, n := range names {
		files[i] = NamedFile{Reader: strings.NewReader("data-" + n), Name: n}
	}
	return files
}

func TestUploadAll(t *testing.T) {
	up := &fakeUploader{}
	assets, err := UploadAll(context.Background(), up, namedFiles("a.png", "b.png", "c.png"))
	if err != nil {
		t.Fatalf("UploadAll: %v", err)
	}
	if len(assets) != 3 {
		t.Fatalf("got %d assets, want 3", len(assets))
	}
	// Results keep request order even though uploads run concurrently.
	for i, name := range []string{"a.png", "b.png", "c.png"} {
		if assets[i].StorageID != "sid-"+name {
			t.Errorf("assets[%d] = %+v, want sid-%s", i, assets[i], name)
		}
	}
}

func TestUploadAllCleansUpOnFailure(t *testing.T) {
	up := &fakeUploader{failName: "b.png"}
	assets, err := UploadAll(context.Background(), up, namedFiles("a.png", "b.png", "c.png"))
	if err == nil {
		t.Fatal("UploadAll succeeded despite a failing upload")
	}
	if assets != nil {
		t.Errorf("partial assets returned: %v", assets)
	}

	up.mu.Lock()
	defer up.mu.Unlock()
	for _, sid := range up.deleted {
		if sid == "" {
			t.Error("cleanup attempted an empty storage id")
		}
	}
	// Every upload that went through must have been deleted again.
	if len(up.deleted) != len(up.uploads) {
		t.Errorf("uploaded %d, cleaned up %d", len(up.uploads), len(up.deleted))
	}
}

func TestDeleteAllSkipsEmptyIDs(t *testing.T) {
	up := &fakeUploader{}
	DeleteAll(context.Background(), up, []string{"sid-a", "", "sid-b"})
	if len(up.deleted) != 2 {
		t.Errorf("deleted = %v, want sid-a and sid-b only", up.deleted)
	}
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestLocalUploaderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	up, err := NewLocalUploader(dir)
	if err != nil {
		t.Fatalf("NewLocalUploader: %v", err)
	}

	asset, err := up.Upload(context.Background(), bytes.NewReader(testPNG(t)), "photo.png")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(asset.URL, "/static/uploads/") {
		t.Errorf("url = %q, want /static/uploads/ prefix", asset.URL)
	}
	if asset.StorageID != filepath.Base(asset.StorageID) {
		t.Errorf("storage id %q is path-like", asset.StorageID)
	}

	stored := filepath.Join(dir, asset.StorageID)
	if _, err := os.Stat(stored); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}

	ext := filepath.Ext(asset.StorageID)
	thumb := filepath.Join(dir, asset.StorageID[:len(asset.StorageID)-len(ext)]+"_thumb.jpg")
	if _, err := os.Stat(thumb); err != nil {
		t.Errorf("thumbnail missing: %v", err)
	}

	if err := up.Delete(context.Background(), asset.StorageID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(stored); !os.IsNotExist(err) {
		t.Error("stored file still present after delete")
	}
	if _, err := os.Stat(thumb); !os.IsNotExist(err) {
		t.Error("thumbnail still present after delete")
	}
}

func TestLocalUploaderDeleteRejectsPaths(t *testing.T) {
	up := &LocalUploader{Dir: t.TempDir()}
	for _, id := range []string{"../escape.png", "a/b.png"} {
		if err := up.Delete(context.Background(), id); err == nil {
			t.Errorf("Delete(%q) accepted a path-like id", id)
		}
	}
}

func TestLocalUploaderDeleteMissingIsNoError(t *testing.T) {
	up := &LocalUploader{Dir: t.TempDir()}
	if err := up.Delete(context.Background(), fmt.Sprintf("%s.png", "never-stored")); err != nil {
		t.Errorf("Delete of missing file: %v", err)
	}
}
