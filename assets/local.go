package assets

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// LocalUploader keeps files on local disk under dir, served from
// /static/uploads. Used when no Cloudinary URL is configured, e.g. in
// development.
type LocalUploader struct {
	Dir string
}

func NewLocalUploader(dir string) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalUploader{Dir: dir}, nil
}

func (l *LocalUploader) Upload(ctx context.Context, file io.Reader, name string) (UploadedAsset, error) {
	id := uuid.New().String()
	ext := filepath.Ext(name)
	filename := id + ext
	path := filepath.Join(l.Dir, filename)

	dst, err := os.Create(path)
	if err != nil {
		return UploadedAsset{}, err
	}

	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(path)
		return UploadedAsset{}, err
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return UploadedAsset{}, err
	}

	l.createThumb(id, ext)

	return UploadedAsset{
		URL:       "/static/uploads/" + filename,
		StorageID: filename,
	}, nil
}

func (l *LocalUploader) Delete(ctx context.Context, storageID string) error {
	// storageID is the stored filename; refuse anything path-like.
	if storageID != filepath.Base(storageID) {
		return fmt.Errorf("invalid storage id %q", storageID)
	}
	if err := os.Remove(filepath.Join(l.Dir, storageID)); err != nil && !os.IsNotExist(err) {
		return err
	}
	ext := filepath.Ext(storageID)
	thumb := storageID[:len(storageID)-len(ext)] + "_thumb.jpg"
	if err := os.Remove(filepath.Join(l.Dir, thumb)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// createThumb writes a 300x200-bounded thumbnail next to the original.
// Thumbnails are a convenience; failure only logs.
func (l *LocalUploader) createThumb(id, ext string) {
	src, err := imaging.Open(filepath.Join(l.Dir, id+ext))
	if err != nil {
		log.Printf("assets: open %s for thumbnail: %v", id+ext, err)
		return
	}
	thumb := imaging.Fit(src, 300, 200, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(l.Dir, id+"_thumb.jpg")); err != nil {
		log.Printf("assets: save thumbnail for %s: %v", id+ext, err)
	}
}
