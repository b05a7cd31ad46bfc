package assets

import (
	"context"
	"io"
	"log"

	"golang.org/x/sync/errgroup"
)

// UploadedAsset is what the asset host hands back for a stored file.
type UploadedAsset struct {
	URL       string
	StorageID string
}

// Uploader is the asset-host contract. Each call is an opaque remote
// operation that may fail independently per file.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, name string) (UploadedAsset, error)
	Delete(ctx context.Context, storageID string) error
}

// UploadAll dispatches every file concurrently and waits for all of
// them. If any upload fails, the ones that already succeeded are
// deleted again so the caller never ends up with a partial set.
func UploadAll(ctx context.Context, up Uploader, files []NamedFile) ([]UploadedAsset, error) {
	results := make([]UploadedAsset, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			asset, err := up.Upload(gctx, f.Reader, f.Name)
			if err != nil {
				return err
			}
			results[i] = asset
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, asset := range results {
			if asset.StorageID == "" {
				continue
			}
			if derr := up.Delete(context.Background(), asset.StorageID); derr != nil {
				log.Printf("assets: cleanup of %s after failed batch: %v", asset.StorageID, derr)
			}
		}
		return nil, err
	}

	return results, nil
}

type NamedFile struct {
	Reader io.Reader
	Name   string
}

// DeleteAll removes a set of stored assets, logging but not failing on
// individual errors.
func DeleteAll(ctx context.Context, up Uploader, storageIDs []string) {
	for _, id := range storageIDs {
		if id == "" {
			continue
		}
		if err := up.Delete(ctx, id); err != nil {
			log.Printf("assets: delete %s: %v", id, err)
		}
	}
}
