package assets

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryUploader stores product images on Cloudinary, the way the
// production deployment runs.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cloudURL string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryUploader{cld: cld}, nil
}

func (c *CloudinaryUploader) Upload(ctx context.Context, file io.Reader, name string) (UploadedAsset, error) {
	result, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: "products"})
	if err != nil {
		return UploadedAsset{}, fmt.Errorf("cloudinary upload %s: %w", name, err)
	}
	return UploadedAsset{URL: result.SecureURL, StorageID: result.PublicID}, nil
}

func (c *CloudinaryUploader) Delete(ctx context.Context, storageID string) error {
	_, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: storageID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy %s: %w", storageID, err)
	}
	return nil
}
