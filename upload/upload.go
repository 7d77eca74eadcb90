package upload

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const coverFolder = "blog-covers"

// Uploader pushes cover images to Cloudinary and hands back the durable
// public URL. Post state is never touched here; the cover-image field is
// only set once the caller has a URL in hand.
type Uploader struct {
	cld *cloudinary.Cloudinary
}

func NewUploader(cloudinaryURL string) (*Uploader, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("cloudinary url not configured")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("configure cloudinary: %w", err)
	}
	return &Uploader{cld: cld}, nil
}

// Upload stores the image and returns its secure URL.
func (u *Uploader) Upload(ctx context.Context, file io.Reader) (string, error) {
	result, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: coverFolder,
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return result.SecureURL, nil
}
