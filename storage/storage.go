// Package storage uploads profile and service images to Cloudinary and
// hands back delivery URLs for the profiles and services tables to
// reference.
package storage

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// Service is the image storage surface consumed by the views.
type Service interface {
	// UploadImage uploads a local file into the given folder and returns
	// its delivery URL.
	UploadImage(ctx context.Context, localFilePath, folder string) (string, error)
	// DeleteImage removes a previously uploaded file by public id.
	DeleteImage(ctx context.Context, publicID string) error
}

// CloudinaryService implements Service against Cloudinary.
type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryService builds the service from credentials.
func NewCloudinaryService(cloudName, apiKey, apiSecret string) (*CloudinaryService, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("storage: cloudinary credentials not set in configuration")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryService{cld: cld}, nil
}

func (s *CloudinaryService) UploadImage(ctx context.Context, localFilePath, folder string) (string, error) {
	result, err := s.cld.Upload.Upload(ctx, localFilePath, uploader.UploadParams{
		Folder:   folder,
		PublicID: uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("storage: failed to upload file: %w", err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("storage: no delivery URL returned")
	}
	return result.SecureURL, nil
}

func (s *CloudinaryService) DeleteImage(ctx context.Context, publicID string) error {
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("storage: failed to delete file: %w", err)
	}
	return nil
}
