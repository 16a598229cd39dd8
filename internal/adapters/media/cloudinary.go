package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/easysewa/booking-service/internal/ports"
)

// CloudinaryStore implements ports.ImageStore.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	logger *slog.Logger
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret string, logger *slog.Logger) (*CloudinaryStore, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials are incomplete")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	if logger == nil {
		logger = slog.Default()
	}
	return &CloudinaryStore{cld: cld, logger: logger}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, folder string, image ports.ImageUpload) (ports.StoredImage, error) {
	res, err := s.cld.Upload.Upload(ctx, image.Body, uploader.UploadParams{
		Folder:         folder,
		UniqueFilename: boolPtr(true),
	})
	if err != nil {
		return ports.StoredImage{}, fmt.Errorf("upload %s: %w", image.Filename, err)
	}
	if res.Error.Message != "" {
		return ports.StoredImage{}, fmt.Errorf("upload %s: %s", image.Filename, res.Error.Message)
	}
	s.logger.InfoContext(ctx, "image uploaded",
		"module", "media.cloudinary",
		"layer", "adapter",
		"operation", "upload_image",
		"outcome", "success",
		"folder", folder,
		"public_id", res.PublicID,
		"bytes", res.Bytes,
	)
	return ports.StoredImage{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("destroy %s: %w", publicID, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("destroy %s: %s", publicID, res.Error.Message)
	}
	return nil
}

func boolPtr(v bool) *bool { return &v }
