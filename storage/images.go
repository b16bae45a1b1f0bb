package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

var ErrImageStoreDisabled = errors.New("image storage is not configured")

// ImageStore persists an uploaded gallery image and returns its public URL.
type ImageStore interface {
	Save(ctx context.Context, folder, filename string, r io.Reader) (string, error)
}

type CloudinaryStore struct {
	cld  *cloudinary.Cloudinary
	root string
}

func NewCloudinaryStore(cloudinaryURL, root string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld, root: root}, nil
}

func (s *CloudinaryStore) Save(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	publicID := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:   path.Join(s.root, folder),
		PublicID: publicID,
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("upload image: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}

// DisabledStore rejects uploads when no Cloudinary URL is configured.
type DisabledStore struct{}

func (DisabledStore) Save(context.Context, string, string, io.Reader) (string, error) {
	return "", ErrImageStoreDisabled
}
