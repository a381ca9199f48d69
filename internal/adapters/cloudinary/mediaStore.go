package cloudinary

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

var videoExtensions = map[string]bool{".mp4": true, ".mov": true, ".webm": true, ".m4v": true, ".avi": true}

// MediaStore stores post media on Cloudinary. The bucket becomes the folder and
// the object path, without its extension, the public id.
type MediaStore struct {
	cld *cloudinary.Cloudinary
}

func NewMediaStore(cloudinaryURL string) (*MediaStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	return &MediaStore{cld: cld}, nil
}

func (s *MediaStore) Upload(ctx context.Context, bucket, objectPath string, body io.Reader, contentType string) error {
	res, err := s.cld.Upload.Upload(ctx, body, uploader.UploadParams{
		Folder:       bucket,
		PublicID:     publicID(objectPath),
		ResourceType: "auto",
	})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	return nil
}

// SignedURL returns a signed delivery URL. Cloudinary signatures do not expire
// on their own, so ttl is enforced by how long callers keep the URL cached.
func (s *MediaStore) SignedURL(ctx context.Context, bucket, objectPath string, ttl time.Duration) (string, error) {
	id := bucket + "/" + publicID(objectPath)
	if videoExtensions[strings.ToLower(path.Ext(objectPath))] {
		video, err := s.cld.Video(id)
		if err != nil {
			return "", err
		}
		video.Config.URL.Secure = true
		video.Config.URL.SignURL = true
		return video.String()
	}

	img, err := s.cld.Image(id)
	if err != nil {
		return "", err
	}
	img.Config.URL.Secure = true
	img.Config.URL.SignURL = true
	return img.String()
}

func publicID(objectPath string) string {
	return strings.TrimSuffix(objectPath, path.Ext(objectPath))
}
