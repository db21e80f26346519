// Package media validates uploaded files and stores them in Cloudinary.
package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/deppfellow/muslimah-travel/internal/config"
	"github.com/deppfellow/muslimah-travel/internal/errs"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

// Folders under the configured root.
const (
	FolderAvatars  = "avatars"
	FolderPayments = "payment-proofs"
	FolderReviews  = "reviews"
)

var (
	ImageTypes = []string{"image/jpeg", "image/png", "image/webp"}
	VideoTypes = []string{"video/mp4", "video/quicktime"}
)

// File is an upload that passed the size and type checks.
type File struct {
	Name     string
	MIME     string
	Size     int64
	Data     []byte
	Category string
}

type UploadResult struct {
	URL      string
	PublicID string
}

// Uploader stores validated files.
type Uploader interface {
	Upload(ctx context.Context, folder string, f *File) (*UploadResult, error)
	Destroy(ctx context.Context, publicID string) error
}

// NewUploader returns the Cloudinary uploader, or one that rejects every
// upload with 503 when no Cloudinary URL is configured.
func NewUploader(cfg *config.MediaConfig) (Uploader, error) {
	if cfg == nil || cfg.CloudinaryURL == "" {
		return disabled{}, nil
	}

	cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		return nil, errors.Wrap(err, "create cloudinary client")
	}

	return &Cloudinary{cld: cld, root: cfg.RootFolder}, nil
}

type Cloudinary struct {
	cld  *cloudinary.Cloudinary
	root string
}

func (c *Cloudinary) Upload(ctx context.Context, folder string, f *File) (*UploadResult, error) {
	resourceType := "image"
	if f.Category == "video" {
		resourceType = "video"
	}

	res, err := c.cld.Upload.Upload(ctx, bytes.NewReader(f.Data), uploader.UploadParams{
		Folder:       path.Join(c.root, folder),
		ResourceType: resourceType,
	})
	if err != nil {
		return nil, errors.Wrap(err, "upload to cloudinary")
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("upload to cloudinary: %s", res.Error.Message)
	}

	return &UploadResult{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

func (c *Cloudinary) Destroy(ctx context.Context, publicID string) error {
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return errors.Wrap(err, "destroy cloudinary asset")
	}
	if res.Error.Message != "" {
		return fmt.Errorf("destroy cloudinary asset: %s", res.Error.Message)
	}
	return nil
}

type disabled struct{}

func (disabled) Upload(context.Context, string, *File) (*UploadResult, error) {
	return nil, errs.NewServiceUnavailableError("File uploads are not configured")
}

func (disabled) Destroy(context.Context, string) error {
	return nil
}

// Read loads an uploaded file, rejecting it when it is larger than
// maxBytes or its sniffed content type is not in allowed.
func Read(fh *multipart.FileHeader, maxBytes int64, allowed ...string) (*File, error) {
	if fh.Size > maxBytes {
		return nil, tooLarge(fh.Filename, maxBytes)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open upload")
	}
	defer src.Close()

	// Read one byte past the limit so a lying Content-Length is caught.
	data, err := io.ReadAll(io.LimitReader(src, maxBytes+1))
	if err != nil {
		return nil, errors.Wrap(err, "read upload")
	}
	if int64(len(data)) > maxBytes {
		return nil, tooLarge(fh.Filename, maxBytes)
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowed...) {
		return nil, errs.NewBadRequestError(
			fmt.Sprintf("%s: unsupported file type %s", fh.Filename, mt.String()),
			true, errs.Code("UNSUPPORTED_FILE_TYPE"), nil, nil)
	}

	mimeType := mt.String()
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}

	return &File{
		Name:     fh.Filename,
		MIME:     mimeType,
		Size:     int64(len(data)),
		Data:     data,
		Category: strings.SplitN(mimeType, "/", 2)[0],
	}, nil
}

func tooLarge(name string, maxBytes int64) error {
	return errs.NewBadRequestError(
		fmt.Sprintf("%s exceeds the %dMB limit", name, maxBytes>>20),
		true, errs.Code("FILE_TOO_LARGE"), nil, nil)
}
