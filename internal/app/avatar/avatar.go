/*
Package avatar implements the avatar image lifecycle: candidate validation and
the upload/replace/delete pipeline against the object storage service.
*/
package avatar

import (
	"context"
	"fmt"
	"io"
	"strings"

	"mypage/internal/app/storage"
	"mypage/internal/pkg/errs"
	"mypage/internal/pkg/logx"
	"mypage/internal/pkg/randx"
)

const (
	// MaxUploadSizeMB is the maximum allowed avatar size in megabytes.
	MaxUploadSizeMB = 2

	// MaxUploadSize is the maximum allowed avatar size in bytes (2 MiB).
	MaxUploadSize = MaxUploadSizeMB * 1024 * 1024

	// keyPrefix is the storage namespace for avatar objects.
	keyPrefix = "avatars"
)

// allowedMIMETypes maps the permitted avatar MIME types to the file extension
// used for the storage key. Only JPEG and PNG are accepted.
var allowedMIMETypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// Upload is the ephemeral candidate file scoped to one submission. It exists
// only between file selection and submission and is discarded after upload or
// validation rejection.
type Upload struct {
	Body     io.Reader
	Size     int64
	MimeType string
}

// Manager orchestrates avatar validation and replacement.
type Manager struct {
	store storage.StorageService
}

// NewManager constructs a Manager over the given storage service.
func NewManager(store storage.StorageService) *Manager {
	return &Manager{store: store}
}

// Validate checks an avatar candidate entirely locally. Exactly one outcome is
// reported: NoFileSelected, TooLarge, UnsupportedFormat, or nil for success.
func (m *Manager) Validate(u *Upload) *errs.CustomError {
	if u == nil || u.Body == nil {
		return errs.NewError(errs.ErrNoFileSelected)
	}

	if u.Size > MaxUploadSize {
		return errs.NewError(errs.ErrAvatarTooLarge)
	}

	if _, ok := allowedMIMETypes[strings.ToLower(u.MimeType)]; !ok {
		return errs.NewError(errs.ErrUnsupportedImageFormat)
	}

	return nil
}

// Replace uploads the new avatar and retires the previous one, returning the
// new public URL. The steps run strictly in order:
//
//  1. Upload the bytes under a fresh random key. On failure the previous
//     avatar is untouched and no delete is attempted.
//  2. If a previous avatar existed, delete its object. Failure here is
//     non-fatal: the new avatar is already valid, so an orphaned old object
//     is tolerated rather than rolling back a successful upload.
//  3. Resolve and return the new object's public URL.
//
// Uploading before deleting guarantees the user always holds a resolvable
// avatar reference, at the cost of transient storage duplication.
func (m *Manager) Replace(ctx context.Context, userID, previousURL string, u *Upload) (string, *errs.CustomError) {
	ext := allowedMIMETypes[strings.ToLower(u.MimeType)]
	key := fmt.Sprintf("%s/%s/%s", keyPrefix, userID, randx.ObjectKey(ext))

	path, err := m.store.Upload(ctx, key, u.Body, u.MimeType, u.Size)
	if err != nil {
		return "", errs.NewError(errs.ErrAvatarUploadFailed, err.Error())
	}

	if previousURL != "" {
		if oldKey, ok := m.store.KeyFromURL(previousURL); ok {
			if err := m.store.Delete(ctx, oldKey); err != nil {
				logx.Warn("failed to delete replaced avatar, old object orphaned",
					"user_id", userID, "key", oldKey, "error", err)
			}
		} else {
			logx.Warn("previous avatar URL not owned by this store, skipping delete",
				"user_id", userID, "url", previousURL)
		}
	}

	return m.store.PublicURL(path), nil
}
