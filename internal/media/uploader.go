package media

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"go-traindesk/internal/shared/apperror"

	"github.com/google/uuid"
)

var ErrUploaderUnavailable = apperror.New(
	apperror.CodeServiceUnavailable,
	"Media storage is not configured",
	http.StatusServiceUnavailable,
)

// UploadCredentials are the signed parameters a client uses to upload
// directly to the storage provider, bypassing this service.
type UploadCredentials struct {
	KeyID     string `json:"key_id"`
	UploadID  string `json:"upload_id"`
	Signature string `json:"signature"`
	ExpiresAt string `json:"expires_at"`
}

// SignedUploader issues direct-upload credentials. The storage provider
// itself stays external; this service only signs requests against it.
//go:generate mockgen -source=uploader.go -destination=mock/uploader_mock.go -package=mock
type SignedUploader interface {
	Available() bool
	IssueUploadCredentials(ctx context.Context, ownerID string) (UploadCredentials, error)
}

func NewUploader(keyID, secret string) SignedUploader {
	if keyID == "" || secret == "" {
		return disabledUploader{}
	}
	return &hmacUploader{keyID: keyID, secret: []byte(secret)}
}

type disabledUploader struct{}

func (disabledUploader) Available() bool { return false }

func (disabledUploader) IssueUploadCredentials(context.Context, string) (UploadCredentials, error) {
	return UploadCredentials{}, ErrUploaderUnavailable
}

type hmacUploader struct {
	keyID  string
	secret []byte
}

func (u *hmacUploader) Available() bool { return true }

func (u *hmacUploader) IssueUploadCredentials(_ context.Context, ownerID string) (UploadCredentials, error) {
	uploadID := uuid.NewString()
	expires := time.Now().UTC().Add(15 * time.Minute)

	mac := hmac.New(sha256.New, u.secret)
	fmt.Fprintf(mac, "%s|%s|%d", ownerID, uploadID, expires.Unix())

	return UploadCredentials{
		KeyID:     u.keyID,
		UploadID:  uploadID,
		Signature: hex.EncodeToString(mac.Sum(nil)),
		ExpiresAt: expires.Format(time.RFC3339),
	}, nil
}
