package media

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/princekumarofficial/portfolio-service/internal/types"
)

var (
	// ErrKindMismatch is returned when a file's MIME type does not fit the
	// slot it was uploaded to.
	ErrKindMismatch = errors.New("file type does not match requested media kind")
	ErrUnknownKind  = errors.New("unknown media kind")
	ErrTooLarge     = errors.New("file exceeds maximum upload size")
)

// Upload is a file received from a client, ready to be streamed to the
// object store.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

func ParseKind(s string) (types.MediaKind, error) {
	switch types.MediaKind(s) {
	case types.MediaImage, types.MediaVideo:
		return types.MediaKind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// NormalizeContentType strips parameters and lowercases a MIME type, so
// "IMAGE/PNG; q=1" becomes "image/png".
func NormalizeContentType(contentType string) string {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		return mediaType
	}
	base, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

// KindFromContentType derives the stored kind from a MIME type.
func KindFromContentType(contentType string) types.MediaKind {
	if strings.HasPrefix(NormalizeContentType(contentType), "image/") {
		return types.MediaImage
	}
	return types.MediaVideo
}

// ValidateKind checks the MIME prefix against the requested kind.
func ValidateKind(kind types.MediaKind, contentType string) error {
	var prefix string
	switch kind {
	case types.MediaImage:
		prefix = "image/"
	case types.MediaVideo:
		prefix = "video/"
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if !strings.HasPrefix(NormalizeContentType(contentType), prefix) {
		return fmt.Errorf("%w: %s is not a valid %s", ErrKindMismatch, contentType, kind)
	}
	return nil
}
