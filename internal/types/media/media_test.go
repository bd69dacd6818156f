package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/princekumarofficial/portfolio-service/internal/types"
)

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("video")
	require.NoError(t, err)
	assert.Equal(t, types.MediaVideo, kind)

	_, err = ParseKind("audio")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestValidateKind(t *testing.T) {
	tests := []struct {
		kind        types.MediaKind
		contentType string
		wantErr     error
	}{
		{types.MediaImage, "image/png", nil},
		{types.MediaImage, "IMAGE/JPEG", nil},
		{types.MediaVideo, "video/mp4", nil},
		{types.MediaImage, "video/mp4", ErrKindMismatch},
		{types.MediaVideo, "image/gif", ErrKindMismatch},
		{types.MediaVideo, "application/octet-stream", ErrKindMismatch},
		{types.MediaKind("pdf"), "application/pdf", ErrUnknownKind},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind)+" "+tt.contentType, func(t *testing.T) {
			err := ValidateKind(tt.kind, tt.contentType)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestKindFromContentType(t *testing.T) {
	assert.Equal(t, types.MediaImage, KindFromContentType("image/webp"))
	assert.Equal(t, types.MediaImage, KindFromContentType("IMAGE/PNG"))
	assert.Equal(t, types.MediaImage, KindFromContentType(" image/jpeg; charset=binary"))
	assert.Equal(t, types.MediaVideo, KindFromContentType("video/quicktime"))
}

func TestNormalizeContentType(t *testing.T) {
	assert.Equal(t, "image/png", NormalizeContentType("IMAGE/PNG"))
	assert.Equal(t, "video/mp4", NormalizeContentType(" Video/MP4 ; codecs=avc1"))
	assert.Equal(t, "image/x-weird", NormalizeContentType("image/x-weird;;"))
	assert.Equal(t, "", NormalizeContentType(""))
}
