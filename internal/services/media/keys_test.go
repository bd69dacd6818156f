package media

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectKeys(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	assert.Regexp(t, regexp.MustCompile(`^projects/42/1700000000123-[0-9a-f]{10}\.jpg$`),
		ProjectObjectKey(42, "Foto.JPG", "image/jpeg", now))
	assert.Regexp(t, regexp.MustCompile(`^marketing/marketing-1700000000123-[0-9a-f]{10}\.png$`),
		MarketingObjectKey("blob", "image/png", now))
	assert.Equal(t, "profile/profile-1700000000123.mp4", ProfileObjectKey("", "video/mp4", now))

	assert.NotEqual(t,
		ProjectObjectKey(1, "a.png", "image/png", now),
		ProjectObjectKey(1, "a.png", "image/png", now))
}

func TestPublicURLRoundTrip(t *testing.T) {
	base := "http://localhost:9000/portfolio-media/"
	url := PublicURL(base, "/profile/profile-1.jpg")
	assert.Equal(t, "http://localhost:9000/portfolio-media/profile/profile-1.jpg", url)

	key, ok := KeyFromURL(base, url+"?v=2#top")
	assert.True(t, ok)
	assert.Equal(t, "profile/profile-1.jpg", key)

	_, ok = KeyFromURL(base, "https://cdn.example.com/profile/profile-1.jpg")
	assert.False(t, ok)
	_, ok = KeyFromURL(base, "http://localhost:9000/portfolio-media/")
	assert.False(t, ok)
	_, ok = KeyFromURL("", url)
	assert.False(t, ok)
}
