package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoKey(t *testing.T) {
	key := VideoKey("0xABCD", "video/mp4")
	assert.True(t, strings.HasPrefix(key, "recordings/0xabcd/"))
	assert.True(t, strings.HasSuffix(key, ".mp4"))

	assert.True(t, strings.HasSuffix(VideoKey("0x01", "application/octet-stream"), ".webm"))
	assert.NotEqual(t, VideoKey("0x01", "video/webm"), VideoKey("0x01", "video/webm"))
}

func TestVideoKeyFromURL(t *testing.T) {
	key, err := VideoKeyFromURL("https://bucket.s3.eu-west-1.amazonaws.com/recordings/0xabcd/f00.webm?X-Amz-Signature=abc")
	require.NoError(t, err)
	assert.Equal(t, "recordings/0xabcd/f00.webm", key)

	_, err = VideoKeyFromURL("https://example.com/other/file.webm")
	require.Error(t, err)
}
