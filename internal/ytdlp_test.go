package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYTDLPMetadata(t *testing.T) {
	data := []byte(`{
		"id": "dQw4w9WgXcQ",
		"title": "Never Gonna Give You Up",
		"channel": "Rick Astley",
		"uploader": "RickAstleyVEVO",
		"duration": 212.5,
		"thumbnail": "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg",
		"resolution": "640x360",
		"filesize_approx": 12345678
	}`)

	video, err := parseYTDLPMetadata("dQw4w9WgXcQ", data)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal("dQw4w9WgXcQ", video.ID)
	assert.Equal("Never Gonna Give You Up", video.Title)
	assert.Equal("Rick Astley", video.Author)
	assert.Equal(212*time.Second+500*time.Millisecond, video.Duration)
	assert.Equal("https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg", video.ThumbnailURL)
	assert.Equal("640x360", video.Resolution)
	assert.EqualValues(12345678, video.Size)
}

func TestParseYTDLPMetadataFallbacks(t *testing.T) {
	video, err := parseYTDLPMetadata("abc", []byte(`{"title": "T", "uploader": "Uploader", "filesize": 10, "filesize_approx": 20}`))
	require.NoError(t, err)

	assert.Equal(t, "abc", video.ID)
	assert.Equal(t, "Uploader", video.Author)
	assert.EqualValues(t, 10, video.Size)
}

func TestParseYTDLPMetadataInvalid(t *testing.T) {
	_, err := parseYTDLPMetadata("abc", []byte("ERROR: video unavailable"))
	assert.Error(t, err)
}
