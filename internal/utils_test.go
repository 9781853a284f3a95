package internal

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArg(t *testing.T) {
	tests := []struct {
		arg    string
		wantID string
	}{
		{arg: "dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ"},
		{arg: "  dQw4w9WgXcQ  ", wantID: "dQw4w9WgXcQ"},
		{arg: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ"},
		{arg: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", wantID: "dQw4w9WgXcQ"},
		{arg: "https://youtube.com/watch?list=PL123&v=dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ"},
		{arg: "https://m.youtube.com/watch?v=dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ"},
		{arg: "https://music.youtube.com/watch?v=dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ"},
		{arg: "https://youtu.be/dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ"},
		{arg: "https://youtu.be/dQw4w9WgXcQ?si=abc", wantID: "dQw4w9WgXcQ"},
		{arg: "https://www.youtube.com/shorts/dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ"},
		{arg: "https://www.youtube.com/embed/dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ"},
		{arg: "https://www.youtube.com/live/dQw4w9WgXcQ?feature=share", wantID: "dQw4w9WgXcQ"},
		{arg: "http://www.youtube.com/v/dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ"},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			url, id := ParseArg(tt.arg)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, "https://www.youtube.com/watch?v="+tt.wantID, url)
		})
	}
}

func TestParseArgUnknownURL(t *testing.T) {
	url, id := ParseArg("https://vimeo.com/12345")
	assert.Equal(t, "https://vimeo.com/12345", url)
	assert.Equal(t, "https://vimeo.com/12345", id)
}

func TestGetVideoIDErrors(t *testing.T) {
	for _, u := range []string{
		"https://vimeo.com/12345",
		"https://www.youtube.com/feed/subscriptions",
		"https://youtu.be/",
	} {
		_, err := getVideoID(u)
		assert.Error(t, err, u)
	}
}

func TestIsValidYouTubeID(t *testing.T) {
	assert := assert.New(t)
	assert.True(IsValidYouTubeID("dQw4w9WgXcQ"))
	assert.True(IsValidYouTubeID("a-b_c-d_e-f"))
	assert.False(IsValidYouTubeID("dQw4w9WgXc"))
	assert.False(IsValidYouTubeID("dQw4w9WgXcQQ"))
	assert.False(IsValidYouTubeID("dQw4w9WgX?Q"))
	assert.False(IsValidYouTubeID(""))
}

func TestIsLikelyCommand(t *testing.T) {
	assert := assert.New(t)
	assert.True(IsLikelyCommand("histroy"))
	assert.True(IsLikelyCommand("verison"))
	assert.False(IsLikelyCommand("dQw4w9WgXcQ"))
	assert.False(IsLikelyCommand("https://youtu.be/x"))
}

func TestTempPath(t *testing.T) {
	target := filepath.Join("downloads", "My video.mp4")
	tmp := tempPath(target)

	assert.Equal(t, "downloads", filepath.Dir(tmp))
	assert.True(t, strings.HasPrefix(filepath.Base(tmp), "."))
	assert.True(t, strings.HasSuffix(tmp, "-My video.mp4"))
	assert.NotEqual(t, tmp, tempPath(target))
}

func TestSaveStream(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "sub", "video.mp4")

	var progress strings.Builder
	n, err := saveStream(context.Background(), target, strings.NewReader("video bytes"), &progress)
	require.NoError(t, err)

	assert.EqualValues(t, len("video bytes"), n)
	assert.Equal(t, "video bytes", progress.String())

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "video bytes", string(data))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestSaveStreamFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "video.mp4")

	_, err := saveStream(context.Background(), target, io.MultiReader(strings.NewReader("partial"), failingReader{}), nil)
	require.Error(t, err)

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestSaveStreamCancelled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := saveStream(ctx, filepath.Join(dir, "video.mp4"), strings.NewReader("data"), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, FileExists(filepath.Join(dir, "video.mp4")))
}

func TestEnsureDirs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDirs("", dir, dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
