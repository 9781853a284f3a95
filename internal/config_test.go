package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	valid := Config{Fetcher: FetcherNative, MP3Quality: 2, FrameOffset: time.Second}

	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", modify: func(c *Config) {}},
		{name: "ytdlp", modify: func(c *Config) { c.Fetcher = FetcherYTDLP }},
		{name: "unknown fetcher", modify: func(c *Config) { c.Fetcher = "curl" }, wantErr: true},
		{name: "best quality", modify: func(c *Config) { c.MP3Quality = 0 }},
		{name: "quality too low", modify: func(c *Config) { c.MP3Quality = -1 }, wantErr: true},
		{name: "quality too high", modify: func(c *Config) { c.MP3Quality = 10 }, wantErr: true},
		{name: "zero offset", modify: func(c *Config) { c.FrameOffset = 0 }},
		{name: "negative offset", modify: func(c *Config) { c.FrameOffset = -time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.modify(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInitConfigFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TUBESAVE_DOWNLOAD_DIR", "music")
	t.Setenv("TUBESAVE_FETCHER", FetcherYTDLP)
	t.Setenv("TUBESAVE_MP3_QUALITY", "0")
	t.Setenv("TUBESAVE_FRAME_OFFSET", "2500ms")

	c := InitConfig()

	assert := assert.New(t)
	assert.Equal("music", c.DownloadDir)
	assert.Equal(filepath.Join("music", "history.json"), c.HistoryFile)
	assert.Equal(FetcherYTDLP, c.Fetcher)
	assert.Equal(0, c.MP3Quality)
	assert.Equal(2500*time.Millisecond, c.FrameOffset)
	assert.NotEmpty(c.SettingsFile)
}

func TestEnsureDefaultConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tubesave")

	require.NoError(t, EnsureDefaultConfig(dir))
	path := filepath.Join(dir, "settings.toml")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "download_dir")

	// an existing file is left alone
	require.NoError(t, os.WriteFile(path, []byte("download_dir = \"mine\"\n"), 0644))
	require.NoError(t, EnsureDefaultConfig(dir))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "download_dir = \"mine\"\n", string(data))
}
