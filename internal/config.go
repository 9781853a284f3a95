package internal

import (
	"context"
	"embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// CommandRunner executes external commands
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// DefaultCommandRunner implements CommandRunner
type DefaultCommandRunner struct{}

func (r *DefaultCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// Fetcher backends
const (
	FetcherNative = "native"
	FetcherYTDLP  = "ytdlp"
)

// Config holds application settings
type Config struct {
	// User configurable settings
	DownloadDir string
	HistoryFile string
	LogDir      string
	Fetcher     string
	MP3Quality  int
	FrameOffset time.Duration
	FFmpegDir   string
	Verbose     bool
	Debug       bool
	Quiet       bool

	// Fixed XDG paths (not configurable)
	ConfigDir    string
	CacheDir     string
	SettingsFile string
}

//go:embed settings.toml
var defaultFS embed.FS

const settingsName = "settings.toml"

// EnsureDefaultConfig writes the embedded settings file to configDir unless one already exists
func EnsureDefaultConfig(configDir string) error {
	filePath := filepath.Join(configDir, settingsName)
	if FileExists(filePath) {
		return nil
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultContent, err := defaultFS.ReadFile(settingsName)
	if err != nil {
		return fmt.Errorf("reading embedded default settings: %w", err)
	}

	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return fmt.Errorf("writing default settings: %w", err)
	}

	fmt.Printf("Created default settings at %s\n", filePath)
	return nil
}

// InitConfig initializes Viper and loads configuration
func InitConfig() *Config {
	// XDG standard directories
	configDir := filepath.Join(xdg.ConfigHome, "tubesave")
	cacheDir := filepath.Join(xdg.CacheHome, "tubesave")

	v := viper.New()

	v.SetDefault("download_dir", "downloaded")
	v.SetDefault("history_file", "")
	v.SetDefault("log_dir", "log")
	v.SetDefault("fetcher", FetcherNative)
	v.SetDefault("mp3_quality", 2)
	v.SetDefault("frame_offset", time.Second)
	v.SetDefault("ffmpeg_dir", "")
	v.SetDefault("verbose", false)

	v.SetConfigName("settings")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	v.SetEnvPrefix("TUBESAVE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: Error reading settings file: %v\n", err)
		}
	}

	config := &Config{
		DownloadDir: v.GetString("download_dir"),
		HistoryFile: v.GetString("history_file"),
		LogDir:      v.GetString("log_dir"),
		Fetcher:     v.GetString("fetcher"),
		MP3Quality:  v.GetInt("mp3_quality"),
		FrameOffset: v.GetDuration("frame_offset"),
		FFmpegDir:   v.GetString("ffmpeg_dir"),
		Verbose:     v.GetBool("verbose"),

		ConfigDir:    configDir,
		CacheDir:     cacheDir,
		SettingsFile: filepath.Join(configDir, settingsName),
	}

	// A settings file in the working directory wins over the XDG one
	if used := v.ConfigFileUsed(); used != "" {
		config.SettingsFile = used
	}

	if config.HistoryFile == "" {
		config.HistoryFile = filepath.Join(config.DownloadDir, "history.json")
	}

	return config
}

// Validate checks settings that cannot be corrected at runtime
func (c *Config) Validate() error {
	switch c.Fetcher {
	case FetcherNative, FetcherYTDLP:
	default:
		return fmt.Errorf("unsupported fetcher: %s (supported: %s, %s)", c.Fetcher, FetcherNative, FetcherYTDLP)
	}
	if c.MP3Quality < 0 || c.MP3Quality > 9 {
		return fmt.Errorf("mp3_quality must be between 0 (best) and 9 (worst), got %d", c.MP3Quality)
	}
	if c.FrameOffset < 0 {
		return fmt.Errorf("frame_offset must not be negative, got %s", c.FrameOffset)
	}
	return nil
}
