package internal

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Locator finds the ffmpeg binary: settings file first, then PATH, then by
// asking the user for its directory
type Locator struct {
	settingsFile string
	configured   string
	prompter     Prompter
	lookPath     func(string) (string, error)
	log          *zap.SugaredLogger
}

// NewLocator creates a locator. configuredDir is the ffmpeg_dir setting.
func NewLocator(settingsFile, configuredDir string, prompter Prompter, logger *zap.SugaredLogger) *Locator {
	return &Locator{
		settingsFile: settingsFile,
		configured:   configuredDir,
		prompter:     prompter,
		lookPath:     exec.LookPath,
		log:          logger,
	}
}

// Locate returns the path of the ffmpeg binary
func (l *Locator) Locate() (string, error) {
	if l.configured != "" {
		if path, ok := FindFFmpeg(ExpandHome(l.configured)); ok {
			l.log.Debugw("using ffmpeg from settings", "path", path)
			return path, nil
		}
		l.log.Warnw("ffmpeg_dir from settings does not contain ffmpeg", "dir", l.configured, "settings", l.settingsFile)
	}

	if path, err := l.lookPath(executableName("ffmpeg")); err == nil {
		l.log.Debugw("using ffmpeg from PATH", "path", path)
		return path, nil
	}

	if l.prompter == nil || !l.prompter.Interactive() {
		return "", fmt.Errorf("%w: set ffmpeg_dir in %s or add ffmpeg to PATH", ErrTranscoderNotFound, l.settingsFile)
	}

	dir, err := l.prompter.PickDirectory(
		"ffmpeg was not found. Directory containing ffmpeg:",
		"The directory is saved to the settings file so you are only asked once.",
		func(dir string) error {
			if _, ok := FindFFmpeg(dir); !ok {
				return fmt.Errorf("no %s in %s", executableName("ffmpeg"), dir)
			}
			return nil
		})
	if err != nil {
		if errors.Is(err, ErrDeclined) {
			return "", fmt.Errorf("%w: %w", ErrTranscoderNotFound, err)
		}
		return "", err
	}

	path, ok := FindFFmpeg(dir)
	if !ok {
		return "", fmt.Errorf("%w in %s", ErrTranscoderNotFound, dir)
	}

	if err := SaveFFmpegDir(l.settingsFile, dir); err != nil {
		l.log.Warnw("could not remember ffmpeg location", "error", err)
	} else {
		l.configured = dir
		l.log.Infow("saved ffmpeg location", "dir", dir, "settings", l.settingsFile)
	}
	return path, nil
}

// FindFFmpeg reports the ffmpeg executable inside dir, if any
func FindFFmpeg(dir string) (string, bool) {
	candidate := filepath.Join(dir, executableName("ffmpeg"))
	info, err := os.Stat(candidate)
	if err != nil || info.IsDir() {
		return "", false
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0111 == 0 {
		return "", false
	}
	return candidate, true
}

var ffmpegDirLine = regexp.MustCompile(`(?m)^ffmpeg_dir[ \t]*=.*$`)

// SaveFFmpegDir stores dir as ffmpeg_dir in the settings file, keeping other
// keys. When the file already has an ffmpeg_dir line only that line changes,
// so comments survive; otherwise viper rewrites the whole file.
func SaveFFmpegDir(settingsFile, dir string) error {
	if err := EnsureDirs(filepath.Dir(settingsFile)); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	if FileExists(settingsFile) {
		data, err := os.ReadFile(settingsFile)
		if err != nil {
			return fmt.Errorf("reading settings file: %w", err)
		}
		if updated, ok := replaceFFmpegDir(data, dir); ok {
			if err := os.WriteFile(settingsFile, updated, 0644); err != nil {
				return fmt.Errorf("writing settings file: %w", err)
			}
			return nil
		}
	}

	v := viper.New()
	v.SetConfigFile(settingsFile)
	v.SetConfigType("toml")
	if FileExists(settingsFile) {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading settings file: %w", err)
		}
	}

	v.Set("ffmpeg_dir", dir)
	if err := v.WriteConfigAs(settingsFile); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}

// replaceFFmpegDir rewrites the single top-level ffmpeg_dir line in data. It
// reports false when there is no such line or the result doesn't parse back to dir.
func replaceFFmpegDir(data []byte, dir string) ([]byte, bool) {
	if len(ffmpegDirLine.FindAllIndex(data, -1)) != 1 {
		return nil, false
	}
	line := []byte("ffmpeg_dir = " + strconv.Quote(dir))
	updated := ffmpegDirLine.ReplaceAllLiteral(data, line)

	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(bytes.NewReader(updated)); err != nil {
		return nil, false
	}
	if v.GetString("ffmpeg_dir") != dir {
		return nil, false
	}
	return updated, true
}

func executableName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}
