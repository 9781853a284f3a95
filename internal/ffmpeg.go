package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Transcoder runs ffmpeg and ffprobe
type Transcoder struct {
	cmdRunner CommandRunner
	ffmpeg    string
	ffprobe   string
}

// NewTranscoder creates a transcoder for the ffmpeg binary at ffmpegPath.
// ffprobe is looked up next to it, then on PATH.
func NewTranscoder(cmdRunner CommandRunner, ffmpegPath string) *Transcoder {
	ffprobe := "ffprobe"
	if dir := filepath.Dir(ffmpegPath); dir != "." {
		if candidate := filepath.Join(dir, executableName("ffprobe")); FileExists(candidate) {
			ffprobe = candidate
		}
	}
	return &Transcoder{
		cmdRunner: cmdRunner,
		ffmpeg:    ffmpegPath,
		ffprobe:   ffprobe,
	}
}

// Path returns the ffmpeg binary in use
func (t *Transcoder) Path() string {
	return t.ffmpeg
}

// Verify checks that ffmpeg can actually be executed
func (t *Transcoder) Verify(ctx context.Context) error {
	output, err := t.cmdRunner.Run(ctx, t.ffmpeg, "-hide_banner", "-version")
	if err != nil {
		return fmt.Errorf("%w: running %s: %w\nOutput: %s", ErrTranscoderNotFound, t.ffmpeg, err, string(output))
	}
	return nil
}

// ToMP3 converts the audio track of in to an MP3 at out. quality is the LAME
// VBR setting, 0 (best) to 9.
func (t *Transcoder) ToMP3(ctx context.Context, in, out string, quality int) error {
	tmp := tempPath(out)
	cmdOutput, err := t.cmdRunner.Run(ctx, t.ffmpeg,
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		"-i", in,
		"-vn",
		"-codec:a", "libmp3lame",
		"-q:a", strconv.Itoa(quality),
		"-id3v2_version", "3",
		"-y", tmp)
	if err != nil {
		cleanupFiles(tmp)
		return fmt.Errorf("ffmpeg failed: %w\nOutput: %s", err, string(cmdOutput))
	}

	if err := os.Rename(tmp, out); err != nil {
		cleanupFiles(tmp)
		return fmt.Errorf("moving audio into place: %w", err)
	}
	return nil
}

// ExtractFrame writes a single JPEG frame of in, taken at offset, to out
func (t *Transcoder) ExtractFrame(ctx context.Context, in, out string, offset time.Duration) error {
	cmdOutput, err := t.cmdRunner.Run(ctx, t.ffmpeg,
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		"-ss", formatSeconds(offset),
		"-i", in,
		"-frames:v", "1",
		"-q:v", "2",
		"-y", out)
	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w\nOutput: %s", err, string(cmdOutput))
	}
	if !FileExists(out) {
		return fmt.Errorf("ffmpeg produced no frame at %s", formatSeconds(offset))
	}
	return nil
}

// Duration returns the media file duration in seconds
func (t *Transcoder) Duration(ctx context.Context, file string) (float64, error) {
	output, err := t.cmdRunner.Run(ctx, t.ffprobe,
		"-i", file,
		"-show_entries", "format=duration",
		"-v", "quiet",
		"-of", "csv=p=0")

	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w\nOutput: %s", err, string(output))
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing duration: %w", err)
	}

	return duration, nil
}

// FrameOffset clamps the preferred frame offset to clips shorter than it
func (t *Transcoder) FrameOffset(ctx context.Context, file string, preferred time.Duration) time.Duration {
	seconds, err := t.Duration(ctx, file)
	if err != nil {
		return preferred
	}
	if length := time.Duration(seconds * float64(time.Second)); length <= preferred {
		return 0
	}
	return preferred
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
