package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"
)

// ytdlpMetadata is the subset of yt-dlp's JSON output we use
type ytdlpMetadata struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Channel        string  `json:"channel"`
	Uploader       string  `json:"uploader"`
	Duration       float64 `json:"duration"`
	Thumbnail      string  `json:"thumbnail"`
	Resolution     string  `json:"resolution"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
}

// YTDLP fetches videos through the yt-dlp binary
type YTDLP struct {
	log *zap.SugaredLogger

	installOnce sync.Once
	installErr  error
}

// NewYTDLP creates a yt-dlp backed fetcher
func NewYTDLP(logger *zap.SugaredLogger) *YTDLP {
	return &YTDLP{log: logger}
}

// ensureInstalled makes sure a yt-dlp binary is available, downloading one if needed
func (y *YTDLP) ensureInstalled(ctx context.Context) error {
	y.installOnce.Do(func() {
		if _, err := ytdlp.Install(ctx, nil); err != nil {
			y.installErr = fmt.Errorf("installing yt-dlp: %w", err)
		}
	})
	return y.installErr
}

// Fetch extracts video metadata with --dump-single-json
func (y *YTDLP) Fetch(ctx context.Context, videoID string) (*Video, error) {
	if err := y.ensureInstalled(ctx); err != nil {
		return nil, err
	}

	y.log.Debugw("extracting metadata with yt-dlp", "id", videoID)

	dl := ytdlp.New().
		DumpSingleJSON().
		NoPlaylist().
		SkipDownload()

	result, err := dl.Run(ctx, WatchURL(videoID))
	if err != nil {
		if result != nil {
			y.log.Debugw("yt-dlp metadata extraction failed", "stderr", result.Stderr)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrVideoNotFound, videoID, err)
	}

	return parseYTDLPMetadata(videoID, []byte(result.Stdout))
}

// Download fetches the best mp4 yt-dlp can find into target
func (y *YTDLP) Download(ctx context.Context, video *Video, target string, ui UIManager) error {
	if err := y.ensureInstalled(ctx); err != nil {
		return err
	}
	if err := EnsureDirs(filepath.Dir(target)); err != nil {
		return fmt.Errorf("creating target directory: %w", err)
	}

	tmp := tempPath(target)

	dl := ytdlp.New().
		Format("best[ext=mp4][vcodec!=none][acodec!=none]/best[ext=mp4]").
		NoPlaylist().
		NoPart().
		Output(tmp)

	spinner := ui.NewSpinner("Downloading video with yt-dlp")
	result, err := dl.Run(ctx, WatchURL(video.ID))
	spinner.Finish()
	if err != nil {
		cleanupFiles(tmp)
		if result != nil {
			y.log.Debugw("yt-dlp download failed", "stderr", result.Stderr)
			return fmt.Errorf("yt-dlp failed: %w\nOutput: %s", err, result.Stderr)
		}
		return fmt.Errorf("yt-dlp failed: %w", err)
	}

	if err := os.Rename(tmp, target); err != nil {
		cleanupFiles(tmp)
		return fmt.Errorf("moving download into place: %w", err)
	}

	y.log.Infow("video saved", "id", video.ID, "path", target)
	return nil
}

func parseYTDLPMetadata(videoID string, data []byte) (*Video, error) {
	var meta ytdlpMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing video metadata: %w", err)
	}

	if meta.ID == "" {
		meta.ID = videoID
	}
	author := meta.Channel
	if author == "" {
		author = meta.Uploader
	}
	size := meta.Filesize
	if size == 0 {
		size = meta.FilesizeApprox
	}

	return &Video{
		ID:           meta.ID,
		Title:        meta.Title,
		Author:       author,
		Duration:     time.Duration(meta.Duration * float64(time.Second)),
		ThumbnailURL: meta.Thumbnail,
		Resolution:   meta.Resolution,
		Size:         size,
	}, nil
}
