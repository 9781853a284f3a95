package internal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/kkdai/youtube/v2"
	"go.uber.org/zap"
)

// Video is a resolved video ready to be downloaded
type Video struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Author       string        `json:"author"`
	Duration     time.Duration `json:"duration"`
	ThumbnailURL string        `json:"thumbnail_url"`
	Resolution   string        `json:"resolution,omitempty"`
	Size         int64         `json:"size,omitempty"`

	native *youtube.Video
	format *youtube.Format
}

// Fetcher resolves and downloads videos
type Fetcher interface {
	// Fetch looks the video up without downloading it
	Fetch(ctx context.Context, videoID string) (*Video, error)
	// Download saves the video to target, which only exists once complete
	Download(ctx context.Context, video *Video, target string, ui UIManager) error
}

// NewFetcher returns the backend named in the config
func NewFetcher(config *Config, logger *zap.SugaredLogger) Fetcher {
	if config.Fetcher == FetcherYTDLP {
		return NewYTDLP(logger)
	}
	return NewYouTube(logger)
}

// YouTube fetches videos with the native kkdai/youtube client
type YouTube struct {
	client *youtube.Client
	log    *zap.SugaredLogger
}

// NewYouTube creates a new YouTube downloader
func NewYouTube(logger *zap.SugaredLogger) *YouTube {
	return &YouTube{
		client: &youtube.Client{},
		log:    logger,
	}
}

// Fetch gets video details and picks the format to download
func (yt *YouTube) Fetch(ctx context.Context, videoID string) (*Video, error) {
	yt.log.Debugw("fetching video details", "id", videoID)

	details, err := yt.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrVideoNotFound, videoID, err)
	}

	format := bestProgressiveMP4(details.Formats)
	if format == nil {
		return nil, fmt.Errorf("%w for %s", ErrNoFormat, videoID)
	}

	yt.log.Debugw("selected format",
		"id", videoID,
		"itag", format.ItagNo,
		"mime", format.MimeType,
		"quality", format.QualityLabel,
		"size", humanize.Bytes(uint64(max(format.ContentLength, 0))))

	return &Video{
		ID:           details.ID,
		Title:        details.Title,
		Author:       details.Author,
		Duration:     details.Duration,
		ThumbnailURL: bestThumbnail(details.Thumbnails),
		Resolution:   format.QualityLabel,
		Size:         format.ContentLength,
		native:       details,
		format:       format,
	}, nil
}

// Download streams the selected format into target
func (yt *YouTube) Download(ctx context.Context, video *Video, target string, ui UIManager) error {
	if video.native == nil || video.format == nil {
		resolved, err := yt.Fetch(ctx, video.ID)
		if err != nil {
			return err
		}
		video = resolved
	}

	stream, size, err := yt.client.GetStreamContext(ctx, video.native, video.format)
	if err != nil {
		return fmt.Errorf("getting stream: %w", err)
	}
	defer stream.Close()

	if size <= 0 {
		size = -1
	}
	bar := ui.NewBytesBar(size, "Downloading video")
	n, err := saveStream(ctx, target, stream, bar)
	bar.Finish()
	if err != nil {
		return err
	}

	yt.log.Infow("video saved", "id", video.ID, "path", target, "size", humanize.Bytes(uint64(n)))
	return nil
}

// bestProgressiveMP4 picks the highest resolution mp4 that carries both
// video and audio, preferring higher bitrate on ties
func bestProgressiveMP4(formats youtube.FormatList) *youtube.Format {
	var best *youtube.Format
	for i := range formats {
		f := &formats[i]
		if f.AudioChannels == 0 || f.Height == 0 || !strings.HasPrefix(f.MimeType, "video/mp4") {
			continue
		}
		if best == nil || f.Height > best.Height || (f.Height == best.Height && f.Bitrate > best.Bitrate) {
			best = f
		}
	}
	return best
}

// bestThumbnail returns the URL of the widest thumbnail
func bestThumbnail(thumbnails youtube.Thumbnails) string {
	var url string
	var width uint
	for _, t := range thumbnails {
		if url == "" || t.Width > width {
			url, width = t.URL, t.Width
		}
	}
	return url
}
