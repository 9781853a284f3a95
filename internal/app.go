package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// App holds the application state and dependencies
type App struct {
	config     *Config
	fetcher    Fetcher
	cmdRunner  CommandRunner
	prompter   Prompter
	locator    *Locator
	httpClient *http.Client
	ui         UIManager
	log        *zap.SugaredLogger
}

// NewApp initializes the application
func NewApp(config *Config, logger *zap.Logger, options ...AppOption) *App {
	sugar := logger.Sugar()
	prompter := NewPrompter(false)

	app := &App{
		config:     config,
		fetcher:    NewFetcher(config, sugar),
		cmdRunner:  &DefaultCommandRunner{},
		prompter:   prompter,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		ui:         NewUIManager(config.Verbose, config.Quiet),
		log:        sugar,
	}

	// Apply any custom options
	for _, option := range options {
		option(app)
	}

	if app.locator == nil {
		app.locator = NewLocator(config.SettingsFile, config.FFmpegDir, app.prompter, sugar)
	}

	return app
}

// AppOption customizes App creation
type AppOption func(*App)

// WithFetcher sets a custom video fetcher
func WithFetcher(fetcher Fetcher) AppOption {
	return func(a *App) {
		a.fetcher = fetcher
	}
}

// WithCommandRunner sets the runner used for ffmpeg
func WithCommandRunner(runner CommandRunner) AppOption {
	return func(a *App) {
		a.cmdRunner = runner
	}
}

// WithPrompter sets how the user is asked questions
func WithPrompter(prompter Prompter) AppOption {
	return func(a *App) {
		a.prompter = prompter
	}
}

// WithLocator sets how ffmpeg is found
func WithLocator(locator *Locator) AppOption {
	return func(a *App) {
		a.locator = locator
	}
}

// WithUI sets the UI manager
func WithUI(ui UIManager) AppOption {
	return func(a *App) {
		a.ui = ui
	}
}

// WithHTTPClient sets the client used for thumbnails
func WithHTTPClient(client *http.Client) AppOption {
	return func(a *App) {
		a.httpClient = client
	}
}

// Request describes one invocation
type Request struct {
	VideoID    string
	ConvertMP3 bool
	Force      bool
}

// Result reports what was produced or reused
type Result struct {
	VideoID      string
	Name         string
	VideoPath    string
	AudioPath    string
	VideoSkipped bool
	AudioSkipped bool
}

// OutputPath is the most derived artifact of the run
func (r *Result) OutputPath() string {
	if r.AudioPath != "" {
		return r.AudioPath
	}
	return r.VideoPath
}

// Run downloads the video and optionally converts it. A *PartialError is
// returned together with the result when the MP3 exists but cover art or
// tagging failed.
func (app *App) Run(ctx context.Context, req Request) (*Result, error) {
	history, err := LoadHistory(app.config.HistoryFile)
	if err != nil {
		return nil, err
	}

	result := &Result{VideoID: req.VideoID}

	video, err := app.ensureVideo(ctx, history, req, result)
	if err != nil {
		return nil, err
	}

	if !req.ConvertMP3 {
		return result, nil
	}

	if err := app.ensureAudio(ctx, history, req, video, result); err != nil {
		var partial *PartialError
		if errors.As(err, &partial) {
			return result, err
		}
		return nil, err
	}
	return result, nil
}

// ensureVideo makes sure the video file exists, downloading it when history
// and disk say it's needed. The returned Video is nil when the download was skipped.
func (app *App) ensureVideo(ctx context.Context, history *History, req Request, result *Result) (*Video, error) {
	dir := app.config.DownloadDir
	resolution := Resolve(history, KindVideo, req.VideoID, dir)
	app.log.Debugw("resolved video", "id", req.VideoID, "state", resolution.State.String(), "path", resolution.Path)

	switch resolution.State {
	case StatePresent:
		action, err := Decide(resolution, req.Force, app.prompter)
		if err != nil {
			return nil, err
		}
		if action == ActionSkip {
			app.log.Infow("video already downloaded", "id", req.VideoID, "path", resolution.Path)
			app.ui.Printf("Already downloaded: %s\n", resolution.Path)
			result.Name, result.VideoPath, result.VideoSkipped = resolution.Name, resolution.Path, true
			return nil, nil
		}
	case StateStale:
		app.log.Warnw("video recorded in history but missing on disk, downloading again", "id", req.VideoID, "path", resolution.Path)
	}

	spinner := app.ui.NewSpinner("Looking up video...")
	video, err := app.fetcher.Fetch(ctx, req.VideoID)
	spinner.Finish()
	if err != nil {
		app.log.Errorw("video lookup failed", "id", req.VideoID, "error", err)
		return nil, fmt.Errorf("fetching video %s: %w", req.VideoID, err)
	}
	app.log.Infow("video found", "id", req.VideoID, "title", video.Title, "resolution", video.Resolution)
	app.ui.Printf("Found: %s\n", video.Title)
	app.ui.Verbose("Author: %s, duration: %s, resolution: %s\n", video.Author, video.Duration, video.Resolution)

	// Replacing a present file keeps its name, everything else is derived from the current title
	name := resolution.Name
	if resolution.State != StatePresent {
		name = UniqueName(history, req.VideoID, SanitizeName(video.Title, req.VideoID))
	}
	target := filepath.Join(dir, name+KindVideo.Ext())

	if resolution.State != StatePresent && FileExists(target) {
		action, err := Decide(Untracked(KindVideo, req.VideoID, name, target), req.Force, app.prompter)
		if err != nil {
			return nil, err
		}
		if action == ActionAdopt {
			app.log.Infow("keeping existing video file", "id", req.VideoID, "path", target)
			if err := app.record(history, KindVideo, req.VideoID, name); err != nil {
				return nil, err
			}
			result.Name, result.VideoPath, result.VideoSkipped = name, target, true
			return video, nil
		}
	}

	if err := app.fetcher.Download(ctx, video, target, app.ui); err != nil {
		app.log.Errorw("video download failed", "id", req.VideoID, "error", err)
		return nil, fmt.Errorf("downloading video %s: %w", req.VideoID, err)
	}
	app.ui.Printf("Saved video: %s\n", target)

	if err := app.record(history, KindVideo, req.VideoID, name); err != nil {
		return nil, err
	}

	result.Name, result.VideoPath = name, target
	return video, nil
}

// ensureAudio converts the video to MP3 unless an audio file is already
// recorded, then attaches cover art on a best-effort basis
func (app *App) ensureAudio(ctx context.Context, history *History, req Request, video *Video, result *Result) error {
	dir := app.config.DownloadDir
	resolution := Resolve(history, KindAudio, req.VideoID, dir)
	app.log.Debugw("resolved audio", "id", req.VideoID, "state", resolution.State.String(), "path", resolution.Path)

	switch resolution.State {
	case StatePresent:
		action, err := Decide(resolution, req.Force, app.prompter)
		if err != nil {
			return err
		}
		if action == ActionSkip {
			app.log.Infow("audio already converted", "id", req.VideoID, "path", resolution.Path)
			app.ui.Printf("Already converted: %s\n", resolution.Path)
			result.AudioPath, result.AudioSkipped = resolution.Path, true
			return nil
		}
	case StateStale:
		app.log.Warnw("audio recorded in history but missing on disk, converting again", "id", req.VideoID, "path", resolution.Path)
	}

	name := result.Name
	if resolution.State == StatePresent {
		name = resolution.Name
	} else if unique := UniqueName(history, req.VideoID, name); unique != name {
		// the mp3 at this name belongs to another video
		app.log.Infow("audio name taken by another video", "id", req.VideoID, "name", name, "using", unique)
		name = unique
	}
	target := filepath.Join(dir, name+KindAudio.Ext())

	if resolution.State != StatePresent && FileExists(target) {
		action, err := Decide(Untracked(KindAudio, req.VideoID, name, target), req.Force, app.prompter)
		if err != nil {
			return err
		}
		if action == ActionAdopt {
			app.log.Infow("keeping existing audio file", "id", req.VideoID, "path", target)
			result.AudioPath, result.AudioSkipped = target, true
			return app.record(history, KindAudio, req.VideoID, name)
		}
	}

	transcoder, err := app.transcoder(ctx)
	if err != nil {
		return err
	}

	spinner := app.ui.NewSpinner("Converting to mp3...")
	err = transcoder.ToMP3(ctx, result.VideoPath, target, app.config.MP3Quality)
	spinner.Finish()
	if err != nil {
		app.log.Errorw("mp3 conversion failed", "id", req.VideoID, "error", err)
		return fmt.Errorf("converting %s to mp3: %w", result.VideoPath, err)
	}
	app.log.Infow("audio saved", "id", req.VideoID, "path", target)
	app.ui.Printf("Saved audio: %s\n", target)

	if err := app.record(history, KindAudio, req.VideoID, name); err != nil {
		return err
	}
	result.AudioPath = target

	if err := app.tagAudio(ctx, transcoder, video, result); err != nil {
		app.log.Warnw("audio post-processing failed", "id", req.VideoID, "error", err)
		return &PartialError{AudioPath: target, Err: err}
	}
	return nil
}

// transcoder locates ffmpeg and checks that it runs
func (app *App) transcoder(ctx context.Context) (*Transcoder, error) {
	path, err := app.locator.Locate()
	if err != nil {
		return nil, err
	}

	transcoder := NewTranscoder(app.cmdRunner, path)
	if err := transcoder.Verify(ctx); err != nil {
		return nil, err
	}
	return transcoder, nil
}

// tagAudio embeds a cover image and title/artist into the MP3. The cover is a
// frame from the video, or the platform thumbnail if that fails.
func (app *App) tagAudio(ctx context.Context, transcoder *Transcoder, video *Video, result *Result) error {
	if err := EnsureDirs(app.config.CacheDir); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	cover := filepath.Join(app.config.CacheDir, result.VideoID+"-cover.jpg")
	defer cleanupFiles(cover)

	var errs error

	offset := transcoder.FrameOffset(ctx, result.VideoPath, app.config.FrameOffset)
	frameErr := transcoder.ExtractFrame(ctx, result.VideoPath, cover, offset)
	if frameErr != nil {
		app.log.Warnw("frame extraction failed, trying thumbnail", "id", result.VideoID, "error", frameErr)
		errs = multierror.Append(errs, fmt.Errorf("extracting frame: %w", frameErr))

		if video == nil {
			video = app.lookupForTags(ctx, result.VideoID)
		}
		if thumbErr := app.thumbnailCover(ctx, transcoder, video, cover); thumbErr != nil {
			errs = multierror.Append(errs, thumbErr)
			return errs
		}
	}

	info := TagInfo{Title: result.Name}
	if video != nil {
		info = TagInfo{Title: video.Title, Artist: video.Author}
	}
	if err := EmbedCover(result.AudioPath, cover, info); err != nil {
		return multierror.Append(errs, fmt.Errorf("embedding cover: %w", err))
	}

	app.log.Infow("cover embedded", "id", result.VideoID, "path", result.AudioPath, "from_thumbnail", frameErr != nil)
	return nil
}

// thumbnailCover downloads the platform thumbnail and normalizes it to JPEG at cover
func (app *App) thumbnailCover(ctx context.Context, transcoder *Transcoder, video *Video, cover string) error {
	if video == nil || video.ThumbnailURL == "" {
		return fmt.Errorf("no thumbnail available")
	}

	ext := ".jpg"
	if u, err := url.Parse(video.ThumbnailURL); err == nil && path.Ext(u.Path) != "" {
		ext = path.Ext(u.Path)
	}
	raw := strings.TrimSuffix(cover, filepath.Ext(cover)) + "-thumbnail" + ext
	defer cleanupFiles(raw)

	if err := downloadImage(ctx, app.httpClient, video.ThumbnailURL, raw); err != nil {
		return err
	}
	if err := transcoder.ExtractFrame(ctx, raw, cover, 0); err != nil {
		return fmt.Errorf("converting thumbnail: %w", err)
	}
	return nil
}

// lookupForTags fetches metadata when the download was skipped; nil on failure
func (app *App) lookupForTags(ctx context.Context, videoID string) *Video {
	video, err := app.fetcher.Fetch(ctx, videoID)
	if err != nil {
		app.log.Warnw("could not look up video for tags", "id", videoID, "error", err)
		return nil
	}
	return video
}

// record stores the artifact in history and saves it right away
func (app *App) record(history *History, kind Kind, videoID, name string) error {
	history.Record(kind, videoID, name)
	if err := history.Save(); err != nil {
		return fmt.Errorf("updating history: %w", err)
	}
	app.log.Debugw("history updated", "kind", string(kind), "id", videoID, "name", name, "file", history.Path())
	return nil
}

// Info looks up a video without downloading it
func (app *App) Info(ctx context.Context, videoID string) (*Video, error) {
	video, err := app.fetcher.Fetch(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("fetching video %s: %w", videoID, err)
	}
	return video, nil
}

// Locator returns the ffmpeg locator in use
func (app *App) Locator() *Locator {
	return app.locator
}
