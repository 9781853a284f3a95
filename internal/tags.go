package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/bogem/id3v2/v2"
)

// TagInfo is the text metadata written next to the cover
type TagInfo struct {
	Title  string
	Artist string
}

// EmbedCover sets the front cover and text tags of an MP3 file, replacing
// any cover already present
func EmbedCover(mp3Path, imagePath string, info TagInfo) error {
	picture, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("reading cover image: %w", err)
	}
	if len(picture) == 0 {
		return fmt.Errorf("cover image %s is empty", imagePath)
	}

	tag, err := id3v2.Open(mp3Path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("opening tags of %s: %w", mp3Path, err)
	}
	defer tag.Close()

	// UTF-8 text frames only exist in ID3v2.4, ffmpeg writes v2.3
	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	if info.Title != "" {
		tag.SetTitle(info.Title)
	}
	if info.Artist != "" {
		tag.SetArtist(info.Artist)
	}

	tag.DeleteFrames(tag.CommonID("Attached picture"))
	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    imageMimeType(picture),
		PictureType: id3v2.PTFrontCover,
		Description: "Front cover",
		Picture:     picture,
	})

	if err := tag.Save(); err != nil {
		return fmt.Errorf("saving tags of %s: %w", mp3Path, err)
	}
	return nil
}

func imageMimeType(data []byte) string {
	switch mime := http.DetectContentType(data); mime {
	case "image/png", "image/jpeg":
		return mime
	default:
		return "image/jpeg"
	}
}

// downloadImage fetches an image URL to target
func downloadImage(ctx context.Context, client *http.Client, imageURL, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("downloading thumbnail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading thumbnail: unexpected status %s", resp.Status)
	}

	if _, err := saveStream(ctx, target, resp.Body, nil); err != nil {
		return fmt.Errorf("saving thumbnail: %w", err)
	}
	return nil
}
