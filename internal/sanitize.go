package internal

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxNameBytes leaves room for the extension and a " [id]" suffix under the usual 255 byte limit
const maxNameBytes = 200

var (
	invalidNameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F\x7F]`)
	reservedNames    = regexp.MustCompile(`(?i)^(con|prn|aux|nul|com[0-9]|lpt[0-9])(\..*)?$`)
)

// SanitizeName turns a video title into a file name safe on common filesystems.
// fallback is used when nothing usable is left.
func SanitizeName(title, fallback string) string {
	name := invalidNameChars.ReplaceAllString(title, "")
	name = strings.Join(strings.Fields(name), " ")
	name = strings.Trim(name, " .")
	name = truncateBytes(name, maxNameBytes)
	name = strings.TrimRight(name, " .")

	if name == "" {
		return fallback
	}
	if reservedNames.MatchString(name) {
		// Windows reserves the part before the first dot
		stem, ext, _ := strings.Cut(name, ".")
		name = stem + "_"
		if ext != "" {
			name += "." + ext
		}
	}
	return name
}

// UniqueName appends the video ID when name already belongs to another
// video, as either its video or its audio
func UniqueName(h *History, id, name string) string {
	if !h.NameTaken(KindVideo, id, name) && !h.NameTaken(KindAudio, id, name) {
		return name
	}
	return fmt.Sprintf("%s [%s]", name, id)
}

// truncateBytes cuts s to at most n bytes without splitting a rune
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
