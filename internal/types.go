package internal

import (
	"errors"
	"fmt"
)

var (
	ErrVideoNotFound      = errors.New("video not found")
	ErrNoFormat           = errors.New("no mp4 format with audio available")
	ErrTranscoderNotFound = errors.New("ffmpeg not found")
	ErrDeclined           = errors.New("declined by user")
)

// Kind is an artifact tracked in the history file
type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

// Ext returns the file extension used for the artifact
func (k Kind) Ext() string {
	switch k {
	case KindAudio:
		return ".mp3"
	default:
		return ".mp4"
	}
}

// State describes what history and disk say about an artifact
type State int

const (
	// StateMissing: not recorded, nothing on disk
	StateMissing State = iota
	// StateStale: recorded, but the file is gone
	StateStale
	// StatePresent: recorded and on disk
	StatePresent
	// StateUntracked: a file sits at the target path but history doesn't know it
	StateUntracked
)

// String returns a human-readable representation of the state
func (s State) String() string {
	switch s {
	case StateMissing:
		return "missing"
	case StateStale:
		return "stale"
	case StatePresent:
		return "present"
	case StateUntracked:
		return "untracked"
	default:
		return "unknown"
	}
}

// Action is what the pipeline does with an artifact after resolution
type Action int

const (
	ActionRun Action = iota
	ActionSkip
	// ActionAdopt records an untracked file in history without producing it again
	ActionAdopt
)

func (a Action) String() string {
	switch a {
	case ActionRun:
		return "run"
	case ActionSkip:
		return "skip"
	case ActionAdopt:
		return "adopt"
	default:
		return "unknown"
	}
}

// PartialError reports an audio file that was created while cover art or
// tagging failed
type PartialError struct {
	AudioPath string
	Err       error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("audio saved to %s, but post-processing failed: %v", e.AudioPath, e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}
