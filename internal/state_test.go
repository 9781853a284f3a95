package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePrompter answers every question the same way
type fakePrompter struct {
	interactive bool
	answer      bool
	dir         string
	err         error
	questions   []string
}

func (p *fakePrompter) Interactive() bool {
	return p.interactive
}

func (p *fakePrompter) Confirm(message string, def bool) (bool, error) {
	p.questions = append(p.questions, message)
	return p.answer, p.err
}

func (p *fakePrompter) PickDirectory(message, help string, validate func(dir string) error) (string, error) {
	p.questions = append(p.questions, message)
	if p.err != nil {
		return "", p.err
	}
	if validate != nil {
		if err := validate(p.dir); err != nil {
			return "", err
		}
	}
	return p.dir, nil
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Here.mp4"), nil, 0644))

	h := NewHistory("")
	h.Record(KindVideo, "here", "Here")
	h.Record(KindVideo, "gone", "Gone")

	tests := []struct {
		name  string
		kind  Kind
		id    string
		state State
		path  string
	}{
		{name: "present", kind: KindVideo, id: "here", state: StatePresent, path: filepath.Join(dir, "Here.mp4")},
		{name: "stale", kind: KindVideo, id: "gone", state: StateStale, path: filepath.Join(dir, "Gone.mp4")},
		{name: "missing", kind: KindVideo, id: "never", state: StateMissing},
		{name: "other kind", kind: KindAudio, id: "here", state: StateMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Resolve(h, tt.kind, tt.id, dir)
			assert.Equal(t, tt.state, r.State)
			assert.Equal(t, tt.path, r.Path)
		})
	}
}

func TestDecide(t *testing.T) {
	present := Resolution{Kind: KindVideo, ID: "abc", Name: "A", Path: "A.mp4", State: StatePresent}
	untracked := Untracked(KindAudio, "abc", "A", "A.mp3")

	tests := []struct {
		name     string
		r        Resolution
		force    bool
		prompter Prompter
		want     Action
	}{
		{name: "missing runs", r: Resolution{State: StateMissing}, want: ActionRun},
		{name: "stale runs", r: Resolution{State: StateStale}, want: ActionRun},
		{name: "present forced", r: present, force: true, prompter: &fakePrompter{interactive: true}, want: ActionRun},
		{name: "present non-interactive", r: present, prompter: &fakePrompter{}, want: ActionSkip},
		{name: "present without prompter", r: present, want: ActionSkip},
		{name: "present declined", r: present, prompter: &fakePrompter{interactive: true}, want: ActionSkip},
		{name: "present confirmed", r: present, prompter: &fakePrompter{interactive: true, answer: true}, want: ActionRun},
		{name: "untracked non-interactive", r: untracked, prompter: &fakePrompter{}, want: ActionAdopt},
		{name: "untracked declined", r: untracked, prompter: &fakePrompter{interactive: true}, want: ActionAdopt},
		{name: "untracked confirmed", r: untracked, prompter: &fakePrompter{interactive: true, answer: true}, want: ActionRun},
		{name: "untracked forced", r: untracked, force: true, want: ActionRun},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decide(tt.r, tt.force, tt.prompter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecideAsksOnlyWhenNeeded(t *testing.T) {
	prompter := &fakePrompter{interactive: true}

	_, err := Decide(Resolution{State: StateMissing}, false, prompter)
	require.NoError(t, err)
	_, err = Decide(Resolution{Kind: KindVideo, ID: "abc", Path: "A.mp4", State: StatePresent}, true, prompter)
	require.NoError(t, err)
	assert.Empty(t, prompter.questions)

	_, err = Decide(Resolution{Kind: KindVideo, ID: "abc", Path: "A.mp4", State: StatePresent}, false, prompter)
	require.NoError(t, err)
	require.Len(t, prompter.questions, 1)
	assert.Contains(t, prompter.questions[0], "A.mp4")
}

func TestDecideInterrupted(t *testing.T) {
	present := Resolution{Kind: KindVideo, ID: "abc", Path: "A.mp4", State: StatePresent}

	action, err := Decide(present, false, &fakePrompter{interactive: true, err: ErrDeclined})
	assert.ErrorIs(t, err, ErrDeclined)
	assert.Equal(t, ActionSkip, action)
}
