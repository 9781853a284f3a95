package internal

import (
	"fmt"
	"path/filepath"
)

// Resolution is what history and the filesystem say about one artifact
type Resolution struct {
	Kind  Kind
	ID    string
	Name  string
	Path  string
	State State
}

// Resolve consults history and disk for an artifact of video id in dir.
// Name and Path are only set when history has a record.
func Resolve(h *History, kind Kind, id, dir string) Resolution {
	r := Resolution{Kind: kind, ID: id, State: StateMissing}

	name, ok := h.Lookup(kind, id)
	if !ok {
		return r
	}

	r.Name = name
	r.Path = filepath.Join(dir, name+kind.Ext())
	if FileExists(r.Path) {
		r.State = StatePresent
	} else {
		r.State = StateStale
	}
	return r
}

// Untracked returns the resolution for a file found at path that history does not know
func Untracked(kind Kind, id, name, path string) Resolution {
	return Resolution{Kind: kind, ID: id, Name: name, Path: path, State: StateUntracked}
}

// Decide picks the action for a resolution. Existing output is only
// overwritten when forced or confirmed interactively.
func Decide(r Resolution, force bool, prompter Prompter) (Action, error) {
	switch r.State {
	case StateMissing, StateStale:
		return ActionRun, nil
	}

	if force {
		return ActionRun, nil
	}

	keep := ActionSkip
	question := fmt.Sprintf("%s %s was already saved to %s. Replace it?", r.Kind, r.ID, r.Path)
	if r.State == StateUntracked {
		keep = ActionAdopt
		question = fmt.Sprintf("%s already exists. Overwrite it?", r.Path)
	}

	if prompter == nil || !prompter.Interactive() {
		return keep, nil
	}

	overwrite, err := prompter.Confirm(question, false)
	if err != nil {
		return keep, err
	}
	if overwrite {
		return ActionRun, nil
	}
	return keep, nil
}
