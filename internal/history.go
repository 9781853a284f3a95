package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// historyFile is the on-disk layout: one map per artifact kind, video ID to file name
type historyFile struct {
	Video map[string]string `json:"video"`
	Audio map[string]string `json:"audio"`
}

// HistoryEntry is a single flattened history record
type HistoryEntry struct {
	Kind Kind
	ID   string
	Name string
}

// History tracks which videos were already downloaded or converted
type History struct {
	path    string
	records map[Kind]map[string]string
}

// NewHistory returns an empty history bound to path
func NewHistory(path string) *History {
	return &History{
		path: path,
		records: map[Kind]map[string]string{
			KindVideo: {},
			KindAudio: {},
		},
	}
}

// LoadHistory reads the history file; a missing file yields an empty history
func LoadHistory(path string) (*History, error) {
	h := NewHistory(path)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return h, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	var file historyFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing history %s: %w", path, err)
	}

	for id, name := range file.Video {
		h.records[KindVideo][id] = name
	}
	for id, name := range file.Audio {
		h.records[KindAudio][id] = name
	}
	return h, nil
}

// Path returns the file the history is saved to
func (h *History) Path() string {
	return h.path
}

// Lookup returns the recorded file name for id
func (h *History) Lookup(kind Kind, id string) (string, bool) {
	name, ok := h.records[kind][id]
	return name, ok
}

// Record maps id to name for the given kind
func (h *History) Record(kind Kind, id, name string) {
	if h.records[kind] == nil {
		h.records[kind] = map[string]string{}
	}
	h.records[kind][id] = name
}

// Forget removes the record for id
func (h *History) Forget(kind Kind, id string) {
	delete(h.records[kind], id)
}

// NameTaken reports whether name is recorded for an ID other than id
func (h *History) NameTaken(kind Kind, id, name string) bool {
	for otherID, otherName := range h.records[kind] {
		if otherID != id && otherName == name {
			return true
		}
	}
	return false
}

// Entries lists all records ordered by kind, then ID
func (h *History) Entries() []HistoryEntry {
	var entries []HistoryEntry
	for _, kind := range []Kind{KindVideo, KindAudio} {
		for id, name := range h.records[kind] {
			entries = append(entries, HistoryEntry{Kind: kind, ID: id, Name: name})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Kind != entries[j].Kind {
			return entries[i].Kind == KindVideo
		}
		return entries[i].ID < entries[j].ID
	})
	return entries
}

// Prune drops records whose files no longer exist in dir and returns them
func (h *History) Prune(dir string) []HistoryEntry {
	var removed []HistoryEntry
	for _, entry := range h.Entries() {
		if !FileExists(filepath.Join(dir, entry.Name+entry.Kind.Ext())) {
			h.Forget(entry.Kind, entry.ID)
			removed = append(removed, entry)
		}
	}
	return removed
}

// Save writes the history atomically
func (h *History) Save() error {
	file := historyFile{
		Video: h.records[KindVideo],
		Audio: h.records[KindAudio],
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}

	dir := filepath.Dir(h.path)
	if err := EnsureDirs(dir); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("creating temporary history file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("writing history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	if err := os.Rename(tmp.Name(), h.path); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}
