package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtzll/tubesave/internal"
)

func TestUnknownCommandError(t *testing.T) {
	err := unknownCommandError(rootCmd, "histor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Did you mean: history?")

	err = unknownCommandError(rootCmd, "xyz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Use --help")
}

func TestUnknownCommandErrorFromSubcommand(t *testing.T) {
	// suggestions come from the root even when called with a child command
	err := unknownCommandError(pathsCmd, "path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paths")
}

func TestHistoryMarkdown(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Here.mp4"), nil, 0644))
	config = &internal.Config{DownloadDir: dir}

	md := historyMarkdown(filepath.Join(dir, "history.json"), []internal.HistoryEntry{
		{Kind: internal.KindVideo, ID: "here", Name: "Here"},
		{Kind: internal.KindAudio, ID: "here", Name: "A|B"},
	})

	assert.Contains(t, md, "| video | here | Here.mp4 | yes |")
	assert.Contains(t, md, `| audio | here | A\|B.mp3 | **missing** |`)
}
