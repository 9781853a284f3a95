package internal

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagCommand(t *testing.T, flags ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	AddDownloadFlags(cmd)
	cmd.Flags().Bool("verbose", false, "")
	cmd.Flags().Bool("debug", false, "")
	cmd.Flags().Bool("quiet", false, "")
	cmd.Flags().String("fetcher", FetcherNative, "")
	require.NoError(t, cmd.Flags().Parse(flags))
	return cmd
}

func TestVideoIDFromArgs(t *testing.T) {
	tests := []struct {
		name    string
		flags   []string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "argument", args: []string{"dQw4w9WgXcQ"}, want: "dQw4w9WgXcQ"},
		{name: "argument URL", args: []string{"https://youtu.be/dQw4w9WgXcQ"}, want: "dQw4w9WgXcQ"},
		{name: "flag", flags: []string{"--youtube-id", "dQw4w9WgXcQ"}, want: "dQw4w9WgXcQ"},
		{name: "short flag", flags: []string{"-i", "dQw4w9WgXcQ"}, want: "dQw4w9WgXcQ"},
		{name: "both", flags: []string{"-i", "dQw4w9WgXcQ"}, args: []string{"dQw4w9WgXcQ"}, wantErr: true},
		{name: "neither", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := VideoIDFromArgs(newFlagCommand(t, tt.flags...), tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestHandleVerboseFlag(t *testing.T) {
	config := &Config{}
	require.NoError(t, HandleVerboseFlag(newFlagCommand(t, "--debug", "--quiet"), config))

	assert.True(t, config.Verbose)
	assert.True(t, config.Debug)
	assert.True(t, config.Quiet)
}

func TestHandleFetcherFlag(t *testing.T) {
	config := &Config{Fetcher: FetcherYTDLP}
	require.NoError(t, HandleFetcherFlag(newFlagCommand(t), config))
	assert.Equal(t, FetcherYTDLP, config.Fetcher, "settings win when the flag is not set")

	require.NoError(t, HandleFetcherFlag(newFlagCommand(t, "--fetcher", FetcherNative), config))
	assert.Equal(t, FetcherNative, config.Fetcher)
}
