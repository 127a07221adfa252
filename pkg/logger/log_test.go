package logger

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muhammadchandra19/flashsale/pkg/errors"
	"github.com/muhammadchandra19/flashsale/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEntries(t *testing.T, path string) []map[string]any {
	t.Helper()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(raw)), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestLogger_InfoContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	log, err := NewLogger(WithOutputPaths([]string{path}), WithLoggingLevel(DebugLevel))
	require.NoError(t, err)

	ctx := util.ContextWithRequestID(context.Background(), "req-42")
	ctx = util.WithClientIP(ctx, "10.0.0.9")
	log.InfoContext(ctx, "reserved", NewField("item_id", "item-1"))
	log.Debug("debug entry")
	require.NoError(t, log.Sync())

	entries := readEntries(t, path)
	require.Len(t, entries, 2)
	assert.Equal(t, "reserved", entries[0]["message"])
	assert.Equal(t, "req-42", entries[0]["request_id"])
	assert.Equal(t, "10.0.0.9", entries[0]["client_ip"])
	assert.Equal(t, "item-1", entries[0]["item_id"])
	assert.Equal(t, "debug", entries[1]["level"])
}

func TestLogger_ErrorUsesTracerStack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	log, err := NewLogger(WithOutputPaths([]string{path}))
	require.NoError(t, err)

	log.Error(errors.NewTracer("compensation failed").Wrap(assert.AnError), NewField("item_id", "item-1"))
	require.NoError(t, log.Sync())

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "compensation failed", entries[0]["message"])
	assert.Contains(t, entries[0]["stacktrace"], "TestLogger_ErrorUsesTracerStack")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, ErrorLevel, ParseLevel("error"))
	assert.Equal(t, InfoLevel, ParseLevel("verbose"))
}
