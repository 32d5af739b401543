package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_FiltersByLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewWithWriter("warn", &buf)

	l.Info("skipped")
	l.Warn("register_failed", "email", "ann@example.com")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "register_failed", entry["msg"])
	assert.Equal(t, "ann@example.com", entry["email"])
	assert.Equal(t, "warn", entry["level"])
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	l := Discard()
	ctx := IntoContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
	assert.NotNil(t, FromContext(context.Background()))
}

func TestNewWithFile(t *testing.T) {
	t.Parallel()

	l, err := NewWithFile("info", filepath.Join(t.TempDir(), "svc.log"))
	require.NoError(t, err)
	l.Info("service_started")

	l, err = NewWithFile("info", "")
	require.NoError(t, err)
	assert.NotNil(t, l)
}
