package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conftree/conftree/internal/schema"
)

func TestManagerRoutesSecondOpenToSameSession(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(cfg, []byte(`{"x":1}`), 0644))

	m := NewManager(Options{Indent: 2})

	first, err := m.Open(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, first.UpdateValue("x", "2", schema.TypeInteger))

	// A second open reloads the same session rather than creating a
	// parallel one, discarding the unsaved edit.
	second, err := m.Open(ctx, cfg)
	require.NoError(t, err)
	assert.Same(t, first, second)

	v, _ := second.Get("x")
	assert.Equal(t, float64(1), v.NumberValue())
}

func TestManagerGetAndClose(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(cfg, []byte(`{}`), 0644))

	m := NewManager(Options{Indent: 2})
	_, ok := m.Get(cfg)
	assert.False(t, ok)

	s, err := m.Open(ctx, cfg)
	require.NoError(t, err)

	got, ok := m.Get(cfg)
	require.True(t, ok)
	assert.Same(t, s, got)

	m.Close(cfg)
	_, ok = m.Get(cfg)
	assert.False(t, ok)
	assert.False(t, s.Valid())
}

func TestManagerFailedOpenLeavesNothing(t *testing.T) {
	m := NewManager(Options{Indent: 2})

	_, err := m.Open(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Empty(t, m.Sessions())
}
