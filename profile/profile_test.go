package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redbook_copy_assistant/generator"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	store := NewStore(t.TempDir())

	api, found, err := store.Load()
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, generator.APIConfig{
		Endpoint: "https://api.deepseek.com/v1/chat/completions",
		Model:    "deepseek-chat",
	}, api)
}

func TestSaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	store := NewStore(dir)
	want := generator.APIConfig{APIKey: "sk-123", Endpoint: "https://example.com/v1/chat/completions", Model: "m"}

	require.NoError(t, store.Save(want))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), Key+":")

	got, found, err := store.Load()
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)
}

func TestLoadOtherKeysOnly(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, os.WriteFile(store.Path(), []byte("other:\n  model: x\n"), 0o600))

	api, found, err := store.Load()
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, Defaults(), api)
}

func TestLoadMalformed(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, os.WriteFile(store.Path(), []byte("redbook-ai-config: [unclosed"), 0o600))

	_, _, err := store.Load()
	assert.Error(t, err)
}

func TestPresetApplyKeepsKey(t *testing.T) {
	p, ok := LookupPreset(" OpenAI ")
	require.True(t, ok)

	api := p.Apply(generator.APIConfig{APIKey: "sk-keep", Endpoint: "old", Model: "old"})
	assert.Equal(t, "sk-keep", api.APIKey)
	assert.Equal(t, "https://api.openai.com/v1/chat/completions", api.Endpoint)
	assert.Equal(t, "gpt-4o-mini", api.Model)

	_, ok = LookupPreset("claude")
	assert.False(t, ok)
}

func TestDefaultDirUsesXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	dir, err := DefaultDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, "redbook"), dir)
}

func TestMasked(t *testing.T) {
	assert.Equal(t, "（未设置）", Masked(""))
	assert.Equal(t, "***", Masked("abc"))
	assert.Equal(t, "*****6789", Masked("sk-456789"))
}
