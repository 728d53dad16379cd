package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"design-canvas/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingFileGivesFallbacks(t *testing.T) {
	p := LoadFrom(filepath.Join(t.TempDir(), "preferences.json"))
	assert.False(t, p.Has(KeyGuidesEnabled))
	assert.True(t, p.Bool(KeyGuidesEnabled, true))
	assert.Equal(t, 24.0, p.FloatWithFallback(KeyRulerThickness, 24))
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preferences.json")
	p := LoadFrom(path)
	p.SetBool(KeyRulersEnabled, false)
	p.SetFloat(KeyRulerThickness, 30)
	require.NoError(t, p.Save())

	q := LoadFrom(path)
	assert.Equal(t, path, q.Path())
	assert.True(t, q.Has(KeyRulersEnabled))
	assert.False(t, q.Bool(KeyRulersEnabled, true))
	assert.Equal(t, 30.0, q.FloatWithFallback(KeyRulerThickness, 24))
}

func TestWrongTypeFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"guidesEnabled": "yes", "rulerThickness": true}`), 0o644))

	p := LoadFrom(path)
	assert.True(t, p.Bool(KeyGuidesEnabled, true))
	assert.Equal(t, 24.0, p.FloatWithFallback(KeyRulerThickness, 24))
}

func TestCorruptFileIsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	p := LoadFrom(path)
	assert.False(t, p.Has(KeyGuidesEnabled))
}

func TestApplyOverridesConfig(t *testing.T) {
	p := LoadFrom(filepath.Join(t.TempDir(), "preferences.json"))
	assert.Equal(t, config.Default(), p.Apply(config.Default()))

	p.SetBool(KeyGuidesEnabled, false)
	p.SetFloat(KeyRulerThickness, 32)
	cfg := p.Apply(config.Default())
	assert.False(t, cfg.Guides.Enabled)
	assert.True(t, cfg.Rulers.Enabled)
	assert.Equal(t, 32.0, cfg.Rulers.Thickness)

	p.SetFloat(KeyRulerThickness, -1)
	assert.Equal(t, 24.0, p.Apply(config.Default()).Rulers.Thickness)
}
