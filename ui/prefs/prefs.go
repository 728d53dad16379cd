// Package prefs provides JSON-based user preferences.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"design-canvas/internal/config"
)

const (
	appDir    = "design-canvas"
	prefsFile = "preferences.json"
)

// Preference keys.
const (
	KeyGuidesEnabled  = "guidesEnabled"
	KeyRulersEnabled  = "rulersEnabled"
	KeyRulerThickness = "rulerThickness"
	KeyWindowWidth    = "windowWidth"
	KeyWindowHeight   = "windowHeight"
)

// Prefs stores user preferences as a key-value map.
type Prefs struct {
	mu     sync.RWMutex
	values map[string]interface{}
	path   string
}

// DefaultPath returns ~/.config/design-canvas/preferences.json (or the
// platform equivalent).
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, appDir, prefsFile)
}

// Load reads preferences from DefaultPath.
func Load() *Prefs {
	return LoadFrom(DefaultPath())
}

// LoadFrom reads preferences from path. A missing or unreadable file
// yields empty preferences that will be saved to path.
func LoadFrom(path string) *Prefs {
	p := &Prefs{
		values: make(map[string]interface{}),
		path:   path,
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	_ = json.Unmarshal(data, &p.values)
	return p
}

// Path returns the file preferences are saved to.
func (p *Prefs) Path() string {
	return p.path
}

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := json.MarshalIndent(p.values, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}

// Has reports whether key is set.
func (p *Prefs) Has(key string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.values[key]
	return ok
}

// FloatWithFallback returns a float64 preference, or fallback if not set.
func (p *Prefs) FloatWithFallback(key string, fallback float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return fallback
}

// SetFloat stores a float64 preference.
func (p *Prefs) SetFloat(key string, val float64) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// Bool returns a bool preference, or fallback if not set.
func (p *Prefs) Bool(key string, fallback bool) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if b, ok := p.values[key].(bool); ok {
		return b
	}
	return fallback
}

// SetBool stores a bool preference.
func (p *Prefs) SetBool(key string, val bool) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// Apply overrides the feature switches and ruler thickness of cfg with the
// stored preferences. Keys that were never saved leave cfg unchanged, and
// a stored thickness that is not positive is ignored.
func (p *Prefs) Apply(cfg config.Config) config.Config {
	cfg.Guides.Enabled = p.Bool(KeyGuidesEnabled, cfg.Guides.Enabled)
	cfg.Rulers.Enabled = p.Bool(KeyRulersEnabled, cfg.Rulers.Enabled)
	if t := p.FloatWithFallback(KeyRulerThickness, cfg.Rulers.Thickness); t > 0 {
		cfg.Rulers.Thickness = t
	}
	return cfg
}
