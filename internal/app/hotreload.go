package app

import (
	"os"
	"sync"
	"time"

	"design-canvas/internal/config"
	"design-canvas/internal/logging"
)

// ConfigWatcher polls a configuration file and applies it to a State when
// its modification time moves forward. Invalid files are logged and
// skipped; the previous configuration stays active.
type ConfigWatcher struct {
	path          string
	state         *State
	checkInterval time.Duration

	// dispatch runs the apply step; it defaults to calling it directly.
	dispatch func(func())

	mu       sync.Mutex
	lastMod  time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewConfigWatcher creates a watcher for path. The current modification
// time is the baseline, so the file already loaded is not applied again.
func NewConfigWatcher(path string, state *State, checkInterval time.Duration) *ConfigWatcher {
	w := &ConfigWatcher{
		path:          path,
		state:         state,
		checkInterval: checkInterval,
		dispatch:      func(fn func()) { fn() },
		stopCh:        make(chan struct{}),
	}
	if info, err := os.Stat(path); err == nil {
		w.lastMod = info.ModTime()
	}
	return w
}

// SetDispatch routes the apply step through fn, typically to move it onto
// the UI goroutine. Call it before Start.
func (w *ConfigWatcher) SetDispatch(fn func(func())) {
	w.dispatch = fn
}

// Start begins watching in a background goroutine. Listeners of
// EventConfigReloaded run wherever the dispatch function puts them.
func (w *ConfigWatcher) Start() {
	go w.watchLoop()
}

// Stop stops the watcher goroutine. It is safe to call more than once.
func (w *ConfigWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *ConfigWatcher) watchLoop() {
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Check()
		}
	}
}

// Check reloads the file if it changed since the last successful check.
// It reports whether a new configuration was applied.
func (w *ConfigWatcher) Check() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		return false
	}

	w.mu.Lock()
	if !info.ModTime().After(w.lastMod) {
		w.mu.Unlock()
		return false
	}
	w.lastMod = info.ModTime()
	w.mu.Unlock()

	cfg, err := config.Load(w.path)
	if err != nil {
		logging.Logger().Warn("config reload rejected", "path", w.path, "error", err)
		return false
	}
	logging.Logger().Info("config reloaded", "path", w.path)
	w.dispatch(func() { w.state.ApplyConfig(cfg) })
	return true
}
