// Package main provides the entry point for the Design Canvas application.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"design-canvas/internal/app"
	"design-canvas/internal/cli"
	"design-canvas/internal/logging"
	"design-canvas/ui/mainwindow"
	"design-canvas/ui/prefs"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
)

const (
	appID              = "io.github.design-canvas"
	configPollInterval = 2 * time.Second
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx, launch); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// launch opens the editor window and blocks until it is closed or ctx is
// cancelled.
func launch(ctx context.Context, opts cli.LaunchOptions) error {
	p := prefs.Load()
	state := app.NewState(p.Apply(opts.Config))
	if opts.Demo {
		state.SeedDemo()
	}

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.DesignerTheme{})

	win := mainwindow.New(fyneApp, state, p)

	if opts.Watch && opts.ConfigPath != "" {
		watcher := app.NewConfigWatcher(opts.ConfigPath, state, configPollInterval)
		watcher.SetDispatch(fyne.DoAndWait)
		watcher.Start()
		defer watcher.Stop()
		logging.Logger().Info("watching config", "path", opts.ConfigPath)
	}

	closed := make(chan struct{})
	go quitOnCancel(ctx, closed, fyneApp)

	win.ShowAndRun()
	close(closed)
	return ctx.Err()
}

// quitOnCancel stops the app when ctx is cancelled before the window closes.
func quitOnCancel(ctx context.Context, closed <-chan struct{}, a fyne.App) {
	select {
	case <-ctx.Done():
		fyne.Do(a.Quit)
	case <-closed:
	}
}
