package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"loopkern/internal/driver"
	"loopkern/internal/ui"
)

type dirOutcome struct {
	result *driver.DirResult
	err    error
}

// analyzeDirWithUI runs directory analysis while a progress view consumes
// the driver's events.
func analyzeDirWithUI(ctx context.Context, dir string, files []string, opts driver.Options) (*driver.DirResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan dirOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.AnalyzeDir(ctx, dir, optsCopy)
		outcomeCh <- dirOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("analyzing "+dir, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// дочитываем события, чтобы воркеры не встали на полном канале
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if outcome.err != nil {
		return outcome.result, outcome.err
	}
	return outcome.result, uiErr
}
