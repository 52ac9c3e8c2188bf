package tui

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

const repoChangedNotice = "repository changed on disk, restart to refresh"

// startProgram runs a model on the alternate screen. The terminal is restored
// by Bubble Tea before Run returns, on every exit path.
var startProgram = func(ctx context.Context, m tea.Model, ready func(send func(tea.Msg))) (tea.Model, error) {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if ready != nil {
		ready(p.Send)
	}
	return p.Run()
}

func runPicker[T, D any](ctx context.Context, m *Picker[T, D], watchPath string) (Result[T], error) {
	var w *repoWatcher
	defer func() {
		if w != nil {
			if err := w.Close(); err != nil {
				slog.Debug("watcher close", slog.Any("error", err))
			}
		}
	}()
	ready := func(send func(tea.Msg)) {
		if watchPath == "" {
			return
		}
		var err error
		w, err = watchRepository(watchPath, watchDebounceDelay, func() {
			send(noticeMsg(repoChangedNotice))
		})
		if err != nil {
			slog.Debug("repository watch disabled", slog.Any("error", err))
		}
	}
	final, err := startProgram(ctx, m, ready)
	if err != nil {
		return Result[T]{}, fmt.Errorf("tui: %w", err)
	}
	picker, ok := final.(*Picker[T, D])
	if !ok {
		return Result[T]{}, fmt.Errorf("tui: unexpected model %T", final)
	}
	return picker.Result(), nil
}
