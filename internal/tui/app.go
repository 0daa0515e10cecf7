package tui

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/solarsizer/internal/errors"
	"github.com/Iron-Ham/solarsizer/internal/event"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
	bus     *event.Bus
	ctx     context.Context
}

// New creates a new TUI application
func New(ctx context.Context, opts Options) (*App, error) {
	model, err := NewModel(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &App{
		model: model,
		bus:   opts.Bus,
		ctx:   ctx,
	}, nil
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	// Unmount the last page even when the program exits on a signal.
	defer a.model.Close()

	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
		tea.WithContext(a.ctx),
	)
	a.model.deps.send.set(a.program.Send)
	defer a.model.deps.send.set(nil)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			a.program.Send(tea.Quit())
		case <-a.ctx.Done():
		}
	}()

	if a.bus != nil {
		id := a.bus.SubscribeAll(func(e event.Event) {
			a.model.deps.send.Send(busEventMsg{event: e})
		})
		defer a.bus.Unsubscribe(id)
	}

	_, err := a.program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && a.ctx.Err() != nil {
		return nil
	}
	return err
}
