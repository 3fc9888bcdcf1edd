package app

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tmux-floatdesk/internal/backend"
	"github.com/atomicstack/tmux-floatdesk/internal/content"
	"github.com/atomicstack/tmux-floatdesk/internal/desk"
	"github.com/atomicstack/tmux-floatdesk/internal/dispatch"
	"github.com/atomicstack/tmux-floatdesk/internal/geom"
	"github.com/atomicstack/tmux-floatdesk/internal/memory"
	"github.com/atomicstack/tmux-floatdesk/internal/tabs"
	"github.com/atomicstack/tmux-floatdesk/internal/tmux"
	"github.com/atomicstack/tmux-floatdesk/internal/ui"
)

// Config describes user-provided application options.
type Config struct {
	SocketPath        string
	Width             int
	Height            int
	Boundary          geom.BoundaryMode
	CellWidth         float64
	CellHeight        float64
	TabCapacity       int
	PressureThreshold float64
	PressureCapacity  int
	MemorySource      string
	PollInterval      time.Duration
	DragDrop          bool
	StartBottomRight  bool
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	socketPath, err := tmux.ResolveSocketPath(cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("resolve socket path: %w", err)
	}
	model, err := build(cfg, socketPath, true)
	if err != nil {
		return err
	}
	defer model.Shutdown()
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// build wires the desk: one dispatch queue shared by the window, the
// tickers and the UI loop, and a sampler read by both the registry and the
// backend watcher.
func build(cfg Config, socketPath string, watch bool) (*ui.Model, error) {
	source, err := memory.SourceByName(cfg.MemorySource)
	if err != nil {
		return nil, err
	}
	sampler := memory.NewSampler(source)
	queue := dispatch.New(dispatch.DefaultCapacity)
	canvas := desk.NewCanvas(0, 0)

	opts := tabs.DefaultOptions()
	opts.Capacity = cfg.TabCapacity
	opts.PressureThreshold = cfg.PressureThreshold
	opts.PressureCapacity = cfg.PressureCapacity
	opts.Window.Boundary = cfg.Boundary
	opts.Window.DragDropSupported = cfg.DragDrop
	opts.Window.StartAtBottomRight = cfg.StartBottomRight
	opts.Window.Dispatcher = queue
	if cfg.DragDrop {
		opts.Window.Transport = tmux.PopupTransport{
			SocketPath: socketPath,
			CellWidth:  cfg.CellWidth,
			CellHeight: cfg.CellHeight,
		}
	}
	registry := tabs.New(canvas, sampler, opts)

	var watcher *backend.Watcher
	if watch {
		watcher = backend.NewWatcher(backend.Options{
			Interval:   cfg.PollInterval,
			Sampler:    sampler,
			ProbeTmux:  cfg.DragDrop,
			SocketPath: socketPath,
		})
	}
	return ui.NewModel(ui.Options{
		Width:      cfg.Width,
		Height:     cfg.Height,
		CellWidth:  cfg.CellWidth,
		CellHeight: cfg.CellHeight,
		Canvas:     canvas,
		Registry:   registry,
		Queue:      queue,
		Watcher:    watcher,
		Gauge:      content.NewGauge("mem"),
		Welcome:    true,
	}), nil
}
